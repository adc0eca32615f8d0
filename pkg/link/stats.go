/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package link

import (
	"sync/atomic"
)

// Stats counts session events. The counters are atomics so the status
// API can snapshot them while the receive loop owns the session state.
type Stats struct {
	Packets       atomic.Uint64
	Bytes         atomic.Uint64
	FrameErrors   atomic.Uint64
	SeqMismatches atomic.Uint64
	Desyncs       atomic.Uint64
	Resets        atomic.Uint64
	AcksSent      atomic.Uint64
	NacksSent     atomic.Uint64
}

// Snapshot is a plain copy of the counters taken at one point in time
type Snapshot struct {
	Packets       uint64 `json:"packets"`
	Bytes         uint64 `json:"bytes"`
	FrameErrors   uint64 `json:"frameErrors"`
	SeqMismatches uint64 `json:"seqMismatches"`
	Desyncs       uint64 `json:"desyncs"`
	Resets        uint64 `json:"resets"`
	AcksSent      uint64 `json:"acksSent"`
	NacksSent     uint64 `json:"nacksSent"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Packets:       s.Packets.Load(),
		Bytes:         s.Bytes.Load(),
		FrameErrors:   s.FrameErrors.Load(),
		SeqMismatches: s.SeqMismatches.Load(),
		Desyncs:       s.Desyncs.Load(),
		Resets:        s.Resets.Load(),
		AcksSent:      s.AcksSent.Load(),
		NacksSent:     s.NacksSent.Load(),
	}
}

func (s *Stats) Reset() {
	s.Packets.Store(0)
	s.Bytes.Store(0)
	s.FrameErrors.Store(0)
	s.SeqMismatches.Store(0)
	s.Desyncs.Store(0)
	s.Resets.Store(0)
	s.AcksSent.Store(0)
	s.NacksSent.Store(0)
}
