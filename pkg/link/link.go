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

// Package link drives the session protocol spoken with the sniffer
// board: connect handshake, framed receive loop with ACK/NACK flow
// control, and stop. The protocol state has a single owner, the
// goroutine running Connect and Run; other goroutines may only observe
// the session through Phase and Stats.
package link

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"

	"github.com/motelab/go-mote/pkg/hdlc"
	"github.com/motelab/go-mote/pkg/layers"
	"github.com/motelab/go-mote/pkg/log"
)

const (
	// ConnectWindow bounds one reset attempt: a RST is sent, then the
	// transport is scanned for READY until the window elapses.
	ConnectWindow = time.Second
	// AckThreshold is the number of decoded message bytes accumulated
	// before the board is sent an acknowledgment.
	AckThreshold = 250
)

type Phase int32

const (
	Connecting Phase = iota
	Connected
	Stopping
)

func (p Phase) String() string {
	switch p {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Sink consumes the payload of every accepted packet together with its
// receive timestamp. A sink write failure is fatal to the session.
type Sink interface {
	WriteRecord(ci gopacket.CaptureInfo, data []byte) error
}

// bufferFlusher is implemented by serial transports that can drop bytes
// pending in their buffers; in-memory transports need not bother.
type bufferFlusher interface {
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// Link is one serial session with the sniffer board. The transport is
// expected to return a zero-length read on timeout, the way a serial
// port with a read timeout does.
type Link struct {
	transport io.ReadWriter
	sink      Sink

	phase atomic.Int32
	stats Stats

	channel          uint8
	expectedSeqNr    uint16
	lastIndex        uint16
	lastSeqNr        uint16
	unackedByteCount int

	readBuf [1]byte
}

func NewLink(transport io.ReadWriter, sink Sink) *Link {
	return &Link{
		transport: transport,
		sink:      sink,
	}
}

// Phase returns the current protocol phase
func (l *Link) Phase() Phase {
	return Phase(l.phase.Load())
}

func (l *Link) setPhase(p Phase) {
	l.phase.Store(int32(p))
}

// Stats returns a snapshot of the session counters
func (l *Link) Stats() Snapshot {
	return l.stats.Snapshot()
}

// Connect resets the board onto the given radio channel and waits for
// its READY announcement. A RST is resent every ConnectWindow until
// READY arrives or the context is canceled. Frames seen while waiting
// are decoded in quiet mode: anything left over from a previous session
// is dropped without noise.
func (l *Link) Connect(ctx context.Context, channel uint8) error {
	l.setPhase(Connecting)
	l.channel = channel
	l.expectedSeqNr = 1
	l.lastIndex = 0
	l.lastSeqNr = 0
	l.unackedByteCount = 0
	l.stats.Reset()

	if flusher, ok := l.transport.(bufferFlusher); ok {
		if err := flusher.ResetInputBuffer(); err != nil {
			return err
		}
		if err := flusher.ResetOutputBuffer(); err != nil {
			return err
		}
	}

	receiving := false
	word := make([]byte, 0, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("Connecting to sniffer: channel: %d", channel)
		if err := l.sendControl(layers.NewReset(channel)); err != nil {
			return err
		}
		deadline := time.Now().Add(ConnectWindow)
		for time.Now().Before(deadline) {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, ok, err := l.readByte()
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if !receiving {
				if b == hdlc.Flag {
					receiving = true
					word = word[:0]
				}
				continue
			}
			if b != hdlc.Flag {
				word = append(word, b)
				continue
			}
			if len(word) == 0 {
				continue
			}
			msg, _, decodeErr := hdlc.Decode(word, true)
			receiving = false
			word = word[:0]
			if decodeErr != nil {
				continue
			}
			if layers.IsReady(msg) {
				l.setPhase(Connected)
				log.Info("Connected to sniffer: channel: %d", channel)
				return nil
			}
		}
	}
}

// Run executes the receive loop until the context is canceled, the
// board announces a reset (ErrPeerReset) or a transport/sink error
// occurs. Must be called in the Connected phase.
func (l *Link) Run(ctx context.Context) error {
	receiving := false
	word := make([]byte, 0, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, ok, err := l.readByte()
		if err != nil {
			return err
		}
		if !ok {
			// read timeout
			if receiving {
				log.Warning("Expected another byte, assuming out of sync")
				l.stats.Desyncs.Add(1)
				receiving = false
				word = word[:0]
				if err := l.sendNack(); err != nil {
					return err
				}
			}
			continue
		}
		if !receiving {
			if b == hdlc.Flag {
				receiving = true
				word = word[:0]
			} else {
				log.Warning("Byte dropped: 0x%02x", b)
				l.stats.Desyncs.Add(1)
			}
			continue
		}
		if b != hdlc.Flag {
			word = append(word, b)
			continue
		}
		if len(word) == 0 {
			log.Warning("Out of sync detected")
			l.stats.Desyncs.Add(1)
			receiving = false
			continue
		}

		// the receive timestamp of the packet is the moment its
		// closing delimiter was seen
		ts := time.Now()
		log.Dump("Frame received", word)
		msg, _, decodeErr := hdlc.Decode(word, false)
		receiving = false
		word = word[:0]
		if decodeErr != nil {
			l.stats.FrameErrors.Add(1)
			if err := l.sendNack(); err != nil {
				return err
			}
			continue
		}

		if layers.IsReady(msg) {
			log.Warning("Sniffer reset detected, session must be restarted")
			l.stats.Resets.Add(1)
			return ErrPeerReset
		}

		packet := &layers.PacketLayer{}
		if err := packet.DecodeFromBytes(msg, gopacket.NilDecodeFeedback); err != nil {
			l.stats.FrameErrors.Add(1)
			if err := l.sendNack(); err != nil {
				return err
			}
			continue
		}

		if packet.SeqNr == l.expectedSeqNr {
			l.expectedSeqNr++
			if l.expectedSeqNr == 0 {
				l.expectedSeqNr = 1
			}
			l.lastIndex = packet.Index
			l.lastSeqNr = packet.SeqNr
			if !packet.FCSValid() {
				log.Debug("Invalid radio crc in packet: index: %d seqnr: %d", packet.Index, packet.SeqNr)
			}
			payload := packet.LayerPayload()
			ci := gopacket.CaptureInfo{
				Timestamp:     ts,
				CaptureLength: len(payload),
				Length:        len(payload),
			}
			if err := l.sink.WriteRecord(ci, payload); err != nil {
				return err
			}
			l.stats.Packets.Add(1)
			l.stats.Bytes.Add(uint64(len(payload)))
		} else {
			log.Warning("Received packet with seqnr: %d while expecting seqnr: %d", packet.SeqNr, l.expectedSeqNr)
			l.stats.SeqMismatches.Add(1)
		}

		// the board acknowledges in terms of decoded message bytes,
		// header included; mismatched packets count as well but their
		// identifiers are never adopted
		l.unackedByteCount += len(msg)
		if l.unackedByteCount >= AckThreshold && l.lastSeqNr != 0 {
			l.unackedByteCount = 0
			if err := l.sendAck(); err != nil {
				return err
			}
		}
	}
}

// SendStop tells the board to stop streaming. No reply is awaited.
func (l *Link) SendStop() error {
	l.setPhase(Stopping)
	log.Info("Stopping sniffer")
	return l.sendControl(layers.NewStop())
}

func (l *Link) sendAck() error {
	log.Debug("Sending ack: index: %d seqnr: %d", l.lastIndex, l.lastSeqNr)
	if err := l.sendControl(layers.NewAck(l.lastIndex, l.lastSeqNr)); err != nil {
		return err
	}
	l.stats.AcksSent.Add(1)
	return nil
}

func (l *Link) sendNack() error {
	log.Debug("Sending nack: index: %d seqnr: %d", l.lastIndex, l.lastSeqNr)
	if err := l.sendControl(layers.NewNack(l.lastIndex, l.lastSeqNr)); err != nil {
		return err
	}
	l.stats.NacksSent.Add(1)
	return nil
}

func (l *Link) sendControl(control *layers.ControlLayer) error {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, control); err != nil {
		return err
	}
	frame := hdlc.Encode(buf.Bytes())
	log.Dump("Frame sent", frame)
	if _, err := l.transport.Write(frame); err != nil {
		return err
	}
	return nil
}

// readByte performs one bounded read. A zero-length result means the
// read timed out without data.
func (l *Link) readByte() (byte, bool, error) {
	n, err := l.transport.Read(l.readBuf[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return l.readBuf[0], true, nil
}
