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

package pcap

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/require"
)

func TestWriteGlobalHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteGlobalHeader())

	want := []byte{
		0xA1, 0xB2, 0xC3, 0xD4, // magic, big-endian
		0x00, 0x02, 0x00, 0x04, // version 2.4
		0x00, 0x00, 0x00, 0x00, // thiszone
		0x00, 0x00, 0x00, 0x00, // sigfigs
		0x00, 0x00, 0xFF, 0xFF, // snaplen
		0x00, 0x00, 0x00, 0xC3, // IEEE 802.15.4 with FCS
	}
	require.Equal(t, want, buf.Bytes())
}

func TestWriteRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	data := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0x83}
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Unix(1234567890, 987654000),
		CaptureLength: len(data),
		Length:        len(data),
	}
	require.NoError(t, w.WriteRecord(ci, data))

	want := []byte{
		0x49, 0x96, 0x02, 0xD2, // seconds, 1234567890
		0x00, 0x0F, 0x12, 0x06, // microseconds, 987654
		0x00, 0x00, 0x00, 0x05, // captured length
		0x00, 0x00, 0x00, 0x05, // original length
	}
	want = append(want, data...)
	require.Equal(t, want, buf.Bytes())
}

func TestWriteStream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteGlobalHeader())

	ts := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		data := []byte{byte(i), 0x80}
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WriteRecord(ci, data))
	}
	require.Equal(t, GlobalHeaderSize+3*(RecordHeaderSize+2), buf.Len())

	// second record starts right after the first, microseconds advance
	second := buf.Bytes()[GlobalHeaderSize+RecordHeaderSize+2:]
	require.Equal(t, []byte{0x00, 0x00, 0x03, 0xE8}, second[4:8])
	require.Equal(t, []byte{0x01, 0x80}, second[16:18])
}
