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

// Package pcap writes the classic pcap capture format in big-endian
// byte order, the order announced by the 0xa1b2c3d4 magic number.
// Viewers such as wireshark and tcpdump accept the stream on stdin or
// through a named pipe.
package pcap

import (
	"encoding/binary"
	"io"

	"github.com/google/gopacket"
)

const (
	MagicNumber  = 0xA1B2C3D4
	VersionMajor = 2
	VersionMinor = 4
	// SnapLen is advertised in the global header; frames on the serial
	// link are far below it so records are never truncated
	SnapLen = 0x0000FFFF
	// LinkTypeIEEE802154 is the registered link-layer type for
	// IEEE 802.15.4 frames with the FCS in the trailer
	LinkTypeIEEE802154 = 195

	GlobalHeaderSize = 24
	RecordHeaderSize = 16
)

// Writer emits a capture stream to w: one global header followed by one
// record per packet. It performs no buffering of its own, so a record is
// visible to the consumer as soon as WriteRecord returns.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteGlobalHeader writes the stream preamble. It must be called exactly
// once, before the first record.
func (w *Writer) WriteGlobalHeader() error {
	var header [GlobalHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], MagicNumber)
	binary.BigEndian.PutUint16(header[4:6], VersionMajor)
	binary.BigEndian.PutUint16(header[6:8], VersionMinor)
	// timezone offset and timestamp accuracy stay zero
	binary.BigEndian.PutUint32(header[16:20], SnapLen)
	binary.BigEndian.PutUint32(header[20:24], LinkTypeIEEE802154)
	_, err := w.w.Write(header[:])
	return err
}

// WriteRecord writes one record header followed by the packet bytes.
// The timestamp is split into whole seconds and microseconds.
func (w *Writer) WriteRecord(ci gopacket.CaptureInfo, data []byte) error {
	var header [RecordHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(ci.Timestamp.Unix()))
	binary.BigEndian.PutUint32(header[4:8], uint32(ci.Timestamp.Nanosecond()/1000))
	binary.BigEndian.PutUint32(header[8:12], uint32(ci.CaptureLength))
	binary.BigEndian.PutUint32(header[12:16], uint32(ci.Length))
	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}
