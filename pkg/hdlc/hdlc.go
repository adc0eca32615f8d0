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

// Package hdlc implements the byte-stuffed framing the sniffer firmware
// speaks on the serial line. Frames are delimited by Flag bytes; any
// payload byte equal to Flag or Escape is stuffed as Escape followed by
// the byte xored with EscapeMask. The last two unescaped bytes of every
// frame carry the big-endian CRC of the message.
package hdlc

import (
	"encoding/binary"

	"github.com/motelab/go-mote/pkg/crc"
	"github.com/motelab/go-mote/pkg/log"
)

const (
	Flag       = 0x7E
	Escape     = 0x7D
	EscapeMask = 0x20

	// MinFrameSize is the smallest number of unescaped bytes a valid
	// frame can carry: a 4-byte packet header, at least one payload
	// byte and the 2-byte CRC.
	MinFrameSize = 7
)

func appendEscaped(frame []byte, b byte) []byte {
	if b == Flag || b == Escape {
		return append(frame, Escape, b^EscapeMask)
	}
	return append(frame, b)
}

// Encode wraps a message into a wire frame: opening Flag, the
// byte-stuffed message, the byte-stuffed CRC high byte then low byte,
// closing Flag. The CRC is computed over the unescaped message.
func Encode(msg []byte) []byte {
	sum := crc.Checksum(msg)
	frame := make([]byte, 0, len(msg)+6)
	frame = append(frame, Flag)
	for _, b := range msg {
		frame = appendEscaped(frame, b)
	}
	frame = appendEscaped(frame, byte(sum>>8))
	frame = appendEscaped(frame, byte(sum))
	frame = append(frame, Flag)
	return frame
}

// Decode validates the raw bytes found strictly between two frame
// delimiters and returns the original message together with its
// checksum. Rejected frames yield a nil message and a typed error;
// the warning that normally accompanies a rejection is suppressed in
// quiet mode, which the connect phase uses while flushing stale input.
func Decode(raw []byte, quiet bool) ([]byte, uint16, error) {
	word := make([]byte, 0, len(raw))
	escaped := false
	for _, b := range raw {
		if b == Escape {
			escaped = true
			continue
		}
		if escaped {
			word = append(word, b^EscapeMask)
			escaped = false
			continue
		}
		word = append(word, b)
	}

	if len(word) < MinFrameSize {
		if !quiet {
			log.Warning("Received frame too short: %d unescaped bytes", len(word))
		}
		return nil, 0, ErrFrameTooShort{Length: len(word)}
	}

	sum := crc.Checksum(word[:len(word)-2])
	got := binary.BigEndian.Uint16(word[len(word)-2:])
	if sum != got {
		if !quiet {
			log.Warning("CRC check failed: want: 0x%04x got: 0x%04x", sum, got)
		}
		return nil, 0, ErrChecksum{Want: sum, Got: got}
	}

	return word[:len(word)-2], sum, nil
}
