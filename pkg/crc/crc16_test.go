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

package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumEmpty(t *testing.T) {
	require.Equal(t, uint16(Seed), Checksum(nil))
	require.Equal(t, uint16(Seed), Checksum([]byte{}))
}

func TestChecksumSingleByte(t *testing.T) {
	// One update step from the seed reduces to a single table lookup
	// xored with the shifted-out seed low byte.
	for b := 0; b < 256; b++ {
		want := table[0xFF^byte(b)] ^ 0xFF00
		require.Equal(t, want, Checksum([]byte{byte(b)}), "byte 0x%02x", b)
	}
}

func TestChecksumMatchesUpdate(t *testing.T) {
	data := []byte("RST\x1a")
	crc := uint16(Seed)
	for _, b := range data {
		crc = Update(crc, b)
	}
	require.Equal(t, crc, Checksum(data))
}

// The firmware validates frames by running the CRC over the message plus
// its appended big-endian checksum and requiring the result to be zero.
func TestChecksumOverSelfIsZero(t *testing.T) {
	messages := [][]byte{
		[]byte("READY"),
		[]byte("STOP"),
		[]byte("ACK\x00\x03\x00\x09"),
		{0x00, 0x01, 0x00, 0x01, 0xde, 0xad, 0xbe, 0xef, 0x91},
		{0x7e, 0x7d, 0x20, 0x00, 0xff},
	}
	for _, msg := range messages {
		crc := Checksum(msg)
		withCRC := append(append([]byte{}, msg...), byte(crc>>8), byte(crc))
		require.Equal(t, uint16(0), Checksum(withCRC), "message %x", msg)
	}
}

func TestChecksumDeterministic(t *testing.T) {
	data := []byte{0x00, 0x2a, 0x00, 0x07, 0x41, 0x42, 0x43, 0x99}
	require.Equal(t, Checksum(data), Checksum(data))
}
