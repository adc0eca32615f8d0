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

package hdlc

import (
	"fmt"
)

// ErrFrameTooShort returned when a deframed message has fewer unescaped bytes
// than the smallest valid frame
type ErrFrameTooShort struct {
	Length int
}

func (e ErrFrameTooShort) Error() string {
	return fmt.Sprintf("Frame too short: %d unescaped bytes", e.Length)
}

// ErrChecksum returned when the checksum carried by a frame does not match
// the checksum computed over its message
type ErrChecksum struct {
	Want, Got uint16
}

func (e ErrChecksum) Error() string {
	return fmt.Sprintf("Frame checksum mismatch: want: 0x%04x got: 0x%04x", e.Want, e.Got)
}
