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

package layers

import (
	"fmt"
)

// ErrChannelOutOfRange returned when a radio channel is outside the range
// the sniffer firmware accepts
type ErrChannelOutOfRange struct {
	Channel int
}

func (e ErrChannelOutOfRange) Error() string {
	return fmt.Sprintf("Channel %d out of range: must be %d..%d", e.Channel, MinChannel, MaxChannel)
}
