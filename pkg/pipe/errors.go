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

package pipe

import (
	"fmt"
)

// ErrNotAPipe returned when the pipe path is occupied by something that
// is not a named pipe
type ErrNotAPipe struct {
	Path string
}

func (e ErrNotAPipe) Error() string {
	return fmt.Sprintf("%s exists and is not a named pipe", e.Path)
}

// ErrUnsupported returned on platforms without named pipes
type ErrUnsupported struct{}

func (e ErrUnsupported) Error() string {
	return fmt.Sprintf("Named pipes are not supported on this platform, capture to a file instead")
}
