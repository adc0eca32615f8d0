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
	"errors"
)

// ErrPeerReset is returned by Run when the board announces READY in the
// middle of a session, i.e. it rebooted and lost all link state. The
// caller is expected to restart the session from Connect.
var ErrPeerReset = errors.New("Sniffer reset detected")
