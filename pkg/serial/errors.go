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

package serial

import (
	"fmt"
	"strings"
)

// ErrNoSniffer returned when no port on the host matches a known sniffer adapter
type ErrNoSniffer struct{}

func (e ErrNoSniffer) Error() string {
	return fmt.Sprintf("No sniffer port detected, specify one explicitly")
}

// ErrAmbiguousSniffer returned when several ports match known sniffer adapters
type ErrAmbiguousSniffer struct {
	Ports []string
}

func (e ErrAmbiguousSniffer) Error() string {
	return fmt.Sprintf("Several sniffer ports detected, specify one explicitly: %s", strings.Join(e.Ports, ", "))
}
