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

//go:build !windows

package pipe

import (
	"os"

	"golang.org/x/sys/unix"
)

// Create makes the fifo, replacing a stale one left over from an
// earlier run. Anything else already sitting at the path is an error.
func Create(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.Mode()&os.ModeNamedPipe == 0 {
			return ErrNotAPipe{Path: path}
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return unix.Mkfifo(path, 0600)
}

// Open opens the fifo for writing. The call blocks until a reader is
// attached on the other end, which is exactly the synchronization the
// capture start wants: no record is produced before the viewer is up.
func Open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY, 0)
}
