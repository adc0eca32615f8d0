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

// Package pipe manages the named pipe the capture stream is written to
// and the viewer process reading from it.
package pipe

import (
	"context"
	"os"
	"os/exec"

	"github.com/motelab/go-mote/pkg/log"
)

// LaunchViewer starts the viewer told to begin capturing immediately
// from the pipe. The child is tied to the context; its output is
// discarded since the viewer has its own UI.
func LaunchViewer(ctx context.Context, exe, path string) (*exec.Cmd, error) {
	log.Info("Launching viewer: %s -k -i %s", exe, path)
	cmd := exec.CommandContext(ctx, exe, "-k", "-i", path)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Remove deletes the pipe if it still exists
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
