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

package command

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/srv/capture"
)

// StartCaptureServer runs the capture server until it fails or is
// interrupted. SIGINT and SIGTERM cancel the server context, which stops
// the sniffer and finalizes the session journal before the process exits.
func StartCaptureServer(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := capture.NewCaptureServer(ctx, cfg)
	if err != nil {
		return err
	}
	err = s.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
