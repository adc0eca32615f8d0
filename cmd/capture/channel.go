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

package capture

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/motelab/go-mote/pkg/command"
	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/layers"
)

func NewChannelCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("channel [%d..%d]", layers.MinChannel, layers.MaxChannel),
		Short: "Restart the running capture session on another radio channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			if err := layers.ValidateChannel(channel); err != nil {
				return err
			}
			return command.NewApiClient(cfg).SetChannel(channel)
		},
	}
	return cmd
}
