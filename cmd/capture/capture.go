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
	"github.com/spf13/cobra"
)

// NewCommand groups the capture server subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Run and control the capture server",
	}
	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewChannelCommand())
	cmd.AddCommand(NewStopCommand())
	return cmd
}
