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

package sessions

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/srv/capture"
)

func NewCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List journaled capture sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded sessions")
				return nil
			}
			records, err := capture.ReadJournal(cfg.DBPath)
			if err != nil {
				return err
			}
			for i := range records {
				fmt.Fprint(cmd.OutOrStdout(), records[i].String())
			}
			return nil
		},
	}
	return cmd
}
