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

package ports

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/motelab/go-mote/pkg/serial"
)

const (
	AllOptionName = "all"
)

func NewCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports and detected sniffer boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.List()
			if err != nil {
				return err
			}
			for i := range ports {
				if !all && ports[i].VID == "" {
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), ports[i].String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, AllOptionName, false, "Include ports that are not USB serial adapters")

	return cmd
}
