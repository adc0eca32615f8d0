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

package config

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgconfig "github.com/motelab/go-mote/pkg/config"
)

const (
	OverwriteOptionName = "overwrite"
)

func NewCommand() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pkgconfig.NewDefaultConfig()
			if err := cfg.Persist(overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", pkgconfig.DefaultConfigPath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, OverwriteOptionName, false, "Overwrite the config file if it already exists")

	return cmd
}
