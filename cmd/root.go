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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motelab/go-mote/cmd/capture"
	"github.com/motelab/go-mote/cmd/completion"
	"github.com/motelab/go-mote/cmd/config"
	"github.com/motelab/go-mote/cmd/ports"
	"github.com/motelab/go-mote/cmd/sessions"
	pkgconfig "github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-mote",
		Short: "Tool to capture IEEE 802.15.4 traffic with serial sniffer boards",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(capture.NewCommand())
	cmd.AddCommand(ports.NewCommand())
	cmd.AddCommand(sessions.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
