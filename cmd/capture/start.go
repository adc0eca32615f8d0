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

	"github.com/spf13/cobra"

	"github.com/motelab/go-mote/pkg/command"
	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/layers"
)

const (
	PortOptionName      = "port"
	BaudOptionName      = "baud"
	ChannelOptionName   = "channel"
	PipeOptionName      = "pipe"
	FileOptionName      = "file"
	WiresharkOptionName = "wireshark"
	NoViewerOptionName  = "no-viewer"
)

func NewStartCommand() *cobra.Command {
	var port, pipePath, file, wireshark string
	var baud, channel int
	var noViewer bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the capture server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			if baud != 0 {
				cfg.Baud = baud
			}
			if channel != 0 {
				cfg.Channel = channel
			}
			if pipePath != "" {
				cfg.Pipe = pipePath
			}
			if file != "" {
				cfg.File = file
			}
			if wireshark != "" {
				cfg.Wireshark = wireshark
			}
			if noViewer {
				cfg.Wireshark = ""
			}
			return command.StartCaptureServer(cfg)
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the sniffer board. E.g. /dev/ttyUSB0. Auto-detected when empty")
	cmd.Flags().IntVar(&baud, BaudOptionName, 0, fmt.Sprintf("Serial baud rate. E.g. %d", config.DefaultBaud))
	cmd.Flags().IntVar(&channel, ChannelOptionName, 0, fmt.Sprintf("Radio channel to sniff. Must be in %d..%d", layers.MinChannel, layers.MaxChannel))
	cmd.Flags().StringVar(&pipePath, PipeOptionName, "", fmt.Sprintf("Named pipe the capture stream is written to. E.g. %s", config.DefaultPipePath))
	cmd.Flags().StringVar(&file, FileOptionName, "", "Write the capture stream to a pcap file instead of the pipe")
	cmd.Flags().StringVar(&wireshark, WiresharkOptionName, "", "Viewer executable to launch against the pipe")
	cmd.Flags().BoolVar(&noViewer, NoViewerOptionName, false, "Do not launch a viewer, wait for a pipe reader to attach instead")

	return cmd
}
