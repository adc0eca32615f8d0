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

// Package serial opens and enumerates the serial ports the sniffer
// boards appear on.
package serial

import (
	"fmt"
	"strings"
	"time"

	bugst "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"sigs.k8s.io/yaml"

	"github.com/motelab/go-mote/pkg/log"
)

const (
	DataBits = 8
	// ReadTimeout bounds every read so that silence on the line is an
	// observable event for the session loop
	ReadTimeout = 250 * time.Millisecond
)

// knownSniffers lists the USB vendor/product pairs of the usb-to-serial
// adapters found on the supported boards: FTDI FT232R/FT4232H/FT230X
// and SiLabs CP210x.
var knownSniffers = []struct {
	VID, PID string
}{
	{"0403", "6001"},
	{"0403", "6011"},
	{"0403", "6015"},
	{"10C4", "EA60"},
}

// PortDescription describes one serial port present on the host
type PortDescription struct {
	Name    string `json:"name"`
	Product string `json:"product,omitempty"`
	Serial  string `json:"serial,omitempty"`
	VID     string `json:"vid,omitempty"`
	PID     string `json:"pid,omitempty"`
	Sniffer bool   `json:"sniffer"`
}

func (pd *PortDescription) String() string {
	result, err := yaml.Marshal(pd)
	if err != nil {
		log.Error("Error occurred while marshaling port description, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// Open opens the port with the fixed framing the firmware speaks:
// 8 data bits, no parity, one stop bit, bounded reads
func Open(name string, baud int) (bugst.Port, error) {
	mode := &bugst.Mode{
		BaudRate: baud,
		DataBits: DataBits,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	port, err := bugst.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}

// List enumerates the serial ports on the host, marking the ones whose
// USB identifiers belong to a known sniffer adapter
func List() ([]PortDescription, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]PortDescription, 0, len(details))
	for _, d := range details {
		p := PortDescription{Name: d.Name}
		if d.IsUSB {
			p.Product = d.Product
			p.Serial = d.SerialNumber
			p.VID = d.VID
			p.PID = d.PID
			p.Sniffer = isSniffer(d.VID, d.PID)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func isSniffer(vid, pid string) bool {
	for _, s := range knownSniffers {
		if strings.EqualFold(vid, s.VID) && strings.EqualFold(pid, s.PID) {
			return true
		}
	}
	return false
}

// Pick resolves the port to capture on: the configured name when one is
// set, otherwise the single known sniffer adapter present on the host
func Pick(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	ports, err := List()
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, p := range ports {
		if p.Sniffer {
			candidates = append(candidates, p.Name)
		}
	}
	switch len(candidates) {
	case 0:
		return "", ErrNoSniffer{}
	case 1:
		log.Info("Detected sniffer port: %s", candidates[0])
		return candidates[0], nil
	default:
		return "", ErrAmbiguousSniffer{Ports: candidates}
	}
}
