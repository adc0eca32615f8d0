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
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config describes the go-mote runtime configuration. It is persisted
// as YAML under ~/.go-mote/config and loaded by every command before
// flag overrides are applied.
type Config struct {
	// Port is the serial device of the sniffer board, e.g. /dev/ttyUSB0.
	// When empty the port is auto-detected.
	Port string `yaml:"port"`
	// Baud is the serial line rate. The sniffer firmware talks at 460800.
	Baud int `yaml:"baud"`
	// Channel is the IEEE 802.15.4 radio channel to sniff, 11-26.
	Channel int `yaml:"channel"`
	// Pipe is the path of the named pipe the capture stream is written to.
	Pipe string `yaml:"pipe"`
	// File, when set, makes the capture server write a pcap file
	// instead of streaming through the pipe.
	File string `yaml:"file,omitempty"`
	// Wireshark is the viewer executable launched against the pipe.
	Wireshark string `yaml:"wireshark"`
	ApiHost   string `yaml:"api_host"`
	ApiPort   int    `yaml:"api_port"`
	DBPath    string `yaml:"db_path"`
	LogLevel  string `yaml:"log_level"`

	filepath string
}

func (cfg *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(cfg.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: cfg.filepath}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(cfg.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(cfg.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the persisted configuration over the defaults. A missing
// config file is not an error, defaults are used as is.
func (cfg *Config) Load() error {
	data, err := ioutil.ReadFile(cfg.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		Port:      "",
		Baud:      DefaultBaud,
		Channel:   DefaultChannel,
		Pipe:      DefaultPipePath,
		Wireshark: DefaultWireshark,
		ApiHost:   DefaultApiHost,
		ApiPort:   DefaultApiPort,
		DBPath:    DefaultDBPath(),
		LogLevel:  DefaultLogLevel,
		filepath:  DefaultConfigPath(),
	}
}
