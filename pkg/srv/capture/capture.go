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

// The capture server owns the serial port, the downstream pcap sink and
// the session loop, and exposes the control API. The link session runs
// in one goroutine; the API talks to it only through a buffered command
// channel plus cancellation of the current session context.

package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/layers"
	"github.com/motelab/go-mote/pkg/link"
	"github.com/motelab/go-mote/pkg/log"
	"github.com/motelab/go-mote/pkg/pcap"
	"github.com/motelab/go-mote/pkg/pipe"
	"github.com/motelab/go-mote/pkg/serial"
	"github.com/motelab/go-mote/pkg/srv"
)

const (
	CommandChSize = 1
)

type CommandType int

const (
	CommandSetChannel CommandType = iota
	CommandStop
)

type Command struct {
	Type    CommandType
	Channel uint8
}

// SessionStatus is the status document served by the API
type SessionStatus struct {
	Phase     string        `json:"phase"`
	Port      string        `json:"port"`
	Channel   uint8         `json:"channel"`
	StartedAt time.Time     `json:"startedAt"`
	Stats     link.Snapshot `json:"stats"`
}

type CaptureServer struct {
	srv.Server
	api     *ApiServer
	journal *Journal
	link    *link.Link

	portName  string
	channel   atomic.Uint32
	startedAt atomic.Int64

	chCommand chan Command

	mu            sync.Mutex
	sessionCancel context.CancelFunc
}

func NewCaptureServer(ctx context.Context, cfg *config.Config) (*CaptureServer, error) {
	log.Info("Initializing capture server with address: %s port: %d", cfg.ApiHost, cfg.ApiPort)

	if err := layers.ValidateChannel(cfg.Channel); err != nil {
		return nil, err
	}

	s := &CaptureServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
		},
		chCommand: make(chan Command, CommandChSize),
	}
	s.channel.Store(uint32(cfg.Channel))

	journal, err := NewJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.journal = journal

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

// Channel returns the radio channel the current session listens on
func (s *CaptureServer) Channel() uint8 {
	return uint8(s.channel.Load())
}

// Status returns a snapshot of the running session
func (s *CaptureServer) Status() *SessionStatus {
	return &SessionStatus{
		Phase:     s.link.Phase().String(),
		Port:      s.portName,
		Channel:   s.Channel(),
		StartedAt: time.Unix(s.startedAt.Load(), 0),
		Stats:     s.link.Stats(),
	}
}

func (ss *SessionStatus) String() string {
	result, err := yaml.Marshal(ss)
	if err != nil {
		log.Error("Error occurred while marshaling session status, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// SetChannel asks the session loop to restart the session on another
// radio channel
func (s *CaptureServer) SetChannel(channel int) error {
	if err := layers.ValidateChannel(channel); err != nil {
		return err
	}
	select {
	case s.chCommand <- Command{Type: CommandSetChannel, Channel: uint8(channel)}:
	default:
		return srv.ErrBusy{}
	}
	s.cancelSession()
	return nil
}

// Stop asks the session loop to stop the board and shut the server down
func (s *CaptureServer) Stop() error {
	select {
	case s.chCommand <- Command{Type: CommandStop}:
	default:
		return srv.ErrBusy{}
	}
	s.cancelSession()
	return nil
}

func (s *CaptureServer) cancelSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionCancel != nil {
		s.sessionCancel()
	}
}

func (s *CaptureServer) Run() error {
	portName, err := serial.Pick(s.Config.Port)
	if err != nil {
		return err
	}
	s.portName = portName

	port, err := serial.Open(portName, s.Config.Baud)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Info("Opened serial port: %s baud: %d", portName, s.Config.Baud)

	sink, cleanup, err := s.openSink()
	if err != nil {
		return err
	}
	defer cleanup()

	writer := pcap.NewWriter(sink)
	if err := writer.WriteGlobalHeader(); err != nil {
		return err
	}

	s.link = link.NewLink(port, writer)
	defer s.journal.Close()

	errChan := make(chan error, 2)
	go func() {
		errChan <- s.loop()
	}()
	go func() {
		errChan <- s.api.Run()
	}()
	return <-errChan
}

// openSink prepares the capture stream consumer: a plain pcap file, or
// a named pipe with the configured viewer launched against it. In pipe
// mode the open blocks until a reader attaches.
func (s *CaptureServer) openSink() (io.WriteCloser, func(), error) {
	if s.Config.File != "" {
		f, err := os.Create(s.Config.File)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Capturing to file: %s", s.Config.File)
		return f, func() { f.Close() }, nil
	}

	if err := pipe.Create(s.Config.Pipe); err != nil {
		return nil, nil, err
	}
	if s.Config.Wireshark != "" {
		viewer, err := pipe.LaunchViewer(s.Context, s.Config.Wireshark, s.Config.Pipe)
		if err != nil {
			pipe.Remove(s.Config.Pipe)
			return nil, nil, err
		}
		go viewer.Wait()
	}

	log.Info("Waiting for the viewer to attach: %s", s.Config.Pipe)
	f, err := pipe.Open(s.Config.Pipe)
	if err != nil {
		pipe.Remove(s.Config.Pipe)
		return nil, nil, err
	}
	return f, func() {
		f.Close()
		pipe.Remove(s.Config.Pipe)
	}, nil
}

// loop runs link sessions until a stop request or a fatal error. A peer
// reset ends one session and starts the next; a canceled session means
// either a control request or a server shutdown.
func (s *CaptureServer) loop() error {
	for {
		select {
		case cmd := <-s.chCommand:
			stop, err := s.applyCommand(cmd)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			continue
		default:
		}

		err := s.session()
		switch {
		case err == nil:
			continue
		case errors.Is(err, link.ErrPeerReset):
			log.Info("Restarting session")
			continue
		case errors.Is(err, context.Canceled):
			select {
			case cmd := <-s.chCommand:
				stop, applyErr := s.applyCommand(cmd)
				if applyErr != nil {
					return applyErr
				}
				if stop {
					return nil
				}
				continue
			default:
				// canceled from outside: quiet the board on the way out
				if stopErr := s.link.SendStop(); stopErr != nil {
					log.Error("Error while stopping sniffer: %s", stopErr)
				}
				return err
			}
		default:
			return err
		}
	}
}

func (s *CaptureServer) applyCommand(cmd Command) (bool, error) {
	if err := s.link.SendStop(); err != nil {
		return false, err
	}
	switch cmd.Type {
	case CommandSetChannel:
		log.Info("Changing channel: %d", cmd.Channel)
		s.channel.Store(uint32(cmd.Channel))
		return false, nil
	default:
		return true, nil
	}
}

// session drives one link session from connect to its end and journals
// it. The session context is cancelable by the API.
func (s *CaptureServer) session() (err error) {
	ctx, cancel := context.WithCancel(s.Context)
	s.mu.Lock()
	s.sessionCancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sessionCancel = nil
		s.mu.Unlock()
		cancel()
	}()

	channel := s.Channel()
	id, journalErr := s.journal.StartSession(s.portName, channel)
	if journalErr != nil {
		return journalErr
	}
	s.startedAt.Store(time.Now().Unix())
	defer func() {
		if endErr := s.journal.EndSession(id, s.link.Stats(), endReason(err)); endErr != nil {
			log.Error("Error while closing journal record: %s", endErr)
		}
	}()

	if err = s.link.Connect(ctx, channel); err != nil {
		return err
	}
	return s.link.Run(ctx)
}

func endReason(err error) string {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return "stopped"
	case errors.Is(err, link.ErrPeerReset):
		return "peer reset"
	default:
		return err.Error()
	}
}
