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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motelab/go-mote/pkg/layers"
	"github.com/motelab/go-mote/pkg/srv"
)

func testServer(t *testing.T) *CaptureServer {
	s, err := NewCaptureServer(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(s.journal.Close)
	return s
}

func TestSetChannelValidates(t *testing.T) {
	s := testServer(t)

	err := s.SetChannel(5)
	require.Error(t, err)
	require.IsType(t, layers.ErrChannelOutOfRange{}, err)

	err = s.SetChannel(27)
	require.Error(t, err)
	require.IsType(t, layers.ErrChannelOutOfRange{}, err)
}

func TestSetChannelQueuesOneCommand(t *testing.T) {
	s := testServer(t)

	require.NoError(t, s.SetChannel(15))
	// the configured channel only changes once the loop applies the
	// command
	require.Equal(t, uint8(11), s.Channel())

	err := s.SetChannel(16)
	require.Error(t, err)
	require.IsType(t, srv.ErrBusy{}, err)
}

func TestStopBusy(t *testing.T) {
	s := testServer(t)

	require.NoError(t, s.Stop())
	err := s.Stop()
	require.Error(t, err)
	require.IsType(t, srv.ErrBusy{}, err)
}
