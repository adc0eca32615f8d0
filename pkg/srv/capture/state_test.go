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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/link"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "state.db")
	return cfg
}

func testJournal(t *testing.T, cfg *config.Config) *Journal {
	j, err := NewJournal(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(j.Close)
	return j
}

func TestJournalSessionLifecycle(t *testing.T) {
	j := testJournal(t, testConfig(t))

	id, err := j.StartSession("/dev/ttyUSB0", 15)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, uint64(1), sessions[0].ID)
	require.Equal(t, "/dev/ttyUSB0", sessions[0].Port)
	require.Equal(t, uint8(15), sessions[0].Channel)
	require.Nil(t, sessions[0].EndedAt)
	require.False(t, sessions[0].StartedAt.IsZero())

	stats := link.Snapshot{Packets: 42, Bytes: 1234, AcksSent: 3}
	require.NoError(t, j.EndSession(id, stats, "peer reset"))

	sessions, err = j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].EndedAt)
	require.Equal(t, "peer reset", sessions[0].EndReason)
	require.Equal(t, stats, sessions[0].Stats)
}

func TestJournalKeepsStartOrder(t *testing.T) {
	j := testJournal(t, testConfig(t))

	for channel := 11; channel <= 13; channel++ {
		_, err := j.StartSession("/dev/ttyUSB0", uint8(channel))
		require.NoError(t, err)
	}

	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for i, record := range sessions {
		require.Equal(t, uint64(i+1), record.ID)
		require.Equal(t, uint8(11+i), record.Channel)
	}
}

func TestJournalEndUnknownSession(t *testing.T) {
	j := testJournal(t, testConfig(t))
	require.Error(t, j.EndSession(99, link.Snapshot{}, "stopped"))
}

func TestReadJournal(t *testing.T) {
	cfg := testConfig(t)
	j, err := NewJournal(context.Background(), cfg)
	require.NoError(t, err)

	id, err := j.StartSession("/dev/ttyUSB1", 26)
	require.NoError(t, err)
	require.NoError(t, j.EndSession(id, link.Snapshot{Packets: 7}, "stopped"))
	j.Close()

	records, err := ReadJournal(cfg.DBPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "/dev/ttyUSB1", records[0].Port)
	require.Equal(t, uint64(7), records[0].Stats.Packets)
	require.Equal(t, "stopped", records[0].EndReason)
}

func TestReadJournalMissing(t *testing.T) {
	_, err := ReadJournal(filepath.Join(t.TempDir(), "nothing.db"))
	require.Error(t, err)
}
