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

//go:build !windows

package pipe

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.pipe")
	require.NoError(t, Create(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeNamedPipe)

	// a stale pipe left over from an earlier run is replaced
	require.NoError(t, Create(path))
}

func TestCreateRefusesRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	err := Create(path)
	require.Error(t, err)
	require.IsType(t, ErrNotAPipe{}, err)
}

func TestOpenMeetsReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.pipe")
	require.NoError(t, Create(path))

	read := make(chan []byte, 1)
	go func() {
		r, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			read <- nil
			return
		}
		defer r.Close()
		buf := make([]byte, 4)
		n, _ := io.ReadFull(r, buf)
		read <- buf[:n]
	}()

	w, err := Open(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("mote"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, []byte("mote"), <-read)

	require.NoError(t, Remove(path))
	// removing an already removed pipe is not an error
	require.NoError(t, Remove(path))
}
