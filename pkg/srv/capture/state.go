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
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"github.com/motelab/go-mote/pkg/config"
	"github.com/motelab/go-mote/pkg/link"
	"github.com/motelab/go-mote/pkg/log"
)

const (
	SessionsBucket = "sessions"
	// OpenTimeout bounds the file lock wait so that a second server
	// pointed at the same journal fails instead of hanging
	OpenTimeout = time.Second
)

// SessionRecord is one journaled link session
type SessionRecord struct {
	ID        uint64        `json:"id"`
	Port      string        `json:"port"`
	Channel   uint8         `json:"channel"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
	EndReason string        `json:"endReason,omitempty"`
	Stats     link.Snapshot `json:"stats"`
}

func (sr *SessionRecord) String() string {
	result, err := yaml.Marshal(sr)
	if err != nil {
		log.Error("Error occurred while marshaling session record, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// Journal persists session records across server runs
type Journal struct {
	context.Context
	DB *bbolt.DB
}

func NewJournal(ctx context.Context, cfg *config.Config) (*Journal, error) {
	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(SessionsBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &Journal{
		Context: ctx,
		DB:      db,
	}, nil
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Close ...
func (j *Journal) Close() {
	j.DB.Close()
}

// StartSession appends a new session record and returns its identifier
func (j *Journal) StartSession(port string, channel uint8) (uint64, error) {
	var id uint64
	if err := j.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SessionsBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", SessionsBucket))
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = seq
		record := SessionRecord{
			ID:        id,
			Port:      port,
			Channel:   channel,
			StartedAt: time.Now(),
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put(uint64ToByte(id), data)
	}); err != nil {
		return 0, err
	}
	log.Debug("Journaled session start: id: %d channel: %d", id, channel)
	return id, nil
}

// EndSession closes a session record with its final counters and the
// reason the session ended
func (j *Journal) EndSession(id uint64, stats link.Snapshot, reason string) error {
	return j.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SessionsBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", SessionsBucket))
		}
		data := b.Get(uint64ToByte(id))
		if data == nil {
			return errors.New(fmt.Sprintf("Session not found: %d", id))
		}
		var record SessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		now := time.Now()
		record.EndedAt = &now
		record.EndReason = reason
		record.Stats = stats
		out, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put(uint64ToByte(id), out)
	})
}

// Sessions returns all journaled sessions in start order
func (j *Journal) Sessions() ([]SessionRecord, error) {
	var records []SessionRecord
	if err := j.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SessionsBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", SessionsBucket))
		}
		return b.ForEach(func(k, v []byte) error {
			var record SessionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadJournal opens the journal read-only and returns its contents.
// While a server is running it holds the write lock, so the read-only
// open gives up after OpenTimeout instead of waiting forever.
func ReadJournal(path string) ([]SessionRecord, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: OpenTimeout})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var records []SessionRecord
	if err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SessionsBucket))
		if b == nil {
			// nothing journaled yet
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var record SessionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return records, nil
}
