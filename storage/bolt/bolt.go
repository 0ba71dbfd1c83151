/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt is a storage.Cache backed by a bbolt file.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Comcast/povgen/storage"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket holds every entry.
var Bucket = []byte("povgen")

// ErrNotOpen is returned by operations on a Storage that isn't open.
var ErrNotOpen = errors.New("storage not open")

type Storage struct {
	Logger   *zap.Logger
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		Logger:   zap.NewNop(),
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) Get(ctx context.Context, key string) (*storage.Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var e *storage.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(Bucket).Get([]byte(key))
		if bs == nil {
			return nil
		}
		e = &storage.Entry{}
		return json.Unmarshal(bs, e)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Debug("cache get", zap.String("key", key), zap.Bool("hit", e != nil))
	return e, nil
}

// Put writes the entry.  A nil entry removes the key.
func (s *Storage) Put(ctx context.Context, key string, e *storage.Entry) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var js []byte
	if e != nil {
		var err error
		if js, err = json.Marshal(e); err != nil {
			return err
		}
	}

	s.Logger.Debug("cache put", zap.String("key", key), zap.Int("bytes", len(js)))

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		if js == nil {
			return b.Delete([]byte(key))
		}
		return b.Put([]byte(key), js)
	})
}

// Len reports the number of entries.
func (s *Storage) Len(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(Bucket).Stats().KeyN
		return nil
	})
	return n, err
}
