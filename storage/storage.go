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

// Package storage is a cache for generated source.
//
// Entries are keyed by a digest of the specification's bytes and the
// options that affect generation, so a changed input or option is
// just a miss.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Entry is what's stored for a key.
type Entry struct {
	// Source is the generated C source.
	Source []byte `json:"source"`

	// Created is when the entry was written.
	Created time.Time `json:"created"`
}

// Cache is a persistence interface for generated source.
type Cache interface {
	Open(ctx context.Context) error

	// Get returns nil when there is no entry for the key.
	Get(ctx context.Context, key string) (*Entry, error)

	Put(ctx context.Context, key string, e *Entry) error

	Close(ctx context.Context) error
}

// Key computes the cache key for the given input and generation
// options.
func Key(input []byte, parts ...string) string {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(input)))
	h.Write(n[:])
	h.Write(input)
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
