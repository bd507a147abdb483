/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store implements the metadata namespace's persisted state:
// one directory ("table") per kind of record, one snappy-compressed,
// msgpack-encoded file per key, framed with a version byte so a future
// format change can be detected on read.
package store

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/flowsql/flowsql/logger"
)

// RecordVersion is the only framing byte this build writes and reads.
const RecordVersion byte = 1

// Table is a key -> record[T] namespace backed by one file per key
// under dir. Safe for concurrent use: an os.MkdirAll'd data directory,
// logger-reported I/O failures, one on-disk artifact per logical item,
// generalized from an append-only recovery log into a keyed table,
// since the metadata namespace is CRUD over named records rather than
// a replay queue.
type Table[T any] struct {
	name string
	dir  string
	mu   sync.RWMutex
}

// NewTable opens (creating if absent) the on-disk directory backing
// name under baseDir.
func NewTable[T any](baseDir, name string) (*Table[T], error) {
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("store: failed to create table directory %s: %v", dir, err)
		return nil, err
	}
	return &Table[T]{name: name, dir: dir}, nil
}

// Create writes a new record, failing with *AlreadyExistsError if key
// is already bound.
func (t *Table[T]) Create(key string, rec T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	path := t.path(key)
	if _, err := os.Stat(path); err == nil {
		return &AlreadyExistsError{Table: t.name, Key: key}
	}
	return t.write(path, rec)
}

// Put writes a record unconditionally, creating or overwriting key.
func (t *Table[T]) Put(key string, rec T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.write(t.path(key), rec)
}

// Get reads key's record. ok is false, with a nil error, when key is
// absent: missing on read is absent, not an error.
func (t *Table[T]) Get(key string) (rec T, ok bool, err error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, readErr := os.ReadFile(t.path(key))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return rec, false, nil
		}
		return rec, false, readErr
	}

	rec, err = t.decode(key, data)
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// Delete removes key's record, failing with *NotFoundError if absent.
func (t *Table[T]) Delete(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	path := t.path(key)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Table: t.name, Key: key}
		}
		return err
	}
	if err := os.Remove(path); err != nil {
		logger.Error("store: failed to delete %s/%s: %v", t.name, key, err)
		return err
	}
	return nil
}

// List returns every key currently bound, sorted for stable output --
// the management HTTP API's GET /pipelines listing rides this.
func (t *Table[T]) List() ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := decodeFileName(e.Name())
		if !ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *Table[T]) write(path string, rec T) error {
	payload, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	compressed := snappy.Encode(nil, payload)

	buf := make([]byte, 0, len(compressed)+1)
	buf = append(buf, RecordVersion)
	buf = append(buf, compressed...)

	if err := os.WriteFile(path, buf, 0644); err != nil {
		logger.Error("store: failed to write %s: %v", path, err)
		return err
	}
	return nil
}

func (t *Table[T]) decode(key string, data []byte) (rec T, err error) {
	if len(data) < 1 {
		return rec, &CorruptedError{Table: t.name, Key: key, Reason: "empty record"}
	}
	version := data[0]
	if version != RecordVersion {
		return rec, &UnsupportedVersionError{Table: t.name, Got: version, Want: RecordVersion}
	}

	payload, err := snappy.Decode(nil, data[1:])
	if err != nil {
		return rec, &CorruptedError{Table: t.name, Key: key, Reason: err.Error()}
	}
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return rec, &CorruptedError{Table: t.name, Key: key, Reason: err.Error()}
	}
	return rec, nil
}

// path turns a logical key into a filesystem-safe file name: keys can
// contain characters (slashes, dots) that don't belong in a path
// segment, so they're base64url-encoded rather than sanitized.
func (t *Table[T]) path(key string) string {
	return filepath.Join(t.dir, encodeFileName(key))
}

func encodeFileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key)) + ".rec"
}

func decodeFileName(name string) (string, bool) {
	const suffix = ".rec"
	if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(name[:len(name)-len(suffix)])
	if err != nil {
		return "", false
	}
	return string(raw), true
}
