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

package store

// SnapshotCache maps a plan fingerprint to its encoded snapshot.Encode
// bytes. Engine.Compile writes one entry per compile; nothing in this
// repository reads entries back, and Engine.Start builds its processor
// graph from the pipeline's in-memory physical plan. It rides Table's
// single coarse table-wide lock rather than a per-fingerprint one.
type SnapshotCache struct {
	records *Table[snapshotRecord]
}

// snapshotRecord wraps the raw snapshot bytes so Table's msgpack
// framing has a struct to encode rather than a bare byte slice.
type snapshotRecord struct {
	Bytes []byte `msgpack:"bytes"`
}

func NewSnapshotCache(dataDir string) (*SnapshotCache, error) {
	t, err := NewTable[snapshotRecord](dataDir, "plan_snapshot_cache")
	if err != nil {
		return nil, err
	}
	return &SnapshotCache{records: t}, nil
}

// Put caches encoded under fingerprint, overwriting any prior entry --
// a pipeline recompiled after a catalog change replaces its cached
// plan rather than erroring.
func (c *SnapshotCache) Put(fingerprint string, encoded []byte) error {
	return c.records.Put(fingerprint, snapshotRecord{Bytes: encoded})
}

// Get returns the cached bytes for fingerprint, if any.
func (c *SnapshotCache) Get(fingerprint string) ([]byte, bool, error) {
	rec, ok, err := c.records.Get(fingerprint)
	if err != nil || !ok {
		return nil, ok, err
	}
	return rec.Bytes, true, nil
}

// Evict removes fingerprint's cached entry, if present.
func (c *SnapshotCache) Evict(fingerprint string) error {
	if err := c.records.Delete(fingerprint); err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}
