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

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCreateGetDelete(t *testing.T) {
	tbl, err := NewTable[StoredStream](t.TempDir(), "streams")
	require.NoError(t, err)

	rec := StoredStream{ID: "orders", StreamType: "mqtt", DecoderType: "json"}
	require.NoError(t, tbl.Create("orders", rec))

	got, ok, err := tbl.Get("orders")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	require.NoError(t, tbl.Delete("orders"))
	_, ok, err = tbl.Get("orders")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTableGetMissingIsAbsentNotError(t *testing.T) {
	tbl, err := NewTable[StoredStream](t.TempDir(), "streams")
	require.NoError(t, err)

	_, ok, err := tbl.Get("nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestTableCreateDuplicateFails(t *testing.T) {
	tbl, err := NewTable[StoredPipeline](t.TempDir(), "pipelines")
	require.NoError(t, err)

	rec := StoredPipeline{ID: "p1", SQL: "select 1"}
	require.NoError(t, tbl.Create("p1", rec))

	err = tbl.Create("p1", rec)
	require.Error(t, err)
	var already *AlreadyExistsError
	assert.ErrorAs(t, err, &already)
}

func TestTableDeleteMissingFails(t *testing.T) {
	tbl, err := NewTable[StoredPipeline](t.TempDir(), "pipelines")
	require.NoError(t, err)

	err = tbl.Delete("nope")
	require.Error(t, err)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTableListIsSortedAndReflectsDeletes(t *testing.T) {
	tbl, err := NewTable[StoredPipeline](t.TempDir(), "pipelines")
	require.NoError(t, err)

	require.NoError(t, tbl.Put("b", StoredPipeline{ID: "b"}))
	require.NoError(t, tbl.Put("a", StoredPipeline{ID: "a"}))
	require.NoError(t, tbl.Put("c", StoredPipeline{ID: "c"}))

	keys, err := tbl.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, tbl.Delete("b"))
	keys, err = tbl.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestTableRejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	tbl, err := NewTable[StoredStream](dir, "streams")
	require.NoError(t, err)

	require.NoError(t, tbl.Put("orders", StoredStream{ID: "orders"}))

	path := tbl.path("orders")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] = 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, _, err = tbl.Get("orders")
	require.Error(t, err)
	var unsupported *UnsupportedVersionError
	assert.ErrorAs(t, err, &unsupported)
}

func TestOpenWiresAllTablesAndSnapshotCache(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Streams.Create("orders", StoredStream{ID: "orders"}))
	require.NoError(t, s.Pipelines.Create("p1", StoredPipeline{ID: "p1"}))
	require.NoError(t, s.SharedMQTTConfigs.Create("broker1", SharedMQTTClientConfig{BrokerURL: "tcp://localhost:1883"}))
	require.NoError(t, s.Snapshots.Put("fp1", []byte("encoded-plan")))

	bytes, ok, err := s.Snapshots.Get("fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("encoded-plan"), bytes)
}

func TestSnapshotCacheEvictOnAbsentIsNoop(t *testing.T) {
	cache, err := NewSnapshotCache(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, cache.Evict("nope"))
}
