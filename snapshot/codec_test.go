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

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/physical"
	"github.com/flowsql/flowsql/rsql"
	"github.com/flowsql/flowsql/value"
)

func testCatalog() catalog.Catalog {
	cat := catalog.NewStaticCatalog()
	cat.Register(&catalog.SourceBinding{
		Name: "stream",
		Schema: value.NewSchema([]value.ColumnSchema{
			{ColumnName: "deviceId", Type: value.Dt(value.KindString)},
			{ColumnName: "temperature", Type: value.Dt(value.KindFloat64)},
		}),
	})
	return cat
}

func buildTestPlans(t *testing.T, sql string) (*logical.Plan, *physical.Plan) {
	t.Helper()
	stmt, err := rsql.Parse(sql)
	require.NoError(t, err)
	lp, err := logical.Build(stmt, testCatalog(), nil)
	require.NoError(t, err)
	pp, err := physical.Lower(lp)
	require.NoError(t, err)
	return lp, pp
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lp, pp := buildTestPlans(t, "SELECT deviceId FROM stream WHERE temperature > 25")

	data, err := Encode(lp, pp, "fp-123", "build-456")
	require.NoError(t, err)

	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, snap.FormatVersion)
	assert.Equal(t, "fp-123", snap.Fingerprint)
	assert.Equal(t, "build-456", snap.BuildID)
	assert.NotEmpty(t, snap.Logical.Nodes)
	assert.NotEmpty(t, snap.Physical.Nodes)
}

func TestReEncodeProducesIdenticalBytes(t *testing.T) {
	lp, pp := buildTestPlans(t, `SELECT deviceId, avg(temperature) as avg_temp FROM stream
		GROUP BY deviceId, TumblingWindow('5s')`)

	first, err := Encode(lp, pp, "fp-agg", "build-1")
	require.NoError(t, err)

	snap, err := Decode(first)
	require.NoError(t, err)

	second, err := EncodeIR(snap.Logical, snap.Physical, snap.Fingerprint, snap.BuildID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	data := []byte{42, 0, 0, 0, 0}
	_, err := Decode(data)
	require.Error(t, err)
	var verErr *UnsupportedVersionError
	assert.ErrorAs(t, err, &verErr)
}

func TestDecodeCorruptedTruncated(t *testing.T) {
	_, err := Decode([]byte{FormatVersion})
	require.Error(t, err)
	var corruptErr *CorruptedError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)
}

func TestPlanIndexPreservedAcrossRoundTrip(t *testing.T) {
	lp, pp := buildTestPlans(t, "SELECT deviceId FROM stream LIMIT 5")
	data, err := Encode(lp, pp, "fp-limit", "build-1")
	require.NoError(t, err)
	snap, err := Decode(data)
	require.NoError(t, err)

	found := false
	for _, n := range snap.Physical.Nodes {
		if n.Kind == "data_sink" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, len(snap.Physical.Roots), len(pp.Roots))
	require.Len(t, snap.Physical.Roots, len(pp.Roots))
	for i, r := range pp.Roots {
		assert.Equal(t, int64(r.PlanIndex()), snap.Physical.Roots[i])
	}
}

func TestMultiSinkSharesUpstreamIR(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream")
	require.NoError(t, err)
	sinks := []connector.SinkConnectorConfig{
		{Kind: connector.SinkNop, SinkName: "a"},
		{Kind: connector.SinkNop, SinkName: "b"},
	}
	lp, err := logical.Build(stmt, testCatalog(), sinks)
	require.NoError(t, err)
	pp, err := physical.Lower(lp)
	require.NoError(t, err)

	ir, err := BuildPhysicalIR(pp)
	require.NoError(t, err)
	require.Len(t, ir.Roots, 2)

	sourceCount := 0
	for _, n := range ir.Nodes {
		if n.Kind == "data_source" {
			sourceCount++
		}
	}
	assert.Equal(t, 1, sourceCount)
}
