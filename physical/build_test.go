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

package physical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time"

	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/logical"
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

func TestLowerSimpleProjectionInsertsDecoderAndEncoder(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream WHERE temperature > 25")
	require.NoError(t, err)
	lp, err := logical.Build(stmt, testCatalog(), nil)
	require.NoError(t, err)

	pp, err := Lower(lp)
	require.NoError(t, err)
	require.Len(t, pp.Roots, 1)

	sink := pp.Roots[0].(*DataSinkNode)
	enc, ok := sink.Input.(*EncoderNode)
	require.True(t, ok)
	project := enc.Input
	assert.Equal(t, KindProject, project.NodeKind())
	filter := project.Inputs()[0]
	assert.Equal(t, KindFilter, filter.NodeKind())
	dec := filter.Inputs()[0]
	assert.Equal(t, KindDecoder, dec.NodeKind())
	assert.Equal(t, KindDataSource, dec.Inputs()[0].NodeKind())
}

func TestLowerWindowedAggregationSplitsWatermark(t *testing.T) {
	stmt, err := rsql.Parse(`SELECT deviceId, avg(temperature) as avg_temp FROM stream
		GROUP BY deviceId, TumblingWindow('5s')`)
	require.NoError(t, err)
	lp, err := logical.Build(stmt, testCatalog(), nil)
	require.NoError(t, err)

	pp, err := Lower(lp)
	require.NoError(t, err)

	sink := pp.Roots[0].(*DataSinkNode)
	enc := sink.Input.(*EncoderNode)
	project := enc.Input
	agg := project.Inputs()[0]
	require.Equal(t, KindStreamingAggregation, agg.NodeKind())
	wm := agg.Inputs()[0]
	assert.Equal(t, KindProcessTimeWatermark, wm.NodeKind())
}

func TestLowerBatchInsertedWhenConfigured(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream")
	require.NoError(t, err)
	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop, Common: connector.CommonSinkProps{BatchCount: 10, BatchDuration: time.Second}}}
	lp, err := logical.Build(stmt, testCatalog(), sinks)
	require.NoError(t, err)
	pp, err := Lower(lp)
	require.NoError(t, err)
	sink := pp.Roots[0].(*DataSinkNode)
	_, ok := sink.Input.(*BatchNode)
	assert.True(t, ok)
}

func TestLowerLimitCarriedOnPlan(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream LIMIT 3")
	require.NoError(t, err)
	lp, err := logical.Build(stmt, testCatalog(), nil)
	require.NoError(t, err)
	pp, err := Lower(lp)
	require.NoError(t, err)
	assert.Equal(t, 3, pp.Limit)
}
