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

package logical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/catalog"
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

func TestBuildSimpleProjection(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId, temperature FROM stream WHERE temperature > 25")
	require.NoError(t, err)
	plan, err := Build(stmt, testCatalog(), nil)
	require.NoError(t, err)
	require.Len(t, plan.Roots, 1)

	sink := plan.Roots[0]
	assert.Equal(t, KindDataSink, sink.NodeKind())
	project := sink.Inputs()[0]
	assert.Equal(t, KindProject, project.NodeKind())
	filter := project.Inputs()[0]
	assert.Equal(t, KindFilter, filter.NodeKind())
	source := filter.Inputs()[0]
	assert.Equal(t, KindDataSource, source.NodeKind())

	assert.Equal(t, 2, project.OutputSchema().Len())
}

func TestBuildTumblingAggregation(t *testing.T) {
	stmt, err := rsql.Parse(`SELECT deviceId, avg(temperature) as avg_temp FROM stream
		GROUP BY deviceId, TumblingWindow('5s')`)
	require.NoError(t, err)
	plan, err := Build(stmt, testCatalog(), nil)
	require.NoError(t, err)

	project := plan.Roots[0].Inputs()[0]
	require.Equal(t, KindProject, project.NodeKind())
	agg := project.Inputs()[0]
	require.Equal(t, KindAggregation, agg.NodeKind())
	aggNode := agg.(*AggregationNode)
	require.Len(t, aggNode.Aggregates, 1)
	assert.Equal(t, "avg", aggNode.Aggregates[0].FuncName)

	win := agg.Inputs()[0]
	assert.Equal(t, KindWindow, win.NodeKind())
}

func TestBuildUnknownSource(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM nope")
	require.NoError(t, err)
	_, err = Build(stmt, testCatalog(), nil)
	require.Error(t, err)
	perr, ok := err.(*PlanError)
	require.True(t, ok)
	assert.Equal(t, UnknownSource, perr.Kind)
}

func TestBuildUnknownColumn(t *testing.T) {
	stmt, err := rsql.Parse("SELECT notacolumn FROM stream")
	require.NoError(t, err)
	_, err = Build(stmt, testCatalog(), nil)
	require.Error(t, err)
	perr, ok := err.(*PlanError)
	require.True(t, ok)
	assert.Equal(t, UnknownColumn, perr.Kind)
}

func TestBuildFilterAndProjection(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream WHERE temperature > 25 AND temperature < 100")
	require.NoError(t, err)
	plan, err := Build(stmt, testCatalog(), nil)
	require.NoError(t, err)
	filter := plan.Roots[0].Inputs()[0].Inputs()[0]
	assert.Equal(t, KindFilter, filter.NodeKind())
}

func TestBuildLimit(t *testing.T) {
	stmt, err := rsql.Parse("SELECT deviceId FROM stream LIMIT 5")
	require.NoError(t, err)
	plan, err := Build(stmt, testCatalog(), nil)
	require.NoError(t, err)
	tail := plan.Roots[0].Inputs()[0]
	require.Equal(t, KindTail, tail.NodeKind())
	assert.Equal(t, 5, tail.(*TailNode).Limit)
}
