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

package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/ast"
)

func TestParseSimpleProjection(t *testing.T) {
	stmt, err := Parse("SELECT deviceId, temperature FROM stream WHERE temperature > 25")
	require.NoError(t, err)
	assert.Len(t, stmt.SelectFields, 2)
	assert.Equal(t, []string{"stream"}, stmt.From)
	require.NotNil(t, stmt.Where)
	bin, ok := stmt.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ">", bin.Op)
}

func TestParseTumblingWindowAggregation(t *testing.T) {
	stmt, err := Parse(`SELECT deviceId, avg(temperature) as avg_temp FROM stream
		GROUP BY deviceId, TumblingWindow('5s')`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Window)
	assert.Equal(t, "tumbling", stmt.Window.Kind)
	assert.Equal(t, []interface{}{"5s"}, stmt.Window.Params)
	assert.Len(t, stmt.Window.GroupByKeys, 1)
	require.Len(t, stmt.AggregateOrder, 1)
	agg := stmt.AggregateMappings[stmt.AggregateOrder[0]]
	assert.Equal(t, "avg", agg.FuncName)

	ref, ok := stmt.SelectFields[1].Expr.(*ast.ColumnRefExpr)
	require.True(t, ok)
	assert.Equal(t, agg.OutputName, ref.Name)
}

func TestParseSlidingWindowTwoParams(t *testing.T) {
	stmt, err := Parse(`SELECT deviceId FROM stream GROUP BY deviceId, SlidingWindow('6s', '2s')`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Window)
	assert.Equal(t, "sliding", stmt.Window.Kind)
	assert.Equal(t, []interface{}{"6s", "2s"}, stmt.Window.Params)
}

func TestParseCountAggregateStar(t *testing.T) {
	stmt, err := Parse("SELECT count(*) FROM stream")
	require.NoError(t, err)
	agg := stmt.AggregateMappings[stmt.AggregateOrder[0]]
	assert.Equal(t, "count", agg.FuncName)
	assert.Nil(t, agg.Arg)
}

func TestParseStatefulLag(t *testing.T) {
	stmt, err := Parse("SELECT deviceId, lag(temperature, 1) FROM stream")
	require.NoError(t, err)
	require.Len(t, stmt.StatefulCalls, 1)
	assert.Equal(t, "lag", stmt.StatefulCalls[0].FuncName)
	assert.Len(t, stmt.StatefulCalls[0].Args, 2)
}

func TestParseCaseExpression(t *testing.T) {
	stmt, err := Parse(`SELECT CASE WHEN temperature > 30 THEN 'hot' ELSE 'normal' END FROM stream`)
	require.NoError(t, err)
	c, ok := stmt.SelectFields[0].Expr.(*ast.CaseExpr)
	require.True(t, ok)
	assert.Nil(t, c.CaseOperand)
	assert.Len(t, c.Whens, 1)
	assert.NotNil(t, c.Else)
}

func TestParseNestedFieldAccess(t *testing.T) {
	stmt, err := Parse(`SELECT device.info.name as device_name FROM stream`)
	require.NoError(t, err)
	ref, ok := stmt.SelectFields[0].Expr.(*ast.ColumnRefExpr)
	require.True(t, ok)
	assert.Equal(t, "device", ref.Source)
	assert.Equal(t, "info.name", ref.Name)
	assert.Equal(t, "device_name", stmt.SelectFields[0].Alias)
}

func TestParseDistinctAndLimit(t *testing.T) {
	stmt, err := Parse("SELECT DISTINCT deviceId FROM stream LIMIT 10")
	require.NoError(t, err)
	assert.True(t, stmt.Distinct)
	assert.Equal(t, 10, stmt.Limit)
}

func TestParseIsNull(t *testing.T) {
	stmt, err := Parse("SELECT deviceId FROM stream WHERE temperature IS NOT NULL")
	require.NoError(t, err)
	u, ok := stmt.Where.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, "not", u.Op)
}

func TestParseMissingFromIsError(t *testing.T) {
	_, err := Parse("SELECT deviceId")
	assert.Error(t, err)
}
