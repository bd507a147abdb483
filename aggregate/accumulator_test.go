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

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/value"
)

func TestSumAccumulator(t *testing.T) {
	acc, err := NewAccumulator(Spec{FuncName: "sum", ArgType: value.Dt(value.KindInt64)})
	require.NoError(t, err)
	for _, v := range []value.Value{value.Int64(1), value.Int64(2), value.Int64(3)} {
		require.NoError(t, acc.Update(v))
	}
	assert.Equal(t, float64(6), acc.Finalize().AsFloat())
}

func TestCountAccumulator(t *testing.T) {
	acc, err := NewAccumulator(Spec{FuncName: "count"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, acc.Update(value.Int64(int64(i))))
	}
	assert.Equal(t, int64(5), acc.Finalize().AsInt())
}

func TestAccumulatorClone(t *testing.T) {
	acc, err := NewAccumulator(Spec{FuncName: "count"})
	require.NoError(t, err)
	require.NoError(t, acc.Update(value.Int64(1)))
	clone := acc.Clone()
	require.NoError(t, acc.Update(value.Int64(1)))
	assert.NotEqual(t, acc.Finalize(), clone.Finalize())
}

func TestUnsupportedFunction(t *testing.T) {
	_, err := NewAccumulator(Spec{FuncName: "not_a_real_agg"})
	assert.Error(t, err)
}

func TestNDVDistinctCount(t *testing.T) {
	acc, err := NewAccumulator(Spec{FuncName: "ndv"})
	require.NoError(t, err)
	for _, v := range []value.Value{value.Int64(1), value.Int64(2), value.Int64(1), value.Null(), value.Int64(3)} {
		require.NoError(t, acc.Update(v))
	}
	assert.Equal(t, int64(3), acc.Finalize().AsInt())
}

func TestStatefulLag(t *testing.T) {
	fn, err := NewStatefulFunc("lag")
	require.NoError(t, err)

	out1, err := fn.Apply([]value.Value{value.Int64(10)})
	require.NoError(t, err)
	assert.True(t, out1.IsNull())

	out2, err := fn.Apply([]value.Value{value.Int64(20)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out2.AsInt())
}
