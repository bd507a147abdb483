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

package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualNaN(t *testing.T) {
	a := Float64(math.NaN())
	b := Float64(math.NaN())
	assert.True(t, Equal(a, b))
	assert.Equal(t, Hash(a), Hash(b))
}

func TestEqualSignedZero(t *testing.T) {
	a := Float64(0)
	b := Float64(math.Copysign(0, -1))
	assert.True(t, Equal(a, b))
	assert.Equal(t, Hash(a), Hash(b))
}

func TestHashEqualsContract(t *testing.T) {
	pairs := [][2]Value{
		{Int32(5), Int32(5)},
		{String("x"), String("x")},
		{Bool(true), Bool(true)},
		{NewList(Dt(KindInt32), []Value{Int32(1), Int32(2)}), NewList(Dt(KindInt32), []Value{Int32(1), Int32(2)})},
	}
	for _, p := range pairs {
		assert.True(t, Equal(p[0], p[1]))
		assert.Equal(t, Hash(p[0]), Hash(p[1]))
	}
}

func TestListOrderSignificant(t *testing.T) {
	a := NewList(Dt(KindInt32), []Value{Int32(1), Int32(2)})
	b := NewList(Dt(KindInt32), []Value{Int32(2), Int32(1)})
	assert.False(t, Equal(a, b))
}

func TestTryCastTotality(t *testing.T) {
	cases := []struct {
		target DataType
		v      Value
	}{
		{Dt(KindInt8), Int64(1 << 40)},
		{Dt(KindUint8), Int64(-1)},
		{Dt(KindInt32), Float64(3.5)},
		{Dt(KindBool), String("maybe")},
		{Dt(KindList), Int32(1)},
	}
	for _, c := range cases {
		out, ok := TryCast(c.target, c.v)
		if ok {
			assert.Equal(t, c.target.Kind, out.Kind())
		}
	}
}

func TestTryCastNumericSaturation(t *testing.T) {
	_, ok := TryCast(Dt(KindInt8), Int32(200))
	assert.False(t, ok)

	out, ok := TryCast(Dt(KindInt8), Int32(100))
	assert.True(t, ok)
	assert.Equal(t, int64(100), out.AsInt())
}

func TestTryCastFractionalRejected(t *testing.T) {
	_, ok := TryCast(Dt(KindInt32), Float64(2.5))
	assert.False(t, ok)

	out, ok := TryCast(Dt(KindInt32), Float64(2.0))
	assert.True(t, ok)
	assert.Equal(t, int64(2), out.AsInt())
}

func TestTryCastBoolStrings(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on", "TRUE", "On"} {
		out, ok := TryCast(Dt(KindBool), String(s))
		assert.True(t, ok, s)
		assert.True(t, out.AsBool(), s)
	}
	for _, s := range []string{"false", "0", "no", "off", "OFF"} {
		out, ok := TryCast(Dt(KindBool), String(s))
		assert.True(t, ok, s)
		assert.False(t, out.AsBool(), s)
	}
}

func TestTryCastBoolToNumeric(t *testing.T) {
	out, ok := TryCast(Dt(KindInt32), Bool(true))
	assert.True(t, ok)
	assert.Equal(t, int64(1), out.AsInt())

	b, ok := TryCast(Dt(KindBool), Int32(5))
	assert.True(t, ok)
	assert.True(t, b.AsBool())
}

func TestRecordBatchUniformity(t *testing.T) {
	schema := NewSchema([]ColumnSchema{{ColumnName: "a", Type: Dt(KindInt32)}})
	_, err := NewRecordBatch(schema, []Column{{Name: "a", Values: []Value{Int32(1), Int32(2)}}, {Name: "b", Values: []Value{Int32(1)}}})
	assert.Error(t, err)
}

func TestRecordBatchZeroColumnsIllegal(t *testing.T) {
	schema := NewSchema(nil)
	_, err := NewRecordBatch(schema, nil)
	assert.Error(t, err)
}

func TestRecordBatchZeroRowsLegal(t *testing.T) {
	schema := NewSchema([]ColumnSchema{{ColumnName: "a", Type: Dt(KindInt32)}})
	b, err := NewRecordBatch(schema, []Column{{Name: "a", Values: nil}})
	assert.NoError(t, err)
	assert.Equal(t, 0, b.NumRows())
}

func TestSchemaLookup(t *testing.T) {
	s := NewSchema([]ColumnSchema{
		{SourceName: "s1", ColumnName: "a", Type: Dt(KindInt32)},
		{SourceName: "s2", ColumnName: "a", Type: Dt(KindInt32)},
	})
	i, ok := s.IndexByName("a")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	j, ok := s.IndexBySource("s2", "a")
	assert.True(t, ok)
	assert.Equal(t, 1, j)
}
