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

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/value"
)

func TestColumnRefOutOfBounds(t *testing.T) {
	_, err := ColumnRef{Index: 3}.Eval([]value.Value{value.Int64(1)})
	require.Error(t, err)
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, IndexOutOfBounds, ee.Kind)
}

func TestBinaryArithmetic(t *testing.T) {
	e := Binary{Op: "+", Left: ColumnRef{Index: 0}, Right: Literal{Val: value.Int64(5)}}
	out, err := e.Eval([]value.Value{value.Int64(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(15), out.AsInt())
}

func TestBinaryDivideByZero(t *testing.T) {
	e := Binary{Op: "/", Left: Literal{Val: value.Int64(1)}, Right: Literal{Val: value.Int64(0)}}
	_, err := e.Eval(nil)
	require.Error(t, err)
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, DivideByZero, ee.Kind)
}

func TestBinaryNullPropagates(t *testing.T) {
	e := Binary{Op: "+", Left: Literal{Val: value.Null()}, Right: Literal{Val: value.Int64(1)}}
	out, err := e.Eval(nil)
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestComparisonFloatWidening(t *testing.T) {
	e := Binary{Op: "<", Left: Literal{Val: value.Int64(1)}, Right: Literal{Val: value.Float64(1.5)}}
	out, err := e.Eval(nil)
	require.NoError(t, err)
	assert.True(t, out.AsBool())
}

func TestUnaryNegateAndNot(t *testing.T) {
	neg := Unary{Op: "-", Operand: Literal{Val: value.Int64(4)}}
	out, err := neg.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), out.AsInt())

	not := Unary{Op: "not", Operand: Literal{Val: value.Bool(true)}}
	out2, err := not.Eval(nil)
	require.NoError(t, err)
	assert.False(t, out2.AsBool())
}

func TestSearchedCase(t *testing.T) {
	c := Case{
		Whens: []WhenClause{
			{Cond: Literal{Val: value.Bool(false)}, Result: Literal{Val: value.String("a")}},
			{Cond: Literal{Val: value.Bool(true)}, Result: Literal{Val: value.String("b")}},
		},
		Else: Literal{Val: value.String("z")},
	}
	out, err := c.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, "b", out.AsString())
}

func TestSimpleCaseFallsThroughToElse(t *testing.T) {
	c := Case{
		Operand: Literal{Val: value.Int64(3)},
		Whens: []WhenClause{
			{Cond: Literal{Val: value.Int64(1)}, Result: Literal{Val: value.String("one")}},
		},
		Else: Literal{Val: value.String("other")},
	}
	out, err := c.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, "other", out.AsString())
}

func TestCallBridgesToFunctionsRegistry(t *testing.T) {
	e := Call{Name: "abs", Args: []ScalarExpr{Literal{Val: value.Float64(-3.5)}}}
	out, err := e.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 3.5, out.AsFloat())
}

func TestCallUnknownFunction(t *testing.T) {
	e := Call{Name: "not_a_real_function", Args: nil}
	_, err := e.Eval(nil)
	require.Error(t, err)
}

func TestExprLangFallback(t *testing.T) {
	ex, err := NewExprLang("a + b > 10", []ExprLangBinding{{Name: "a", Index: 0}, {Name: "b", Index: 1}})
	require.NoError(t, err)
	out, err := ex.Eval([]value.Value{value.Int64(6), value.Int64(6)})
	require.NoError(t, err)
	assert.True(t, out.AsBool())
}

func TestExprLangLikeMatch(t *testing.T) {
	ex, err := NewExprLang(`like_match(s, "foo%")`, []ExprLangBinding{{Name: "s", Index: 0}})
	require.NoError(t, err)
	out, err := ex.Eval([]value.Value{value.String("foobar")})
	require.NoError(t, err)
	assert.True(t, out.AsBool())
}
