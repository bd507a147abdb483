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
	"fmt"

	"github.com/flowsql/flowsql/value"
)

// EvalErrorKind tags the closed set of ways a ScalarExpr evaluation
// can fail. Evaluation itself never panics; every failure mode is one
// of these.
type EvalErrorKind int

const (
	IndexOutOfBounds EvalErrorKind = iota
	TypeMismatch
	DivideByZero
	Overflow
	NullArgument
)

func (k EvalErrorKind) String() string {
	switch k {
	case IndexOutOfBounds:
		return "index_out_of_bounds"
	case TypeMismatch:
		return "type_mismatch"
	case DivideByZero:
		return "divide_by_zero"
	case Overflow:
		return "overflow"
	case NullArgument:
		return "null_argument"
	default:
		return "unknown"
	}
}

// EvalError reports a scalar expression evaluation failure.
type EvalError struct {
	Kind     EvalErrorKind
	Index    int
	Length   int
	Expected value.Kind
	Actual   value.Kind
	Op       string
	Message  string
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case IndexOutOfBounds:
		return fmt.Sprintf("scalar eval: column index %d out of bounds (row has %d columns)", e.Index, e.Length)
	case TypeMismatch:
		return fmt.Sprintf("scalar eval: %s expects %s, got %s", e.Op, e.Expected, e.Actual)
	case DivideByZero:
		return fmt.Sprintf("scalar eval: division by zero in %s", e.Op)
	case Overflow:
		return fmt.Sprintf("scalar eval: overflow in %s", e.Op)
	case NullArgument:
		return fmt.Sprintf("scalar eval: %s received a null argument", e.Op)
	default:
		return fmt.Sprintf("scalar eval: %s", e.Message)
	}
}

// ScalarExpr is the closed tree of scalar expression nodes. Every
// concrete node is pure: Eval never mutates row and never retains a
// reference to it past the call.
type ScalarExpr interface {
	Eval(row []value.Value) (value.Value, error)
	isScalarExpr()
}

// ColumnRef reads one column of the input row by its resolved,
// plan-time index (name resolution happens once in the logical
// planner; by the time a ScalarExpr exists, every reference is
// positional).
type ColumnRef struct {
	Index int
}

func (c ColumnRef) isScalarExpr() {}

func (c ColumnRef) Eval(row []value.Value) (value.Value, error) {
	if c.Index < 0 || c.Index >= len(row) {
		return value.Value{}, &EvalError{Kind: IndexOutOfBounds, Index: c.Index, Length: len(row)}
	}
	return row[c.Index], nil
}

// Literal is a constant value baked into the plan at compile time.
type Literal struct {
	Val value.Value
}

func (l Literal) isScalarExpr() {}

func (l Literal) Eval(row []value.Value) (value.Value, error) { return l.Val, nil }

// Unary applies a single-operand operator: "-" (negate) or "not".
type Unary struct {
	Op      string
	Operand ScalarExpr
}

func (u Unary) isScalarExpr() {}

func (u Unary) Eval(row []value.Value) (value.Value, error) {
	v, err := u.Operand.Eval(row)
	if err != nil {
		return value.Value{}, err
	}
	if v.IsNull() {
		return value.Null(), nil
	}
	switch u.Op {
	case "-":
		switch {
		case v.Kind() == value.KindFloat32:
			return value.Float32(float32(-v.AsFloat())), nil
		case v.Kind() == value.KindFloat64:
			return value.Float64(-v.AsFloat()), nil
		case v.Kind() >= value.KindInt8 && v.Kind() <= value.KindInt64:
			return value.Int64(-v.AsInt()), nil
		default:
			return value.Value{}, &EvalError{Kind: TypeMismatch, Op: "-", Expected: value.KindFloat64, Actual: v.Kind()}
		}
	case "not":
		if v.Kind() != value.KindBool {
			return value.Value{}, &EvalError{Kind: TypeMismatch, Op: "not", Expected: value.KindBool, Actual: v.Kind()}
		}
		return value.Bool(!v.AsBool()), nil
	default:
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: u.Op, Message: "unknown unary operator"}
	}
}

// Binary applies a two-operand operator: arithmetic (+ - * / %),
// comparison (= != < <= > >=) or logical (and or).
type Binary struct {
	Op    string
	Left  ScalarExpr
	Right ScalarExpr
}

func (b Binary) isScalarExpr() {}

func (b Binary) Eval(row []value.Value) (value.Value, error) {
	l, err := b.Left.Eval(row)
	if err != nil {
		return value.Value{}, err
	}
	r, err := b.Right.Eval(row)
	if err != nil {
		return value.Value{}, err
	}

	switch b.Op {
	case "and":
		return evalLogical(b.Op, l, r, func(a, b bool) bool { return a && b })
	case "or":
		return evalLogical(b.Op, l, r, func(a, b bool) bool { return a || b })
	case "=":
		if l.IsNull() || r.IsNull() {
			return value.Null(), nil
		}
		return value.Bool(value.Equal(l, r)), nil
	case "!=":
		if l.IsNull() || r.IsNull() {
			return value.Null(), nil
		}
		return value.Bool(!value.Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return evalCompare(b.Op, l, r)
	case "+", "-", "*", "/", "%":
		return evalArith(b.Op, l, r)
	default:
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: b.Op, Message: "unknown binary operator"}
	}
}

func evalLogical(op string, l, r value.Value, f func(a, b bool) bool) (value.Value, error) {
	if l.IsNull() || r.IsNull() {
		return value.Null(), nil
	}
	if l.Kind() != value.KindBool || r.Kind() != value.KindBool {
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: op, Expected: value.KindBool}
	}
	return value.Bool(f(l.AsBool(), r.AsBool())), nil
}

func evalCompare(op string, l, r value.Value) (value.Value, error) {
	if l.IsNull() || r.IsNull() {
		return value.Null(), nil
	}
	var cmp int
	switch {
	case isFloaty(l) || isFloaty(r):
		lf, rf := l.AsFloat(), r.AsFloat()
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		ls, rs := l.AsString(), r.AsString()
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		}
	default:
		li, ri := l.AsInt(), r.AsInt()
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	}
	switch op {
	case "<":
		return value.Bool(cmp < 0), nil
	case "<=":
		return value.Bool(cmp <= 0), nil
	case ">":
		return value.Bool(cmp > 0), nil
	default: // ">="
		return value.Bool(cmp >= 0), nil
	}
}

func isFloaty(v value.Value) bool {
	return v.Kind() == value.KindFloat32 || v.Kind() == value.KindFloat64
}

func evalArith(op string, l, r value.Value) (value.Value, error) {
	if l.IsNull() || r.IsNull() {
		return value.Null(), nil
	}
	if l.Kind() == value.KindString || r.Kind() == value.KindString || l.Kind() == value.KindBool || r.Kind() == value.KindBool {
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: op, Expected: value.KindFloat64, Actual: l.Kind()}
	}
	if isFloaty(l) || isFloaty(r) {
		lf, rf := l.AsFloat(), r.AsFloat()
		switch op {
		case "+":
			return value.Float64(lf + rf), nil
		case "-":
			return value.Float64(lf - rf), nil
		case "*":
			return value.Float64(lf * rf), nil
		case "/":
			if rf == 0 {
				return value.Value{}, &EvalError{Kind: DivideByZero, Op: op}
			}
			return value.Float64(lf / rf), nil
		default: // "%"
			if rf == 0 {
				return value.Value{}, &EvalError{Kind: DivideByZero, Op: op}
			}
			return value.Float64(mod(lf, rf)), nil
		}
	}
	li, ri := l.AsInt(), r.AsInt()
	switch op {
	case "+":
		return value.Int64(li + ri), nil
	case "-":
		return value.Int64(li - ri), nil
	case "*":
		return value.Int64(li * ri), nil
	case "/":
		if ri == 0 {
			return value.Value{}, &EvalError{Kind: DivideByZero, Op: op}
		}
		return value.Int64(li / ri), nil
	default: // "%"
		if ri == 0 {
			return value.Value{}, &EvalError{Kind: DivideByZero, Op: op}
		}
		return value.Int64(li % ri), nil
	}
}

func mod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

// FieldAccess reads a dotted/indexed path (device.info.name,
// readings[0].value) out of a struct- or list-valued column. The base
// column is resolved positionally like ColumnRef; the path underneath
// it is resolved dynamically each Eval, since a struct column's shape
// isn't known until its value arrives.
type FieldAccess struct {
	Base Base
	Path string
}

// Base is the minimal column-reading contract FieldAccess needs;
// satisfied by ColumnRef.
type Base interface {
	Eval(row []value.Value) (value.Value, error)
}

func (f FieldAccess) isScalarExpr() {}

func (f FieldAccess) Eval(row []value.Value) (value.Value, error) {
	base, err := f.Base.Eval(row)
	if err != nil {
		return value.Value{}, err
	}
	if base.IsNull() {
		return value.Null(), nil
	}
	return fieldAccessValue(base, f.Path)
}

// Call invokes a named scalar function (built-in or user-registered)
// against its evaluated arguments. Resolution is bridged to the
// streamsql-derived functions registry; see functions.go.
type Call struct {
	Name string
	Args []ScalarExpr
}

func (c Call) isScalarExpr() {}

func (c Call) Eval(row []value.Value) (value.Value, error) {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(row)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	return callBuiltin(c.Name, args)
}
