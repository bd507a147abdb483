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

import "github.com/flowsql/flowsql/value"

// WhenClause pairs a condition with the result to return when it
// holds. Cond is always set: in a simple CASE it yields the value
// compared against Case.Operand, in a searched CASE it yields the
// boolean condition itself; Case distinguishes the two forms via
// Operand.
type WhenClause struct {
	Cond   ScalarExpr
	Result ScalarExpr
}

// Case implements SQL's two CASE forms: a "simple CASE x WHEN v THEN
// r" form (Operand non-nil, each clause's Cond evaluates to the
// comparison value v) and a "searched CASE WHEN cond THEN r" form
// (Operand nil, each clause's Cond evaluates directly to a bool).
type Case struct {
	Operand ScalarExpr // nil for a searched CASE
	Whens   []WhenClause
	Else    ScalarExpr // nil if there is no ELSE arm
}

func (c Case) isScalarExpr() {}

func (c Case) Eval(row []value.Value) (value.Value, error) {
	var operandVal value.Value
	if c.Operand != nil {
		v, err := c.Operand.Eval(row)
		if err != nil {
			return value.Value{}, err
		}
		operandVal = v
	}

	for _, w := range c.Whens {
		if c.Operand != nil {
			cmpVal, err := w.Cond.Eval(row)
			if err != nil {
				return value.Value{}, err
			}
			if operandVal.IsNull() || cmpVal.IsNull() {
				continue
			}
			if !value.Equal(operandVal, cmpVal) {
				continue
			}
		} else {
			condVal, err := w.Cond.Eval(row)
			if err != nil {
				return value.Value{}, err
			}
			if condVal.IsNull() || condVal.Kind() != value.KindBool || !condVal.AsBool() {
				continue
			}
		}
		return w.Result.Eval(row)
	}
	if c.Else != nil {
		return c.Else.Eval(row)
	}
	return value.Null(), nil
}
