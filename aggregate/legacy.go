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
	"github.com/flowsql/flowsql/functions"
	"github.com/flowsql/flowsql/value"
)

// legacyAccumulator wraps one functions.AggregatorFunction instance
// (sum/count/avg/min/max/stddev/median/first_value/last_value/var/
// merge_agg/lag/latest/changed_col/had_changed), bridging its
// interface{}-typed Add/Result to value.Value. This is the path every
// builtin but NDV takes: the functions registry already holds
// streaming aggregators, so this repo reuses them. The registered
// "percentile" is a scalar function, not an AggregatorFunction, so it
// is rejected here.
type legacyAccumulator struct {
	funcName string
	fn       functions.AggregatorFunction
}

func newLegacyAccumulator(funcName string) (Accumulator, error) {
	if fn, err := functions.CreateAggregator(funcName); err == nil {
		return &legacyAccumulator{funcName: funcName, fn: fn}, nil
	}
	if fn, err := functions.CreateAnalytical(funcName); err == nil {
		return &legacyAccumulator{funcName: funcName, fn: fn}, nil
	}
	return nil, unsupportedFunc(funcName)
}

func (a *legacyAccumulator) Update(v value.Value) error {
	a.fn.Add(toGoValue(v))
	return nil
}

func (a *legacyAccumulator) Finalize() value.Value {
	return value.FromInterface(a.fn.Result())
}

func (a *legacyAccumulator) Clone() Accumulator {
	return &legacyAccumulator{funcName: a.funcName, fn: a.fn.New()}
}

// toGoValue mirrors expr.toGoValue for scalar kinds; list and struct
// values map to nil here. Duplicated locally (rather than exported
// from expr) to keep aggregate from depending on expr for a short
// conversion, avoiding a needless inter-package edge.
func toGoValue(v value.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case value.KindBool:
		return v.AsBool()
	case value.KindString:
		return v.AsString()
	case value.KindFloat32, value.KindFloat64:
		return v.AsFloat()
	default:
		if v.Kind() >= value.KindUint8 && v.Kind() <= value.KindUint64 {
			return v.AsUint()
		}
		if v.Kind() >= value.KindInt8 && v.Kind() <= value.KindInt64 {
			return v.AsInt()
		}
		return nil
	}
}
