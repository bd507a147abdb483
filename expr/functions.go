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

	"github.com/flowsql/flowsql/functions"
	"github.com/flowsql/flowsql/utils/fieldpath"
	"github.com/flowsql/flowsql/value"
)

// fieldAccessValue resolves a dotted/indexed path against a struct-
// or list-valued base by unwrapping to a plain Go value and reusing
// the existing nested-field walker instead of re-deriving
// dot/bracket-path parsing.
func fieldAccessValue(base value.Value, path string) (value.Value, error) {
	raw := toGoValue(base)
	got, ok := fieldpath.GetNestedField(raw, path)
	if !ok {
		return value.Null(), nil
	}
	return value.FromInterface(got), nil
}

// callBuiltin dispatches a Call node's evaluated arguments to the
// streamsql-derived scalar function registry in functions/, rather
// than reimplementing the ~100 builtins it already provides. Values
// are unwrapped to plain Go interfaces at the boundary and rewrapped
// on return, since the registry's Function.Execute still speaks the
// teacher's map[string]interface{}/[]interface{} row convention.
func callBuiltin(name string, args []value.Value) (value.Value, error) {
	if _, ok := functions.Get(name); !ok {
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: name, Message: fmt.Sprintf("unknown function %q", name)}
	}
	rawArgs := make([]interface{}, len(args))
	for i, a := range args {
		rawArgs[i] = toGoValue(a)
	}
	out, err := functions.Execute(name, &functions.FunctionContext{}, rawArgs)
	if err != nil {
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: name, Message: err.Error()}
	}
	return value.FromInterface(out), nil
}

// toGoValue unwraps a Value into the plain interface{} shape the
// teacher's function bodies expect (nil, bool, float64, int64,
// uint64, string, []interface{}, map[string]interface{}).
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
	case value.KindList:
		l, _ := v.AsList()
		out := make([]interface{}, len(l.Items))
		for i, it := range l.Items {
			out[i] = toGoValue(it)
		}
		return out
	case value.KindStruct:
		s, _ := v.AsStruct()
		m := make(map[string]interface{}, len(s.Items))
		for i, f := range s.Fields.Fields {
			m[f.Name] = toGoValue(s.Items[i])
		}
		return m
	default:
		if v.Kind() >= value.KindUint8 && v.Kind() <= value.KindUint64 {
			return v.AsUint()
		}
		return v.AsInt()
	}
}
