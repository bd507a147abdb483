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

package snapshot

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/flowsql/flowsql/expr"
)

// exprToMap serializes a ScalarExpr into the self-describing map
// shape the snapshot's node Data carries, so a deserializer can rebuild
// the expression tree without re-parsing the original SQL.
func exprToMap(e expr.ScalarExpr) (map[string]interface{}, error) {
	switch v := e.(type) {
	case expr.ColumnRef:
		return map[string]interface{}{"kind": "column_ref", "index": v.Index}, nil
	case expr.Literal:
		lit, err := valueToMap(v.Val)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"kind": "literal", "value": lit}, nil
	case expr.Unary:
		operand, err := exprToMap(v.Operand)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"kind": "unary", "op": v.Op, "operand": operand}, nil
	case expr.Binary:
		left, err := exprToMap(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprToMap(v.Right)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"kind": "binary", "op": v.Op, "left": left, "right": right}, nil
	case expr.FieldAccess:
		base, ok := v.Base.(expr.ColumnRef)
		if !ok {
			return nil, fmt.Errorf("snapshot: field_access base is %T, want expr.ColumnRef", v.Base)
		}
		return map[string]interface{}{"kind": "field_access", "base_index": base.Index, "path": v.Path}, nil
	case expr.Call:
		args := make([]interface{}, len(v.Args))
		for i, a := range v.Args {
			m, err := exprToMap(a)
			if err != nil {
				return nil, err
			}
			args[i] = m
		}
		return map[string]interface{}{"kind": "call", "name": v.Name, "args": args}, nil
	case expr.Case:
		whens := make([]interface{}, len(v.Whens))
		for i, w := range v.Whens {
			cond, err := exprToMap(w.Cond)
			if err != nil {
				return nil, err
			}
			result, err := exprToMap(w.Result)
			if err != nil {
				return nil, err
			}
			whens[i] = map[string]interface{}{"cond": cond, "result": result}
		}
		out := map[string]interface{}{"kind": "case", "whens": whens}
		if v.Operand != nil {
			operand, err := exprToMap(v.Operand)
			if err != nil {
				return nil, err
			}
			out["operand"] = operand
		}
		if v.Else != nil {
			elseExpr, err := exprToMap(v.Else)
			if err != nil {
				return nil, err
			}
			out["else"] = elseExpr
		}
		return out, nil
	case *expr.ExprLang:
		bindings := make([]interface{}, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = map[string]interface{}{"name": b.Name, "index": b.Index}
		}
		return map[string]interface{}{"kind": "expr_lang", "source": v.Source, "bindings": bindings}, nil
	default:
		return nil, fmt.Errorf("snapshot: unsupported scalar expr %T", e)
	}
}

func mapToExpr(m map[string]interface{}) (expr.ScalarExpr, error) {
	kind, _ := m["kind"].(string)
	switch kind {
	case "column_ref":
		return expr.ColumnRef{Index: cast.ToInt(m["index"])}, nil
	case "literal":
		litMap, err := asMap(m["value"])
		if err != nil {
			return nil, err
		}
		val, err := mapToValue(litMap)
		if err != nil {
			return nil, err
		}
		return expr.Literal{Val: val}, nil
	case "unary":
		operandMap, err := asMap(m["operand"])
		if err != nil {
			return nil, err
		}
		operand, err := mapToExpr(operandMap)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: cast.ToString(m["op"]), Operand: operand}, nil
	case "binary":
		leftMap, err := asMap(m["left"])
		if err != nil {
			return nil, err
		}
		left, err := mapToExpr(leftMap)
		if err != nil {
			return nil, err
		}
		rightMap, err := asMap(m["right"])
		if err != nil {
			return nil, err
		}
		right, err := mapToExpr(rightMap)
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: cast.ToString(m["op"]), Left: left, Right: right}, nil
	case "field_access":
		return expr.FieldAccess{Base: expr.ColumnRef{Index: cast.ToInt(m["base_index"])}, Path: cast.ToString(m["path"])}, nil
	case "call":
		rawArgs, _ := m["args"].([]interface{})
		args := make([]expr.ScalarExpr, len(rawArgs))
		for i, raw := range rawArgs {
			argMap, err := asMap(raw)
			if err != nil {
				return nil, err
			}
			a, err := mapToExpr(argMap)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return expr.Call{Name: cast.ToString(m["name"]), Args: args}, nil
	case "case":
		rawWhens, _ := m["whens"].([]interface{})
		whens := make([]expr.WhenClause, len(rawWhens))
		for i, raw := range rawWhens {
			wm, err := asMap(raw)
			if err != nil {
				return nil, err
			}
			condMap, err := asMap(wm["cond"])
			if err != nil {
				return nil, err
			}
			cond, err := mapToExpr(condMap)
			if err != nil {
				return nil, err
			}
			resultMap, err := asMap(wm["result"])
			if err != nil {
				return nil, err
			}
			result, err := mapToExpr(resultMap)
			if err != nil {
				return nil, err
			}
			whens[i] = expr.WhenClause{Cond: cond, Result: result}
		}
		c := expr.Case{Whens: whens}
		if raw, ok := m["operand"]; ok {
			operandMap, err := asMap(raw)
			if err != nil {
				return nil, err
			}
			c.Operand, err = mapToExpr(operandMap)
			if err != nil {
				return nil, err
			}
		}
		if raw, ok := m["else"]; ok {
			elseMap, err := asMap(raw)
			if err != nil {
				return nil, err
			}
			elseExpr, err := mapToExpr(elseMap)
			if err != nil {
				return nil, err
			}
			c.Else = elseExpr
		}
		return c, nil
	case "expr_lang":
		rawBindings, _ := m["bindings"].([]interface{})
		bindings := make([]expr.ExprLangBinding, len(rawBindings))
		for i, raw := range rawBindings {
			bm, err := asMap(raw)
			if err != nil {
				return nil, err
			}
			bindings[i] = expr.ExprLangBinding{Name: cast.ToString(bm["name"]), Index: cast.ToInt(bm["index"])}
		}
		return expr.NewExprLang(cast.ToString(m["source"]), bindings)
	default:
		return nil, fmt.Errorf("snapshot: unsupported scalar expr kind %q", kind)
	}
}

// asMap normalizes the map[interface{}]interface{} msgpack can
// produce on decode (when the value wasn't typed as
// map[string]interface{} at encode time) to map[string]interface{}.
func asMap(raw interface{}) (map[string]interface{}, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[cast.ToString(k)] = val
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("snapshot: missing nested expr map")
	default:
		return nil, fmt.Errorf("snapshot: unexpected expr encoding %T", raw)
	}
}
