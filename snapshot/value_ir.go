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

	"github.com/flowsql/flowsql/value"
)

// valueToMap renders a scalar value.Value into a plain map msgpack can
// round-trip byte-for-byte. Only the scalar kinds the logical planner
// ever bakes into a Literal are supported; List/Struct literals don't
// occur in resolved plans today.
func valueToMap(v value.Value) (map[string]interface{}, error) {
	m := map[string]interface{}{"kind": int(v.Kind())}
	switch v.Kind() {
	case value.KindNull:
	case value.KindBool:
		m["b"] = v.AsBool()
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		m["i"] = v.AsInt()
	case value.KindUint8, value.KindUint16, value.KindUint32, value.KindUint64:
		m["u"] = v.AsUint()
	case value.KindFloat32, value.KindFloat64:
		m["f"] = v.AsFloat()
	case value.KindString:
		m["s"] = v.AsString()
	default:
		return nil, fmt.Errorf("snapshot: unsupported literal kind %s", v.Kind())
	}
	return m, nil
}

func mapToValue(m map[string]interface{}) (value.Value, error) {
	kind := value.Kind(cast.ToUint8(m["kind"]))
	switch kind {
	case value.KindNull:
		return value.Null(), nil
	case value.KindBool:
		return value.Bool(cast.ToBool(m["b"])), nil
	case value.KindInt8:
		return value.Int8(int8(cast.ToInt64(m["i"]))), nil
	case value.KindInt16:
		return value.Int16(int16(cast.ToInt64(m["i"]))), nil
	case value.KindInt32:
		return value.Int32(int32(cast.ToInt64(m["i"]))), nil
	case value.KindInt64:
		return value.Int64(cast.ToInt64(m["i"])), nil
	case value.KindUint8:
		return value.Uint8(uint8(cast.ToUint64(m["u"]))), nil
	case value.KindUint16:
		return value.Uint16(uint16(cast.ToUint64(m["u"]))), nil
	case value.KindUint32:
		return value.Uint32(uint32(cast.ToUint64(m["u"]))), nil
	case value.KindUint64:
		return value.Uint64(cast.ToUint64(m["u"])), nil
	case value.KindFloat32:
		return value.Float32(float32(cast.ToFloat64(m["f"]))), nil
	case value.KindFloat64:
		return value.Float64(cast.ToFloat64(m["f"])), nil
	case value.KindString:
		return value.String(cast.ToString(m["s"])), nil
	default:
		return value.Value{}, fmt.Errorf("snapshot: unsupported literal kind %d", kind)
	}
}
