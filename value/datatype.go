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
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// DataType is the schema-level parallel of Value's tag: it names a
// concrete type without carrying a payload. List/Struct datatypes
// nest further DataType descriptors.
type DataType struct {
	Kind   Kind
	Elem   *DataType // meaningful when Kind == KindList
	Fields FieldSet  // meaningful when Kind == KindStruct
}

func Dt(k Kind) DataType { return DataType{Kind: k} }

func ListType(elem DataType) DataType {
	return DataType{Kind: KindList, Elem: &elem}
}

func StructType(fields FieldSet) DataType {
	return DataType{Kind: KindStruct, Fields: fields}
}

func (dt DataType) String() string {
	switch dt.Kind {
	case KindList:
		return "list<" + dt.Elem.String() + ">"
	case KindStruct:
		var b strings.Builder
		b.WriteString("struct<")
		for i, f := range dt.Fields.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			b.WriteString(":")
			b.WriteString(f.Type.String())
		}
		b.WriteString(">")
		return b.String()
	default:
		return dt.Kind.String()
	}
}

// DefaultValue returns the zero value for a datatype: 0 for numerics,
// "" for strings, false for bool, an empty list/struct for nested
// types, and Null for... well, DefaultValue never returns Null itself
// because every concrete type has a non-null zero value; callers that
// want an absent value construct value.Null() directly.
func DefaultValue(dt DataType) Value {
	switch dt.Kind {
	case KindInt8:
		return Int8(0)
	case KindInt16:
		return Int16(0)
	case KindInt32:
		return Int32(0)
	case KindInt64:
		return Int64(0)
	case KindUint8:
		return Uint8(0)
	case KindUint16:
		return Uint16(0)
	case KindUint32:
		return Uint32(0)
	case KindUint64:
		return Uint64(0)
	case KindFloat32:
		return Float32(0)
	case KindFloat64:
		return Float64(0)
	case KindString:
		return String("")
	case KindBool:
		return Bool(false)
	case KindList:
		return NewList(*dt.Elem, nil)
	case KindStruct:
		items := make([]Value, len(dt.Fields.Fields))
		for i, f := range dt.Fields.Fields {
			items[i] = DefaultValue(f.Type)
		}
		return NewStruct(dt.Fields, items)
	default:
		return Null()
	}
}

var trueStrings = map[string]bool{"true": true, "1": true, "yes": true, "on": true}
var falseStrings = map[string]bool{"false": true, "0": true, "no": true, "off": true}

// TryCast attempts to coerce v into target, following these rules:
// numeric<->numeric by saturation/rejection (out-of-range rejected, a
// fractional->int cast requires a zero fractional part),
// bool<->numeric (true->1, nonzero->true), string<->primitive via
// parse, with {true|1|yes|on} / {false|0|no|off} (case-insensitive)
// recognized as bool literals. It never panics; failure is reported by
// the second return, never by error value or panic.
func TryCast(target DataType, v Value) (Value, bool) {
	if v.IsNull() {
		return Null(), true
	}
	if v.kind == target.Kind {
		return v, true
	}

	switch target.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return tryCastInt(target.Kind, v)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return tryCastUint(target.Kind, v)
	case KindFloat32:
		f, ok := tryCastFloat(v)
		if !ok {
			return Value{}, false
		}
		return Float32(float32(f)), true
	case KindFloat64:
		f, ok := tryCastFloat(v)
		if !ok {
			return Value{}, false
		}
		return Float64(f), true
	case KindBool:
		return tryCastBool(v)
	case KindString:
		return tryCastString(v)
	case KindList, KindStruct:
		return Value{}, false // nested types never cast across shapes
	default:
		return Value{}, false
	}
}

func intBounds(k Kind) (min, max int64) {
	switch k {
	case KindInt8:
		return math.MinInt8, math.MaxInt8
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func uintMax(k Kind) uint64 {
	switch k {
	case KindUint8:
		return math.MaxUint8
	case KindUint16:
		return math.MaxUint16
	case KindUint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func tryCastInt(target Kind, v Value) (Value, bool) {
	var i64 int64
	switch {
	case v.kind.isInt():
		i64 = v.i
	case v.kind.isUint():
		if v.u > math.MaxInt64 {
			return Value{}, false
		}
		i64 = int64(v.u)
	case v.kind.isFloat():
		if math.Trunc(v.f) != v.f || math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return Value{}, false
		}
		i64 = int64(v.f)
	case v.kind == KindBool:
		if v.b {
			i64 = 1
		}
	case v.kind == KindString:
		parsed, err := cast.ToInt64E(strings.TrimSpace(v.s))
		if err != nil {
			return Value{}, false
		}
		i64 = parsed
	default:
		return Value{}, false
	}
	min, max := intBounds(target)
	if i64 < min || i64 > max {
		return Value{}, false
	}
	switch target {
	case KindInt8:
		return Int8(int8(i64)), true
	case KindInt16:
		return Int16(int16(i64)), true
	case KindInt32:
		return Int32(int32(i64)), true
	default:
		return Int64(i64), true
	}
}

func tryCastUint(target Kind, v Value) (Value, bool) {
	var u64 uint64
	switch {
	case v.kind.isUint():
		u64 = v.u
	case v.kind.isInt():
		if v.i < 0 {
			return Value{}, false
		}
		u64 = uint64(v.i)
	case v.kind.isFloat():
		if math.Trunc(v.f) != v.f || v.f < 0 || math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return Value{}, false
		}
		u64 = uint64(v.f)
	case v.kind == KindBool:
		if v.b {
			u64 = 1
		}
	case v.kind == KindString:
		parsed, err := cast.ToUint64E(strings.TrimSpace(v.s))
		if err != nil {
			return Value{}, false
		}
		u64 = parsed
	default:
		return Value{}, false
	}
	if u64 > uintMax(target) {
		return Value{}, false
	}
	switch target {
	case KindUint8:
		return Uint8(uint8(u64)), true
	case KindUint16:
		return Uint16(uint16(u64)), true
	case KindUint32:
		return Uint32(uint32(u64)), true
	default:
		return Uint64(u64), true
	}
}

func tryCastFloat(v Value) (float64, bool) {
	switch {
	case v.kind.isFloat():
		return v.f, true
	case v.kind.isInt():
		return float64(v.i), true
	case v.kind.isUint():
		return float64(v.u), true
	case v.kind == KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case v.kind == KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func tryCastBool(v Value) (Value, bool) {
	switch {
	case v.kind == KindBool:
		return v, true
	case v.kind.isInt():
		return Bool(v.i != 0), true
	case v.kind.isUint():
		return Bool(v.u != 0), true
	case v.kind.isFloat():
		return Bool(v.f != 0), true
	case v.kind == KindString:
		s := strings.ToLower(strings.TrimSpace(v.s))
		if trueStrings[s] {
			return Bool(true), true
		}
		if falseStrings[s] {
			return Bool(false), true
		}
		return Value{}, false
	default:
		return Value{}, false
	}
}

func tryCastString(v Value) (Value, bool) {
	switch {
	case v.kind == KindString:
		return v, true
	case v.kind.isInt(), v.kind.isUint(), v.kind.isFloat(), v.kind == KindBool:
		return String(v.String()), true
	default:
		return Value{}, false
	}
}
