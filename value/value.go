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

// Package value implements the tagged value union every stage of the
// engine consumes: a closed sum type over null, fixed-width numerics,
// strings, bools and nested lists/structs, with total equality,
// deterministic hashing and try-cast semantics.
package value

import (
	"fmt"
	"math"
)

// Kind is the tag of a Value's closed variant set.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBool
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

func (k Kind) isInt() bool {
	return k >= KindInt8 && k <= KindInt64
}

func (k Kind) isUint() bool {
	return k >= KindUint8 && k <= KindUint64
}

func (k Kind) isFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k Kind) isNumeric() bool {
	return k.isInt() || k.isUint() || k.isFloat()
}

// Value is a tagged union: exactly one of its payload fields is
// meaningful for a given Kind. It is deliberately a value type (no
// pointer indirection for scalars) so that copying a Value never
// aliases mutable state; List and Struct carry their own internal
// slices by reference, matching the "batches move, never shared
// between stages" ownership rule at the channel boundary (the sender
// must not retain a batch after handing it off).
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
	b    bool
	list *List
	strc *Struct
}

// List is a Value's payload when Kind is KindList. It carries its item
// vector and a non-empty element datatype descriptor so an empty list
// still remembers the type of thing it would hold.
type List struct {
	ElemType DataType
	Items    []Value
}

// Struct is a Value's payload when Kind is KindStruct: an ordered
// vector of field values plus the field descriptors (name, type,
// nullable) for each slot.
type Struct struct {
	Fields FieldSet
	Items  []Value
}

// FieldSet describes the named, ordered slots of a struct datatype.
type FieldSet struct {
	Fields []FieldDescriptor
}

// FieldDescriptor describes one struct slot.
type FieldDescriptor struct {
	Name     string
	Type     DataType
	Nullable bool
}

func (fs FieldSet) IndexOf(name string) (int, bool) {
	for i, f := range fs.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Null constructs the null value.
func Null() Value { return Value{kind: KindNull} }

func Int8(v int8) Value   { return Value{kind: KindInt8, i: int64(v)} }
func Int16(v int16) Value { return Value{kind: KindInt16, i: int64(v)} }
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

func Uint8(v uint8) Value   { return Value{kind: KindUint8, u: uint64(v)} }
func Uint16(v uint16) Value { return Value{kind: KindUint16, u: uint64(v)} }
func Uint32(v uint32) Value { return Value{kind: KindUint32, u: uint64(v)} }
func Uint64(v uint64) Value { return Value{kind: KindUint64, u: v} }

func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }

// NewList constructs a list value. elemType describes the element
// datatype even when items is empty.
func NewList(elemType DataType, items []Value) Value {
	return Value{kind: KindList, list: &List{ElemType: elemType, Items: items}}
}

// NewStruct constructs a struct value. len(items) must equal
// len(fields.Fields); callers that violate this get an out-of-bounds
// panic on first field access, consistent with the closed-variant
// design: structs are always built from a schema-checked path (the
// Decoder layer or plan evaluation), never from unvalidated input.
func NewStruct(fields FieldSet, items []Value) Value {
	return Value{kind: KindStruct, strc: &Struct{Fields: fields, Items: items}}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsInt() int64 {
	switch {
	case v.kind.isInt():
		return v.i
	case v.kind.isUint():
		return int64(v.u)
	default:
		return 0
	}
}

func (v Value) AsUint() uint64 {
	switch {
	case v.kind.isUint():
		return v.u
	case v.kind.isInt():
		return uint64(v.i)
	default:
		return 0
	}
}

func (v Value) AsFloat() float64 {
	switch {
	case v.kind == KindFloat32, v.kind == KindFloat64:
		return v.f
	case v.kind.isInt():
		return float64(v.i)
	case v.kind.isUint():
		return float64(v.u)
	default:
		return 0
	}
}

func (v Value) AsString() string { return v.s }
func (v Value) AsBool() bool     { return v.b }

func (v Value) AsList() (*List, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsStruct() (*Struct, bool) {
	if v.kind != KindStruct {
		return nil, false
	}
	return v.strc, true
}

// DataType returns the concrete datatype this value carries, mirroring
// the schema-level DataType sum.
func (v Value) DataType() DataType {
	switch v.kind {
	case KindList:
		return DataType{Kind: KindList, Elem: &v.list.ElemType}
	case KindStruct:
		return DataType{Kind: KindStruct, Fields: v.strc.Fields}
	default:
		return DataType{Kind: v.kind}
	}
}

// Equal implements structural, total equality: NaN equals NaN for both
// float widths, insertion order of list items and struct fields is
// significant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return a.i == b.i
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return a.u == b.u
	case KindFloat32, KindFloat64:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.b == b.b
	case KindList:
		if len(a.list.Items) != len(b.list.Items) {
			return false
		}
		for i := range a.list.Items {
			if !Equal(a.list.Items[i], b.list.Items[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(a.strc.Items) != len(b.strc.Items) {
			return false
		}
		for i := range a.strc.Items {
			if !Equal(a.strc.Items[i], b.strc.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// fnvHash is the classic FNV-1a constant set; used rather than
// hash/maphash so that Hash is deterministic across process restarts
// (maphash is seeded per-process, which would break any persisted
// structure keyed by value hash, e.g. NDV accumulator snapshots).
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func hashBytes(h uint64, b []byte) uint64 {
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func hashUint64(h, v uint64) uint64 {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return hashBytes(h, b[:])
}

// Hash computes a deterministic hash satisfying a==b ⇒ hash(a)==hash(b).
// NaN maps to a fixed sentinel bit pattern; +0.0 and -0.0 both map to
// the 0-bits pattern, matching Equal's notion that ±0 and NaN-vs-NaN
// compare equal.
func Hash(v Value) uint64 {
	h := uint64(fnvOffset64)
	h = hashBytes(h, []byte{byte(v.kind)})
	switch v.kind {
	case KindNull:
		return h
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return hashUint64(h, uint64(v.i))
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return hashUint64(h, v.u)
	case KindFloat32, KindFloat64:
		bits := floatHashBits(v.f)
		return hashUint64(h, bits)
	case KindString:
		return hashBytes(h, []byte(v.s))
	case KindBool:
		if v.b {
			return hashUint64(h, 1)
		}
		return hashUint64(h, 0)
	case KindList:
		for _, item := range v.list.Items {
			h = hashUint64(h, Hash(item))
		}
		return h
	case KindStruct:
		for _, item := range v.strc.Items {
			h = hashUint64(h, Hash(item))
		}
		return h
	default:
		return h
	}
}

const nanHashSentinel = 0x7ff8000000000001

func floatHashBits(f float64) uint64 {
	if math.IsNaN(f) {
		return nanHashSentinel
	}
	if f == 0 {
		return 0 // collapse +0.0 and -0.0
	}
	return math.Float64bits(f)
}

// String renders a Value for diagnostics (plan Explain(), error
// messages). Not used for equality or hashing.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%d", v.i)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return fmt.Sprintf("%d", v.u)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%v", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindList:
		return fmt.Sprintf("%v", v.list.Items)
	case KindStruct:
		return fmt.Sprintf("%v", v.strc.Items)
	default:
		return "?"
	}
}
