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

import "fmt"

// Column is one columnar block within a RecordBatch.
type Column struct {
	SourceName string
	Name       string
	Values     []Value
}

// RecordBatch is a columnar block flowing between processors. Every
// column must have identical length (the batch row count); a batch
// with zero columns is illegal (NewRecordBatch rejects it), a batch
// with zero rows is legal. Per spec's ownership rule, a RecordBatch is
// moved (not shared) across channel boundaries -- the sender must not
// retain a reference to columns it has handed off.
type RecordBatch struct {
	Schema  *Schema
	Columns []Column
}

// NewRecordBatch validates column-length uniformity and non-zero
// column count before constructing the batch.
func NewRecordBatch(schema *Schema, columns []Column) (*RecordBatch, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("record batch must have at least one column")
	}
	n := len(columns[0].Values)
	for _, c := range columns {
		if len(c.Values) != n {
			return nil, fmt.Errorf("record batch column %q has length %d, want %d", c.Name, len(c.Values), n)
		}
	}
	return &RecordBatch{Schema: schema, Columns: columns}, nil
}

// NumRows returns the batch's row count (0 for an empty-but-valid
// batch).
func (b *RecordBatch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return len(b.Columns[0].Values)
}

func (b *RecordBatch) NumCols() int { return len(b.Columns) }

// Row materializes row i as a positional value slice, the shape
// ScalarExpr.Eval expects.
func (b *RecordBatch) Row(i int) []Value {
	row := make([]Value, len(b.Columns))
	for c := range b.Columns {
		row[c] = b.Columns[c].Values[i]
	}
	return row
}

// Tuple is the scalar-row form used inside stateful operators and at
// JSON ingestion boundaries: a (source_name, column_name) -> Value
// mapping, materialized as a values vector plus an index. Every key in
// the index is present in the values vector exactly once, matching
// spec's duality note: RecordBatch stays positional at batch scale,
// Tuple is synthesized only at these boundaries.
type Tuple struct {
	schema *Schema
	values []Value
}

// NewTuple builds a Tuple from a positional row and its schema.
func NewTuple(schema *Schema, values []Value) *Tuple {
	return &Tuple{schema: schema, values: values}
}

func (t *Tuple) Get(source, name string) (Value, bool) {
	if i, ok := t.schema.IndexBySource(source, name); ok {
		return t.values[i], true
	}
	if i, ok := t.schema.IndexByName(name); ok {
		return t.values[i], true
	}
	return Null(), false
}

func (t *Tuple) Values() []Value  { return t.values }
func (t *Tuple) Schema() *Schema  { return t.schema }

// RowFromJSONMap builds a Tuple from a decoded JSON object against a
// target schema, used by the JSON decoder at the ingestion boundary.
// Missing keys become Null; present keys are try-cast into the
// declared column type, falling back to Null on cast failure (a
// CodecError is left to the caller to raise if that is unacceptable).
func RowFromJSONMap(schema *Schema, m map[string]interface{}) *Tuple {
	values := make([]Value, schema.Len())
	for i, col := range schema.Columns {
		raw, ok := m[col.ColumnName]
		if !ok {
			values[i] = Null()
			continue
		}
		v := FromInterface(raw)
		if cast, ok := TryCast(col.Type, v); ok {
			values[i] = cast
		} else {
			values[i] = Null()
		}
	}
	return NewTuple(schema, values)
}

// FromInterface converts a decoded dynamic value (as produced by
// encoding/json.Unmarshal into interface{}) into the closed Value
// union. Used only at codec ingestion boundaries.
func FromInterface(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case float64:
		return Float64(x)
	case float32:
		return Float32(x)
	case int:
		return Int64(int64(x))
	case int64:
		return Int64(x)
	case string:
		return String(x)
	case []interface{}:
		items := make([]Value, len(x))
		for i, it := range x {
			items[i] = FromInterface(it)
		}
		elem := Dt(KindString)
		if len(items) > 0 {
			elem = items[0].DataType()
		}
		return NewList(elem, items)
	case map[string]interface{}:
		fields := make([]FieldDescriptor, 0, len(x))
		items := make([]Value, 0, len(x))
		for k, v := range x {
			val := FromInterface(v)
			fields = append(fields, FieldDescriptor{Name: k, Type: val.DataType(), Nullable: true})
			items = append(items, val)
		}
		return NewStruct(FieldSet{Fields: fields}, items)
	default:
		return Null()
	}
}
