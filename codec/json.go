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

package codec

import (
	"encoding/json"

	"github.com/flowsql/flowsql/value"
)

// jsonDecoder decodes one JSON object (or a JSON array of objects) per
// payload into a single-row (or multi-row) RecordBatch against a fixed
// schema.
type jsonDecoder struct {
	schema *value.Schema
	props  map[string]interface{}
}

func newJSONDecoder(schema *value.Schema, props map[string]interface{}) (Decoder, error) {
	return &jsonDecoder{schema: schema, props: props}, nil
}

func (d *jsonDecoder) Decode(payload []byte) (*value.RecordBatch, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(payload, &rows); err != nil {
		var single map[string]interface{}
		if err2 := json.Unmarshal(payload, &single); err2 != nil {
			return nil, &CodecError{Kind: d.Kind(), Message: "invalid json payload", Err: err}
		}
		rows = []map[string]interface{}{single}
	}

	cols := make([]value.Column, d.schema.Len())
	for i, cs := range d.schema.Columns {
		cols[i] = value.Column{SourceName: cs.SourceName, Name: cs.ColumnName, Values: make([]value.Value, len(rows))}
	}
	for r, row := range rows {
		tuple := value.RowFromJSONMap(d.schema, row)
		for c, v := range tuple.Values() {
			cols[c].Values[r] = v
		}
	}
	return value.NewRecordBatch(d.schema, cols)
}

func (d *jsonDecoder) Kind() string                     { return "json" }
func (d *jsonDecoder) Props() map[string]interface{}    { return d.props }

// jsonEncoder serializes a RecordBatch into a JSON array of objects.
type jsonEncoder struct {
	props map[string]interface{}
}

func newJSONEncoder(props map[string]interface{}) (Encoder, error) {
	return &jsonEncoder{props: props}, nil
}

func (e *jsonEncoder) Encode(batch *value.RecordBatch) ([]byte, error) {
	rows := make([]map[string]interface{}, batch.NumRows())
	for r := 0; r < batch.NumRows(); r++ {
		m := make(map[string]interface{}, batch.NumCols())
		for c, col := range batch.Columns {
			m[col.Name] = toJSONValue(col.Values[r])
		}
		rows[r] = m
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, &CodecError{Kind: e.Kind(), Message: "marshal failed", Err: err}
	}
	return b, nil
}

func toJSONValue(v value.Value) interface{} {
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
			out[i] = toJSONValue(it)
		}
		return out
	case value.KindStruct:
		s, _ := v.AsStruct()
		m := make(map[string]interface{}, len(s.Items))
		for i, f := range s.Fields.Fields {
			m[f.Name] = toJSONValue(s.Items[i])
		}
		return m
	default:
		if v.Kind() >= value.KindUint8 && v.Kind() <= value.KindUint64 {
			return v.AsUint()
		}
		return v.AsInt()
	}
}

func (e *jsonEncoder) Kind() string                  { return "json" }
func (e *jsonEncoder) Props() map[string]interface{} { return e.props }
