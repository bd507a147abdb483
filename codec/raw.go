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

import "github.com/flowsql/flowsql/value"

// rawDecoder wraps a payload as a single-column, single-row batch
// whose sole column holds the raw string, for sources that only ever
// carry unstructured text.
type rawDecoder struct {
	schema *value.Schema
	props  map[string]interface{}
}

func newRawDecoder(schema *value.Schema, props map[string]interface{}) (Decoder, error) {
	return &rawDecoder{schema: schema, props: props}, nil
}

func (d *rawDecoder) Decode(payload []byte) (*value.RecordBatch, error) {
	col := d.schema.Columns[0]
	return value.NewRecordBatch(d.schema, []value.Column{
		{SourceName: col.SourceName, Name: col.ColumnName, Values: []value.Value{value.String(string(payload))}},
	})
}

func (d *rawDecoder) Kind() string                  { return "raw" }
func (d *rawDecoder) Props() map[string]interface{} { return d.props }

// rawEncoder concatenates every row's first column as raw bytes,
// newline-separated.
type rawEncoder struct {
	props map[string]interface{}
}

func newRawEncoder(props map[string]interface{}) (Encoder, error) {
	return &rawEncoder{props: props}, nil
}

func (e *rawEncoder) Encode(batch *value.RecordBatch) ([]byte, error) {
	var out []byte
	for r := 0; r < batch.NumRows(); r++ {
		if r > 0 {
			out = append(out, '\n')
		}
		out = append(out, []byte(batch.Columns[0].Values[r].String())...)
	}
	return out, nil
}

func (e *rawEncoder) Kind() string                  { return "raw" }
func (e *rawEncoder) Props() map[string]interface{} { return e.props }
