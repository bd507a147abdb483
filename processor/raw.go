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

package processor

import "github.com/flowsql/flowsql/value"

// rawColumn is the single column name a byte payload rides under
// between DataSource/Decoder and Encoder/Batch/DataSink: an arbitrary
// []byte loses nothing converted to a Go string (strings are just byte
// sequences), so one column of KindString carries raw payloads through
// the same RecordBatch edges typed data flows on, without a dedicated
// bytes Kind in the value package.
const rawColumn = "_payload"

var rawSchema = value.NewSchema([]value.ColumnSchema{{ColumnName: rawColumn, Type: value.Dt(value.KindString)}})

// newRawBatch wraps a slice of byte payloads as a one-column
// RecordBatch, one row per payload.
func newRawBatch(payloads [][]byte) *value.RecordBatch {
	values := make([]value.Value, len(payloads))
	for i, p := range payloads {
		values[i] = value.String(string(p))
	}
	b, _ := value.NewRecordBatch(rawSchema, []value.Column{{Name: rawColumn, Values: values}})
	return b
}

// rawPayloads unwraps a raw RecordBatch (as newRawBatch built) back
// into byte payloads.
func rawPayloads(b *value.RecordBatch) [][]byte {
	if b == nil || b.NumCols() == 0 {
		return nil
	}
	col := b.Columns[0]
	out := make([][]byte, len(col.Values))
	for i, v := range col.Values {
		out[i] = []byte(v.AsString())
	}
	return out
}
