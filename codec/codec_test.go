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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/value"
)

func testSchema() *value.Schema {
	return value.NewSchema([]value.ColumnSchema{
		{SourceName: "s", ColumnName: "a", Type: value.Dt(value.KindInt64)},
		{SourceName: "s", ColumnName: "b", Type: value.Dt(value.KindString)},
	})
}

func TestJSONDecodeEncodeRoundTrip(t *testing.T) {
	schema := testSchema()
	dec, err := NewDecoder("json", schema, nil)
	require.NoError(t, err)

	batch, err := dec.Decode([]byte(`{"a": 10, "b": "hi"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, batch.NumRows())
	assert.Equal(t, int64(10), batch.Columns[0].Values[0].AsInt())
	assert.Equal(t, "hi", batch.Columns[1].Values[0].AsString())

	enc, err := NewEncoder("json", nil)
	require.NoError(t, err)
	out, err := enc.Encode(batch)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"hi"`)
}

func TestJSONDecodeArrayPayload(t *testing.T) {
	schema := testSchema()
	dec, _ := NewDecoder("json", schema, nil)
	batch, err := dec.Decode([]byte(`[{"a":1,"b":"x"},{"a":2,"b":"y"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, batch.NumRows())
}

func TestJSONDecodeInvalidPayload(t *testing.T) {
	schema := testSchema()
	dec, _ := NewDecoder("json", schema, nil)
	_, err := dec.Decode([]byte(`not json`))
	assert.Error(t, err)
	var ce *CodecError
	assert.ErrorAs(t, err, &ce)
}

func TestRawDecoder(t *testing.T) {
	schema := value.NewSchema([]value.ColumnSchema{{ColumnName: "line", Type: value.Dt(value.KindString)}})
	dec, _ := NewDecoder("raw", schema, nil)
	batch, err := dec.Decode([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", batch.Columns[0].Values[0].AsString())
}

func TestUnknownKind(t *testing.T) {
	_, err := NewDecoder("nope", testSchema(), nil)
	assert.Error(t, err)
}
