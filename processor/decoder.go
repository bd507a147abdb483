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

import (
	"context"
	"fmt"

	"github.com/flowsql/flowsql/codec"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
)

// DecoderProc turns raw-payload batches into typed batches against a
// fixed output schema, via a codec.Decoder resolved once at build time.
type DecoderProc struct {
	base
	input <-chan shared.StreamData
	dec   codec.Decoder
}

// NewDecoderProc builds a decoder processor. capacity is this node's
// output broadcaster's per-subscriber channel size.
func NewDecoderProc(idx int, input <-chan shared.StreamData, dec codec.Decoder, capacity int) *DecoderProc {
	return &DecoderProc{base: newBase(idx, "decoder", capacity), input: input, dec: dec}
}

func (p *DecoderProc) Run(ctx context.Context) {
	runTransform(ctx, &p.base, p.input, p.decodeBatch)
}

func (p *DecoderProc) decodeBatch(raw *value.RecordBatch) (*value.RecordBatch, error) {
	payloads := rawPayloads(raw)
	var parts []*value.RecordBatch
	for _, payload := range payloads {
		decoded, err := p.dec.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("decoder: %w", err)
		}
		if decoded != nil && decoded.NumRows() > 0 {
			parts = append(parts, decoded)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return concatBatches(parts)
}

// concatBatches stacks same-schema batches row-wise. Used by Decoder,
// where one raw-payload batch may contain several payloads (a JSON
// array source emits one payload per item, batched upstream for
// efficiency), each decoding to its own small batch.
func concatBatches(parts []*value.RecordBatch) (*value.RecordBatch, error) {
	schema := parts[0].Schema
	cols := make([]value.Column, schema.Len())
	for i, cs := range schema.Columns {
		cols[i] = value.Column{SourceName: cs.SourceName, Name: cs.ColumnName}
	}
	for _, part := range parts {
		for i := range cols {
			cols[i].Values = append(cols[i].Values, part.Columns[i].Values...)
		}
	}
	return value.NewRecordBatch(schema, cols)
}
