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

// EncoderProc serializes each input batch to one payload via a bound
// codec.Encoder.
type EncoderProc struct {
	base
	input <-chan shared.StreamData
	enc   codec.Encoder
}

func NewEncoderProc(idx int, input <-chan shared.StreamData, enc codec.Encoder, capacity int) *EncoderProc {
	return &EncoderProc{base: newBase(idx, "encoder", capacity), input: input, enc: enc}
}

func (p *EncoderProc) Run(ctx context.Context) {
	runTransform(ctx, &p.base, p.input, p.encodeBatch)
}

func (p *EncoderProc) encodeBatch(b *value.RecordBatch) (*value.RecordBatch, error) {
	payload, err := p.enc.Encode(b)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return newRawBatch([][]byte{payload}), nil
}
