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

	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
)

// FilterProc keeps rows for which Predicate evaluates truthy,
// suppressing a batch entirely when every row is dropped.
type FilterProc struct {
	base
	input     <-chan shared.StreamData
	predicate expr.ScalarExpr
}

func NewFilterProc(idx int, input <-chan shared.StreamData, predicate expr.ScalarExpr, capacity int) *FilterProc {
	return &FilterProc{base: newBase(idx, "filter", capacity), input: input, predicate: predicate}
}

func (p *FilterProc) Run(ctx context.Context) {
	runTransform(ctx, &p.base, p.input, p.apply)
}

func (p *FilterProc) apply(b *value.RecordBatch) (*value.RecordBatch, error) {
	keep := make([]int, 0, b.NumRows())
	for i := 0; i < b.NumRows(); i++ {
		row := b.Row(i)
		v, err := p.predicate.Eval(row)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		if !v.IsNull() && v.Kind() == value.KindBool && v.AsBool() {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, nil
	}
	if len(keep) == b.NumRows() {
		return b, nil
	}
	cols := make([]value.Column, len(b.Columns))
	for c, col := range b.Columns {
		vals := make([]value.Value, len(keep))
		for j, i := range keep {
			vals[j] = col.Values[i]
		}
		cols[c] = value.Column{SourceName: col.SourceName, Name: col.Name, Values: vals}
	}
	return value.NewRecordBatch(b.Schema, cols)
}
