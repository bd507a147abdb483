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
	"github.com/flowsql/flowsql/physical"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
)

// ProjectProc evaluates Exprs column-wise against each input row,
// producing OutputSchema's columns in the field order the physical
// planner assigned.
type ProjectProc struct {
	base
	input  <-chan shared.StreamData
	exprs  []expr.ScalarExpr
	fields []physical.ProjectField
	schema *value.Schema
}

func NewProjectProc(idx int, input <-chan shared.StreamData, exprs []expr.ScalarExpr, fields []physical.ProjectField, schema *value.Schema, capacity int) *ProjectProc {
	return &ProjectProc{base: newBase(idx, "project", capacity), input: input, exprs: exprs, fields: fields, schema: schema}
}

func (p *ProjectProc) Run(ctx context.Context) {
	runTransform(ctx, &p.base, p.input, p.apply)
}

func (p *ProjectProc) apply(b *value.RecordBatch) (*value.RecordBatch, error) {
	n := b.NumRows()
	cols := make([]value.Column, len(p.exprs))
	for c, e := range p.exprs {
		vals := make([]value.Value, n)
		for i := 0; i < n; i++ {
			v, err := e.Eval(b.Row(i))
			if err != nil {
				return nil, fmt.Errorf("project: column %d: %w", c, err)
			}
			vals[i] = v
		}
		cols[c] = value.Column{SourceName: p.fields[c].SourceName, Name: p.fields[c].Name, Values: vals}
	}
	return value.NewRecordBatch(p.schema, cols)
}
