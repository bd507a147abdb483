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

	"github.com/flowsql/flowsql/aggregate"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
)

// statefulPartition holds one StatefulFunc clone per call, per
// partition key; state is updated in row-arrival order, which a single
// sequential Run loop guarantees without further locking.
type statefulPartition struct {
	funcs []aggregate.StatefulFunc
}

// StatefulFunctionProc evaluates row-order-dependent functions (lag,
// change detection) that must see every row of their partition in
// arrival order, appending one output column per call to each row.
type StatefulFunctionProc struct {
	base
	input     <-chan shared.StreamData
	calls     []logical.StatefulSpec
	outSchema *value.Schema

	partitions map[groupKey]*statefulPartition
}

func NewStatefulFunctionProc(idx int, input <-chan shared.StreamData, calls []logical.StatefulSpec, outSchema *value.Schema, capacity int) *StatefulFunctionProc {
	return &StatefulFunctionProc{
		base:       newBase(idx, "stateful_function", capacity),
		input:      input,
		calls:      calls,
		outSchema:  outSchema,
		partitions: make(map[groupKey]*statefulPartition),
	}
}

func (p *StatefulFunctionProc) Run(ctx context.Context) {
	runTransform(ctx, &p.base, p.input, p.apply)
}

func (p *StatefulFunctionProc) apply(b *value.RecordBatch) (*value.RecordBatch, error) {
	outCols := make([][]value.Value, len(p.calls))
	for i := range outCols {
		outCols[i] = make([]value.Value, b.NumRows())
	}

	for i := 0; i < b.NumRows(); i++ {
		row := b.Row(i)
		for c, call := range p.calls {
			partKey := p.partitionKey(call, row)
			part := p.partitionFor(partKey)
			args := make([]value.Value, len(call.Args))
			for a, expr := range call.Args {
				v, err := expr.Eval(row)
				if err != nil {
					return nil, err
				}
				args[a] = v
			}
			out, err := part.funcs[c].Apply(args)
			if err != nil {
				return nil, err
			}
			outCols[c][i] = out
		}
	}

	cols := make([]value.Column, 0, b.NumCols()+len(p.calls))
	cols = append(cols, b.Columns...)
	for c, call := range p.calls {
		cols = append(cols, value.Column{Name: call.OutputName, Values: outCols[c]})
	}
	return value.NewRecordBatch(p.outSchema, cols)
}

func (p *StatefulFunctionProc) partitionKey(call logical.StatefulSpec, row []value.Value) groupKey {
	if len(call.PartitionBy) == 0 {
		return groupKey("")
	}
	vals := make([]value.Value, len(call.PartitionBy))
	for i, e := range call.PartitionBy {
		v, err := e.Eval(row)
		if err != nil {
			vals[i] = value.Null()
			continue
		}
		vals[i] = v
	}
	return makeGroupKey(vals)
}

func (p *StatefulFunctionProc) partitionFor(key groupKey) *statefulPartition {
	part, ok := p.partitions[key]
	if ok {
		return part
	}
	funcs := make([]aggregate.StatefulFunc, len(p.calls))
	for i, call := range p.calls {
		fn, err := aggregate.NewStatefulFunc(call.FuncName)
		if err != nil {
			// Only the parser's fixed set of stateful names reaches
			// here; the logical planner does not check them, so this
			// happens when one of them is not registered. Fall back to
			// a failure surfaced through Apply's error instead of
			// panicking.
			fn = &brokenStatefulFunc{err: err}
		}
		funcs[i] = fn
	}
	part = &statefulPartition{funcs: funcs}
	p.partitions[key] = part
	return part
}

type brokenStatefulFunc struct{ err error }

func (b *brokenStatefulFunc) Apply(args []value.Value) (value.Value, error) { return value.Value{}, b.err }
func (b *brokenStatefulFunc) Clone() aggregate.StatefulFunc                 { return b }
