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

package physical

import (
	"fmt"
	"time"

	"github.com/flowsql/flowsql/ast"
	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/logical"
)

const defaultAllowedLateness = time.Second

// builder lowers a logical.Plan into a physical.Plan. memo shares a
// single physical node across every logical node reached from more
// than one root, so the DataSource/Decoder chain common to a
// multi-sink plan is built exactly once.
type builder struct {
	nextIdx int
	memo    map[logical.Node]Node
}

func (b *builder) idx() int {
	i := b.nextIdx
	b.nextIdx++
	return i
}

// Lower lowers a built logical.Plan into a physical.Plan: one physical
// node per logical node, with a Decoder inserted
// above each DataSource, an Encoder (and optional Batch) inserted
// above each DataSink, a logical Window+Aggregation pair split into a
// watermark node plus StreamingAggregation, and StatefulFunction nodes
// hoisted below any Filter that cannot reference their not-yet-
// computed output columns.
func Lower(plan *logical.Plan) (*Plan, error) {
	b := &builder{nextIdx: 0, memo: make(map[logical.Node]Node)}

	roots := make([]Node, len(plan.Roots))
	var forwarding []Node
	limit := 0
	for i, r := range plan.Roots {
		sinkLogical, ok := r.(*logical.DataSinkNode)
		if !ok {
			return nil, &PlanError{Message: fmt.Sprintf("plan root is %T, want *logical.DataSinkNode", r), PlanIndex: r.PlanIndex()}
		}
		if t, ok := sinkLogical.Input.(*logical.TailNode); ok {
			limit = t.Limit
		}
		node, err := b.lowerSink(sinkLogical)
		if err != nil {
			return nil, err
		}
		roots[i] = node
		if sinkLogical.Config.ForwardToResult {
			forwarding = append(forwarding, node)
		}
	}

	out := &Plan{Roots: roots, NodeCount: b.nextIdx, Logical: plan, Limit: limit}
	if len(forwarding) > 0 {
		out.ResultCollect = &ResultCollectNode{base: base{idx: b.idx(), schema: forwarding[0].OutputSchema()}, From: forwarding}
		out.NodeCount = b.nextIdx
	}
	return out, nil
}

func (b *builder) lowerSink(n *logical.DataSinkNode) (Node, error) {
	input, err := b.lower(n.Input)
	if err != nil {
		return nil, err
	}
	encKind := n.Config.EncoderKind
	if encKind == "" {
		encKind = "json"
	}
	enc := &EncoderNode{base: base{idx: b.idx(), schema: input.OutputSchema()}, Input: input, Kind: encKind}
	var sinkInput Node = enc
	if n.Config.Common.WantsBatching() {
		sinkInput = &BatchNode{
			base:     base{idx: b.idx(), schema: enc.OutputSchema()},
			Input:    enc,
			Count:    n.Config.Common.BatchCount,
			Duration: n.Config.Common.BatchDuration,
		}
	}
	return &DataSinkNode{base: base{idx: b.idx(), schema: sinkInput.OutputSchema()}, Input: sinkInput, Config: n.Config}, nil
}

// lower dispatches by logical node kind and memoizes the result by
// logical node identity, so a node with multiple physical consumers
// (shared upstream of a multi-sink plan) is only lowered once.
func (b *builder) lower(n logical.Node) (Node, error) {
	if cached, ok := b.memo[n]; ok {
		return cached, nil
	}
	out, err := b.lowerUncached(n)
	if err != nil {
		return nil, err
	}
	b.memo[n] = out
	return out, nil
}

func (b *builder) lowerUncached(n logical.Node) (Node, error) {
	switch v := n.(type) {
	case *logical.DataSourceNode:
		return b.lowerDataSource(v)
	case *logical.FilterNode:
		return b.lowerFilter(v)
	case *logical.ProjectNode:
		return b.lowerProject(v)
	case *logical.StatefulFunctionNode:
		return b.lowerStatefulFunction(v)
	case *logical.AggregationNode:
		return b.lowerAggregation(v)
	case *logical.TailNode:
		// LIMIT has no dedicated processor kind; it is carried on
		// Plan.Limit instead (see Lower), so a TailNode simply passes
		// its input through unchanged here.
		return b.lower(v.Input)
	default:
		return nil, &PlanError{Message: fmt.Sprintf("unsupported logical node %T", n), PlanIndex: n.PlanIndex()}
	}
}

func (b *builder) lowerDataSource(n *logical.DataSourceNode) (Node, error) {
	src := &DataSourceNode{base: base{idx: b.idx(), schema: n.Binding.Schema}, SourceName: n.SourceName, Binding: n.Binding}
	decKind := n.Binding.DecoderKind
	if decKind == "" {
		decKind = "json"
	}
	return &DecoderNode{
		base:  base{idx: b.idx(), schema: n.OutputSchema()},
		Input: src,
		Kind:  decKind,
		Props: n.Binding.DecoderProps,
	}, nil
}

// lowerFilter lowers a Filter. When its logical input is a
// StatefulFunctionNode (a HAVING filter over stateful output, which may
// reference the stateful columns), the stateful function is lowered
// and memoized first and the filter is applied to its output, keeping
// the logical order. WHERE hoisting is done in lowerStatefulFunction.
func (b *builder) lowerFilter(n *logical.FilterNode) (Node, error) {
	if sf, ok := n.Input.(*logical.StatefulFunctionNode); ok {
		hoisted, err := b.lowerStatefulFunctionFrom(sf, sf.Input)
		if err != nil {
			return nil, err
		}
		b.memo[sf] = hoisted
		return &FilterNode{base: base{idx: b.idx(), schema: n.OutputSchema()}, Input: hoisted, Predicate: n.Predicate}, nil
	}
	input, err := b.lower(n.Input)
	if err != nil {
		return nil, err
	}
	return &FilterNode{base: base{idx: b.idx(), schema: n.OutputSchema()}, Input: input, Predicate: n.Predicate}, nil
}

// lowerStatefulFunction implements stateful hoisting: the logical
// planner places the WHERE Filter directly below the stateful node, and
// that predicate was resolved against the pre-stateful schema, so the
// stateful update runs on the filter's input and the filter is applied
// to its output, so state sees rows the filter rejects.
func (b *builder) lowerStatefulFunction(n *logical.StatefulFunctionNode) (Node, error) {
	if f, ok := n.Input.(*logical.FilterNode); ok {
		hoisted, err := b.lowerStatefulFunctionFrom(n, f.Input)
		if err != nil {
			return nil, err
		}
		return &FilterNode{base: base{idx: b.idx(), schema: n.OutputSchema()}, Input: hoisted, Predicate: f.Predicate}, nil
	}
	return b.lowerStatefulFunctionFrom(n, n.Input)
}

func (b *builder) lowerStatefulFunctionFrom(n *logical.StatefulFunctionNode, from logical.Node) (Node, error) {
	input, err := b.lower(from)
	if err != nil {
		return nil, err
	}
	return &StatefulFunctionNode{base: base{idx: b.idx(), schema: n.OutputSchema()}, Input: input, Calls: n.Calls}, nil
}

func (b *builder) lowerProject(n *logical.ProjectNode) (Node, error) {
	input, err := b.lower(n.Input)
	if err != nil {
		return nil, err
	}
	inSchema := input.OutputSchema()
	fields := make([]ProjectField, len(n.Aliases))
	for i, a := range n.Aliases {
		src := ""
		if cr, ok := n.Exprs[i].(expr.ColumnRef); ok && cr.Index >= 0 && cr.Index < inSchema.Len() {
			src = inSchema.Columns[cr.Index].SourceName
		}
		fields[i] = ProjectField{Name: a, SourceName: src}
	}
	return &ProjectNode{base: base{idx: b.idx(), schema: n.OutputSchema()}, Input: input, Exprs: n.Exprs, Fields: fields}, nil
}

// lowerAggregation implements the watermark split: a windowed
// aggregation becomes EventtimeWatermark (when the source declares an
// event-time binding) or ProcessTimeWatermark, each feeding a
// StreamingAggregation; an unwindowed GROUP BY lowers straight to
// StreamingAggregation with Window left nil (one perpetually-open
// group per key).
func (b *builder) lowerAggregation(n *logical.AggregationNode) (Node, error) {
	winNode, windowed := n.Input.(*logical.WindowNode)
	var upstream logical.Node = n.Input
	if windowed {
		upstream = winNode.Input
	}
	input, err := b.lower(upstream)
	if err != nil {
		return nil, err
	}

	if windowed {
		input, err = b.insertWatermark(input, winNode)
		if err != nil {
			return nil, err
		}
	}

	var windowClause *ast.WindowClause
	var eventTimeColumn, eventTimeUnit string
	if windowed {
		windowClause = winNode.Spec
		if binding := sourceBindingOf(winNode.Input); binding != nil && binding.EventTime != nil {
			eventTimeColumn = binding.EventTime.Column
			eventTimeUnit = binding.EventTime.TimeUnit
		}
	}
	return &StreamingAggregationNode{
		base:            base{idx: b.idx(), schema: n.OutputSchema()},
		Input:           input,
		Window:          windowClause,
		GroupBy:         n.GroupBy,
		GroupNames:      n.GroupNames,
		Aggregates:      n.Aggregates,
		EventTimeColumn: eventTimeColumn,
		EventTimeUnit:   eventTimeUnit,
	}, nil
}

func (b *builder) insertWatermark(input Node, win *logical.WindowNode) (Node, error) {
	binding := sourceBindingOf(win.Input)
	if binding != nil && binding.EventTime != nil {
		return &EventtimeWatermarkNode{
			base:            base{idx: b.idx(), schema: input.OutputSchema()},
			Input:           input,
			Column:          binding.EventTime.Column,
			TimeUnit:        binding.EventTime.TimeUnit,
			AllowedLateness: defaultAllowedLateness,
			LatePolicy:      "drop",
		}, nil
	}
	interval := windowLength(win.Spec)
	return &ProcessTimeWatermarkNode{
		base:     base{idx: b.idx(), schema: input.OutputSchema()},
		Input:    input,
		Interval: interval,
	}, nil
}

// sourceBindingOf walks down to the nearest DataSourceNode to read its
// catalog binding, since only the original source (not an intervening
// Filter/StatefulFunction) carries the event-time declaration.
func sourceBindingOf(n logical.Node) *catalog.SourceBinding {
	for n != nil {
		if ds, ok := n.(*logical.DataSourceNode); ok {
			return ds.Binding
		}
		inputs := n.Inputs()
		if len(inputs) == 0 {
			return nil
		}
		n = inputs[0]
	}
	return nil
}

func windowLength(spec *ast.WindowClause) time.Duration {
	if len(spec.Params) == 0 {
		return time.Second
	}
	s, ok := spec.Params[0].(string)
	if !ok {
		return time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
