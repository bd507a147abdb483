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
	"fmt"

	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/codec"
	"github.com/flowsql/flowsql/config"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/physical"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
	"github.com/flowsql/flowsql/window"
)

// baseChannelCapacity and perDownstreamIncrement give each processor's
// output broadcaster its per-subscriber channel size: base_capacity +
// downstream_count * per_downstream_increment, so a node feeding many
// consumers (a shared upstream of a multi-sink plan) backs off under
// load no faster than one feeding a single consumer.
const (
	baseChannelCapacity    = 1024
	perDownstreamIncrement = 256
)

// ConnectorResolver materializes live connectors for the source and
// sink bindings a physical plan references. The connector package
// ships no concrete wire transport (its doc comment is explicit:
// MQTT/other I/O is out of scope), so graph building always goes
// through a resolver rather than assuming one exists; DefaultResolver
// covers only what needs no external transport.
type ConnectorResolver interface {
	Source(binding *catalog.SourceBinding) (connector.SourceConnector, error)
	Sink(cfg connector.SinkConnectorConfig) (connector.SinkConnector, error)
}

// DefaultResolver handles SinkNop directly and refuses everything
// else. A deployment wires its own resolver (MQTT client, a custom
// transport) for real sources and sinks.
type DefaultResolver struct{}

func (DefaultResolver) Source(binding *catalog.SourceBinding) (connector.SourceConnector, error) {
	return nil, fmt.Errorf("graph: no source connector available for %q (transport %q)", binding.Name, binding.Transport.Kind)
}

func (DefaultResolver) Sink(cfg connector.SinkConnectorConfig) (connector.SinkConnector, error) {
	switch cfg.Kind {
	case connector.SinkNop:
		return connector.NopSink{}, nil
	default:
		return nil, fmt.Errorf("graph: no sink connector available for kind %q", cfg.Kind)
	}
}

// Graph is a fully wired, not-yet-running processor graph: one
// processor.Node per physical.Node, connected exactly as the physical
// DAG describes.
type Graph struct {
	Roots         []Node
	ResultCollect Node // nil if the plan has no forwarding sink
	All           []Node
	Limit         int
}

// Build instantiates one processor.Node per node of plan, wiring each
// one's input(s) to its upstream's output broadcaster(s), sized per
// config.Default()'s buffer settings.
func Build(plan *physical.Plan, registry *shared.Registry, resolver ConnectorResolver) (*Graph, error) {
	return BuildWithConfig(plan, registry, resolver, config.Default())
}

// BuildWithConfig is Build with an explicit PerformanceConfig: its
// BufferConfig overrides the base_capacity half of the channel-capacity
// formula (base_capacity + downstream_count * per_downstream_increment),
// so a deployment's --config can trade memory for backpressure headroom
// without touching code.
func BuildWithConfig(plan *physical.Plan, registry *shared.Registry, resolver ConnectorResolver, perf config.PerformanceConfig) (*Graph, error) {
	refs := countRefs(plan)
	built := make(map[physical.Node]Node)
	var all []Node
	base := perf.Buffer.DataChannelSize
	if base <= 0 {
		base = baseChannelCapacity
	}

	var build func(n physical.Node) (Node, error)
	build = func(n physical.Node) (Node, error) {
		if p, ok := built[n]; ok {
			return p, nil
		}
		capacity := channelCapacityWithBase(refs, n, base)

		var p Node
		var err error
		switch v := n.(type) {
		case *physical.DataSourceNode:
			var conn connector.SourceConnector
			conn, err = resolver.Source(v.Binding)
			if err == nil {
				p = NewSourceProc(v.PlanIndex(), conn, capacity)
			}

		case *physical.DecoderNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				var dec codec.Decoder
				if dec, err = codec.NewDecoder(v.Kind, v.OutputSchema(), v.Props); err == nil {
					p = NewDecoderProc(v.PlanIndex(), in.Output(), dec, capacity)
				}
			}

		case *physical.FilterNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p = NewFilterProc(v.PlanIndex(), in.Output(), v.Predicate, capacity)
			}

		case *physical.ProjectNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p = NewProjectProc(v.PlanIndex(), in.Output(), v.Exprs, v.Fields, v.OutputSchema(), capacity)
			}

		case *physical.EncoderNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				var enc codec.Encoder
				if enc, err = codec.NewEncoder(v.Kind, v.Props); err == nil {
					p = NewEncoderProc(v.PlanIndex(), in.Output(), enc, capacity)
				}
			}

		case *physical.BatchNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p = NewBatchProc(v.PlanIndex(), in.Output(), v.Count, v.Duration, capacity)
			}

		case *physical.DataSinkNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				var sinkConn connector.SinkConnector
				if sinkConn, err = resolver.Sink(v.Config); err == nil {
					p = NewSinkProc(v.PlanIndex(), in.Output(), sinkConn, v.Config.ForwardToResult, capacity)
				}
			}

		case *physical.ResultCollectNode:
			inputs := make([]<-chan shared.StreamData, len(v.From))
			for i, f := range v.From {
				var fp Node
				if fp, err = build(f); err != nil {
					break
				}
				inputs[i] = fp.Output()
			}
			if err == nil {
				p = NewResultCollectProc(v.PlanIndex(), inputs, capacity)
			}

		case *physical.SharedStreamNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p, err = NewSharedStreamProc(v.PlanIndex(), in.Output(), registry, v.Topic, capacity)
			}

		case *physical.EventtimeWatermarkNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p, err = NewEventtimeWatermarkProc(v.PlanIndex(), in.Output(), v.OutputSchema(), v.Column, v.TimeUnit, v.AllowedLateness, v.LatePolicy, capacity)
			}

		case *physical.ProcessTimeWatermarkNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p = NewProcessTimeWatermarkProc(v.PlanIndex(), in.Output(), v.Interval, capacity)
			}

		case *physical.StreamingAggregationNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				var spec *window.Spec
				if v.Window != nil {
					var s window.Spec
					if s, err = window.FromClause(v.Window); err == nil {
						spec = &s
					}
				}
				if err == nil {
					inSchema := v.Input.OutputSchema()
					argTypes := make([]value.DataType, len(v.Aggregates))
					for i, a := range v.Aggregates {
						argTypes[i] = aggArgType(inSchema, a.Arg)
					}
					p, err = NewStreamingAggregationProc(v.PlanIndex(), in.Output(), inSchema, v.GroupBy, v.GroupNames, v.Aggregates, argTypes, spec, v.EventTimeColumn, v.EventTimeUnit, v.OutputSchema(), capacity)
				}
			}

		case *physical.StatefulFunctionNode:
			var in Node
			if in, err = build(v.Input); err == nil {
				p = NewStatefulFunctionProc(v.PlanIndex(), in.Output(), v.Calls, v.OutputSchema(), capacity)
			}

		default:
			err = fmt.Errorf("graph: unsupported physical node kind %T", n)
		}

		if err != nil {
			return nil, err
		}
		built[n] = p
		all = append(all, p)
		return p, nil
	}

	roots := make([]Node, len(plan.Roots))
	for i, r := range plan.Roots {
		p, err := build(r)
		if err != nil {
			return nil, err
		}
		roots[i] = p
	}

	var resultCollect Node
	if plan.ResultCollect != nil {
		rc, err := build(plan.ResultCollect)
		if err != nil {
			return nil, err
		}
		resultCollect = rc
	}

	return &Graph{Roots: roots, ResultCollect: resultCollect, All: all, Limit: plan.Limit}, nil
}

// countRefs counts, for every physical node reachable from plan, how
// many other nodes name it as an input -- the downstream_count the
// channel-capacity formula scales on.
func countRefs(plan *physical.Plan) map[physical.Node]int {
	refs := make(map[physical.Node]int)
	visited := make(map[physical.Node]bool)
	var walk func(n physical.Node)
	walk = func(n physical.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, in := range n.Inputs() {
			refs[in]++
			walk(in)
		}
	}
	for _, r := range plan.Roots {
		walk(r)
	}
	if plan.ResultCollect != nil {
		walk(plan.ResultCollect)
	}
	return refs
}

func channelCapacity(refs map[physical.Node]int, n physical.Node) int {
	return channelCapacityWithBase(refs, n, baseChannelCapacity)
}

func channelCapacityWithBase(refs map[physical.Node]int, n physical.Node, base int) int {
	c := refs[n]
	if c < 1 {
		c = 1
	}
	return base + perDownstreamIncrement*c
}

// aggArgType resolves one aggregate call's argument datatype against
// the pre-aggregation schema, for aggregate.Spec.ArgType (which
// aggregate.NewAccumulator does not read). count(*) (Arg == nil) never
// reads its argument, so its declared type is arbitrary.
func aggArgType(schema *value.Schema, arg expr.ScalarExpr) value.DataType {
	if arg == nil {
		return value.Dt(value.KindInt64)
	}
	if cr, ok := arg.(expr.ColumnRef); ok && cr.Index >= 0 && cr.Index < schema.Len() {
		return schema.Columns[cr.Index].Type
	}
	return value.Dt(value.KindFloat64)
}
