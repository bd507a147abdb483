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

// Package physical lowers a logical.Plan into the physical DAG the
// processor graph builder consumes: one physical node per logical node
// plus the decoder/encoder/batch/watermark-split/fan-out machinery
// that requires, with every surviving node keeping its logical plan
// index so the snapshot codec's fingerprint stays stable across the
// lowering.
package physical

import (
	"time"

	"github.com/flowsql/flowsql/ast"
	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/value"
)

// Kind tags the closed set of physical node shapes.
type Kind int

const (
	KindDataSource Kind = iota
	KindDecoder
	KindFilter
	KindProject
	KindEncoder
	KindBatch
	KindDataSink
	KindResultCollect
	KindSharedStream
	KindEventtimeWatermark
	KindProcessTimeWatermark
	KindStreamingAggregation
	KindStatefulFunction
)

func (k Kind) String() string {
	switch k {
	case KindDataSource:
		return "data_source"
	case KindDecoder:
		return "decoder"
	case KindFilter:
		return "filter"
	case KindProject:
		return "project"
	case KindEncoder:
		return "encoder"
	case KindBatch:
		return "batch"
	case KindDataSink:
		return "data_sink"
	case KindResultCollect:
		return "result_collect"
	case KindSharedStream:
		return "shared_stream"
	case KindEventtimeWatermark:
		return "eventtime_watermark"
	case KindProcessTimeWatermark:
		return "process_time_watermark"
	case KindStreamingAggregation:
		return "streaming_aggregation"
	case KindStatefulFunction:
		return "stateful_function"
	default:
		return "unknown"
	}
}

// Node is the common shape of every physical plan node.
type Node interface {
	NodeKind() Kind
	PlanIndex() int
	OutputSchema() *value.Schema
	Inputs() []Node
}

type base struct {
	idx    int
	schema *value.Schema
}

func (b *base) PlanIndex() int              { return b.idx }
func (b *base) OutputSchema() *value.Schema { return b.schema }

// DataSourceNode reads raw byte payloads from one source's connectors.
type DataSourceNode struct {
	base
	SourceName string
	Binding    *catalog.SourceBinding
}

func (n *DataSourceNode) NodeKind() Kind { return KindDataSource }
func (n *DataSourceNode) Inputs() []Node { return nil }

// DecoderNode turns byte payloads into typed batches.
type DecoderNode struct {
	base
	Input Node
	Kind  string
	Props map[string]interface{}
}

func (n *DecoderNode) NodeKind() Kind { return KindDecoder }
func (n *DecoderNode) Inputs() []Node { return []Node{n.Input} }

// FilterNode keeps rows for which Predicate is truthy.
type FilterNode struct {
	base
	Input     Node
	Predicate expr.ScalarExpr
}

func (n *FilterNode) NodeKind() Kind { return KindFilter }
func (n *FilterNode) Inputs() []Node { return []Node{n.Input} }

// ProjectField names one output column of a ProjectNode: SourceName is
// the declared source of a pass-through column, empty for a computed
// expression.
type ProjectField struct {
	Name       string
	SourceName string
}

// ProjectNode evaluates Exprs column-wise against each input row.
type ProjectNode struct {
	base
	Input  Node
	Exprs  []expr.ScalarExpr
	Fields []ProjectField
}

func (n *ProjectNode) NodeKind() Kind { return KindProject }
func (n *ProjectNode) Inputs() []Node { return []Node{n.Input} }

// EncoderNode serializes batches to bytes.
type EncoderNode struct {
	base
	Input Node
	Kind  string
	Props map[string]interface{}
}

func (n *EncoderNode) NodeKind() Kind { return KindEncoder }
func (n *EncoderNode) Inputs() []Node { return []Node{n.Input} }

// BatchNode buffers encoded payloads, flushing on count, duration or
// an explicit Flush control signal.
type BatchNode struct {
	base
	Input    Node
	Count    int
	Duration time.Duration
}

func (n *BatchNode) NodeKind() Kind { return KindBatch }
func (n *BatchNode) Inputs() []Node { return []Node{n.Input} }

// DataSinkNode delivers payloads to one bound SinkConnector.
type DataSinkNode struct {
	base
	Input  Node
	Config connector.SinkConnectorConfig
}

func (n *DataSinkNode) NodeKind() Kind { return KindDataSink }
func (n *DataSinkNode) Inputs() []Node { return []Node{n.Input} }

// ResultCollectNode fans in every sink output that opted into
// forward_to_result, presenting a single unified stream to the
// pipeline's external result receiver.
type ResultCollectNode struct {
	base
	From []Node
}

func (n *ResultCollectNode) NodeKind() Kind { return KindResultCollect }
func (n *ResultCollectNode) Inputs() []Node { return n.From }

// SharedStreamNode publishes its input under Topic in the process-wide
// shared-stream registry (shared package), so other plans can
// subscribe without replaying data.
type SharedStreamNode struct {
	base
	Input Node
	Topic string
}

func (n *SharedStreamNode) NodeKind() Kind { return KindSharedStream }
func (n *SharedStreamNode) Inputs() []Node { return []Node{n.Input} }

// EventtimeWatermarkNode advances a monotonic watermark from a parsed
// event-time column.
type EventtimeWatermarkNode struct {
	base
	Input           Node
	Column          string
	TimeUnit        string
	AllowedLateness time.Duration
	LatePolicy      string // "drop" | "divert"
}

func (n *EventtimeWatermarkNode) NodeKind() Kind { return KindEventtimeWatermark }
func (n *EventtimeWatermarkNode) Inputs() []Node { return []Node{n.Input} }

// ProcessTimeWatermarkNode drives the watermark from a wall-clock
// ticker instead of an event-time column; it never drops rows.
type ProcessTimeWatermarkNode struct {
	base
	Input    Node
	Interval time.Duration
}

func (n *ProcessTimeWatermarkNode) NodeKind() Kind { return KindProcessTimeWatermark }
func (n *ProcessTimeWatermarkNode) Inputs() []Node { return []Node{n.Input} }

// StreamingAggregationNode maintains one accumulator per (group key,
// open window) and emits a row per group when the watermark passes
// the window's close time.
type StreamingAggregationNode struct {
	base
	Input      Node
	Window     *ast.WindowClause // nil: unwindowed GROUP BY, one perpetually-open group per key
	GroupBy    []expr.ScalarExpr
	GroupNames []string
	Aggregates []logical.AggregateSpec

	// EventTimeColumn names the input column each row's own window
	// bucket is computed from; empty when the window is process-time
	// (or the aggregation is unwindowed), in which case bucketing falls
	// back to the node's current-time estimate.
	EventTimeColumn string
	EventTimeUnit   string
}

func (n *StreamingAggregationNode) NodeKind() Kind { return KindStreamingAggregation }
func (n *StreamingAggregationNode) Inputs() []Node { return []Node{n.Input} }

// StatefulFunctionNode maintains per-partition state, updated row by
// row, exposed as additional output columns.
type StatefulFunctionNode struct {
	base
	Input Node
	Calls []logical.StatefulSpec
}

func (n *StatefulFunctionNode) NodeKind() Kind { return KindStatefulFunction }
func (n *StatefulFunctionNode) Inputs() []Node { return []Node{n.Input} }

// Plan is a lowered physical DAG: one DataSinkNode chain per
// configured sink (Roots), plus an optional ResultCollect fan-in when
// any sink forwards to the external result receiver.
type Plan struct {
	Roots         []Node
	ResultCollect *ResultCollectNode // nil if no sink has ForwardToResult set
	NodeCount     int
	Logical       *logical.Plan

	// Limit carries a LIMIT clause's row cap; there is no dedicated
	// processor kind for it. processor.Build copies it onto
	// Graph.Limit, which nothing reads, so the cap is not applied at
	// run time. 0 means unset.
	Limit int
}
