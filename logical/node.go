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

// Package logical builds the logical plan tree: a name-resolved,
// schema-carrying tree of DataSource/Filter/Project/Window/
// Aggregation/StatefulFunction/Tail/DataSink nodes, lowered from a
// parsed ast.SelectStmt. Every node gets a stable, monotonically
// increasing index assigned in build order, which the physical
// planner and the plan snapshot codec both rely on for deterministic,
// reproducible plan fingerprints.
package logical

import (
	"github.com/flowsql/flowsql/ast"
	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/value"
)

// Kind tags the closed set of logical node shapes.
type Kind int

const (
	KindDataSource Kind = iota
	KindFilter
	KindProject
	KindWindow
	KindAggregation
	KindStatefulFunction
	KindTail
	KindDataSink
)

func (k Kind) String() string {
	switch k {
	case KindDataSource:
		return "data_source"
	case KindFilter:
		return "filter"
	case KindProject:
		return "project"
	case KindWindow:
		return "window"
	case KindAggregation:
		return "aggregation"
	case KindStatefulFunction:
		return "stateful_function"
	case KindTail:
		return "tail"
	case KindDataSink:
		return "data_sink"
	default:
		return "unknown"
	}
}

// Node is the common shape every logical plan node satisfies.
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

func (b *base) PlanIndex() int             { return b.idx }
func (b *base) OutputSchema() *value.Schema { return b.schema }

// DataSourceNode reads from one named, cataloged source.
type DataSourceNode struct {
	base
	SourceName string
	Binding    *catalog.SourceBinding
}

func (n *DataSourceNode) NodeKind() Kind  { return KindDataSource }
func (n *DataSourceNode) Inputs() []Node  { return nil }

// FilterNode keeps rows for which Predicate evaluates truthy,
// dropping rows where it evaluates to null or false.
type FilterNode struct {
	base
	Input     Node
	Predicate expr.ScalarExpr
}

func (n *FilterNode) NodeKind() Kind { return KindFilter }
func (n *FilterNode) Inputs() []Node { return []Node{n.Input} }

// ProjectNode evaluates Exprs against each input row, producing
// OutputSchema()'s columns in order.
type ProjectNode struct {
	base
	Input   Node
	Exprs   []expr.ScalarExpr
	Aliases []string
}

func (n *ProjectNode) NodeKind() Kind { return KindProject }
func (n *ProjectNode) Inputs() []Node { return []Node{n.Input} }

// WindowNode assigns each row to one or more window instances per
// Spec, without yet aggregating them.
type WindowNode struct {
	base
	Input Node
	Spec  *ast.WindowClause
	Keys  []expr.ScalarExpr // resolved GroupByKeys alongside the window
}

func (n *WindowNode) NodeKind() Kind { return KindWindow }
func (n *WindowNode) Inputs() []Node { return []Node{n.Input} }

// AggregateSpec names one output column of an AggregationNode.
type AggregateSpec struct {
	FuncName   string
	Arg        expr.ScalarExpr // nil for count(*)
	OutputName string
}

// AggregationNode groups rows by GroupBy and computes Aggregates per
// group (per window, if the input is windowed).
type AggregationNode struct {
	base
	Input      Node
	GroupBy    []expr.ScalarExpr
	GroupNames []string
	Aggregates []AggregateSpec
}

func (n *AggregationNode) NodeKind() Kind { return KindAggregation }
func (n *AggregationNode) Inputs() []Node { return []Node{n.Input} }

// StatefulSpec names one per-partition stateful function call.
type StatefulSpec struct {
	FuncName    string
	Args        []expr.ScalarExpr
	PartitionBy []expr.ScalarExpr
	OutputName  string
}

// StatefulFunctionNode evaluates row-order-dependent functions (lag,
// change detection) that must see every row of their partition in
// arrival order, independent of any window.
type StatefulFunctionNode struct {
	base
	Input Node
	Calls []StatefulSpec
}

func (n *StatefulFunctionNode) NodeKind() Kind { return KindStatefulFunction }
func (n *StatefulFunctionNode) Inputs() []Node { return []Node{n.Input} }

// TailNode caps the number of rows that pass through, per LIMIT.
type TailNode struct {
	base
	Input Node
	Limit int
}

func (n *TailNode) NodeKind() Kind { return KindTail }
func (n *TailNode) Inputs() []Node { return []Node{n.Input} }

// DataSinkNode delivers rows to one configured sink.
type DataSinkNode struct {
	base
	Input  Node
	Config connector.SinkConnectorConfig
}

func (n *DataSinkNode) NodeKind() Kind { return KindDataSink }
func (n *DataSinkNode) Inputs() []Node { return []Node{n.Input} }

// Plan is a built logical tree plus the bookkeeping the physical
// planner needs: the total node count (for stable indexing) and the
// original statement it was lowered from (for diagnostics). Roots
// holds one DataSinkNode per configured sink; every root shares the
// same upstream chain (fan-out happens only at the sink boundary, per
// spec's non-suppressing multi-sink default), so NodeCount still
// counts each shared node once.
type Plan struct {
	Roots     []Node
	NodeCount int
	Source    *ast.SelectStmt
}
