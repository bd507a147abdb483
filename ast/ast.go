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

// Package ast defines the shape of a parsed SQL statement that the
// logical planner consumes. The rsql package supplies the concrete
// tokenizer/parser producing this shape, but logical.Plan only ever
// depends on this package, never on rsql.
package ast

// SelectStmt is a parsed SELECT statement: select fields, an optional
// HAVING expression and an aggregate
// mapping from generated output name to the original aggregate call
// the parser recognized.
type SelectStmt struct {
	Distinct bool

	// From names the source streams referenced in FROM, in order.
	From []string

	SelectFields []SelectField

	Where Expr

	// GroupBy holds the plain grouping expressions (column refs),
	// excluding any window-function call, which is split out into
	// Window.
	GroupBy []Expr

	// Window is non-nil when one of the GROUP BY expressions was a
	// window function call (tumblingwindow/countwindow/slidingwindow/
	// sessionwindow).
	Window *WindowClause

	Having Expr

	// AggregateMappings maps a generated output column name
	// (e.g. "col_0") to the original aggregate expression the parser
	// recognized in SELECT/HAVING, preserving insertion order via
	// AggregateOrder.
	AggregateMappings map[string]*AggCall
	AggregateOrder    []string

	// StatefulCalls lists calls the parser determined are stateful
	// (their accumulator depends on prior rows within a partition),
	// e.g. LAG, CHANGED_COL.
	StatefulCalls []*StatefulCall

	Limit int // 0 means unset
}

// SelectField is one item of the SELECT list.
type SelectField struct {
	Expr  Expr
	Alias string
}

// AggCall is a recognized aggregate function call, lifted out of its
// surrounding expression and replaced by a reference to OutputName.
type AggCall struct {
	FuncName   string
	Arg        Expr // nil for count(*)
	OutputName string
}

// StatefulCall is a recognized stateful function call.
type StatefulCall struct {
	FuncName    string
	Args        []Expr
	PartitionBy []Expr
	OutputName  string
}

// WindowClause describes a GROUP BY window function.
type WindowClause struct {
	Kind   string // "tumbling" | "count" | "sliding" | "session" | "state"
	Params []interface{}

	// GroupByKeys are the additional plain GROUP BY columns alongside
	// the window function, e.g. GROUP BY deviceId, TumblingWindow('5s').
	GroupByKeys []Expr
}

// Expr is the closed expression variant the parser produces. It is
// pre-resolution: column references are by name, not index; the
// logical planner resolves names against the catalog schema and lowers
// Expr into expr.ScalarExpr (index-based) while building the plan
// tree.
type Expr interface {
	isExpr()
}

type ColumnRefExpr struct {
	Source string // may be empty (unqualified reference)
	Name   string
}

type LiteralExpr struct {
	Text string // raw literal text; caller infers type
	Kind LiteralKind
}

type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralString
	LiteralBool
)

type UnaryExpr struct {
	Op      string
	Operand Expr
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

type CallExpr struct {
	FuncName string
	Args     []Expr
}

type CaseExpr struct {
	CaseOperand Expr // nil for searched CASE
	Whens       []WhenClause
	Else        Expr
}

type WhenClause struct {
	Cond   Expr
	Result Expr
}

func (*ColumnRefExpr) isExpr() {}
func (*LiteralExpr) isExpr()   {}
func (*UnaryExpr) isExpr()     {}
func (*BinaryExpr) isExpr()    {}
func (*CallExpr) isExpr()      {}
func (*CaseExpr) isExpr()      {}
