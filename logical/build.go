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

package logical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowsql/flowsql/ast"
	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/value"
)

// builder threads the monotonic node-index counter through the lower
// pass; every call to attach assigns the next index.
type builder struct {
	stmt    *ast.SelectStmt
	cat     catalog.Catalog
	nextIdx int
}

func (b *builder) idx() int {
	i := b.nextIdx
	b.nextIdx++
	return i
}

// Build lowers a parsed SELECT statement into a logical plan tree:
// DataSource(s) -> Filter(WHERE) -> StatefulFunction -> Window ->
// Aggregation -> Filter(HAVING) -> Project -> Tail(LIMIT) -> one
// DataSinkNode per configured sink. Every node gets a stable index
// assigned in that build order.
func Build(stmt *ast.SelectStmt, cat catalog.Catalog, sinks []connector.SinkConnectorConfig) (*Plan, error) {
	if len(stmt.From) == 0 {
		return nil, &PlanError{Kind: EmptyFrom}
	}
	b := &builder{stmt: stmt, cat: cat}

	node, err := b.buildSources(stmt.From)
	if err != nil {
		return nil, err
	}

	if stmt.Where != nil {
		pred, err := resolveExpr(stmt.Where, node.OutputSchema())
		if err != nil {
			return nil, err
		}
		node = &FilterNode{base: base{idx: b.idx(), schema: node.OutputSchema()}, Input: node, Predicate: pred}
	}

	if len(stmt.StatefulCalls) > 0 {
		node, err = b.buildStatefulFunction(node)
		if err != nil {
			return nil, err
		}
	}

	windowed := stmt.Window != nil
	if windowed {
		node, err = b.buildWindow(node)
		if err != nil {
			return nil, err
		}
	}

	if windowed || len(stmt.GroupBy) > 0 || len(stmt.AggregateOrder) > 0 {
		node, err = b.buildAggregation(node)
		if err != nil {
			return nil, err
		}
	}

	if stmt.Having != nil {
		pred, err := resolveExpr(stmt.Having, node.OutputSchema())
		if err != nil {
			return nil, err
		}
		node = &FilterNode{base: base{idx: b.idx(), schema: node.OutputSchema()}, Input: node, Predicate: pred}
	}

	node, err = b.buildProject(node)
	if err != nil {
		return nil, err
	}

	if stmt.Limit > 0 {
		node = &TailNode{base: base{idx: b.idx(), schema: node.OutputSchema()}, Input: node, Limit: stmt.Limit}
	}

	roots := b.buildSinks(node, sinks)

	return &Plan{Roots: roots, NodeCount: b.nextIdx, Source: stmt}, nil
}

// buildSources lowers the FROM list into a single node: one
// DataSourceNode when there is exactly one source, a schema
// concatenation otherwise is rejected for now since the planner has no
// join operator yet.
func (b *builder) buildSources(from []string) (Node, error) {
	if len(from) != 1 {
		return nil, &PlanError{Kind: UnsupportedExpr, Detail: "multiple FROM sources require a join, which is out of scope"}
	}
	name := from[0]
	binding, ok := b.cat.GetSource(name)
	if !ok {
		return nil, &PlanError{Kind: UnknownSource, Detail: name}
	}
	return &DataSourceNode{
		base:       base{idx: b.idx(), schema: binding.Schema},
		SourceName: name,
		Binding:    binding,
	}, nil
}

func (b *builder) buildStatefulFunction(input Node) (Node, error) {
	schema := input.OutputSchema()
	calls := make([]StatefulSpec, len(b.stmt.StatefulCalls))
	fields := make([]value.ColumnSchema, 0, len(b.stmt.StatefulCalls))
	for i, c := range b.stmt.StatefulCalls {
		args := make([]expr.ScalarExpr, len(c.Args))
		for j, a := range c.Args {
			re, err := resolveExpr(a, schema)
			if err != nil {
				return nil, err
			}
			args[j] = re
		}
		part := make([]expr.ScalarExpr, len(c.PartitionBy))
		for j, p := range c.PartitionBy {
			re, err := resolveExpr(p, schema)
			if err != nil {
				return nil, err
			}
			part[j] = re
		}
		calls[i] = StatefulSpec{FuncName: c.FuncName, Args: args, PartitionBy: part, OutputName: c.OutputName}
		fields = append(fields, value.ColumnSchema{ColumnName: c.OutputName, Type: value.Dt(value.KindFloat64)})
	}
	outSchema := appendColumns(schema, fields)
	return &StatefulFunctionNode{base: base{idx: b.idx(), schema: outSchema}, Input: input, Calls: calls}, nil
}

func (b *builder) buildWindow(input Node) (Node, error) {
	schema := input.OutputSchema()
	keys := make([]expr.ScalarExpr, len(b.stmt.Window.GroupByKeys))
	for i, k := range b.stmt.Window.GroupByKeys {
		re, err := resolveExpr(k, schema)
		if err != nil {
			return nil, err
		}
		keys[i] = re
	}
	return &WindowNode{base: base{idx: b.idx(), schema: schema}, Input: input, Spec: b.stmt.Window, Keys: keys}, nil
}

// buildAggregation resolves every GROUP BY key and recognized
// aggregate call, producing a schema of (group keys..., aggregate
// outputs...) in that order — group keys first, matching how most
// SELECT lists reference them.
func (b *builder) buildAggregation(input Node) (Node, error) {
	schema := input.OutputSchema()

	var groupExprs []ast.Expr
	if b.stmt.Window != nil {
		groupExprs = b.stmt.Window.GroupByKeys
	} else {
		groupExprs = b.stmt.GroupBy
	}

	groupBy := make([]expr.ScalarExpr, len(groupExprs))
	groupNames := make([]string, len(groupExprs))
	outCols := make([]value.ColumnSchema, 0, len(groupExprs)+len(b.stmt.AggregateOrder))
	for i, g := range groupExprs {
		re, err := resolveExpr(g, schema)
		if err != nil {
			return nil, err
		}
		groupBy[i] = re
		name := columnRefName(g)
		groupNames[i] = name
		outCols = append(outCols, value.ColumnSchema{ColumnName: name, Type: columnType(schema, g)})
	}

	aggs := make([]AggregateSpec, len(b.stmt.AggregateOrder))
	for i, outName := range b.stmt.AggregateOrder {
		call := b.stmt.AggregateMappings[outName]
		var arg expr.ScalarExpr
		if call.Arg != nil {
			re, err := resolveExpr(call.Arg, schema)
			if err != nil {
				return nil, err
			}
			arg = re
		}
		aggs[i] = AggregateSpec{FuncName: call.FuncName, Arg: arg, OutputName: outName}
		outCols = append(outCols, value.ColumnSchema{ColumnName: outName, Type: value.Dt(value.KindFloat64)})
	}

	outSchema := value.NewSchema(outCols)
	return &AggregationNode{
		base:       base{idx: b.idx(), schema: outSchema},
		Input:      input,
		GroupBy:    groupBy,
		GroupNames: groupNames,
		Aggregates: aggs,
	}, nil
}

// buildProject resolves the SELECT list against the current schema.
// Bare `*` expands to every input column.
func (b *builder) buildProject(input Node) (Node, error) {
	schema := input.OutputSchema()
	var exprs []expr.ScalarExpr
	var aliases []string
	cols := make([]value.ColumnSchema, 0, len(b.stmt.SelectFields))
	seen := make(map[string]bool)

	for _, f := range b.stmt.SelectFields {
		if star, ok := f.Expr.(*ast.ColumnRefExpr); ok && star.Name == "*" {
			for i, c := range schema.Columns {
				exprs = append(exprs, expr.ColumnRef{Index: i})
				aliases = append(aliases, c.ColumnName)
				cols = append(cols, c)
			}
			continue
		}
		re, err := resolveExpr(f.Expr, schema)
		if err != nil {
			return nil, err
		}
		name := f.Alias
		if name == "" {
			name = columnRefName(f.Expr)
		}
		if seen[name] {
			return nil, &PlanError{Kind: DuplicateAlias, Detail: name}
		}
		seen[name] = true
		exprs = append(exprs, re)
		aliases = append(aliases, name)
		cols = append(cols, value.ColumnSchema{ColumnName: name, Type: columnType(schema, f.Expr)})
	}

	outSchema := value.NewSchema(cols)
	return &ProjectNode{base: base{idx: b.idx(), schema: outSchema}, Input: input, Exprs: exprs, Aliases: aliases}, nil
}

// buildSinks attaches one DataSinkNode per configured sink, all
// sharing the same upstream node: the non-suppressing multi-sink
// default means every sink forwards independently rather than racing
// for a single channel.
func (b *builder) buildSinks(input Node, sinks []connector.SinkConnectorConfig) []Node {
	if len(sinks) == 0 {
		sinks = []connector.SinkConnectorConfig{{Kind: connector.SinkNop}}
	}
	roots := make([]Node, len(sinks))
	for i, s := range sinks {
		roots[i] = &DataSinkNode{base: base{idx: b.idx(), schema: input.OutputSchema()}, Input: input, Config: s}
	}
	return roots
}

func appendColumns(schema *value.Schema, extra []value.ColumnSchema) *value.Schema {
	cols := make([]value.ColumnSchema, 0, schema.Len()+len(extra))
	cols = append(cols, schema.Columns...)
	cols = append(cols, extra...)
	return value.NewSchema(cols)
}

// columnRefName derives the default output name for an unaliased
// SELECT/GROUP BY expression: the column name for a plain reference,
// or its source text rendering for anything more complex.
func columnRefName(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.ColumnRefExpr:
		if v.Source != "" {
			return v.Source + "." + v.Name
		}
		return v.Name
	default:
		return "expr"
	}
}

func columnType(schema *value.Schema, e ast.Expr) value.DataType {
	if ref, ok := e.(*ast.ColumnRefExpr); ok {
		if i, ok := resolveColumnIndex(schema, ref); ok {
			return schema.Columns[i].Type
		}
	}
	return value.Dt(value.KindFloat64)
}

// resolveColumnIndex implements the column-reference resolution
// heuristic: an exact (source, name) match wins; otherwise, if Source
// actually names a struct-typed column, Name is treated as a nested
// field path under it (left to FieldAccess, not representable as a
// plain index, so this only covers the plain-index cases); finally an
// unqualified name lookup.
func resolveColumnIndex(schema *value.Schema, ref *ast.ColumnRefExpr) (int, bool) {
	if ref.Source != "" {
		if i, ok := schema.IndexBySource(ref.Source, ref.Name); ok {
			return i, true
		}
		return -1, false
	}
	return schema.IndexByName(ref.Name)
}

// resolveExpr lowers a name-based ast.Expr into an index-based
// expr.ScalarExpr against schema, the one point in the planner where
// column names are looked up.
func resolveExpr(e ast.Expr, schema *value.Schema) (expr.ScalarExpr, error) {
	switch v := e.(type) {
	case *ast.ColumnRefExpr:
		return resolveColumnRef(v, schema)
	case *ast.LiteralExpr:
		return resolveLiteral(v)
	case *ast.UnaryExpr:
		operand, err := resolveExpr(v.Operand, schema)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: v.Op, Operand: operand}, nil
	case *ast.BinaryExpr:
		left, err := resolveExpr(v.Left, schema)
		if err != nil {
			return nil, err
		}
		right, err := resolveExpr(v.Right, schema)
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: v.Op, Left: left, Right: right}, nil
	case *ast.CallExpr:
		args := make([]expr.ScalarExpr, len(v.Args))
		for i, a := range v.Args {
			re, err := resolveExpr(a, schema)
			if err != nil {
				return nil, err
			}
			args[i] = re
		}
		return expr.Call{Name: v.FuncName, Args: args}, nil
	case *ast.CaseExpr:
		return resolveCase(v, schema)
	default:
		return nil, &PlanError{Kind: UnsupportedExpr, Detail: fmt.Sprintf("%T", e)}
	}
}

func resolveColumnRef(ref *ast.ColumnRefExpr, schema *value.Schema) (expr.ScalarExpr, error) {
	if ref.Source != "" {
		if i, ok := schema.IndexBySource(ref.Source, ref.Name); ok {
			return expr.ColumnRef{Index: i}, nil
		}
		// Not a qualified column: try Source as the base column of a
		// nested field path (device.info.name -> column "device",
		// path "info.name").
		if i, ok := schema.IndexByName(ref.Source); ok {
			return expr.FieldAccess{Base: expr.ColumnRef{Index: i}, Path: ref.Name}, nil
		}
		return nil, &PlanError{Kind: UnknownColumn, Detail: ref.Source + "." + ref.Name}
	}
	if i, ok := schema.IndexByName(ref.Name); ok {
		return expr.ColumnRef{Index: i}, nil
	}
	// Unqualified dotted path with no matching column of that full
	// name: try the first segment as the base column.
	if dot := strings.IndexByte(ref.Name, '.'); dot > 0 {
		base, path := ref.Name[:dot], ref.Name[dot+1:]
		if i, ok := schema.IndexByName(base); ok {
			return expr.FieldAccess{Base: expr.ColumnRef{Index: i}, Path: path}, nil
		}
	}
	return nil, &PlanError{Kind: UnknownColumn, Detail: ref.Name}
}

func resolveLiteral(lit *ast.LiteralExpr) (expr.ScalarExpr, error) {
	switch lit.Kind {
	case ast.LiteralNull:
		return expr.Literal{Val: value.Null()}, nil
	case ast.LiteralInt:
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return nil, &PlanError{Kind: UnsupportedExpr, Detail: "invalid integer literal " + lit.Text}
		}
		return expr.Literal{Val: value.Int64(n)}, nil
	case ast.LiteralFloat:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, &PlanError{Kind: UnsupportedExpr, Detail: "invalid float literal " + lit.Text}
		}
		return expr.Literal{Val: value.Float64(f)}, nil
	case ast.LiteralString:
		return expr.Literal{Val: value.String(lit.Text)}, nil
	case ast.LiteralBool:
		return expr.Literal{Val: value.Bool(lit.Text == "true")}, nil
	default:
		return nil, &PlanError{Kind: UnsupportedExpr, Detail: "unknown literal kind"}
	}
}

func resolveCase(c *ast.CaseExpr, schema *value.Schema) (expr.ScalarExpr, error) {
	var operand expr.ScalarExpr
	if c.CaseOperand != nil {
		re, err := resolveExpr(c.CaseOperand, schema)
		if err != nil {
			return nil, err
		}
		operand = re
	}
	whens := make([]expr.WhenClause, len(c.Whens))
	for i, w := range c.Whens {
		cond, err := resolveExpr(w.Cond, schema)
		if err != nil {
			return nil, err
		}
		res, err := resolveExpr(w.Result, schema)
		if err != nil {
			return nil, err
		}
		whens[i] = expr.WhenClause{Cond: cond, Result: res}
	}
	var elseExpr expr.ScalarExpr
	if c.Else != nil {
		re, err := resolveExpr(c.Else, schema)
		if err != nil {
			return nil, err
		}
		elseExpr = re
	}
	return expr.Case{Operand: operand, Whens: whens, Else: elseExpr}, nil
}
