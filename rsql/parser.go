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

package rsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowsql/flowsql/ast"
)

// aggregateFuncNames is the set of function names the parser lifts
// out of SELECT/HAVING expressions into ast.SelectStmt.AggregateMappings.
var aggregateFuncNames = map[string]bool{
	"sum": true, "count": true, "avg": true, "max": true, "min": true,
	"stddev": true, "stddevs": true, "median": true, "percentile": true,
	"collect": true, "first_value": true, "last_value": true,
	"merge_agg": true, "deduplicate": true, "var": true, "vars": true,
	"window_start": true, "window_end": true,
}

// statefulFuncNames is the set the parser lifts into StatefulCalls.
var statefulFuncNames = map[string]bool{
	"lag": true, "latest": true, "changed_col": true, "had_changed": true,
}

var windowFuncKinds = map[string]string{
	"tumblingwindow": "tumbling",
	"slidingwindow":  "sliding",
	"sessionwindow":  "session",
	"countwindow":    "count",
}

// Parse parses one SELECT statement from source SQL text into an
// ast.SelectStmt. This is the only entry point the logical planner's
// callers (Engine.Compile) need.
func Parse(sql string) (*ast.SelectStmt, error) {
	p := newParser(sql)
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

type parser struct {
	l         Lexer
	curToken  Token
	peekToken Token

	aggCounter      int
	statefulCounter int
	stmt            *ast.SelectStmt
}

func newParser(sql string) *parser {
	p := &parser{l: NewLexer(sql), stmt: &ast.SelectStmt{AggregateMappings: map[string]*ast.AggCall{}}}
	p.next()
	p.next()
	return p
}

func (p *parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	// comments carry no syntactic meaning; skip transparently
	for p.peekToken.Type == COMMENT {
		p.peekToken = p.l.NextToken()
	}
}

func (p *parser) errorf(expected string) error {
	return &ParseError{Message: "unexpected token", Token: p.curToken.Literal, Expected: expected}
}

func (p *parser) expect(t TokenType, expected string) error {
	if p.curToken.Type != t {
		return p.errorf(expected)
	}
	p.next()
	return nil
}

func (p *parser) parseSelect() (*ast.SelectStmt, error) {
	if p.curToken.Type != SELECT {
		return nil, p.errorf("SELECT")
	}
	p.next()

	if p.curToken.Type == DISTINCT {
		p.stmt.Distinct = true
		p.next()
	}

	fields, err := p.parseSelectFieldList()
	if err != nil {
		return nil, err
	}
	p.stmt.SelectFields = fields

	if p.curToken.Type != FROM {
		return nil, p.errorf("FROM")
	}
	p.next()
	from, err := p.parseFromList()
	if err != nil {
		return nil, err
	}
	p.stmt.From = from

	if p.curToken.Type == WHERE {
		p.next()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.stmt.Where = where
	}

	if p.curToken.Type == GROUP {
		p.next()
		if err := p.expect(BY, "BY"); err != nil {
			return nil, err
		}
		if err := p.parseGroupBy(); err != nil {
			return nil, err
		}
	}

	if p.curToken.Type == HAVING {
		p.next()
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.stmt.Having = p.liftCalls(having)
	}

	if p.curToken.Type == LIMIT {
		p.next()
		if p.curToken.Type != NUMBER {
			return nil, p.errorf("a number")
		}
		n, _ := strconv.Atoi(p.curToken.Literal)
		p.stmt.Limit = n
		p.next()
	}

	if p.curToken.Type == SEMICOLON {
		p.next()
	}
	if p.curToken.Type != EOF {
		return nil, p.errorf("end of statement")
	}

	return p.stmt, nil
}

func (p *parser) parseFromList() ([]string, error) {
	var names []string
	for {
		if p.curToken.Type != IDENT {
			return nil, p.errorf("a source name")
		}
		names = append(names, p.curToken.Literal)
		p.next()
		if p.curToken.Type == COMMA {
			p.next()
			continue
		}
		break
	}
	return names, nil
}

func (p *parser) parseSelectFieldList() ([]ast.SelectField, error) {
	var fields []ast.SelectField
	for {
		if p.curToken.Type == ASTERISK {
			fields = append(fields, ast.SelectField{Expr: &ast.ColumnRefExpr{Name: "*"}})
			p.next()
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			e = p.liftCalls(e)
			alias := ""
			if p.curToken.Type == AS {
				p.next()
				if p.curToken.Type != IDENT {
					return nil, p.errorf("an alias")
				}
				alias = p.curToken.Literal
				p.next()
			} else if p.curToken.Type == IDENT {
				// bare alias, e.g. "SELECT temperature t"
				alias = p.curToken.Literal
				p.next()
			}
			fields = append(fields, ast.SelectField{Expr: e, Alias: alias})
		}
		if p.curToken.Type == COMMA {
			p.next()
			continue
		}
		break
	}
	return fields, nil
}

// parseGroupBy consumes the GROUP BY expression list, splitting out a
// window function call (if any) into p.stmt.Window and leaving the
// rest as p.stmt.GroupBy.
func (p *parser) parseGroupBy() error {
	var plain []ast.Expr
	var windowKeys []ast.Expr
	for {
		if p.curToken.Type == IDENT {
			kind, isWindow := windowFuncKinds[strings.ToLower(p.curToken.Literal)]
			if isWindow && p.peekToken.Type == LPAREN {
				name := p.curToken.Literal
				p.next()
				args, err := p.parseArgs()
				if err != nil {
					return err
				}
				params := make([]interface{}, len(args))
				for i, a := range args {
					params[i] = literalRawValue(a)
				}
				if p.stmt.Window != nil {
					return &ParseError{Message: "multiple window functions in GROUP BY", Token: name}
				}
				p.stmt.Window = &ast.WindowClause{Kind: kind, Params: params}
				goto afterItem
			}
		}
		{
			e, err := p.parseExpr()
			if err != nil {
				return err
			}
			plain = append(plain, e)
		}
	afterItem:
		if p.curToken.Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if p.stmt.Window != nil {
		windowKeys = plain
		p.stmt.Window.GroupByKeys = windowKeys
		p.stmt.GroupBy = nil
	} else {
		p.stmt.GroupBy = plain
	}
	return nil
}

// literalRawValue extracts the underlying Go value a literal AST node
// carries, used for window-function parameters ('5s', 100).
func literalRawValue(e ast.Expr) interface{} {
	lit, ok := e.(*ast.LiteralExpr)
	if !ok {
		return nil
	}
	switch lit.Kind {
	case ast.LiteralInt:
		n, _ := strconv.ParseInt(lit.Text, 10, 64)
		return int(n)
	case ast.LiteralFloat:
		f, _ := strconv.ParseFloat(lit.Text, 64)
		return f
	default:
		return lit.Text
	}
}

// liftCalls walks an expression tree and replaces any recognized
// aggregate or stateful function call with a ColumnRefExpr pointing at
// a generated output name, recording the original call in the
// statement so the logical planner can build the matching
// Aggregation/StatefulFunction plan node.
func (p *parser) liftCalls(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.CallExpr:
		lname := strings.ToLower(n.FuncName)
		if aggregateFuncNames[lname] {
			out := fmt.Sprintf("agg_%d", p.aggCounter)
			p.aggCounter++
			var arg ast.Expr
			if len(n.Args) > 0 {
				arg = p.liftCalls(n.Args[0])
			}
			p.stmt.AggregateMappings[out] = &ast.AggCall{FuncName: lname, Arg: arg, OutputName: out}
			p.stmt.AggregateOrder = append(p.stmt.AggregateOrder, out)
			return &ast.ColumnRefExpr{Name: out}
		}
		if statefulFuncNames[lname] {
			out := fmt.Sprintf("stateful_%d", p.statefulCounter)
			p.statefulCounter++
			args := make([]ast.Expr, len(n.Args))
			for i, a := range n.Args {
				args[i] = p.liftCalls(a)
			}
			var partitionBy []ast.Expr
			if p.stmt.Window != nil {
				partitionBy = p.stmt.Window.GroupByKeys
			} else {
				partitionBy = p.stmt.GroupBy
			}
			p.stmt.StatefulCalls = append(p.stmt.StatefulCalls, &ast.StatefulCall{
				FuncName: lname, Args: args, PartitionBy: partitionBy, OutputName: out,
			})
			return &ast.ColumnRefExpr{Name: out}
		}
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.liftCalls(a)
		}
		return &ast.CallExpr{FuncName: n.FuncName, Args: args}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Op: n.Op, Left: p.liftCalls(n.Left), Right: p.liftCalls(n.Right)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Op: n.Op, Operand: p.liftCalls(n.Operand)}
	case *ast.CaseExpr:
		whens := make([]ast.WhenClause, len(n.Whens))
		for i, w := range n.Whens {
			whens[i] = ast.WhenClause{Cond: p.liftCalls(w.Cond), Result: p.liftCalls(w.Result)}
		}
		var operand, elseE ast.Expr
		if n.CaseOperand != nil {
			operand = p.liftCalls(n.CaseOperand)
		}
		if n.Else != nil {
			elseE = p.liftCalls(n.Else)
		}
		return &ast.CaseExpr{CaseOperand: operand, Whens: whens, Else: elseE}
	default:
		return e
	}
}

// --- expression grammar: or > and > not > comparison > additive > multiplicative > unary > primary ---

func (p *parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == OR {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == AND {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (ast.Expr, error) {
	if p.curToken.Type == NOT {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]string{
	ASSIGN: "=", EQ: "=", NOT_EQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
}

func (p *parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.curToken.Type]; ok {
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
	if p.curToken.Type == IS {
		p.next()
		neg := false
		if p.curToken.Type == NOT {
			neg = true
			p.next()
		}
		if p.curToken.Type != NULLTOK {
			return nil, p.errorf("NULL")
		}
		p.next()
		e := ast.Expr(&ast.BinaryExpr{Op: "=", Left: left, Right: &ast.LiteralExpr{Kind: ast.LiteralNull}})
		if neg {
			e = &ast.UnaryExpr{Op: "not", Operand: e}
		}
		return e, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == PLUS || p.curToken.Type == MINUS {
		op := string(p.curToken.Type)
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == ASTERISK || p.curToken.Type == SLASH || p.curToken.Type == PERCENT {
		op := string(p.curToken.Type)
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.curToken.Type == MINUS {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "-", Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch p.curToken.Type {
	case NUMBER:
		text := p.curToken.Literal
		p.next()
		if strings.Contains(text, ".") {
			return &ast.LiteralExpr{Text: text, Kind: ast.LiteralFloat}, nil
		}
		return &ast.LiteralExpr{Text: text, Kind: ast.LiteralInt}, nil
	case STRING:
		text := strings.Trim(p.curToken.Literal, "'")
		p.next()
		return &ast.LiteralExpr{Text: text, Kind: ast.LiteralString}, nil
	case TRUETOK:
		p.next()
		return &ast.LiteralExpr{Text: "true", Kind: ast.LiteralBool}, nil
	case FALSETOK:
		p.next()
		return &ast.LiteralExpr{Text: "false", Kind: ast.LiteralBool}, nil
	case NULLTOK:
		p.next()
		return &ast.LiteralExpr{Kind: ast.LiteralNull}, nil
	case LPAREN:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case CASE:
		return p.parseCase()
	case IDENT:
		name := p.curToken.Literal
		if p.peekToken.Type == LPAREN {
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{FuncName: name, Args: args}, nil
		}
		p.next()
		src, col := "", name
		if i := strings.IndexByte(name, '.'); i >= 0 {
			src, col = name[:i], name[i+1:]
		}
		return &ast.ColumnRefExpr{Source: src, Name: col}, nil
	default:
		return nil, p.errorf("an expression")
	}
}

// parseArgs parses a parenthesized, comma-separated argument list.
// curToken is LPAREN on entry; on return curToken is the token after
// the matching RPAREN. COUNT(*) is special-cased to an empty arg list.
func (p *parser) parseArgs() ([]ast.Expr, error) {
	if err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}
	if p.curToken.Type == RPAREN {
		p.next()
		return nil, nil
	}
	if p.curToken.Type == ASTERISK && p.peekToken.Type == RPAREN {
		p.next()
		p.next()
		return nil, nil
	}
	var args []ast.Expr
	for {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.curToken.Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseCase() (ast.Expr, error) {
	p.next() // consume CASE
	var operand ast.Expr
	if p.curToken.Type != WHEN {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		operand = e
	}
	var whens []ast.WhenClause
	for p.curToken.Type == WHEN {
		p.next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(THEN, "THEN"); err != nil {
			return nil, err
		}
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		whens = append(whens, ast.WhenClause{Cond: cond, Result: result})
	}
	var elseE ast.Expr
	if p.curToken.Type == ELSE {
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elseE = e
	}
	if err := p.expect(END, "END"); err != nil {
		return nil, err
	}
	return &ast.CaseExpr{CaseOperand: operand, Whens: whens, Else: elseE}, nil
}
