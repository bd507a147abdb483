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

package expr

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/flowsql/flowsql/value"
)

// ExprLang is the escape hatch for expressions the closed ScalarExpr
// tree cannot represent (arbitrary string manipulation, regex, custom
// condition syntax not worth growing a dedicated node for). Bindings
// map each free variable name the compiled program references to a
// row column index, resolved once at plan-build time so Eval stays a
// pure row-to-Value function with no schema lookups at evaluation
// time.
type ExprLang struct {
	Source   string
	program  *vm.Program
	Bindings []ExprLangBinding
}

// ExprLangBinding names one free variable of the compiled program and
// the row column index it reads from.
type ExprLangBinding struct {
	Name  string
	Index int
}

// NewExprLang compiles source once and resolves its environment
// variables against bindings. The result's Eval is then just an env
// build + expr.Run, never a recompile.
func NewExprLang(source string, bindings []ExprLangBinding) (*ExprLang, error) {
	options := []expr.Option{
		expr.Function("like_match", func(params ...any) (any, error) {
			if len(params) != 2 {
				return false, fmt.Errorf("like_match requires 2 parameters")
			}
			text, ok1 := params[0].(string)
			pattern, ok2 := params[1].(string)
			if !ok1 || !ok2 {
				return false, fmt.Errorf("like_match requires string parameters")
			}
			return likeMatch(text, pattern), nil
		}),
		expr.AllowUndefinedVariables(),
	}
	program, err := expr.Compile(source, options...)
	if err != nil {
		return nil, fmt.Errorf("compile expr-lang fallback %q: %w", source, err)
	}
	return &ExprLang{Source: source, program: program, Bindings: bindings}, nil
}

func (e *ExprLang) isScalarExpr() {}

func (e *ExprLang) Eval(row []value.Value) (value.Value, error) {
	env := make(map[string]interface{}, len(e.Bindings))
	for _, b := range e.Bindings {
		if b.Index < 0 || b.Index >= len(row) {
			return value.Value{}, &EvalError{Kind: IndexOutOfBounds, Index: b.Index, Length: len(row)}
		}
		env[b.Name] = toGoValue(row[b.Index])
	}
	out, err := expr.Run(e.program, env)
	if err != nil {
		return value.Value{}, &EvalError{Kind: TypeMismatch, Op: "expr_lang", Message: err.Error()}
	}
	return value.FromInterface(out), nil
}

// likeMatch implements SQL LIKE semantics (% any run, _ single char).
func likeMatch(text, pattern string) bool {
	return likeMatchAt(text, pattern, 0, 0)
}

func likeMatchAt(text, pattern string, ti, pi int) bool {
	if pi >= len(pattern) {
		return ti >= len(text)
	}
	if ti >= len(text) {
		for i := pi; i < len(pattern); i++ {
			if pattern[i] != '%' {
				return false
			}
		}
		return true
	}
	switch pattern[pi] {
	case '%':
		if likeMatchAt(text, pattern, ti, pi+1) {
			return true
		}
		for i := ti; i < len(text); i++ {
			if likeMatchAt(text, pattern, i+1, pi+1) {
				return true
			}
		}
		return false
	case '_':
		return likeMatchAt(text, pattern, ti+1, pi+1)
	default:
		if text[ti] == pattern[pi] {
			return likeMatchAt(text, pattern, ti+1, pi+1)
		}
		return false
	}
}
