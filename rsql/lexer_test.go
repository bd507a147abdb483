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
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectTokens(sql string) []Token {
	l := NewLexer(sql)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLexerKeywords(t *testing.T) {
	toks := tokenTypes(collectTokens("SELECT FROM WHERE GROUP BY HAVING LIMIT AS DISTINCT"))
	assert.Equal(t, []TokenType{SELECT, FROM, WHERE, GROUP, BY, HAVING, LIMIT, AS, DISTINCT, EOF}, toks)
}

func TestLexerOperators(t *testing.T) {
	toks := tokenTypes(collectTokens("= == != <> < <= > >= + - * / %"))
	assert.Equal(t, []TokenType{ASSIGN, EQ, NOT_EQ, NOT_EQ, LT, LE, GT, GE, PLUS, MINUS, ASTERISK, SLASH, PERCENT, EOF}, toks)
}

func TestLexerDottedIdentifier(t *testing.T) {
	toks := collectTokens("device.info.name")
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, "device.info.name", toks[0].Literal)
}

func TestLexerDecimalNumber(t *testing.T) {
	toks := collectTokens("25.5")
	assert.Equal(t, NUMBER, toks[0].Type)
	assert.Equal(t, "25.5", toks[0].Literal)
}

func TestLexerString(t *testing.T) {
	toks := collectTokens("'hello world'")
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "'hello world'", toks[0].Literal)
}

func TestLexerComment(t *testing.T) {
	toks := collectTokens("SELECT 1 // trailing comment\n")
	assert.Equal(t, SELECT, toks[0].Type)
	assert.Equal(t, NUMBER, toks[1].Type)
	assert.Equal(t, COMMENT, toks[2].Type)
}
