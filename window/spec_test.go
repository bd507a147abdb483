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

package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/ast"
)

func TestFromClauseTumbling(t *testing.T) {
	spec, err := FromClause(&ast.WindowClause{Kind: "tumbling", Params: []interface{}{"5s"}})
	require.NoError(t, err)
	assert.Equal(t, KindTumbling, spec.Kind)
	assert.Equal(t, 5*time.Second, spec.Length)
}

func TestFromClauseSliding(t *testing.T) {
	spec, err := FromClause(&ast.WindowClause{Kind: "sliding", Params: []interface{}{"6s", "2s"}})
	require.NoError(t, err)
	assert.Equal(t, KindSliding, spec.Kind)
	assert.Equal(t, 6*time.Second, spec.Length)
	assert.Equal(t, 2*time.Second, spec.Slide)
}

func TestFromClauseCounting(t *testing.T) {
	spec, err := FromClause(&ast.WindowClause{Kind: "count", Params: []interface{}{"100"}})
	require.NoError(t, err)
	assert.Equal(t, KindCounting, spec.Kind)
	assert.Equal(t, 100, spec.Count)
}

func TestFromClauseSession(t *testing.T) {
	spec, err := FromClause(&ast.WindowClause{Kind: "session", Params: []interface{}{"30s"}})
	require.NoError(t, err)
	assert.Equal(t, KindSession, spec.Kind)
	assert.Equal(t, 30*time.Second, spec.Length)
}

func TestFromClauseUnknownKind(t *testing.T) {
	_, err := FromClause(&ast.WindowClause{Kind: "bogus"})
	assert.Error(t, err)
}

func TestFromClauseMissingParam(t *testing.T) {
	_, err := FromClause(&ast.WindowClause{Kind: "tumbling", Params: nil})
	assert.Error(t, err)
}

func TestFromClauseBadDuration(t *testing.T) {
	_, err := FromClause(&ast.WindowClause{Kind: "tumbling", Params: []interface{}{"not-a-duration"}})
	assert.Error(t, err)
}

func TestIntParamAcceptsNumericKinds(t *testing.T) {
	n, err := intParam([]interface{}{int64(42)}, 0)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = intParam([]interface{}{float64(7)}, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tumbling", KindTumbling.String())
	assert.Equal(t, "sliding", KindSliding.String())
	assert.Equal(t, "counting", KindCounting.String())
	assert.Equal(t, "session", KindSession.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
