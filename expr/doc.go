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

// Package expr implements the scalar-expression layer: a closed
// ScalarExpr tree (column ref by index, literal, unary/binary call,
// custom function, CASE) with pure evaluation against a row. Built-in
// scalar functions are bridged to the streamsql-derived functions
// registry; expressions the closed tree cannot represent fall back to
// a compiled github.com/expr-lang/expr program, mirroring the
// teacher's own two-tier expression evaluator.
package expr
