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

import "fmt"

// ErrorKind tags why building a logical plan failed.
type ErrorKind int

const (
	UnknownSource ErrorKind = iota
	UnknownColumn
	AmbiguousColumn
	DuplicateAlias
	UnsupportedExpr
	EmptyFrom
)

// PlanError reports a logical-plan build failure.
type PlanError struct {
	Kind    ErrorKind
	Detail  string
}

func (e *PlanError) Error() string {
	switch e.Kind {
	case UnknownSource:
		return fmt.Sprintf("logical plan: unknown source %q", e.Detail)
	case UnknownColumn:
		return fmt.Sprintf("logical plan: unknown column %q", e.Detail)
	case AmbiguousColumn:
		return fmt.Sprintf("logical plan: ambiguous column %q", e.Detail)
	case DuplicateAlias:
		return fmt.Sprintf("logical plan: duplicate output alias %q", e.Detail)
	case UnsupportedExpr:
		return fmt.Sprintf("logical plan: unsupported expression: %s", e.Detail)
	case EmptyFrom:
		return "logical plan: SELECT has no FROM source"
	default:
		return fmt.Sprintf("logical plan: %s", e.Detail)
	}
}
