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

import "fmt"

// ParseError reports a syntax error encountered while parsing a
// SELECT statement: the token the parser was looking at, what it
// expected instead, and, where useful, a short suggestion.
type ParseError struct {
	Message    string
	Token      string
	Expected   string
	Suggestion string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error: %s (found %q)", e.Message, e.Token)
	if e.Expected != "" {
		msg += fmt.Sprintf(", expected %s", e.Expected)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" — %s", e.Suggestion)
	}
	return msg
}
