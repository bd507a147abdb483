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

// Package window computes window bounds and tracks watermarks for the
// StreamingAggregation processor. It holds no per-group accumulation
// state of its own (that lives in aggregate/): Spec and the bound
// functions in bounds.go are pure, callable once per incoming row.
// Watermark is the one stateful type in the package — it owns the
// background clock a ProcessTimeWatermarkNode drives off of — kept
// separate so the rest of window stays trivially testable.
package window

import (
	"fmt"
	"strconv"
	"time"

	"github.com/flowsql/flowsql/ast"
)

// Kind tags the closed set of window shapes a GROUP BY clause can
// request.
type Kind int

const (
	KindTumbling Kind = iota
	KindSliding
	KindCounting
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindTumbling:
		return "tumbling"
	case KindSliding:
		return "sliding"
	case KindCounting:
		return "counting"
	case KindSession:
		return "session"
	default:
		return "unknown"
	}
}

// Spec is the closed, fully-parsed window configuration the
// StreamingAggregation processor runs with — the time/count parameters
// of the physical node's ast.WindowClause resolved into concrete Go
// types once, when processor.BuildWithConfig builds the graph, rather
// than re-parsed on every row.
type Spec struct {
	Kind Kind

	Length time.Duration // tumbling/sliding window length; session inactivity gap
	Slide  time.Duration // sliding window slide; zero for every other kind

	Count int // counting window size
}

// FromClause parses an ast.WindowClause's string-typed Params into a
// Spec. Kind strings and parameter positions follow the rsql parser's
// lifted window function calls (TumblingWindow('5s'),
// SlidingWindow('6s','2s'), CountWindow('100'), SessionWindow('30s')).
func FromClause(clause *ast.WindowClause) (Spec, error) {
	switch clause.Kind {
	case "tumbling":
		d, err := durationParam(clause.Params, 0)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindTumbling, Length: d}, nil
	case "sliding":
		length, err := durationParam(clause.Params, 0)
		if err != nil {
			return Spec{}, err
		}
		slide, err := durationParam(clause.Params, 1)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindSliding, Length: length, Slide: slide}, nil
	case "count":
		n, err := intParam(clause.Params, 0)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindCounting, Count: n}, nil
	case "session":
		d, err := durationParam(clause.Params, 0)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindSession, Length: d}, nil
	default:
		return Spec{}, fmt.Errorf("window: unknown kind %q", clause.Kind)
	}
}

func durationParam(params []interface{}, i int) (time.Duration, error) {
	if i >= len(params) {
		return 0, fmt.Errorf("window: missing duration parameter %d", i)
	}
	s, ok := params[i].(string)
	if !ok {
		return 0, fmt.Errorf("window: parameter %d is not a string duration", i)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("window: invalid duration %q: %w", s, err)
	}
	return d, nil
}

func intParam(params []interface{}, i int) (int, error) {
	if i >= len(params) {
		return 0, fmt.Errorf("window: missing count parameter %d", i)
	}
	switch v := params[i].(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("window: invalid count %q: %w", v, err)
		}
		return n, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("window: parameter %d is not a count", i)
	}
}
