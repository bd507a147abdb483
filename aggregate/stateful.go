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

package aggregate

import "github.com/flowsql/flowsql/value"

// StatefulFunc is a per-partition row function that reads and updates
// hidden state on every call: lag(col, n), latest(col), changed_col,
// had_changed. Unlike Accumulator, it produces one output per input
// row rather than one output per window close.
type StatefulFunc interface {
	Apply(args []value.Value) (value.Value, error)
	Clone() StatefulFunc
}

// NewStatefulFunc builds a fresh, partition-local instance. The
// lag/latest/changed_col/had_changed functions are registered
// globally in functions/builtin.go as singletons holding their own
// history in struct fields — fine for a single stream but unsafe
// shared across concurrent partitions. functions.CreateAnalytical's
// New() gives each partition its own clone of that state instead of
// reusing the shared instance, which is the piece this repo adds.
func NewStatefulFunc(name string) (StatefulFunc, error) {
	fn, err := newLegacyAccumulator(name)
	if err != nil {
		return nil, err
	}
	return &statefulAdapter{acc: fn.(*legacyAccumulator)}, nil
}

type statefulAdapter struct {
	acc *legacyAccumulator
}

func (s *statefulAdapter) Apply(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Null(), nil
	}
	if err := s.acc.Update(args[0]); err != nil {
		return value.Value{}, err
	}
	return s.acc.Finalize(), nil
}

func (s *statefulAdapter) Clone() StatefulFunc {
	return &statefulAdapter{acc: s.acc.Clone().(*legacyAccumulator)}
}
