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

// Package aggregate implements per-group-per-window accumulation: one
// Accumulator instance per (group key, window) pair, fed one argument
// value per input row and finalized once the window closes. Builtins
// bridge to the streamsql-derived functions registry rather than
// reimplementing sum/count/avg/min/max/stddev from scratch;
// NDV is new, grounded on the value.Hash/Equal contract used
// throughout the engine. The stateful row functions (lag,
// change-detection) reuse the same registry bridge, one instance per
// partition.
package aggregate

import (
	"fmt"

	"github.com/flowsql/flowsql/value"
)

// Accumulator is fed successive argument values for one group/window
// slot and produces a single output value when the window closes.
type Accumulator interface {
	Update(v value.Value) error
	Finalize() value.Value
	Clone() Accumulator
}

// Spec names one aggregate call site: which builtin to run and the
// datatype its single argument carries. NewAccumulator does not read
// ArgType: sum adds every argument as float64, with no widening to the
// argument's integer type and no saturation on overflow.
type Spec struct {
	FuncName string
	ArgType  value.DataType
}

// NewAccumulator builds a fresh Accumulator for one (group, window)
// slot. The logical planner does not check aggregate names, so an
// unknown name is first rejected here, with an error, when the
// aggregation processor opens a group's slot.
func NewAccumulator(spec Spec) (Accumulator, error) {
	switch spec.FuncName {
	case "ndv", "count_distinct":
		return newNDVAccumulator(), nil
	default:
		return newLegacyAccumulator(spec.FuncName)
	}
}

func unsupportedFunc(name string) error {
	return fmt.Errorf("aggregate: unsupported function %q", name)
}
