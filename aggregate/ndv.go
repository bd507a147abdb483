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

// ndvAccumulator counts exact distinct non-null values seen, bucketed
// by value.Hash with a value.Equal check to resolve collisions. No
// existing builtin aggregator covers a distinct-count semantic
// (Deduplicate collects rather than counts), so this is
// built new on the value package's own hash/equality contract instead
// of reaching for an approximate sketch library absent from the
// example pack.
type ndvAccumulator struct {
	buckets map[uint64][]value.Value
	count   int64
}

func newNDVAccumulator() *ndvAccumulator {
	return &ndvAccumulator{buckets: make(map[uint64][]value.Value)}
}

func (a *ndvAccumulator) Update(v value.Value) error {
	if v.IsNull() {
		return nil
	}
	h := value.Hash(v)
	bucket := a.buckets[h]
	for _, existing := range bucket {
		if value.Equal(existing, v) {
			return nil
		}
	}
	a.buckets[h] = append(bucket, v)
	a.count++
	return nil
}

func (a *ndvAccumulator) Finalize() value.Value {
	return value.Int64(a.count)
}

func (a *ndvAccumulator) Clone() Accumulator {
	clone := newNDVAccumulator()
	for h, vs := range a.buckets {
		cp := make([]value.Value, len(vs))
		copy(cp, vs)
		clone.buckets[h] = cp
	}
	clone.count = a.count
	return clone
}
