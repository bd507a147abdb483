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

package physical

import "fmt"

// PlanError is a purely diagnostic physical-planning failure: it names
// the logical plan index responsible, since by this stage every
// column and source has already been resolved by the logical planner.
type PlanError struct {
	Message   string
	PlanIndex int
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("physical plan (node %d): %s", e.PlanIndex, e.Message)
}
