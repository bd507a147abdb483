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

import "time"

// Bounds is the half-open instant range [Start, End) one window
// instance covers; End also serves as that instance's close time —
// the watermark value past which it is finalized and discarded.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// TumblingBounds returns the single window instance t falls in,
// epoch-aligned so every source producing the same timestamp agrees on
// the same boundary without coordination.
func TumblingBounds(spec Spec, t time.Time) Bounds {
	start := alignWindowStart(t, spec.Length)
	return Bounds{Start: start, End: start.Add(spec.Length)}
}

// SlidingBounds returns every overlapping window instance t belongs
// to. A sliding window of Length L and Slide S centered on
// epoch-aligned slide boundaries means t belongs to ceil(L/S) windows
// at once (one per slide-aligned start within [t-L+S, t] stepping by
// S... in practice: every start <= t whose start+Length > t and whose
// start is slide-aligned).
func SlidingBounds(spec Spec, t time.Time) []Bounds {
	if spec.Slide <= 0 {
		return []Bounds{TumblingBounds(Spec{Kind: KindTumbling, Length: spec.Length}, t)}
	}
	latestStart := alignWindowStart(t, spec.Slide)
	var bounds []Bounds
	for start := latestStart; !start.Add(spec.Length).Before(t) && start.Add(spec.Length).After(t); start = start.Add(-spec.Slide) {
		bounds = append(bounds, Bounds{Start: start, End: start.Add(spec.Length)})
	}
	return bounds
}

// SessionClose returns the instant a session window containing an
// event at lastEventTime will close if no further event extends it:
// lastEventTime plus the configured inactivity gap (Spec.Length).
func SessionClose(spec Spec, lastEventTime time.Time) time.Time {
	return lastEventTime.Add(spec.Length)
}

// CountWindowComplete reports whether a counting window holding count
// rows has reached its configured size and should close.
func CountWindowComplete(spec Spec, count int) bool {
	return count >= spec.Count
}
