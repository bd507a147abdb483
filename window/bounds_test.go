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
)

func TestTumblingBoundsAlignsToWindowBoundary(t *testing.T) {
	spec := Spec{Kind: KindTumbling, Length: 2 * time.Second}
	ts := time.Unix(10, 1000000).UTC() // 10.001s
	b := TumblingBounds(spec, ts)
	assert.Equal(t, time.Unix(10, 0).UTC(), b.Start)
	assert.Equal(t, time.Unix(12, 0).UTC(), b.End)
}

func TestTumblingBoundsContainsTimestamp(t *testing.T) {
	spec := Spec{Kind: KindTumbling, Length: 5 * time.Second}
	ts := time.Unix(123, 0).UTC()
	b := TumblingBounds(spec, ts)
	assert.True(t, !ts.Before(b.Start) && ts.Before(b.End))
}

func TestSlidingBoundsReturnsOverlappingWindows(t *testing.T) {
	spec := Spec{Kind: KindSliding, Length: 6 * time.Second, Slide: 2 * time.Second}
	ts := time.Unix(10, 0).UTC()
	bounds := SlidingBounds(spec, ts)
	assert.Equal(t, 3, len(bounds))
	for _, b := range bounds {
		assert.True(t, !ts.Before(b.Start) && ts.Before(b.End))
		assert.Equal(t, spec.Length, b.End.Sub(b.Start))
	}
}

func TestSlidingBoundsZeroSlideFallsBackToTumbling(t *testing.T) {
	spec := Spec{Kind: KindSliding, Length: 5 * time.Second}
	ts := time.Unix(12, 0).UTC()
	bounds := SlidingBounds(spec, ts)
	assert.Equal(t, 1, len(bounds))
}

func TestSessionCloseAddsInactivityGap(t *testing.T) {
	spec := Spec{Kind: KindSession, Length: 30 * time.Second}
	last := time.Unix(100, 0).UTC()
	assert.Equal(t, time.Unix(130, 0).UTC(), SessionClose(spec, last))
}

func TestCountWindowComplete(t *testing.T) {
	spec := Spec{Kind: KindCounting, Count: 10}
	assert.False(t, CountWindowComplete(spec, 9))
	assert.True(t, CountWindowComplete(spec, 10))
	assert.True(t, CountWindowComplete(spec, 11))
}
