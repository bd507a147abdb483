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

func TestWatermarkAdvancesWithEventTime(t *testing.T) {
	wm := NewWatermark(time.Second, time.Hour, 0)
	defer wm.Stop()

	base := time.Unix(1000, 0).UTC()
	wm.UpdateEventTime(base)
	assert.Equal(t, base.Add(-time.Second), wm.GetCurrentWatermark())

	wm.UpdateEventTime(base.Add(5 * time.Second))
	assert.Equal(t, base.Add(4*time.Second), wm.GetCurrentWatermark())
}

func TestWatermarkIgnoresOutOfOrderRegression(t *testing.T) {
	wm := NewWatermark(time.Second, time.Hour, 0)
	defer wm.Stop()

	base := time.Unix(2000, 0).UTC()
	wm.UpdateEventTime(base)
	current := wm.GetCurrentWatermark()

	wm.UpdateEventTime(base.Add(-10 * time.Second))
	assert.Equal(t, current, wm.GetCurrentWatermark())
}

func TestWatermarkIsEventTimeLate(t *testing.T) {
	wm := NewWatermark(time.Second, time.Hour, 0)
	defer wm.Stop()

	assert.False(t, wm.IsEventTimeLate(time.Now()))

	base := time.Unix(3000, 0).UTC()
	wm.UpdateEventTime(base)
	assert.True(t, wm.IsEventTimeLate(base.Add(-5*time.Second)))
	assert.False(t, wm.IsEventTimeLate(base.Add(5*time.Second)))
}

func TestAlignWindowStartFloorsToEpochBoundary(t *testing.T) {
	ts := time.Unix(10, 1000000).UTC()
	aligned := alignWindowStart(ts, 2*time.Second)
	assert.Equal(t, time.Unix(10, 0).UTC(), aligned)
}
