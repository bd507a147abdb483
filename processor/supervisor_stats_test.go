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

package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowsql/flowsql/config"
)

func TestSupervisorCheckThresholdsDisabledIsAlwaysClean(t *testing.T) {
	s := NewSupervisor(&Graph{})
	s.droppedCount.Store(1000)
	s.outputCount.Store(1)

	warn, crit := s.CheckThresholds(config.MonitoringConfig{Enabled: false})
	assert.False(t, warn)
	assert.False(t, crit)
}

func TestSupervisorCheckThresholdsCrossesWarningThenCritical(t *testing.T) {
	s := NewSupervisor(&Graph{})
	s.outputCount.Store(80)
	s.droppedCount.Store(20) // 20% drop rate

	cfg := config.MonitoringConfig{
		Enabled: true,
		WarningThresholds: config.WarningThresholds{
			DropRateWarning:  10,
			DropRateCritical: 25,
		},
	}
	warn, crit := s.CheckThresholds(cfg)
	assert.True(t, warn)
	assert.False(t, crit)

	s.droppedCount.Store(30) // 30/(80+30) = 27.3%
	warn, crit = s.CheckThresholds(cfg)
	assert.True(t, warn)
	assert.True(t, crit)
}

func TestChannelCapacityWithBaseUsesConfiguredBuffer(t *testing.T) {
	cfg := config.Default()
	cfg.Buffer.DataChannelSize = 42
	assert.Equal(t, 42+perDownstreamIncrement, channelCapacityWithBase(nil, nil, cfg.Buffer.DataChannelSize))
}
