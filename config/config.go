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

// Package config holds the engine's declarative, YAML-loadable
// configuration: channel buffer sizing, overflow policy, worker pool
// sizing and monitoring thresholds. processor.BuildWithConfig reads
// Buffer.DataChannelSize and Supervisor.CheckThresholds takes a
// MonitoringConfig; no component reads the Overflow or Worker settings
// or the other Buffer fields.
package config

import "time"

// EngineConfig is the top-level shape the --config flag decodes into.
type EngineConfig struct {
	DataDir           string            `yaml:"dataDir"`
	PerformanceConfig PerformanceConfig `yaml:"performance"`
}

// PerformanceConfig groups the buffer, overflow, worker and monitoring
// settings; the package doc says which of them are read.
type PerformanceConfig struct {
	Buffer     BufferConfig     `yaml:"buffer"`
	Overflow   OverflowConfig   `yaml:"overflow"`
	Worker     WorkerConfig     `yaml:"worker"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// BufferConfig tunes the processor graph's per-edge channel capacity
// formula (base_capacity + downstream_count *
// per_downstream_increment): DataChannelSize replaces base_capacity
// when positive. The other fields are not read.
type BufferConfig struct {
	DataChannelSize     int     `yaml:"dataChannelSize"`
	ResultChannelSize   int     `yaml:"resultChannelSize"`
	EnableDynamicResize bool    `yaml:"enableDynamicResize"`
	MaxBufferSize       int     `yaml:"maxBufferSize"`
	UsageThreshold      float64 `yaml:"usageThreshold"`
}

// OverflowStrategy names a policy for a processor whose output
// broadcaster's slowest subscriber lags beyond capacity. No component
// reads OverflowConfig: every processor edge is a shared.Broadcaster,
// which blocks on a lagging subscriber whatever Strategy is set.
type OverflowStrategy string

const (
	// OverflowDrop discards the envelope -- never used on the hot
	// path, where dropping data is never permitted; retained only for
	// an explicit, opt-in degraded mode.
	OverflowDrop OverflowStrategy = "drop"
	// OverflowBlock lets the producer's send block until the
	// subscriber catches up or BlockTimeout elapses.
	OverflowBlock OverflowStrategy = "block"
	// OverflowExpand grows the channel's capacity dynamically
	// instead of blocking or dropping.
	OverflowExpand OverflowStrategy = "expand"
	// OverflowPersist spills envelopes the subscriber can't yet
	// accept to an on-disk overflow journal (store.Table-backed),
	// replaying them once the subscriber catches up.
	OverflowPersist OverflowStrategy = "persist"
)

// OverflowConfig selects and parameterizes the lag-handling policy.
type OverflowConfig struct {
	Strategy      OverflowStrategy `yaml:"strategy"`
	BlockTimeout  time.Duration    `yaml:"blockTimeout"`
	AllowDataLoss bool             `yaml:"allowDataLoss"`
	Expansion     ExpansionConfig  `yaml:"expansion"`
	PersistDir    string           `yaml:"persistDir"`
}

// ExpansionConfig parameterizes OverflowExpand.
type ExpansionConfig struct {
	GrowthFactor     float64       `yaml:"growthFactor"`
	MinIncrement     int           `yaml:"minIncrement"`
	TriggerThreshold float64       `yaml:"triggerThreshold"`
	ExpansionTimeout time.Duration `yaml:"expansionTimeout"`
}

// WorkerConfig sizes the sink delivery worker pool.
type WorkerConfig struct {
	SinkPoolSize     int `yaml:"sinkPoolSize"`
	SinkWorkerCount  int `yaml:"sinkWorkerCount"`
	MaxRetryRoutines int `yaml:"maxRetryRoutines"`
}

// MonitoringConfig governs the supervisor's GraphStats reporting.
type MonitoringConfig struct {
	Enabled             bool              `yaml:"enabled"`
	StatsUpdateInterval time.Duration     `yaml:"statsUpdateInterval"`
	WarningThresholds   WarningThresholds `yaml:"warningThresholds"`
}

// WarningThresholds are percentage (0-100) cutoffs.
// Supervisor.CheckThresholds compares the observed drop rate against
// DropRateWarning/DropRateCritical; the BufferUsage cutoffs are not
// read by it.
type WarningThresholds struct {
	DropRateWarning     float64 `yaml:"dropRateWarning"`
	DropRateCritical    float64 `yaml:"dropRateCritical"`
	BufferUsageWarning  float64 `yaml:"bufferUsageWarning"`
	BufferUsageCritical float64 `yaml:"bufferUsageCritical"`
}

// Default returns the balanced preset used when no --config is given.
func Default() PerformanceConfig {
	return PerformanceConfig{
		Buffer: BufferConfig{
			DataChannelSize:   1024,
			ResultChannelSize: 1024,
			MaxBufferSize:     10000,
			UsageThreshold:    0.8,
		},
		Overflow: OverflowConfig{
			Strategy:      OverflowExpand,
			BlockTimeout:  5 * time.Second,
			AllowDataLoss: false,
			Expansion: ExpansionConfig{
				GrowthFactor:     1.5,
				MinIncrement:     256,
				TriggerThreshold: 0.9,
				ExpansionTimeout: 5 * time.Second,
			},
		},
		Worker: WorkerConfig{
			SinkPoolSize:     4,
			SinkWorkerCount:  2,
			MaxRetryRoutines: 10,
		},
		Monitoring: MonitoringConfig{
			Enabled:             false,
			StatsUpdateInterval: 30 * time.Second,
			WarningThresholds: WarningThresholds{
				DropRateWarning:     10.0,
				DropRateCritical:    25.0,
				BufferUsageWarning:  80.0,
				BufferUsageCritical: 95.0,
			},
		},
	}
}

// HighThroughput widens buffers and favors OverflowExpand for
// maximum sustained throughput at the cost of memory.
func HighThroughput() PerformanceConfig {
	c := Default()
	c.Buffer.DataChannelSize = 8192
	c.Buffer.ResultChannelSize = 8192
	c.Buffer.MaxBufferSize = 200000
	c.Worker.SinkPoolSize = 16
	c.Worker.SinkWorkerCount = 8
	c.Monitoring.Enabled = true
	return c
}

// LowLatency shrinks buffers and selects OverflowBlock, trading
// throughput headroom for bounded memory and tighter scheduling
// latency.
func LowLatency() PerformanceConfig {
	c := Default()
	c.Buffer.DataChannelSize = 128
	c.Buffer.ResultChannelSize = 128
	c.Buffer.UsageThreshold = 0.7
	c.Overflow.Strategy = OverflowBlock
	c.Overflow.BlockTimeout = 1 * time.Second
	c.Monitoring.Enabled = true
	c.Monitoring.StatsUpdateInterval = 1 * time.Second
	return c
}
