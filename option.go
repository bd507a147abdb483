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

package flowsql

import (
	"io"
	"time"

	"github.com/flowsql/flowsql/config"
	"github.com/flowsql/flowsql/logger"
	"github.com/flowsql/flowsql/processor"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDataDir sets the on-disk metadata namespace directory New opens
// (streams/pipelines/shared_mqtt_client_configs tables plus the
// snapshot cache). Defaults to "./flowsql-data".
func WithDataDir(dir string) Option {
	return func(e *Engine) { e.dataDir = dir }
}

// WithPerformanceConfig overrides the default PerformanceConfig every
// compiled pipeline's processor graph is built with.
func WithPerformanceConfig(cfg config.PerformanceConfig) Option {
	return func(e *Engine) { e.perf = cfg }
}

// WithHighThroughput selects config.HighThroughput().
func WithHighThroughput() Option {
	return func(e *Engine) { e.perf = config.HighThroughput() }
}

// WithLowLatency selects config.LowLatency().
func WithLowLatency() Option {
	return func(e *Engine) { e.perf = config.LowLatency() }
}

// WithResolver supplies the ConnectorResolver used to materialize
// live source/sink connectors at graph-build time. Defaults to
// processor.DefaultResolver{}, which only resolves a Nop sink --
// concrete wire transports (MQTT, etc.) are external collaborators, so
// a deployment with real sources or sinks must supply its own.
func WithResolver(r processor.ConnectorResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithShutdownDeadline overrides the default 5s grace period a
// pipeline's Supervisor.Wait blocks for after Stop.
func WithShutdownDeadline(d time.Duration) Option {
	return func(e *Engine) { e.shutdownDeadline = d }
}

// WithLogLevel sets the process-wide default logger's level.
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) { logger.GetDefault().SetLevel(level) }
}

// WithLogOutput redirects the process-wide default logger's output.
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) { logger.SetDefault(logger.NewLogger(level, output)) }
}

// WithDiscardLog disables all logging.
func WithDiscardLog() Option {
	return func(e *Engine) { logger.SetDefault(logger.NewDiscardLogger()) }
}
