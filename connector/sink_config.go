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

package connector

import "time"

// SinkKind tags a SinkConnectorConfig's variant.
type SinkKind string

const (
	SinkMqtt   SinkKind = "mqtt"
	SinkNop    SinkKind = "nop"
	SinkCustom SinkKind = "custom"
)

// SinkConnectorConfig is the tagged sink configuration carried by a
// logical DataSink node and serialized into plan snapshots. Only the
// fields relevant to Kind are meaningful.
type SinkConnectorConfig struct {
	Kind SinkKind

	// Mqtt fields.
	SinkName    string
	BrokerURL   string
	Topic       string
	Qos         int
	Retain      bool
	ClientID    string
	ConnectorKey string

	// Custom fields.
	CustomKind string
	Settings   map[string]interface{}

	// EncoderKind names the codec the physical planner inserts above
	// this sink ("json" if unset).
	EncoderKind string

	Common CommonSinkProps

	// ForwardToResult, when true, additionally routes this sink's
	// output into the pipeline's ResultCollect stream: implemented as
	// non-suppressing, so multiple sinks opting in each forward
	// independently.
	ForwardToResult bool
}

// CommonSinkProps controls optional batching in front of the sink. At
// least one of BatchCount/BatchDuration must be set for the physical
// planner to insert a Batch node; neither set means the Encoder feeds
// the DataSink directly, one payload at a time.
type CommonSinkProps struct {
	BatchCount    int
	BatchDuration time.Duration
}

func (p CommonSinkProps) WantsBatching() bool {
	return p.BatchCount > 0 || p.BatchDuration > 0
}
