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

package store

// StoredStream is a named source definition as persisted by the
// management API, independent of any one pipeline.
type StoredStream struct {
	ID          string                 `msgpack:"id"`
	StreamType  string                 `msgpack:"stream_type"`
	SchemaJSON  string                 `msgpack:"schema_json"`
	Props       map[string]interface{} `msgpack:"props"`
	DecoderType string                 `msgpack:"decoder_type"`
}

// StoredSink is one sink entry of a StoredPipeline's Sinks list.
type StoredSink struct {
	Kind  string                 `msgpack:"kind"`
	Props map[string]interface{} `msgpack:"props"`
}

// StoredPipeline is a pipeline definition as submitted to POST
// /pipelines: the SQL text plus its configured sinks. The compiled
// plan itself is cached separately, keyed by the fingerprint computed
// from this record (see SnapshotCache).
type StoredPipeline struct {
	ID    string       `msgpack:"id"`
	SQL   string       `msgpack:"sql"`
	Sinks []StoredSink `msgpack:"sinks"`
}

// SharedMQTTClientConfig is a named, reusable MQTT connection profile
// referenced by multiple source/sink bindings.
type SharedMQTTClientConfig struct {
	BrokerURL string `msgpack:"broker_url"`
	Topic     string `msgpack:"topic"`
	ClientID  string `msgpack:"client_id"`
	QoS       int    `msgpack:"qos"`
}

// Store is the metadata namespace: streams, pipelines and shared MQTT
// client configs, plus the plan-snapshot cache sharing the same data
// directory.
type Store struct {
	Streams           *Table[StoredStream]
	Pipelines         *Table[StoredPipeline]
	SharedMQTTConfigs *Table[SharedMQTTClientConfig]
	Snapshots         *SnapshotCache
}

// Open creates (if absent) and opens every table and the snapshot
// cache under dataDir.
func Open(dataDir string) (*Store, error) {
	streams, err := NewTable[StoredStream](dataDir, "streams")
	if err != nil {
		return nil, err
	}
	pipelines, err := NewTable[StoredPipeline](dataDir, "pipelines")
	if err != nil {
		return nil, err
	}
	mqtt, err := NewTable[SharedMQTTClientConfig](dataDir, "shared_mqtt_client_configs")
	if err != nil {
		return nil, err
	}
	snapshots, err := NewSnapshotCache(dataDir)
	if err != nil {
		return nil, err
	}
	return &Store{Streams: streams, Pipelines: pipelines, SharedMQTTConfigs: mqtt, Snapshots: snapshots}, nil
}
