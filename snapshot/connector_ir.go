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

package snapshot

import (
	"github.com/spf13/cast"

	"github.com/flowsql/flowsql/connector"
)

func sinkConfigToMap(c connector.SinkConnectorConfig) (map[string]interface{}, error) {
	return map[string]interface{}{
		"sink_kind":         string(c.Kind),
		"sink_name":         c.SinkName,
		"broker_url":        c.BrokerURL,
		"topic":             c.Topic,
		"qos":               c.Qos,
		"retain":            c.Retain,
		"client_id":         c.ClientID,
		"connector_key":     c.ConnectorKey,
		"custom_kind":       c.CustomKind,
		"settings":          c.Settings,
		"encoder_kind":      c.EncoderKind,
		"batch_count":       c.Common.BatchCount,
		"batch_duration_ns": int64(c.Common.BatchDuration),
		"forward_to_result": c.ForwardToResult,
	}, nil
}

func mapToSinkConfig(m map[string]interface{}) (connector.SinkConnectorConfig, error) {
	settings, _ := m["settings"].(map[string]interface{})
	return connector.SinkConnectorConfig{
		Kind:            connector.SinkKind(cast.ToString(m["sink_kind"])),
		SinkName:        cast.ToString(m["sink_name"]),
		BrokerURL:       cast.ToString(m["broker_url"]),
		Topic:           cast.ToString(m["topic"]),
		Qos:             cast.ToInt(m["qos"]),
		Retain:          cast.ToBool(m["retain"]),
		ClientID:        cast.ToString(m["client_id"]),
		ConnectorKey:    cast.ToString(m["connector_key"]),
		CustomKind:      cast.ToString(m["custom_kind"]),
		Settings:        settings,
		EncoderKind:     cast.ToString(m["encoder_kind"]),
		ForwardToResult: cast.ToBool(m["forward_to_result"]),
		Common: connector.CommonSinkProps{
			BatchCount:    cast.ToInt(m["batch_count"]),
			BatchDuration: cast.ToDuration(cast.ToInt64(m["batch_duration_ns"])),
		},
	}, nil
}
