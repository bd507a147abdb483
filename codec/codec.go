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

// Package codec implements the pluggable byte decoder/encoder layer:
// decoders turn bytes into typed RecordBatches, encoders turn
// RecordBatches back into bytes. Each has a stable kind identifier and
// a property bag so the physical planner and the snapshot codec can
// serialize its configuration without re-deriving it.
package codec

import (
	"fmt"
	"sync"

	"github.com/flowsql/flowsql/value"
)

// CodecError reports a decode/encode failure for a single payload. It
// never terminates the owning processor; the caller wraps it into a
// StreamData error envelope and continues.
type CodecError struct {
	Kind    string
	Message string
	Err     error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec %s: %s", e.Kind, e.Message)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Decoder turns a byte payload into a typed RecordBatch against a
// fixed target schema.
type Decoder interface {
	Decode(payload []byte) (*value.RecordBatch, error)
	Kind() string
	Props() map[string]interface{}
}

// Encoder turns a RecordBatch into bytes.
type Encoder interface {
	Encode(batch *value.RecordBatch) ([]byte, error)
	Kind() string
	Props() map[string]interface{}
}

// DecoderFactory builds a Decoder bound to a schema and property bag,
// used by the codec registry.
type DecoderFactory func(schema *value.Schema, props map[string]interface{}) (Decoder, error)
type EncoderFactory func(props map[string]interface{}) (Encoder, error)

var (
	registryMu      sync.RWMutex
	decoderFactories = map[string]DecoderFactory{}
	encoderFactories = map[string]EncoderFactory{}
	frozen           bool
)

func init() {
	RegisterDecoder("json", newJSONDecoder)
	RegisterDecoder("raw", newRawDecoder)
	RegisterEncoder("json", newJSONEncoder)
	RegisterEncoder("raw", newRawEncoder)
}

// RegisterDecoder adds a decoder kind to the global registry.
// Registration is allowed freely at process start and refused once
// the registry is frozen (the first pipeline compiled).
func RegisterDecoder(kind string, f DecoderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if frozen {
		return
	}
	decoderFactories[kind] = f
}

func RegisterEncoder(kind string, f EncoderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if frozen {
		return
	}
	encoderFactories[kind] = f
}

// Freeze refuses further registry mutation. Called once the first
// pipeline compiles.
func Freeze() {
	registryMu.Lock()
	defer registryMu.Unlock()
	frozen = true
}

func NewDecoder(kind string, schema *value.Schema, props map[string]interface{}) (Decoder, error) {
	registryMu.RLock()
	f, ok := decoderFactories[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown decoder kind %q", kind)
	}
	return f(schema, props)
}

func NewEncoder(kind string, props map[string]interface{}) (Encoder, error) {
	registryMu.RLock()
	f, ok := encoderFactories[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown encoder kind %q", kind)
	}
	return f(props)
}
