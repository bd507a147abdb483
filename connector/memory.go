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

import (
	"context"
	"sync"
)

// NopSink discards every payload. Used for the "nop" SinkKind and for
// tests that only care about upstream behavior.
type NopSink struct{}

func (NopSink) Deliver(payload []byte) error { return nil }
func (NopSink) Flush() error                 { return nil }
func (NopSink) Close() error                 { return nil }

// MemorySource is an in-memory SourceConnector, for tests, examples
// and the CLI's local-development mode: payloads are pushed with
// Push, and End closes the stream with EventEndOfStream.
type MemorySource struct {
	mu     sync.Mutex
	events chan ConnectorEvent
	errs   chan error
	once   sync.Once
}

func NewMemorySource(bufSize int) *MemorySource {
	return &MemorySource{
		events: make(chan ConnectorEvent, bufSize),
		errs:   make(chan error, 1),
	}
}

func (m *MemorySource) Subscribe(ctx context.Context) (<-chan ConnectorEvent, <-chan error, error) {
	return m.events, m.errs, nil
}

func (m *MemorySource) Push(payload []byte) {
	m.events <- ConnectorEvent{Kind: EventPayload, Payload: payload}
}

func (m *MemorySource) Fail(err error) {
	select {
	case m.errs <- err:
	default:
	}
}

func (m *MemorySource) End() {
	m.once.Do(func() {
		m.events <- ConnectorEvent{Kind: EventEndOfStream}
		close(m.events)
	})
}

// MemorySink collects delivered payloads in order, for assertions in
// tests.
type MemorySink struct {
	mu       sync.Mutex
	payloads [][]byte
	closed   bool
	flushes  int
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (m *MemorySink) Deliver(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.payloads = append(m.payloads, cp)
	return nil
}

func (m *MemorySink) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemorySink) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.payloads))
	copy(out, m.payloads)
	return out
}

func (m *MemorySink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
