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

// Package catalog defines the read-only source lookup the planner and
// graph builder consult. The concrete catalog backed by an external
// HTTP management surface and metadata store is out of scope; this
// package specifies only the contract and ships an in-memory
// implementation for tests and local/dev use.
package catalog

import (
	"github.com/flowsql/flowsql/codec"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/value"
)

// EventTimeBinding names which column of a source schema carries the
// event timestamp used for watermarking, and how to interpret it.
type EventTimeBinding struct {
	Column   string
	TimeUnit string // e.g. "ss", "ms", "ns" -- matches the window-spec time unit vocabulary
}

// SourceBinding is everything the planner and graph builder need to
// know about a named source.
type SourceBinding struct {
	Name          string
	Schema        *value.Schema
	DecoderKind   string
	DecoderProps  map[string]interface{}
	EventTime     *EventTimeBinding // nil: source has no event-time binding
	Transport     connector.TransportDescriptor
}

// Catalog is the read-only lookup from source name to binding. The
// planner treats it as immutable during planning; the graph builder
// consults it again at build time to materialize connectors.
type Catalog interface {
	GetSource(name string) (*SourceBinding, bool)
}

// StaticCatalog is an in-memory Catalog, used by tests and by the CLI
// for local development without the external metadata store.
type StaticCatalog struct {
	sources map[string]*SourceBinding
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{sources: make(map[string]*SourceBinding)}
}

func (c *StaticCatalog) Register(b *SourceBinding) {
	c.sources[b.Name] = b
}

func (c *StaticCatalog) GetSource(name string) (*SourceBinding, bool) {
	b, ok := c.sources[name]
	return b, ok
}

// DecoderFor resolves a source's configured decoder from the global
// codec registry.
func DecoderFor(b *SourceBinding) (codec.Decoder, error) {
	return codec.NewDecoder(b.DecoderKind, b.Schema, b.DecoderProps)
}
