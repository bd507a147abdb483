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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/codec"
	"github.com/flowsql/flowsql/config"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/logger"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/physical"
	"github.com/flowsql/flowsql/processor"
	"github.com/flowsql/flowsql/rsql"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/snapshot"
	"github.com/flowsql/flowsql/store"
)

// buildID is stamped into every snapshot this binary produces; a
// deployment that changes plan-node shapes between builds should bump
// it so stale cached snapshots are recognizable (the codec itself
// only rejects a format_version mismatch -- buildID is this engine's
// own compatibility marker, carried through unopinionated by the
// codec).
const buildID = "flowsql-dev"

// Status is a pipeline's coarse lifecycle state: compiled, running,
// draining, stopped, or failed with a reason.
type Status string

const (
	StatusCompiled Status = "compiled"
	StatusRunning  Status = "running"
	StatusDraining Status = "draining"
	StatusStopped  Status = "stopped"
	StatusFailed   Status = "failed"
)

// Pipeline is a named compiled plan plus its running graph, if started.
type Pipeline struct {
	ID          string
	SQL         string
	Fingerprint string
	Logical     *logical.Plan
	Physical    *physical.Plan

	mu         sync.Mutex
	status     Status
	failReason string
	graph      *processor.Graph
	supervisor *processor.Supervisor
}

// Status reports the pipeline's current lifecycle state.
func (p *Pipeline) Status() (Status, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.failReason
}

// Stats reports the running supervisor's counters, or a zero
// GraphStats if the pipeline hasn't been started.
func (p *Pipeline) Stats() processor.GraphStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.supervisor == nil {
		return processor.GraphStats{}
	}
	return p.supervisor.Stats()
}

// Engine owns the catalog, metadata store, shared-stream registry and
// running pipelines of one process. It is the programmatic core a
// management HTTP surface would front; that surface is an external
// collaborator, not implemented here.
type Engine struct {
	catalog  catalog.Catalog
	store    *store.Store
	registry *shared.Registry
	resolver processor.ConnectorResolver

	dataDir          string
	perf             config.PerformanceConfig
	shutdownDeadline time.Duration

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

// New opens the metadata store under the configured data dir (default
// "./flowsql-data") and returns a ready Engine. cat supplies source
// bindings; a deployment normally constructs it from its own `streams`
// table, but a caller may pass a catalog.StaticCatalog directly for
// local/dev use.
func New(cat catalog.Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog:          cat,
		registry:         shared.NewRegistry(),
		resolver:         processor.DefaultResolver{},
		dataDir:          "./flowsql-data",
		perf:             config.Default(),
		shutdownDeadline: 5 * time.Second,
		pipelines:        make(map[string]*Pipeline),
	}
	for _, opt := range opts {
		opt(e)
	}
	st, err := store.Open(e.dataDir)
	if err != nil {
		return nil, fmt.Errorf("flowsql: open store at %q: %w", e.dataDir, err)
	}
	e.store = st
	return e, nil
}

// Compile parses sql, builds and lowers its plan, and caches the
// resulting snapshot keyed by a fingerprint of the normalized SQL
// text. This engine uses sha256 over the whitespace-normalized SQL
// text, which is stable across process restarts and sufficient to
// detect an unchanged plan on restart. A production catalog with
// schema versioning would widen this to include schema hashes too.
// Re-compiling an id already persisted with the same normalized SQL
// succeeds; an id persisted with different SQL fails with the store's
// AlreadyExistsError. The first successful Compile freezes the codec
// registry.
func (e *Engine) Compile(id, sql string, sinks []connector.SinkConnectorConfig) (*Pipeline, error) {
	stmt, err := rsql.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("flowsql: parse %q: %w", id, err)
	}
	logicalPlan, err := logical.Build(stmt, e.catalog, sinks)
	if err != nil {
		return nil, fmt.Errorf("flowsql: logical plan %q: %w", id, err)
	}
	physicalPlan, err := physical.Lower(logicalPlan)
	if err != nil {
		return nil, fmt.Errorf("flowsql: physical plan %q: %w", id, err)
	}

	fp := fingerprint(sql)
	encoded, err := snapshot.Encode(logicalPlan, physicalPlan, fp, buildID)
	if err != nil {
		return nil, fmt.Errorf("flowsql: encode snapshot %q: %w", id, err)
	}
	if err := e.store.Snapshots.Put(fp, encoded); err != nil {
		return nil, fmt.Errorf("flowsql: cache snapshot %q: %w", id, err)
	}
	if err := e.store.Pipelines.Create(id, store.StoredPipeline{ID: id, SQL: sql, Sinks: toStoredSinks(sinks)}); err != nil {
		var exists *store.AlreadyExistsError
		prev, found, getErr := e.store.Pipelines.Get(id)
		if !errors.As(err, &exists) || getErr != nil || !found || normalizeSQL(prev.SQL) != normalizeSQL(sql) {
			return nil, fmt.Errorf("flowsql: persist pipeline %q: %w", id, err)
		}
	}
	codec.Freeze()

	p := &Pipeline{
		ID:          id,
		SQL:         sql,
		Fingerprint: fp,
		Logical:     logicalPlan,
		Physical:    physicalPlan,
		status:      StatusCompiled,
	}
	e.mu.Lock()
	e.pipelines[id] = p
	e.mu.Unlock()
	return p, nil
}

// Start builds the processor graph for a compiled pipeline and runs
// it under a Supervisor. Starting an already-running pipeline is a
// no-op: sending the same lifecycle signal twice yields the same
// terminal state.
func (e *Engine) Start(id string) error {
	p, ok := e.get(id)
	if !ok {
		return fmt.Errorf("flowsql: unknown pipeline %q", id)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusRunning {
		return nil
	}
	graph, err := processor.BuildWithConfig(p.Physical, e.registry, e.resolver, e.perf)
	if err != nil {
		p.status, p.failReason = StatusFailed, err.Error()
		return fmt.Errorf("flowsql: build graph %q: %w", id, err)
	}
	sup := processor.NewSupervisor(graph).WithDeadline(e.shutdownDeadline)
	sup.Start(context.Background())
	p.graph, p.supervisor, p.status = graph, sup, StatusRunning
	logger.GetDefault().Info("flowsql: pipeline %q started", id)
	return nil
}

// Stop cancels a running pipeline's graph and waits for it to drain,
// up to the Engine's shutdown deadline. Calling Stop twice is safe --
// Supervisor.Stop is idempotent.
func (e *Engine) Stop(id string) error {
	p, ok := e.get(id)
	if !ok {
		return fmt.Errorf("flowsql: unknown pipeline %q", id)
	}
	p.mu.Lock()
	sup := p.supervisor
	if sup == nil {
		p.mu.Unlock()
		return nil
	}
	p.status = StatusDraining
	p.mu.Unlock()

	sup.Stop()
	sup.Wait()

	p.mu.Lock()
	p.status = StatusStopped
	p.mu.Unlock()
	return nil
}

// Delete stops (if running) and removes a pipeline from both the
// in-memory registry and the persisted `pipelines` table.
func (e *Engine) Delete(id string) error {
	_ = e.Stop(id)
	e.mu.Lock()
	delete(e.pipelines, id)
	e.mu.Unlock()
	if err := e.store.Pipelines.Delete(id); err != nil {
		return fmt.Errorf("flowsql: delete pipeline %q: %w", id, err)
	}
	return nil
}

// List reports every known pipeline's id and status.
func (e *Engine) List() map[string]Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Status, len(e.pipelines))
	for id, p := range e.pipelines {
		status, _ := p.Status()
		out[id] = status
	}
	return out
}

// Close stops every running pipeline. The metadata store holds no
// open file handles between calls (one file per key, opened and
// closed per operation), so there is nothing else to release.
func (e *Engine) Close() error {
	e.mu.Lock()
	ids := make([]string, 0, len(e.pipelines))
	for id := range e.pipelines {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		_ = e.Stop(id)
	}
	return nil
}

func (e *Engine) get(id string) (*Pipeline, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pipelines[id]
	return p, ok
}

func fingerprint(sql string) string {
	sum := sha256.Sum256([]byte(normalizeSQL(sql)))
	return hex.EncodeToString(sum[:])
}

// normalizeSQL collapses whitespace runs so cosmetic formatting
// differences (extra spaces, newlines) don't change the fingerprint
// of an otherwise identical query.
func normalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func toStoredSinks(sinks []connector.SinkConnectorConfig) []store.StoredSink {
	out := make([]store.StoredSink, len(sinks))
	for i, s := range sinks {
		out[i] = store.StoredSink{Kind: string(s.Kind)}
	}
	return out
}
