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
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowsql/flowsql/config"
	"github.com/flowsql/flowsql/shared"
)

// defaultGraphDeadline bounds how long Wait blocks for every processor
// to reach StateTerminated after Stop cancels the graph's context.
const defaultGraphDeadline = 5 * time.Second

// Supervisor runs every processor of a Graph as its own goroutine and
// owns the graph-wide context every processor's Run observes. Start,
// Stop and Wait are the only entry points; Stop is safe to call more
// than once and from more than one goroutine.
type Supervisor struct {
	graph    *Graph
	deadline time.Duration

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	inputCount   atomic.Int64
	outputCount  atomic.Int64
	droppedCount atomic.Int64
}

// NewSupervisor builds a Supervisor for graph with the default 5s
// shutdown deadline.
func NewSupervisor(graph *Graph) *Supervisor {
	return &Supervisor{graph: graph, deadline: defaultGraphDeadline}
}

// WithDeadline overrides the default shutdown deadline.
func (s *Supervisor) WithDeadline(d time.Duration) *Supervisor {
	s.deadline = d
	return s
}

// Start launches every processor's Run under a context derived from
// ctx, returning once every goroutine has been spawned (not once they
// finish -- use Wait for that).
func (s *Supervisor) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, p := range s.graph.All {
		if _, ok := p.(*SourceProc); ok {
			s.watchInput(p.Output())
		}
	}
	if s.graph.ResultCollect != nil {
		s.watchOutput(s.graph.ResultCollect.Output())
	}

	for _, p := range s.graph.All {
		s.wg.Add(1)
		go func(p Node) {
			defer s.wg.Done()
			p.Run(runCtx)
		}(p)
	}
}

// watchInput and watchOutput subscribe a counting-only consumer to a
// source's or the result collector's output broadcaster: an extra
// subscription alongside whatever routes the data onward, never
// competing with it for delivery.
func (s *Supervisor) watchInput(ch <-chan shared.StreamData) {
	go func() {
		for sd := range ch {
			if sd.Kind == shared.EnvelopeData {
				s.inputCount.Add(1)
			}
		}
	}()
}

func (s *Supervisor) watchOutput(ch <-chan shared.StreamData) {
	go func() {
		for sd := range ch {
			switch sd.Kind {
			case shared.EnvelopeData:
				s.outputCount.Add(1)
			case shared.EnvelopeError:
				s.droppedCount.Add(1)
			}
		}
	}()
}

// Stop cancels the graph's context, idempotently.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Wait blocks until every processor has returned from Run, or the
// shutdown deadline elapses, whichever comes first.
func (s *Supervisor) Wait() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.deadline):
	}
}

// InputCount, OutputCount and DroppedCount report the data envelopes
// observed at the graph's sources, at its result collector, and the
// error envelopes the result collector observed in place of data,
// respectively. Dropped counts only what flows through
// ResultCollect -- a sink with ForwardToResult unset re-emits nothing
// on its own output, so its deliveries are not separately observable
// without invasive per-processor instrumentation.
func (s *Supervisor) InputCount() int64   { return s.inputCount.Load() }
func (s *Supervisor) OutputCount() int64  { return s.outputCount.Load() }
func (s *Supervisor) DroppedCount() int64 { return s.droppedCount.Load() }

// GraphStats is the counter snapshot an external management surface
// polls for per-pipeline health.
type GraphStats struct {
	Input, Output, Dropped int64
	DropRate               float64 // percentage, 0-100
}

// Stats snapshots the current counters.
func (s *Supervisor) Stats() GraphStats {
	in, out, dropped := s.inputCount.Load(), s.outputCount.Load(), s.droppedCount.Load()
	var rate float64
	if total := out + dropped; total > 0 {
		rate = float64(dropped) / float64(total) * 100
	}
	return GraphStats{Input: in, Output: out, Dropped: dropped, DropRate: rate}
}

// CheckThresholds compares the current drop rate against cfg's
// WarningThresholds, reporting whether it has crossed the warning
// and/or critical cutoff. A disabled MonitoringConfig always reports
// clean, since the operator opted out of tracking it.
func (s *Supervisor) CheckThresholds(cfg config.MonitoringConfig) (warning, critical bool) {
	if !cfg.Enabled {
		return false, false
	}
	rate := s.Stats().DropRate
	return rate >= cfg.WarningThresholds.DropRateWarning, rate >= cfg.WarningThresholds.DropRateCritical
}
