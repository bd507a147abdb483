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

// Package processor instantiates one running task per physical.Node
// and wires them into the graph the physical DAG describes, each edge
// a shared.Broadcaster sized at graph-build time so a node whose output
// feeds more than one downstream consumer (a shared upstream chain
// feeding two sinks) never has to choose which consumer to starve.
// Processors exchange a single unified shared.StreamData envelope per
// edge — data, control, and error all ride the same channel, tagged by
// EnvelopeKind, generalizing a single dataChan-plus-done goroutine loop
// to a graph instead of one stream.
package processor

import (
	"context"
	"sync/atomic"

	"github.com/flowsql/flowsql/shared"
)

// State is a processor's position in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Node is the common shape every instantiated processor satisfies. Run
// blocks until its inputs are exhausted (StreamEnd observed on every
// input), ctx is canceled, or an unrecoverable error occurs; it never
// panics on a closed input channel — a closed input is treated as an
// implicit StreamEnd.
type Node interface {
	Run(ctx context.Context)
	Output() <-chan shared.StreamData
	PlanIndex() int
	Kind() string
	State() State
}

// base holds the bookkeeping every concrete processor embeds: its
// broadcaster (so multiple downstream consumers each get their own
// subscription), plan index, kind label for diagnostics, and atomic
// lifecycle state queried by GraphStats and tests without a data race.
type base struct {
	idx   int
	kind  string
	bcast *shared.Broadcaster
	state atomic.Int32
}

func newBase(idx int, kind string, capacity int) base {
	return base{idx: idx, kind: kind, bcast: shared.NewBroadcasterSized(capacity)}
}

func (b *base) PlanIndex() int                      { return b.idx }
func (b *base) Kind() string                        { return b.kind }
func (b *base) Output() <-chan shared.StreamData    { return b.bcast.Subscribe() }
func (b *base) State() State                        { return State(b.state.Load()) }
func (b *base) setState(s State)                     { b.state.Store(int32(s)) }
func (b *base) emit(sd shared.StreamData)           { b.bcast.Publish(sd) }

// enterRunning transitions Idle -> Running at most once, on first
// observed activity (StreamStart or the first data envelope).
func (b *base) enterRunning() {
	if State(b.state.Load()) == StateIdle {
		b.setState(StateRunning)
	}
}
