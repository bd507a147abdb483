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
	"fmt"
	"sort"
	"time"

	"github.com/flowsql/flowsql/aggregate"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
	"github.com/flowsql/flowsql/window"
)

// groupKey is a hashable, comparable identity for one GROUP BY key
// tuple, built from value.Hash of each key value. Sortable
// lexicographically as a tie-break for emit ordering; not a semantic
// ordering over the original key values, just a stable one.
type groupKey string

func makeGroupKey(vals []value.Value) groupKey {
	buf := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		x := value.Hash(v)
		buf = append(buf, byte(x), byte(x>>8), byte(x>>16), byte(x>>24), byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
	}
	return groupKey(buf)
}

// slotID identifies one open window instance: a group key plus an
// epoch distinguishing window instances of that group. For time
// windows epoch is the window's Start; for counting windows it is a
// per-group generation counter bumped each time an instance closes;
// unwindowed aggregation uses a single fixed epoch per group.
type slotID struct {
	group groupKey
	epoch int64
}

type aggSlot struct {
	keyVals []value.Value
	bounds  window.Bounds // zero value for unwindowed/counting groups
	accs    []aggregate.Accumulator
	count   int
}

// StreamingAggregationProc maintains one accumulator set per (group
// key, open window) pair and emits a row per group once the watermark
// passes that window's close time. Unwindowed GROUP BY (spec nil)
// keeps one perpetually-open group per key, flushed only at stream
// end.
//
// Each row is bucketed by its own event-time column value when the
// upstream plan supplies one (eventTimeColIdx >= 0); this is what the
// preceding EventtimeWatermarkProc parsed to advance the watermark, so
// the same value drives bucketing here instead of the lagging
// watermark. Process-time windows (no event-time column) bucket by
// currentTime(), the most recently observed watermark tick.
type StreamingAggregationProc struct {
	base
	input       <-chan shared.StreamData
	groupBy     []expr.ScalarExpr
	groupNames  []string
	aggregates  []logical.AggregateSpec
	aggArgTypes []value.DataType
	spec        *window.Spec
	outSchema   *value.Schema

	eventTimeColIdx int // -1 when rows carry no event-time column
	eventTimeUnit   string

	slots    map[slotID]*aggSlot
	genByKey map[groupKey]int64
	now      time.Time
}

// NewStreamingAggregationProc builds the processor. aggArgTypes gives
// the resolved argument datatype of each Aggregates entry (value.Dt of
// value.KindInt64 is a fine placeholder for count(*), whose argument
// is nil and never evaluated). eventTimeColumn is the input schema
// column each row's window bucket is computed from; empty means
// bucket by currentTime() instead (process-time windows, or unwindowed
// aggregation).
func NewStreamingAggregationProc(idx int, input <-chan shared.StreamData, inSchema *value.Schema, groupBy []expr.ScalarExpr, groupNames []string, aggregates []logical.AggregateSpec, aggArgTypes []value.DataType, spec *window.Spec, eventTimeColumn, eventTimeUnit string, outSchema *value.Schema, capacity int) (*StreamingAggregationProc, error) {
	colIdx := -1
	if eventTimeColumn != "" {
		idx2, ok := inSchema.IndexByName(eventTimeColumn)
		if !ok {
			return nil, fmt.Errorf("streaming_aggregation: event-time column %q not found in input schema", eventTimeColumn)
		}
		colIdx = idx2
	}
	return &StreamingAggregationProc{
		base:            newBase(idx, "streaming_aggregation", capacity),
		input:           input,
		groupBy:         groupBy,
		groupNames:      groupNames,
		aggregates:      aggregates,
		aggArgTypes:     aggArgTypes,
		spec:            spec,
		outSchema:       outSchema,
		eventTimeColIdx: colIdx,
		eventTimeUnit:   eventTimeUnit,
		slots:           make(map[slotID]*aggSlot),
		genByKey:        make(map[groupKey]int64),
	}, nil
}

func (p *StreamingAggregationProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)
	for {
		select {
		case <-ctx.Done():
			return
		case sd, ok := <-p.input:
			if !ok {
				p.flushAll()
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				p.ingest(sd.Batch)
				p.flushDue()
			case shared.EnvelopeControl:
				if !sd.Watermark.IsZero() {
					p.now = sd.Watermark
					p.flushDue()
					continue
				}
				if sd.Signal == shared.StreamStart {
					p.enterRunning()
				}
				terminal := sd.Signal == shared.StreamEnd
				if terminal {
					p.flushAll()
					p.setState(StateDraining)
					p.emit(sd)
					return
				}
			case shared.EnvelopeError:
				p.emit(sd)
			}
		}
	}
}

func (p *StreamingAggregationProc) currentTime() time.Time {
	if p.now.IsZero() {
		return time.Now()
	}
	return p.now
}

// rowTime returns the time used to bucket row i into a window: its own
// event-time column value when one is configured, else the node's
// current-time estimate (for process-time windows and unwindowed
// aggregation).
func (p *StreamingAggregationProc) rowTime(b *value.RecordBatch, i int) time.Time {
	if p.eventTimeColIdx < 0 {
		return p.currentTime()
	}
	t, err := eventTimeOf(b.Columns[p.eventTimeColIdx].Values[i], p.eventTimeUnit)
	if err != nil {
		p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
		return p.currentTime()
	}
	return t
}

func (p *StreamingAggregationProc) ingest(b *value.RecordBatch) {
	for i := 0; i < b.NumRows(); i++ {
		row := b.Row(i)
		keyVals := make([]value.Value, len(p.groupBy))
		for j, g := range p.groupBy {
			v, err := g.Eval(row)
			if err != nil {
				p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
				continue
			}
			keyVals[j] = v
		}
		key := makeGroupKey(keyVals)
		t := p.rowTime(b, i)

		for _, bounds := range p.boundsFor(key, t) {
			slot := p.slotFor(key, keyVals, bounds)
			for a, spec := range p.aggregates {
				var argVal value.Value
				if spec.Arg != nil {
					v, err := spec.Arg.Eval(row)
					if err != nil {
						p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
						continue
					}
					argVal = v
				}
				if err := slot.accs[a].Update(argVal); err != nil {
					p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
				}
			}
			slot.count++
			if p.spec != nil && p.spec.Kind == window.KindCounting && window.CountWindowComplete(*p.spec, slot.count) {
				p.finalizeAndEmit(key, slot)
				delete(p.slots, slotID{group: key, epoch: p.genByKey[key]})
				p.genByKey[key]++
			}
		}
	}
}

// boundsFor returns the window instance(s) a newly-arriving row for
// key belongs to, bucketed by t (the row's own event time, or the
// node's current-time estimate for process-time windows).
func (p *StreamingAggregationProc) boundsFor(key groupKey, t time.Time) []window.Bounds {
	if p.spec == nil {
		return []window.Bounds{{}}
	}
	switch p.spec.Kind {
	case window.KindTumbling:
		return []window.Bounds{window.TumblingBounds(*p.spec, t)}
	case window.KindSliding:
		return window.SlidingBounds(*p.spec, t)
	case window.KindCounting:
		return []window.Bounds{{}}
	case window.KindSession:
		return []window.Bounds{{Start: t, End: window.SessionClose(*p.spec, t)}}
	default:
		return []window.Bounds{{Start: t, End: t}}
	}
}

func (p *StreamingAggregationProc) slotFor(key groupKey, keyVals []value.Value, bounds window.Bounds) *aggSlot {
	var epoch int64
	switch {
	case p.spec == nil:
		epoch = 0
	case p.spec.Kind == window.KindCounting:
		epoch = p.genByKey[key]
	default:
		epoch = bounds.Start.UnixNano()
	}
	id := slotID{group: key, epoch: epoch}
	slot, ok := p.slots[id]
	if !ok {
		accs := make([]aggregate.Accumulator, len(p.aggregates))
		for i, spec := range p.aggregates {
			acc, err := aggregate.NewAccumulator(aggregate.Spec{FuncName: spec.FuncName, ArgType: p.aggArgTypes[i]})
			if err != nil {
				p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
			}
			accs[i] = acc
		}
		slot = &aggSlot{keyVals: keyVals, bounds: bounds, accs: accs}
		p.slots[id] = slot
	} else if p.spec != nil && p.spec.Kind == window.KindSession {
		// extend the session's close deadline to cover the latest row
		slot.bounds.End = bounds.End
	}
	return slot
}

// flushDue finalizes and emits every time-bounded window whose close
// time is at or before the current time estimate, in ascending
// close-time then ascending group-key order.
func (p *StreamingAggregationProc) flushDue() {
	if p.spec == nil || p.spec.Kind == window.KindCounting {
		return
	}
	now := p.currentTime()
	type due struct {
		id   slotID
		slot *aggSlot
	}
	var candidates []due
	for id, slot := range p.slots {
		if !slot.bounds.End.IsZero() && !now.Before(slot.bounds.End) {
			candidates = append(candidates, due{id, slot})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].slot.bounds.End.Equal(candidates[j].slot.bounds.End) {
			return candidates[i].slot.bounds.End.Before(candidates[j].slot.bounds.End)
		}
		return candidates[i].id.group < candidates[j].id.group
	})
	for _, c := range candidates {
		p.finalizeAndEmit(c.id.group, c.slot)
		delete(p.slots, c.id)
	}
}

// flushAll finalizes and emits every remaining open window,
// unconditionally, on stream end.
func (p *StreamingAggregationProc) flushAll() {
	type due struct {
		id   slotID
		slot *aggSlot
	}
	var all []due
	for id, slot := range p.slots {
		all = append(all, due{id, slot})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].slot.bounds.End.Equal(all[j].slot.bounds.End) {
			return all[i].slot.bounds.End.Before(all[j].slot.bounds.End)
		}
		return all[i].id.group < all[j].id.group
	})
	for _, c := range all {
		p.finalizeAndEmit(c.id.group, c.slot)
		delete(p.slots, c.id)
	}
}

func (p *StreamingAggregationProc) finalizeAndEmit(key groupKey, slot *aggSlot) {
	cols := make([]value.Column, 0, len(slot.keyVals)+len(slot.accs))
	for i, name := range p.groupNames {
		cols = append(cols, value.Column{Name: name, Values: []value.Value{slot.keyVals[i]}})
	}
	for i, spec := range p.aggregates {
		cols = append(cols, value.Column{Name: spec.OutputName, Values: []value.Value{slot.accs[i].Finalize()}})
	}
	b, err := value.NewRecordBatch(p.outSchema, cols)
	if err != nil {
		p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
		return
	}
	p.emit(shared.Data(b))
}
