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
	"time"

	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
	"github.com/flowsql/flowsql/window"
)

// watermarkUpdateInterval governs how often window.Watermark's
// background loop re-checks idle-source advance; event-time progress
// itself is driven synchronously from UpdateEventTime on every row, so
// this only matters when a source goes quiet.
const watermarkUpdateInterval = 200 * time.Millisecond

// EventtimeWatermarkProc parses an event-time column from each row,
// advances a monotonic watermark via window.Watermark, and drops (or
// diverts, reported as a non-fatal Error envelope) rows older than the
// watermark minus allowed lateness.
type EventtimeWatermarkProc struct {
	base
	input      <-chan shared.StreamData
	colIdx     int
	timeUnit   string
	latePolicy string
	wm         *window.Watermark
}

func NewEventtimeWatermarkProc(idx int, input <-chan shared.StreamData, schema *value.Schema, column, timeUnit string, allowedLateness time.Duration, latePolicy string, capacity int) (*EventtimeWatermarkProc, error) {
	colIdx, ok := schema.IndexByName(column)
	if !ok {
		return nil, fmt.Errorf("eventtime_watermark: column %q not found in input schema", column)
	}
	return &EventtimeWatermarkProc{
		base:       newBase(idx, "eventtime_watermark", capacity),
		input:      input,
		colIdx:     colIdx,
		timeUnit:   timeUnit,
		latePolicy: latePolicy,
		wm:         window.NewWatermark(allowedLateness, watermarkUpdateInterval, 0),
	}, nil
}

func (p *EventtimeWatermarkProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)
	defer p.wm.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case sd, ok := <-p.input:
			if !ok {
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				p.processBatch(sd.Batch)
			case shared.EnvelopeControl:
				if sd.Signal == shared.StreamStart {
					p.enterRunning()
				}
				terminal := sd.Signal == shared.StreamEnd
				if terminal {
					p.setState(StateDraining)
				}
				p.emit(sd)
				if terminal {
					return
				}
			case shared.EnvelopeError:
				p.emit(sd)
			}
		}
	}
}

func (p *EventtimeWatermarkProc) processBatch(b *value.RecordBatch) {
	keep := make([]int, 0, b.NumRows())
	for i := 0; i < b.NumRows(); i++ {
		t, err := eventTimeOf(b.Columns[p.colIdx].Values[i], p.timeUnit)
		if err != nil {
			p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
			continue
		}
		if p.wm.IsEventTimeLate(t) {
			if p.latePolicy == "divert" {
				p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: fmt.Sprintf("late row diverted: event time %s before watermark", t)}))
			}
			continue
		}
		p.wm.UpdateEventTime(t)
		keep = append(keep, i)
	}
	// Advance the watermark before handing the batch downstream: the
	// aggregation node buckets each row by its own event-time column
	// (preserved by projectRows below), but it also flushes due windows
	// against the watermark immediately after ingesting a batch, so
	// that flush must already see this batch's advance, not the
	// previous one's.
	p.emit(shared.WatermarkAdvance(p.wm.GetCurrentWatermark()))
	if len(keep) > 0 {
		out, err := projectRows(b, keep)
		if err == nil {
			p.emit(shared.Data(out))
		}
	}
}

// eventTimeOf converts a column value to time.Time per unit ("ss"
// seconds, "ms" milliseconds, "ns" nanoseconds since epoch).
func eventTimeOf(v value.Value, unit string) (time.Time, error) {
	var n int64
	switch v.Kind() {
	case value.KindFloat32, value.KindFloat64:
		n = int64(v.AsFloat())
	default:
		n = v.AsInt()
	}
	switch unit {
	case "ss", "s":
		return time.Unix(n, 0).UTC(), nil
	case "ms":
		return time.UnixMilli(n).UTC(), nil
	case "ns":
		return time.Unix(0, n).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("eventtime_watermark: unknown time unit %q", unit)
	}
}

// projectRows retains only the given row indices of b, preserving
// column order and schema.
func projectRows(b *value.RecordBatch, keep []int) (*value.RecordBatch, error) {
	cols := make([]value.Column, len(b.Columns))
	for c, col := range b.Columns {
		vals := make([]value.Value, len(keep))
		for j, i := range keep {
			vals[j] = col.Values[i]
		}
		cols[c] = value.Column{SourceName: col.SourceName, Name: col.Name, Values: vals}
	}
	return value.NewRecordBatch(b.Schema, cols)
}
