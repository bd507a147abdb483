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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/physical"
	"github.com/flowsql/flowsql/shared"
	"github.com/flowsql/flowsql/value"
	"github.com/flowsql/flowsql/window"
)

// fakeSource is a minimal connector.SourceConnector for tests that
// don't need MemorySource's buffering semantics.
type fakeSource struct {
	events chan connector.ConnectorEvent
	errs   chan error
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan connector.ConnectorEvent, 8), errs: make(chan error, 1)}
}

func (f *fakeSource) Subscribe(ctx context.Context) (<-chan connector.ConnectorEvent, <-chan error, error) {
	return f.events, f.errs, nil
}

func (f *fakeSource) push(payload []byte) {
	f.events <- connector.ConnectorEvent{Kind: connector.EventPayload, Payload: payload}
}

func (f *fakeSource) end() {
	f.events <- connector.ConnectorEvent{Kind: connector.EventEndOfStream}
}

type fakeSink struct {
	delivered [][]byte
	closed    bool
}

func newFakeSink() *fakeSink { return &fakeSink{} }

func (f *fakeSink) Deliver(payload []byte) error { f.delivered = append(f.delivered, payload); return nil }
func (f *fakeSink) Flush() error                 { return nil }
func (f *fakeSink) Close() error                 { f.closed = true; return nil }

func intSchema(names ...string) *value.Schema {
	cols := make([]value.ColumnSchema, len(names))
	for i, n := range names {
		cols[i] = value.ColumnSchema{ColumnName: n, Type: value.Dt(value.KindInt64)}
	}
	return value.NewSchema(cols)
}

func intBatch(t *testing.T, schema *value.Schema, colVals ...[]int64) *value.RecordBatch {
	t.Helper()
	cols := make([]value.Column, len(colVals))
	for i, vals := range colVals {
		vs := make([]value.Value, len(vals))
		for j, v := range vals {
			vs[j] = value.Int64(v)
		}
		cols[i] = value.Column{Name: schema.Columns[i].ColumnName, Values: vs}
	}
	b, err := value.NewRecordBatch(schema, cols)
	require.NoError(t, err)
	return b
}

func collect(ch <-chan shared.StreamData, timeout time.Duration) []shared.StreamData {
	var out []shared.StreamData
	for {
		select {
		case sd, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, sd)
			if sd.Kind == shared.EnvelopeControl && sd.Signal == shared.StreamEnd {
				return out
			}
		case <-time.After(timeout):
			return out
		}
	}
}

func dataBatches(envelopes []shared.StreamData) []*value.RecordBatch {
	var batches []*value.RecordBatch
	for _, sd := range envelopes {
		if sd.Kind == shared.EnvelopeData {
			batches = append(batches, sd.Batch)
		}
	}
	return batches
}

func TestFilterProcDropsFalseRows(t *testing.T) {
	schema := intSchema("n")
	in := make(chan shared.StreamData, 4)
	pred := expr.Binary{Op: ">", Left: expr.ColumnRef{Index: 0}, Right: expr.Literal{Val: value.Int64(2)}}
	p := NewFilterProc(1, in, pred, 16)

	out := p.Output()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	in <- shared.Control(shared.StreamStart)
	in <- shared.Data(intBatch(t, schema, []int64{1, 2, 3, 4}))
	close(in)

	envs := collect(out, time.Second)
	cancel()
	<-done

	batches := dataBatches(envs)
	require.Len(t, batches, 1)
	assert.Equal(t, []value.Value{value.Int64(3)}, batches[0].Row(0))
	assert.Equal(t, []value.Value{value.Int64(4)}, batches[0].Row(1))
	assert.Equal(t, 2, batches[0].NumRows())
}

func TestFilterProcSuppressesAllRowsDropped(t *testing.T) {
	schema := intSchema("n")
	in := make(chan shared.StreamData, 4)
	pred := expr.Binary{Op: ">", Left: expr.ColumnRef{Index: 0}, Right: expr.Literal{Val: value.Int64(100)}}
	p := NewFilterProc(1, in, pred, 16)

	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Data(intBatch(t, schema, []int64{1, 2, 3}))
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	assert.Empty(t, dataBatches(envs))
	require.NotEmpty(t, envs)
	assert.Equal(t, shared.StreamEnd, envs[len(envs)-1].Signal)
}

func TestProjectProcComputesColumns(t *testing.T) {
	inSchema := intSchema("a", "b")
	outSchema := intSchema("sum")
	in := make(chan shared.StreamData, 2)
	exprs := []expr.ScalarExpr{expr.Binary{Op: "+", Left: expr.ColumnRef{Index: 0}, Right: expr.ColumnRef{Index: 1}}}
	fields := []physical.ProjectField{{Name: "sum"}}
	p := NewProjectProc(1, in, exprs, fields, outSchema, 16)

	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Data(intBatch(t, inSchema, []int64{1, 2}, []int64{10, 20}))
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	require.Len(t, batches, 1)
	assert.Equal(t, value.Int64(11), batches[0].Row(0)[0])
	assert.Equal(t, value.Int64(22), batches[0].Row(1)[0])
}

func TestSourceProcForwardsPayloadsAndEndsStream(t *testing.T) {
	src := newFakeSource()
	p := NewSourceProc(0, src, 16)
	out := p.Output()
	go p.Run(context.Background())

	src.push([]byte("a"))
	src.push([]byte("b"))
	src.end()

	envs := collect(out, time.Second)
	require.GreaterOrEqual(t, len(envs), 3)
	assert.Equal(t, shared.StreamStart, envs[0].Signal)
	batches := dataBatches(envs)
	require.Len(t, batches, 2)
	assert.Equal(t, [][]byte{[]byte("a")}, rawPayloads(batches[0]))
	assert.Equal(t, shared.StreamEnd, envs[len(envs)-1].Signal)
}

func TestSinkProcDeliversAndForwardsToResult(t *testing.T) {
	sink := newFakeSink()
	in := make(chan shared.StreamData, 4)
	p := NewSinkProc(1, in, sink, true, 16)
	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Control(shared.StreamStart)
	in <- shared.Data(newRawBatch([][]byte{[]byte("x"), []byte("y")}))
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	require.NotEmpty(t, envs)
	assert.Equal(t, [][]byte{[]byte("x"), []byte("y")}, sink.delivered)
	assert.True(t, sink.closed)

	var sawData bool
	for _, sd := range envs {
		if sd.Kind == shared.EnvelopeData {
			sawData = true
		}
	}
	assert.True(t, sawData)
}

func TestSinkProcNoForwardEmitsNothing(t *testing.T) {
	sink := newFakeSink()
	in := make(chan shared.StreamData, 4)
	p := NewSinkProc(1, in, sink, false, 16)
	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Data(newRawBatch([][]byte{[]byte("x")}))
	close(in)

	envs := collect(out, 200*time.Millisecond)
	assert.Empty(t, envs)
	assert.Equal(t, [][]byte{[]byte("x")}, sink.delivered)
}

func TestResultCollectProcFansInAllInputs(t *testing.T) {
	schema := intSchema("n")
	a := make(chan shared.StreamData, 2)
	b := make(chan shared.StreamData, 2)
	p := NewResultCollectProc(1, []<-chan shared.StreamData{a, b}, 16)
	out := p.Output()
	go p.Run(context.Background())

	a <- shared.Data(intBatch(t, schema, []int64{1}))
	close(a)
	b <- shared.Data(intBatch(t, schema, []int64{2}))
	close(b)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	assert.Len(t, batches, 2)
	assert.Equal(t, shared.StreamEnd, envs[len(envs)-1].Signal)
}

func TestSharedStreamProcPublishesAndForwards(t *testing.T) {
	schema := intSchema("n")
	reg := shared.NewRegistry()
	in := make(chan shared.StreamData, 2)
	p, err := NewSharedStreamProc(1, in, reg, "orders", 16)
	require.NoError(t, err)

	sub, err := reg.Subscribe("orders", "test")
	require.NoError(t, err)

	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Data(intBatch(t, schema, []int64{7}))
	close(in)

	select {
	case sd := <-sub.Data:
		assert.Equal(t, value.Int64(7), sd.Batch.Row(0)[0])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for shared-stream publish")
	}

	envs := collect(out, time.Second)
	assert.Len(t, dataBatches(envs), 1)
}

func TestProcessTimeWatermarkProcForwardsDataAndNeverDrops(t *testing.T) {
	schema := intSchema("n")
	in := make(chan shared.StreamData, 2)
	p := NewProcessTimeWatermarkProc(1, in, 10*time.Millisecond, 16)
	out := p.Output()
	go p.Run(context.Background())

	in <- shared.Data(intBatch(t, schema, []int64{1, 2, 3}))
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	require.Len(t, batches, 1)
	assert.Equal(t, 3, batches[0].NumRows())
}

func TestEventtimeWatermarkProcDropsLateRows(t *testing.T) {
	schema := value.NewSchema([]value.ColumnSchema{
		{ColumnName: "ts", Type: value.Dt(value.KindInt64)},
	})
	in := make(chan shared.StreamData, 2)
	p, err := NewEventtimeWatermarkProc(1, in, schema, "ts", "ss", 0, "drop", 16)
	require.NoError(t, err)
	out := p.Output()
	go p.Run(context.Background())

	now := int64(1700000000)
	b, err := value.NewRecordBatch(schema, []value.Column{
		{Name: "ts", Values: []value.Value{value.Int64(now), value.Int64(now - 1000)}},
	})
	require.NoError(t, err)
	in <- shared.Data(b)
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].NumRows())
}

// TestStreamingAggregationProcBucketsByRowEventTime reproduces the
// scenario a reviewer flagged: a tumbling window fed by a single batch
// whose rows span two window instances must land each row in the
// window its own event-time column names, not in whatever window the
// node's watermark happens to be in when the batch is ingested — in
// particular the very first row, ingested before any WatermarkAdvance
// has arrived, must not fall back to a wall-clock bucket.
func TestStreamingAggregationProcBucketsByRowEventTime(t *testing.T) {
	schema := value.NewSchema([]value.ColumnSchema{
		{ColumnName: "ts", Type: value.Dt(value.KindInt64)},
		{ColumnName: "v", Type: value.Dt(value.KindInt64)},
	})
	outSchema := value.NewSchema([]value.ColumnSchema{
		{ColumnName: "total", Type: value.Dt(value.KindFloat64)},
	})
	in := make(chan shared.StreamData, 4)
	aggs := []logical.AggregateSpec{{FuncName: "sum", Arg: expr.ColumnRef{Index: 1}, OutputName: "total"}}
	argTypes := []value.DataType{value.Dt(value.KindInt64)}
	spec := &window.Spec{Kind: window.KindTumbling, Length: 10 * time.Second}

	p, err := NewStreamingAggregationProc(1, in, schema, nil, nil, aggs, argTypes, spec, "ts", "ss", outSchema, 16)
	require.NoError(t, err)
	out := p.Output()
	go p.Run(context.Background())

	// Window 1 covers [1700000000, 1700000010); window 2 the next 10s.
	// Both rows arrive in the same batch, before any watermark has been
	// observed, so a watermark/wall-clock-bucketed implementation would
	// put them in the same (wrong) bucket.
	b, err := value.NewRecordBatch(schema, []value.Column{
		{Name: "ts", Values: []value.Value{value.Int64(1700000001), value.Int64(1700000011)}},
		{Name: "v", Values: []value.Value{value.Int64(3), value.Int64(4)}},
	})
	require.NoError(t, err)
	in <- shared.Data(b)
	// Advance the watermark just past the first window's close so it
	// flushes; the second window stays open until stream end.
	in <- shared.WatermarkAdvance(time.Unix(1700000010, 0))
	in <- shared.Control(shared.StreamEnd)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	require.Len(t, batches, 2)
	assert.Equal(t, value.Float64(3), batches[0].Row(0)[0])
	assert.Equal(t, value.Float64(4), batches[1].Row(0)[0])
}

func TestStreamingAggregationProcUnwindowedGroupBy(t *testing.T) {
	schema := value.NewSchema([]value.ColumnSchema{
		{ColumnName: "k", Type: value.Dt(value.KindString)},
		{ColumnName: "v", Type: value.Dt(value.KindInt64)},
	})
	outSchema := value.NewSchema([]value.ColumnSchema{
		{ColumnName: "k", Type: value.Dt(value.KindString)},
		{ColumnName: "total", Type: value.Dt(value.KindFloat64)},
	})
	in := make(chan shared.StreamData, 2)
	groupBy := []expr.ScalarExpr{expr.ColumnRef{Index: 0}}
	aggs := []logical.AggregateSpec{{FuncName: "sum", Arg: expr.ColumnRef{Index: 1}, OutputName: "total"}}
	argTypes := []value.DataType{value.Dt(value.KindInt64)}
	p, err := NewStreamingAggregationProc(1, in, schema, groupBy, []string{"k"}, aggs, argTypes, nil, "", "", outSchema, 16)
	require.NoError(t, err)
	out := p.Output()
	go p.Run(context.Background())

	b, err := value.NewRecordBatch(schema, []value.Column{
		{Name: "k", Values: []value.Value{value.String("a"), value.String("a"), value.String("b")}},
		{Name: "v", Values: []value.Value{value.Int64(1), value.Int64(2), value.Int64(10)}},
	})
	require.NoError(t, err)
	in <- shared.Data(b)
	close(in)

	envs := collect(out, time.Second)
	batches := dataBatches(envs)
	require.Len(t, batches, 2)

	totals := map[string]float64{}
	for _, bt := range batches {
		row := bt.Row(0)
		totals[row[0].AsString()] = row[1].AsFloat()
	}
	assert.Equal(t, 3.0, totals["a"])
	assert.Equal(t, 10.0, totals["b"])
}
