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

// Package shared defines the envelope every processor edge carries
// (StreamData) and the process-global shared-stream registry that lets
// one pipeline's output feed another without replaying data. Both live
// here because the registry's job is exactly to fan StreamData out to
// late subscribers — the envelope and its broadcaster are one concern.
package shared

import (
	"fmt"
	"time"

	"github.com/flowsql/flowsql/value"
)

// EnvelopeKind tags what a StreamData value carries.
type EnvelopeKind int

const (
	EnvelopeData EnvelopeKind = iota
	EnvelopeControl
	EnvelopeError
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeData:
		return "data"
	case EnvelopeControl:
		return "control"
	case EnvelopeError:
		return "error"
	default:
		return "unknown"
	}
}

// Signal tags the closed set of control envelopes a processor can
// send or observe.
type Signal int

const (
	StreamStart Signal = iota
	StreamEnd
	Flush
	Backpressure
	Resume
)

func (s Signal) String() string {
	switch s {
	case StreamStart:
		return "stream_start"
	case StreamEnd:
		return "stream_end"
	case Flush:
		return "flush"
	case Backpressure:
		return "backpressure"
	case Resume:
		return "resume"
	default:
		return "unknown"
	}
}

// StreamError reports a per-row evaluation failure or a connector
// failure, forwarded as an Error envelope rather than terminating the
// processor (a per-row error) or triggering Draining (a connector
// failure) — see processor.Supervisor.
type StreamError struct {
	PlanIndex int
	Op        string
	Message   string
	Fatal     bool // true for a connector-level failure that should drain the graph
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error at node %d (%s): %s", e.PlanIndex, e.Op, e.Message)
}

// StreamData is the single envelope type carried on every
// inter-processor edge: exactly one of Batch, Signal, or Err is
// meaningful, selected by Kind.
type StreamData struct {
	Kind EnvelopeKind

	// Batch is set when Kind == EnvelopeData.
	Batch *value.RecordBatch

	// Signal and Watermark are set when Kind == EnvelopeControl.
	// Watermark is the zero time unless Signal doesn't carry one
	// (only a watermark-advance control envelope sets it to a
	// meaningful value; StreamStart/StreamEnd/Flush/Backpressure/Resume
	// leave it zero).
	Signal    Signal
	Watermark time.Time

	// Err is set when Kind == EnvelopeError.
	Err *StreamError
}

// Data wraps a record batch for the data channel.
func Data(b *value.RecordBatch) StreamData {
	return StreamData{Kind: EnvelopeData, Batch: b}
}

// Control wraps a bare control signal.
func Control(s Signal) StreamData {
	return StreamData{Kind: EnvelopeControl, Signal: s}
}

// WatermarkAdvance is the control envelope a watermark processor
// emits; it carries no named Signal (it isn't one of the five
// lifecycle signals) but is still routed on the control channel.
func WatermarkAdvance(t time.Time) StreamData {
	return StreamData{Kind: EnvelopeControl, Watermark: t}
}

// Error wraps a stream-level failure.
func Error(e *StreamError) StreamData {
	return StreamData{Kind: EnvelopeError, Err: e}
}
