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

	"github.com/flowsql/flowsql/value"

	"github.com/flowsql/flowsql/shared"
)

// transformFunc turns one input batch into zero or one output batches.
// A nil result (with a nil error) suppresses the batch — Filter uses
// this for an all-rows-removed batch: empty batches are not forwarded.
type transformFunc func(b *value.RecordBatch) (*value.RecordBatch, error)

// runTransform drives the single-input, single-output processor loop
// shared by Decoder, Filter, Project, Encoder and StatefulFunction: data
// envelopes run through transform and are forwarded (unless suppressed
// or erroring); control and error envelopes pass through unchanged. A
// closed input is an implicit StreamEnd. This is one loop shape
// generalized across all five kinds instead of repeating per-kind
// row-processing helpers.
func runTransform(ctx context.Context, b *base, input <-chan shared.StreamData, transform transformFunc) {
	defer b.setState(StateTerminated)
	for {
		select {
		case <-ctx.Done():
			return
		case sd, ok := <-input:
			if !ok {
				b.setState(StateDraining)
				b.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				b.enterRunning()
				out, err := transform(sd.Batch)
				if err != nil {
					b.emit(shared.Error(&shared.StreamError{PlanIndex: b.idx, Op: b.kind, Message: err.Error()}))
					continue
				}
				if out == nil || out.NumRows() == 0 {
					continue
				}
				b.emit(shared.Data(out))
			case shared.EnvelopeControl:
				if sd.Signal == shared.StreamStart {
					b.enterRunning()
				}
				terminal := sd.Signal == shared.StreamEnd
				if terminal {
					b.setState(StateDraining)
				}
				b.emit(sd)
				if terminal {
					return
				}
			case shared.EnvelopeError:
				b.emit(sd)
			}
		}
	}
}
