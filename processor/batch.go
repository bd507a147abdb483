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
	"time"

	"github.com/flowsql/flowsql/shared"
)

// BatchProc buffers raw payloads, flushing when Count payloads have
// accumulated, Duration has elapsed since the first buffered payload
// (whichever is configured and comes first), or an explicit Flush
// control envelope arrives.
type BatchProc struct {
	base
	input    <-chan shared.StreamData
	count    int
	duration time.Duration

	payloads [][]byte
}

func NewBatchProc(idx int, input <-chan shared.StreamData, count int, duration time.Duration, capacity int) *BatchProc {
	return &BatchProc{base: newBase(idx, "batch", capacity), input: input, count: count, duration: duration}
}

func (p *BatchProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)

	var timerC <-chan time.Time
	var timer *time.Timer
	resetTimer := func() {
		if p.duration <= 0 {
			return
		}
		if timer == nil {
			timer = time.NewTimer(p.duration)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.duration)
		}
		timerC = timer.C
	}

	flush := func() {
		if len(p.payloads) == 0 {
			return
		}
		p.emit(shared.Data(newRawBatch(p.payloads)))
		p.payloads = nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-timerC:
			flush()
			timerC = nil
		case sd, ok := <-p.input:
			if !ok {
				flush()
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				if timer != nil {
					timer.Stop()
				}
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				if len(p.payloads) == 0 {
					resetTimer()
				}
				p.payloads = append(p.payloads, rawPayloads(sd.Batch)...)
				if p.count > 0 && len(p.payloads) >= p.count {
					flush()
				}
			case shared.EnvelopeControl:
				if sd.Signal == shared.StreamStart {
					p.enterRunning()
				}
				if sd.Signal == shared.Flush {
					flush()
					p.emit(sd)
					continue
				}
				terminal := sd.Signal == shared.StreamEnd
				if terminal {
					flush()
					p.setState(StateDraining)
				}
				p.emit(sd)
				if terminal {
					if timer != nil {
						timer.Stop()
					}
					return
				}
			case shared.EnvelopeError:
				p.emit(sd)
			}
		}
	}
}
