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

// ProcessTimeWatermarkProc drives the watermark from a monotonic
// wall-clock ticker rather than an event-time column; it never drops
// rows, only passes data through and periodically announces its
// current watermark.
type ProcessTimeWatermarkProc struct {
	base
	input    <-chan shared.StreamData
	interval time.Duration
}

func NewProcessTimeWatermarkProc(idx int, input <-chan shared.StreamData, interval time.Duration, capacity int) *ProcessTimeWatermarkProc {
	return &ProcessTimeWatermarkProc{base: newBase(idx, "process_time_watermark", capacity), input: input, interval: interval}
}

func (p *ProcessTimeWatermarkProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.emit(shared.WatermarkAdvance(now))
		case sd, ok := <-p.input:
			if !ok {
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				p.emit(sd)
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
