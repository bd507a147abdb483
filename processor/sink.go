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

	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/shared"
)

// SinkProc hands each payload to its bound SinkConnector. When
// forwardToResult is set, every batch it consumes is also re-emitted on
// its own output broadcaster, so a ResultCollectProc subscribed to it
// observes the same payloads the connector received.
type SinkProc struct {
	base
	input           <-chan shared.StreamData
	conn            connector.SinkConnector
	forwardToResult bool
}

func NewSinkProc(idx int, input <-chan shared.StreamData, conn connector.SinkConnector, forwardToResult bool, capacity int) *SinkProc {
	return &SinkProc{base: newBase(idx, "data_sink", capacity), input: input, conn: conn, forwardToResult: forwardToResult}
}

func (p *SinkProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)
	for {
		select {
		case <-ctx.Done():
			p.conn.Close()
			return
		case sd, ok := <-p.input:
			if !ok {
				p.finish()
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				for _, payload := range rawPayloads(sd.Batch) {
					if err := p.conn.Deliver(payload); err != nil {
						p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
					}
				}
				if p.forwardToResult {
					p.emit(sd)
				}
			case shared.EnvelopeControl:
				if sd.Signal == shared.StreamStart {
					p.enterRunning()
				}
				if sd.Signal == shared.Flush {
					if err := p.conn.Flush(); err != nil {
						p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
					}
				}
				if p.forwardToResult {
					p.emit(sd)
				}
				if sd.Signal == shared.StreamEnd {
					p.finish()
					return
				}
			case shared.EnvelopeError:
				if p.forwardToResult {
					p.emit(sd)
				}
			}
		}
	}
}

func (p *SinkProc) finish() {
	p.setState(StateDraining)
	if err := p.conn.Flush(); err != nil {
		p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error()}))
	}
	p.conn.Close()
	if p.forwardToResult {
		p.emit(shared.Control(shared.StreamEnd))
	}
}
