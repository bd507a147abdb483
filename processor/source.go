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

// SourceProc subscribes to its bound SourceConnector and decodes
// nothing itself — it forwards raw byte payloads downstream as
// one-row raw batches for a DecoderProc to turn into typed data.
type SourceProc struct {
	base
	conn connector.SourceConnector
}

func NewSourceProc(idx int, conn connector.SourceConnector, capacity int) *SourceProc {
	return &SourceProc{base: newBase(idx, "data_source", capacity), conn: conn}
}

func (p *SourceProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)

	events, errs, err := p.conn.Subscribe(ctx)
	if err != nil {
		p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error(), Fatal: true}))
		p.emit(shared.Control(shared.StreamEnd))
		return
	}

	p.setState(StateRunning)
	p.emit(shared.Control(shared.StreamStart))

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch e.Kind {
			case connector.EventPayload:
				p.emit(shared.Data(newRawBatch([][]byte{e.Payload})))
			case connector.EventEndOfStream:
				p.setState(StateDraining)
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
		case err, ok := <-errs:
			if !ok {
				continue
			}
			p.setState(StateDraining)
			p.emit(shared.Error(&shared.StreamError{PlanIndex: p.idx, Op: p.kind, Message: err.Error(), Fatal: true}))
			p.emit(shared.Control(shared.StreamEnd))
			return
		}
	}
}
