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

	"github.com/flowsql/flowsql/shared"
)

// SharedStreamProc publishes its input under Topic in the process-wide
// shared.Registry, so other plans can subscribe without replaying
// data, while also forwarding unchanged on its own output broadcaster
// for any consumer within this same plan.
type SharedStreamProc struct {
	base
	input <-chan shared.StreamData
	pub   *shared.Publisher
}

// NewSharedStreamProc registers topic on registry, failing if it is
// already bound.
func NewSharedStreamProc(idx int, input <-chan shared.StreamData, registry *shared.Registry, topic string, capacity int) (*SharedStreamProc, error) {
	pub, err := registry.Register(topic)
	if err != nil {
		return nil, err
	}
	return &SharedStreamProc{base: newBase(idx, "shared_stream", capacity), input: input, pub: pub}, nil
}

func (p *SharedStreamProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)
	defer p.pub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case sd, ok := <-p.input:
			if !ok {
				p.setState(StateDraining)
				p.pub.PublishControl(shared.Control(shared.StreamEnd))
				p.emit(shared.Control(shared.StreamEnd))
				return
			}
			switch sd.Kind {
			case shared.EnvelopeData:
				p.enterRunning()
				p.pub.PublishData(sd)
				p.emit(sd)
			case shared.EnvelopeControl:
				if sd.Signal == shared.StreamStart {
					p.enterRunning()
				}
				terminal := sd.Signal == shared.StreamEnd
				if terminal {
					p.setState(StateDraining)
				}
				p.pub.PublishControl(sd)
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
