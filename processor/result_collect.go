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
	"sync"

	"github.com/flowsql/flowsql/shared"
)

// ResultCollectProc fans in every sink output that opted into
// forward_to_result, presenting one unified stream to the pipeline's
// external result receiver. Non-suppressing: every forwarding sink's
// data is emitted independently, matching the Open Question decision
// that forward_to_result does not dedup across sinks.
type ResultCollectProc struct {
	base
	inputs []<-chan shared.StreamData
}

func NewResultCollectProc(idx int, inputs []<-chan shared.StreamData, capacity int) *ResultCollectProc {
	return &ResultCollectProc{base: newBase(idx, "result_collect", capacity), inputs: inputs}
}

func (p *ResultCollectProc) Run(ctx context.Context) {
	defer p.setState(StateTerminated)
	p.setState(StateRunning)

	var wg sync.WaitGroup
	wg.Add(len(p.inputs))
	for _, in := range p.inputs {
		go func(in <-chan shared.StreamData) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case sd, ok := <-in:
					if !ok {
						return
					}
					if sd.Kind == shared.EnvelopeControl && sd.Signal == shared.StreamEnd {
						return
					}
					p.emit(sd)
				}
			}
		}(in)
	}
	wg.Wait()
	p.setState(StateDraining)
	p.emit(shared.Control(shared.StreamEnd))
}
