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

// Package flowsql is a continuous SQL stream-processing engine. It
// parses SQL into a logical plan, lowers that into a physical operator
// DAG, materializes the DAG into a running processor graph connected
// by typed channels, and supervises its lifecycle.
//
// # Getting started
//
//	cat := catalog.NewStaticCatalog()
//	cat.Register(&catalog.SourceBinding{
//		Name:        "stream",
//		Schema:      schema,
//		DecoderKind: "json",
//	})
//
//	eng, err := flowsql.New(cat, flowsql.WithDataDir("./data"))
//	if err != nil {
//		panic(err)
//	}
//	defer eng.Close()
//
//	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop, ForwardToResult: true}}
//	pipe, err := eng.Compile("p1", "SELECT a, b FROM stream WHERE a > 1", sinks)
//	if err != nil {
//		panic(err)
//	}
//	if err := eng.Start(pipe.ID); err != nil {
//		panic(err)
//	}
//
// A management HTTP surface and concrete wire connectors are external
// collaborators; Engine is the programmatic core they would sit on
// top of.
package flowsql
