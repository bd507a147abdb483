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

package flowsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/flowsql/catalog"
	"github.com/flowsql/flowsql/connector"
	"github.com/flowsql/flowsql/value"
)

func testCatalog() catalog.Catalog {
	cat := catalog.NewStaticCatalog()
	cat.Register(&catalog.SourceBinding{
		Name: "stream",
		Schema: value.NewSchema([]value.ColumnSchema{
			{ColumnName: "deviceId", Type: value.Dt(value.KindString)},
			{ColumnName: "temperature", Type: value.Dt(value.KindFloat64)},
		}),
		DecoderKind: "json",
	})
	return cat
}

func newTestEngine(t *testing.T) *Engine {
	eng, err := New(testCatalog(), WithDataDir(t.TempDir()), WithDiscardLog())
	require.NoError(t, err)
	return eng
}

func TestEngineCompileStartStopLifecycle(t *testing.T) {
	eng := newTestEngine(t)

	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop, ForwardToResult: true}}
	pipe, err := eng.Compile("p1", "SELECT deviceId, temperature FROM stream WHERE temperature > 25", sinks)
	require.NoError(t, err)
	status, reason := pipe.Status()
	assert.Equal(t, StatusCompiled, status)
	assert.Empty(t, reason)

	require.NoError(t, eng.Start("p1"))
	status, _ = pipe.Status()
	assert.Equal(t, StatusRunning, status)

	// starting an already-running pipeline is a no-op
	require.NoError(t, eng.Start("p1"))
	status, _ = pipe.Status()
	assert.Equal(t, StatusRunning, status)

	require.NoError(t, eng.Stop("p1"))
	status, _ = pipe.Status()
	assert.Equal(t, StatusStopped, status)

	// stopping twice is safe
	require.NoError(t, eng.Stop("p1"))
}

func TestEngineCompileIsIdempotentAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	eng, err := New(testCatalog(), WithDataDir(dir), WithDiscardLog())
	require.NoError(t, err)

	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop}}
	pipe1, err := eng.Compile("p1", "SELECT deviceId FROM stream", sinks)
	require.NoError(t, err)

	eng2, err := New(testCatalog(), WithDataDir(dir), WithDiscardLog())
	require.NoError(t, err)
	pipe2, err := eng2.Compile("p1", "SELECT   deviceId   FROM stream", sinks)
	require.NoError(t, err)

	assert.Equal(t, pipe1.Fingerprint, pipe2.Fingerprint)
}

func TestEngineListReportsKnownPipelines(t *testing.T) {
	eng := newTestEngine(t)
	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop}}

	_, err := eng.Compile("a", "SELECT deviceId FROM stream", sinks)
	require.NoError(t, err)
	_, err = eng.Compile("b", "SELECT temperature FROM stream", sinks)
	require.NoError(t, err)

	statuses := eng.List()
	require.Len(t, statuses, 2)
	assert.Equal(t, StatusCompiled, statuses["a"])
	assert.Equal(t, StatusCompiled, statuses["b"])
}

func TestEngineDeleteRemovesPipeline(t *testing.T) {
	eng := newTestEngine(t)
	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop}}

	_, err := eng.Compile("p1", "SELECT deviceId FROM stream", sinks)
	require.NoError(t, err)
	require.NoError(t, eng.Start("p1"))

	require.NoError(t, eng.Delete("p1"))
	_, ok := statusOf(eng, "p1")
	assert.False(t, ok)
}

func statusOf(e *Engine, id string) (Status, bool) {
	p, ok := e.get(id)
	if !ok {
		return "", false
	}
	s, _ := p.Status()
	return s, true
}

func TestEngineCloseStopsRunningPipelines(t *testing.T) {
	eng := newTestEngine(t)
	sinks := []connector.SinkConnectorConfig{{Kind: connector.SinkNop}}

	pipe, err := eng.Compile("p1", "SELECT deviceId FROM stream", sinks)
	require.NoError(t, err)
	require.NoError(t, eng.Start("p1"))

	require.NoError(t, eng.Close())
	status, _ := pipe.Status()
	assert.Equal(t, StatusStopped, status)
}

func TestEngineStartUnknownPipelineFails(t *testing.T) {
	eng := newTestEngine(t)
	err := eng.Start("nope")
	assert.Error(t, err)
}

func TestWithHighThroughputAndLowLatencySelectPresets(t *testing.T) {
	eng, err := New(testCatalog(), WithDataDir(t.TempDir()), WithHighThroughput(), WithDiscardLog())
	require.NoError(t, err)
	assert.Greater(t, eng.perf.Buffer.DataChannelSize, 0)

	eng2, err := New(testCatalog(), WithDataDir(t.TempDir()), WithLowLatency(), WithDiscardLog())
	require.NoError(t, err)
	assert.Greater(t, eng2.perf.Buffer.DataChannelSize, 0)
}

func TestWithShutdownDeadlineOverridesDefault(t *testing.T) {
	eng, err := New(testCatalog(), WithDataDir(t.TempDir()), WithShutdownDeadline(50*time.Millisecond), WithDiscardLog())
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, eng.shutdownDeadline)
}
