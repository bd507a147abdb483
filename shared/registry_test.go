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

package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenSubscribeReceivesData(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	sub, err := r.Subscribe("orders", "joiner-1")
	require.NoError(t, err)

	go pub.PublishData(Data(nil))

	select {
	case sd := <-sub.Data:
		assert.Equal(t, EnvelopeData, sd.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for data envelope")
	}
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	_, err = r.Register("orders")
	require.Error(t, err)
	var alreadyErr *AlreadyRegisteredError
	assert.ErrorAs(t, err, &alreadyErr)
}

func TestSubscribeUnknownNameFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Subscribe("missing", "sub-1")
	require.Error(t, err)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestLateSubscriberMissesPriorData(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	early, err := r.Subscribe("orders", "early")
	require.NoError(t, err)

	pub.PublishData(Data(nil))

	// Drain the envelope the early subscriber was due.
	<-early.Data

	late, err := r.Subscribe("orders", "late")
	require.NoError(t, err)

	select {
	case <-late.Data:
		t.Fatal("late subscriber should not observe pre-subscription data")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAfterWatermarkGetsSnapshot(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	wm := time.Unix(1700000000, 0).UTC()
	pub.PublishControl(WatermarkAdvance(wm))

	sub, err := r.Subscribe("orders", "joiner")
	require.NoError(t, err)

	select {
	case sd := <-sub.Control:
		assert.Equal(t, EnvelopeControl, sd.Kind)
		assert.True(t, sd.Watermark.Equal(wm))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for watermark snapshot")
	}
}

func TestSubscribeWithNoWatermarkYetGetsNoSnapshot(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	sub, err := r.Subscribe("orders", "joiner")
	require.NoError(t, err)

	select {
	case sd := <-sub.Control:
		t.Fatalf("unexpected control envelope before any watermark was published: %+v", sd)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseEndsSubscriberChannels(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)

	sub, err := r.Subscribe("orders", "joiner")
	require.NoError(t, err)

	pub.Close()

	_, open := <-sub.Data
	assert.False(t, open)
	_, open = <-sub.Control
	assert.False(t, open)

	// Name is free again after Close.
	pub2, err := r.Register("orders")
	require.NoError(t, err)
	pub2.Close()
}

func TestMultipleSubscribersEachReceivePublishedData(t *testing.T) {
	r := NewRegistry()
	pub, err := r.Register("orders")
	require.NoError(t, err)
	defer pub.Close()

	subA, err := r.Subscribe("orders", "a")
	require.NoError(t, err)
	subB, err := r.Subscribe("orders", "b")
	require.NoError(t, err)

	go pub.PublishData(Data(nil))

	for _, ch := range []<-chan StreamData{subA.Data, subB.Data} {
		select {
		case sd := <-ch:
			assert.Equal(t, EnvelopeData, sd.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out delivery")
		}
	}
}
