/*
Copyright 2024 The CTrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/eventbus"
)

func fastOptions() *StreamOptions {
	return &StreamOptions{
		PollInterval:      10 * time.Millisecond,
		HeartbeatInterval: time.Hour,
		MaxLifetime:       time.Hour,
	}
}

// nextFrame reads one frame or fails the test.
func nextFrame(t *testing.T, out chan interface{}) interface{} {
	t.Helper()
	select {
	case frame := <-out:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("no frame within 2s")
		return nil
	}
}

func requireControl(t *testing.T, frame interface{}, want setting.EventType) {
	t.Helper()
	ctl, ok := frame.(*ControlEvent)
	require.True(t, ok, "expected control frame, got %T", frame)
	assert.Equal(t, want, ctl.Type)
	assert.NotZero(t, ctl.Timestamp)
}

func TestNewControlEventIsTimestamped(t *testing.T) {
	ctl := NewControlEvent(setting.EventStreamError)

	assert.Equal(t, setting.EventStreamError, ctl.Type)
	assert.NotZero(t, ctl.Timestamp)
}

func TestRunEmitsConnectedFirst(t *testing.T) {
	bus := eventbus.NewMemBus()
	out := make(chan interface{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, bus, []string{"project:alpha"}, fastOptions(), out)
		close(done)
	}()

	requireControl(t, nextFrame(t, out), setting.EventStreamConnected)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestRunRelaysOnlySubscribedChannels(t *testing.T) {
	bus := eventbus.NewMemBus()
	out := make(chan interface{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Run(ctx, bus, []string{"project:alpha"}, fastOptions(), out)
	requireControl(t, nextFrame(t, out), setting.EventStreamConnected)

	// wait until the subscription is registered before publishing
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish("project:beta", `{"type":"issue.updated"}`))
	require.NoError(t, bus.Publish("project:alpha", `{"type":"issue.moved"}`))

	frame := nextFrame(t, out)
	payload, ok := frame.(string)
	require.True(t, ok, "expected relayed payload, got %T", frame)
	assert.Contains(t, payload, "issue.moved")

	select {
	case extra := <-out:
		t.Fatalf("unexpected extra frame: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunHeartbeat(t *testing.T) {
	bus := eventbus.NewMemBus()
	out := make(chan interface{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := fastOptions()
	opts.HeartbeatInterval = 30 * time.Millisecond

	go Run(ctx, bus, []string{"project:alpha"}, opts, out)

	requireControl(t, nextFrame(t, out), setting.EventStreamConnected)
	requireControl(t, nextFrame(t, out), setting.EventStreamHeartbeat)
	requireControl(t, nextFrame(t, out), setting.EventStreamHeartbeat)
}

func TestRunLifetimeTimeout(t *testing.T) {
	bus := eventbus.NewMemBus()
	out := make(chan interface{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := fastOptions()
	opts.MaxLifetime = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		Run(ctx, bus, []string{"project:alpha"}, opts, out)
		close(done)
	}()

	requireControl(t, nextFrame(t, out), setting.EventStreamConnected)

	var last interface{}
	for {
		frame := nextFrame(t, out)
		if ctl, ok := frame.(*ControlEvent); ok && ctl.Type == setting.EventStreamTimeout {
			last = frame
			break
		}
	}
	requireControl(t, last, setting.EventStreamTimeout)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after timeout")
	}
}

func TestRunUnsubscribesOnEveryExit(t *testing.T) {
	bus := eventbus.NewMemBus()

	for i := 0; i < 10; i++ {
		out := make(chan interface{}, 16)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			Run(ctx, bus, []string{"project:alpha"}, fastOptions(), out)
			close(done)
		}()

		requireControl(t, nextFrame(t, out), setting.EventStreamConnected)
		cancel()
		<-done
	}

	assert.Equal(t, 0, bus.SubscriberCount(), "connections leaked subscriptions")
}
