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

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBusDeliversToSubscribedChannel(t *testing.T) {
	bus := NewMemBus()

	sub, err := bus.Subscribe("project:alpha", "project:beta")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish("project:alpha", "hello"))

	msg, err := sub.Receive(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "project:alpha", msg.Channel)
	assert.Equal(t, "hello", msg.Payload)
}

func TestMemBusIgnoresOtherChannels(t *testing.T) {
	bus := NewMemBus()

	sub, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish("project:beta", "not for us"))

	msg, err := sub.Receive(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg, "timeout must yield nil message and nil error")
}

func TestMemBusSubscribeRequiresChannels(t *testing.T) {
	bus := NewMemBus()

	_, err := bus.Subscribe()
	assert.Error(t, err)
}

func TestMemBusReceiveAfterClose(t *testing.T) {
	bus := NewMemBus()

	sub, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	_, err = sub.Receive(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	// double close is a no-op
	assert.NoError(t, sub.Close())
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestMemBusReceiveHonorsContext(t *testing.T) {
	bus := NewMemBus()

	sub, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sub.Receive(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemBusSlowConsumerNeverBlocksPublisher(t *testing.T) {
	bus := NewMemBus()

	sub, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// twice the buffer; the overflow is dropped, not queued
		for i := 0; i < 2*memSubscriptionBuffer; i++ {
			bus.Publish("project:alpha", "flood")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow consumer")
	}

	received := 0
	for {
		msg, err := sub.Receive(context.Background(), 10*time.Millisecond)
		require.NoError(t, err)
		if msg == nil {
			break
		}
		received++
	}
	assert.Equal(t, memSubscriptionBuffer, received)
}

func TestMemBusFanout(t *testing.T) {
	bus := NewMemBus()

	first, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	defer first.Close()

	second, err := bus.Subscribe("project:alpha")
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, bus.Publish("project:alpha", "both"))

	for _, sub := range []ISubscription{first, second} {
		msg, err := sub.Receive(context.Background(), time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, "both", msg.Payload)
	}
}
