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
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

const memSubscriptionBuffer = 64

// MemBus is a process-local bus with the same delivery contract as the redis
// one: at-most-once, and a full subscriber buffer drops the message instead
// of blocking the publisher.
type MemBus struct {
	mu   sync.RWMutex
	subs map[*memSubscription]sets.String
}

func NewMemBus() *MemBus {
	return &MemBus{subs: map[*memSubscription]sets.String{}}
}

func (b *MemBus) Publish(channel, message string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub, channels := range b.subs {
		if !channels.Has(channel) {
			continue
		}
		select {
		case sub.ch <- &Message{Channel: channel, Payload: message}:
		default:
		}
	}
	return nil
}

func (b *MemBus) Subscribe(channels ...string) (ISubscription, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("eventbus: no channels to subscribe")
	}

	sub := &memSubscription{
		bus: b,
		ch:  make(chan *Message, memSubscriptionBuffer),
	}

	b.mu.Lock()
	b.subs[sub] = sets.NewString(channels...)
	b.mu.Unlock()

	return sub, nil
}

// SubscriberCount reports live handles, used by leak assertions in tests.
func (b *MemBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

type memSubscription struct {
	bus       *MemBus
	ch        chan *Message
	closeOnce sync.Once
}

func (s *memSubscription) Receive(ctx context.Context, timeout time.Duration) (*Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	case msg, ok := <-s.ch:
		if !ok {
			return nil, ErrSubscriptionClosed
		}
		return msg, nil
	}
}

func (s *memSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.ch)
	})
	return nil
}
