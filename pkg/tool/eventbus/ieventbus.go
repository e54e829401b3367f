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
	"errors"
	"time"
)

// ErrSubscriptionClosed is returned by Receive once the subscription has been
// closed, either locally or because the broker connection went away.
var ErrSubscriptionClosed = errors.New("eventbus: subscription closed")

type Message struct {
	Channel string
	Payload string
}

// ISubscription is a single consumer handle. Each subscriber owns its handle
// and must Close it on every exit path; a slow consumer only ever stalls its
// own handle, never the publisher.
type ISubscription interface {
	// Receive blocks for at most timeout and returns (nil, nil) when no
	// message arrived in that window.
	Receive(ctx context.Context, timeout time.Duration) (*Message, error)
	Close() error
}

// IEventBus is the at-most-once, best-effort publish/subscribe broker the
// mutation services publish to and the live-update gateway consumes from.
type IEventBus interface {
	Publish(channel, message string) error
	Subscribe(channels ...string) (ISubscription, error)
}

type BusType string

var (
	BusTypeRedis  BusType = "redis"
	BusTypeMemory BusType = "memory"
)

// New returns an event bus of the given type. Production runs on redis, the
// in-memory bus backs tests and single-process setups.
func New(busType BusType) IEventBus {
	switch busType {
	case BusTypeRedis:
		return NewRedisBus()
	case BusTypeMemory:
		return NewMemBus()
	default:
		return NewMemBus()
	}
}
