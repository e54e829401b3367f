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
	"time"

	"github.com/pkg/errors"

	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/eventbus"
	"github.com/Catter58/CTrack/pkg/tool/log"
)

// ControlEvent is a stream-control frame emitted by the gateway itself,
// never by publishers.
type ControlEvent struct {
	Type      setting.EventType `json:"type"`
	Timestamp int64             `json:"timestamp"`
}

func NewControlEvent(t setting.EventType) *ControlEvent {
	return &ControlEvent{Type: t, Timestamp: time.Now().Unix()}
}

// StreamOptions tunes the connection loop. Zero values fall back to the
// production settings.
type StreamOptions struct {
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	MaxLifetime       time.Duration
}

func (o *StreamOptions) withDefaults() *StreamOptions {
	resp := &StreamOptions{
		PollInterval:      setting.EventStreamPollInterval,
		HeartbeatInterval: setting.EventStreamHeartbeatInterval,
		MaxLifetime:       setting.EventStreamMaxConnLifetime,
	}
	if o == nil {
		return resp
	}
	if o.PollInterval > 0 {
		resp.PollInterval = o.PollInterval
	}
	if o.HeartbeatInterval > 0 {
		resp.HeartbeatInterval = o.HeartbeatInterval
	}
	if o.MaxLifetime > 0 {
		resp.MaxLifetime = o.MaxLifetime
	}
	return resp
}

// Channels resolves which project channels the connection may follow.
// Membership is computed once at connect; joining a project mid-connection
// takes effect on the next connect.
func Channels(ctx context.Context, userID, projectID string) ([]string, error) {
	if projectID != "" {
		_, found, err := membership.Role(ctx, projectID, userID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Errorf("user %s has no access to project %s", userID, projectID)
		}
		return []string{event.ProjectChannel(projectID)}, nil
	}

	projects, err := membership.ProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, errors.Errorf("user %s has no project memberships", userID)
	}

	channels := make([]string, 0, len(projects))
	for _, p := range projects {
		channels = append(channels, event.ProjectChannel(p))
	}
	return channels, nil
}

// Run drives one live-update connection until the client goes away, the
// lifetime expires or the broker fails. Every exit path closes the
// subscription; the terminal timeout and error frames tell well-behaved
// clients not to reconnect in a tight loop.
func Run(ctx context.Context, bus eventbus.IEventBus, channels []string, opts *StreamOptions, out chan interface{}) {
	opts = opts.withDefaults()

	sub, err := bus.Subscribe(channels...)
	if err != nil {
		log.Errorf("event stream subscribe failed: %v", err)
		send(ctx, out, NewControlEvent(setting.EventStreamError))
		return
	}
	defer sub.Close()

	if !send(ctx, out, NewControlEvent(setting.EventStreamConnected)) {
		return
	}

	deadline := time.Now().Add(opts.MaxLifetime)
	lastBeat := time.Now()

	for {
		if ctx.Err() != nil {
			return
		}
		if time.Now().After(deadline) {
			send(ctx, out, NewControlEvent(setting.EventStreamTimeout))
			return
		}

		msg, err := sub.Receive(ctx, opts.PollInterval)
		if err != nil {
			if errors.Is(err, eventbus.ErrSubscriptionClosed) || ctx.Err() != nil {
				return
			}
			log.Errorf("event stream receive failed: %v", err)
			send(ctx, out, NewControlEvent(setting.EventStreamError))
			return
		}
		if msg != nil {
			if !send(ctx, out, msg.Payload) {
				return
			}
		}

		if time.Since(lastBeat) >= opts.HeartbeatInterval {
			if !send(ctx, out, NewControlEvent(setting.EventStreamHeartbeat)) {
				return
			}
			lastBeat = time.Now()
		}
	}
}

// send delivers one frame unless the client already disconnected.
func send(ctx context.Context, out chan interface{}, frame interface{}) bool {
	select {
	case out <- frame:
		return true
	case <-ctx.Done():
		return false
	}
}
