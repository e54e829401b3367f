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

	"github.com/redis/go-redis/v9"

	"github.com/Catter58/CTrack/pkg/config"
)

type RedisBus struct {
	redisClient *redis.Client
}

var busClient *redis.Client

// NewRedisBus callers has to make sure the caller has the settings for redis
// in their env variables.
func NewRedisBus() *RedisBus {
	if busClient == nil {
		redisConfig := &redis.Options{
			Addr: fmt.Sprintf("%s:%d", config.RedisHost(), config.RedisPort()),
			DB:   config.RedisEventBusDB(),
		}

		if config.RedisUserName() != "" {
			redisConfig.Username = config.RedisUserName()
		}
		if config.RedisPassword() != "" {
			redisConfig.Password = config.RedisPassword()
		}
		busClient = redis.NewClient(redisConfig)
	}
	return &RedisBus{redisClient: busClient}
}

func (b *RedisBus) Publish(channel, message string) error {
	return b.redisClient.Publish(context.Background(), channel, message).Err()
}

func (b *RedisBus) Subscribe(channels ...string) (ISubscription, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("eventbus: no channels to subscribe")
	}

	sub := b.redisClient.Subscribe(context.Background(), channels...)
	// force the subscription to be established so connection errors surface
	// here instead of on the first Receive
	if _, err := sub.Receive(context.Background()); err != nil {
		sub.Close()
		return nil, err
	}

	return &redisSubscription{sub: sub, ch: sub.Channel()}, nil
}

type redisSubscription struct {
	sub       *redis.PubSub
	ch        <-chan *redis.Message
	closeOnce sync.Once
}

func (s *redisSubscription) Receive(ctx context.Context, timeout time.Duration) (*Message, error) {
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
		return &Message{Channel: msg.Channel, Payload: msg.Payload}, nil
	}
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.sub.Close()
	})
	return err
}
