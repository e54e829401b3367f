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

package cache

import (
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	goredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"

	"github.com/Catter58/CTrack/pkg/config"
	"github.com/Catter58/CTrack/pkg/tool/log"
)

var (
	redsyncOnce     sync.Once
	redsyncInstance *redsync.Redsync
)

func getRedsync() *redsync.Redsync {
	redsyncOnce.Do(func() {
		cache := NewRedisCache(config.RedisCacheDB())
		redsyncInstance = redsync.New(goredis.NewPool(cache.redisClient))
	})
	return redsyncInstance
}

// RedisLock serializes check-then-act flows across service replicas.
type RedisLock struct {
	mutex *redsync.Mutex
}

func NewRedisLock(key string) *RedisLock {
	return &RedisLock{
		mutex: getRedsync().NewMutex(key, redsync.WithExpiry(30*time.Second)),
	}
}

func (l *RedisLock) Lock() error {
	return l.mutex.Lock()
}

func (l *RedisLock) TryLock() error {
	return l.mutex.TryLock()
}

func (l *RedisLock) Unlock() {
	if _, err := l.mutex.Unlock(); err != nil {
		log.Warnf("Failed to release redis lock %s, err: %v", l.mutex.Name(), err)
	}
}
