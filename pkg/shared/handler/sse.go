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

package handler

import (
	"context"
	"io"
	"sync"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type producer func(context.Context, chan interface{})

// Stream runs p in its own goroutine and renders whatever it puts on the
// channel as SSE messages until p returns or the client goes away. p must
// honor ctx cancellation and close over its own cleanup.
func Stream(c *gin.Context, p producer, log *zap.SugaredLogger) {
	var wg sync.WaitGroup
	streamChan := make(chan interface{}, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()
		log.Debugf("Connection closed, event stream stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		p(ctx, streamChan)
		close(streamChan)
	}()

	c.Stream(func(w io.Writer) bool {
		if msg, ok := <-streamChan; ok {
			c.Render(-1, sse.Event{
				Event: "message",
				Data:  msg,
			})
			return true
		}
		return false
	})

	cancel()
	wg.Wait()
}
