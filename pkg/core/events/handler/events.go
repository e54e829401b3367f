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

	"github.com/gin-gonic/gin"

	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/events/service"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
)

// StreamEvents is the live-update endpoint. It holds the connection open and
// relays every event published to the caller's project channels, with
// heartbeat and lifetime control frames in between.
func StreamEvents(c *gin.Context) {
	ctx := internalhandler.NewContext(c)

	if ctx.UserID == "" {
		c.JSON(401, gin.H{"code": 401, "message": "Unauthorized"})
		return
	}

	projectID := c.Query("projectID")

	internalhandler.Stream(c, func(streamCtx context.Context, streamChan chan interface{}) {
		channels, err := service.Channels(streamCtx, ctx.UserID, projectID)
		if err != nil {
			ctx.Logger.Warnf("event stream refused for user %s: %v", ctx.UserID, err)
			streamChan <- service.NewControlEvent(setting.EventStreamError)
			return
		}

		service.Run(streamCtx, event.Bus(), channels, nil, streamChan)
	}, ctx.Logger)
}
