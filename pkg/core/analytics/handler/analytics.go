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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Catter58/CTrack/pkg/core/analytics/service"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
)

func GetVelocity(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx.Resp, ctx.RespErr = service.GetVelocity(ctx, c.Query("projectID"), limit)
}

func GetBurndown(c *gin.Context) {
	ctx := internalhandler.NewContext(c)
	defer func() { internalhandler.JSONResponse(c, ctx) }()

	ctx.Resp, ctx.RespErr = service.GetBurndown(ctx, c.Param("sprintID"))
}
