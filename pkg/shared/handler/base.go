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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	"github.com/Catter58/CTrack/pkg/tool/log"
	"github.com/Catter58/CTrack/pkg/types"
)

// Context is the per-request context threaded through handlers, services and
// repository calls. It satisfies context.Context so collection methods can
// take it directly.
type Context struct {
	context.Context

	Logger       *zap.SugaredLogger
	UserID       string
	UserName     string
	UnAuthorized bool
	Resp         interface{}
	RespErr      error
}

// NewContext reads the caller identity injected by the auth proxy. Token
// validation happened upstream, the service only consumes the result.
func NewContext(c *gin.Context) *Context {
	return &Context{
		Context:  c.Request.Context(),
		UserID:   c.GetHeader(setting.HeaderUserID),
		UserName: c.GetHeader(setting.HeaderUserName),
		Logger:   log.SugaredLogger(),
	}
}

func (ctx *Context) GenUserBriefInfo() types.UserBriefInfo {
	return types.UserBriefInfo{
		UID:  ctx.UserID,
		Name: ctx.UserName,
	}
}

type responseBody struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// JSONResponse writes ctx.Resp or ctx.RespErr. Operation errors in the 6xxx
// range are client-visible failures and map onto the status of their base
// category when carried in the description-free form; anything untyped is a
// 500.
func JSONResponse(c *gin.Context, ctx *Context) {
	if ctx.UnAuthorized {
		c.JSON(http.StatusUnauthorized, responseBody{Code: http.StatusUnauthorized, Message: "Unauthorized"})
		return
	}

	if ctx.RespErr != nil {
		if httpErr, ok := ctx.RespErr.(e.IHTTPError); ok {
			c.JSON(httpStatus(httpErr.Code()), responseBody{
				Code:        httpErr.Code(),
				Message:     httpErr.Error(),
				Description: httpErr.Desc(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, responseBody{
			Code:    http.StatusInternalServerError,
			Message: ctx.RespErr.Error(),
		})
		return
	}

	if ctx.Resp == nil {
		c.JSON(http.StatusOK, responseBody{Code: 0, Message: "success"})
		return
	}
	c.JSON(http.StatusOK, ctx.Resp)
}

func httpStatus(code int) int {
	if code >= http.StatusContinue && code <= http.StatusNetworkAuthenticationRequired {
		return code
	}
	return http.StatusBadRequest
}
