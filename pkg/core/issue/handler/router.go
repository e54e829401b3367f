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
	"github.com/gin-gonic/gin"
)

type Router struct{}

func (*Router) Inject(router *gin.RouterGroup) {
	issues := router.Group("issues")
	{
		issues.POST("", CreateIssue)
		issues.GET("/:id", GetIssue)
		issues.PUT("/:id", UpdateIssue)
		issues.DELETE("/:id", DeleteIssue)
		issues.GET("/:id/activities", ListIssueActivity)
		issues.POST("/:id/editing", StartEditing)
		issues.DELETE("/:id/editing", StopEditing)
		issues.GET("/:id/editing", ListEditing)
	}
}
