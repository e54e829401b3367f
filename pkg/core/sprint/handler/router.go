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
	sprints := router.Group("sprints")
	{
		sprints.GET("", ListSprints)
		sprints.POST("", CreateSprint)
		sprints.GET("/:id", GetSprint)
		sprints.PUT("/:id", UpdateSprint)
		sprints.DELETE("/:id", DeleteSprint)
		sprints.POST("/:id/start", StartSprint)
		sprints.POST("/:id/complete", CompleteSprint)
		sprints.GET("/:id/stats", GetSprintStats)
	}

	issues := router.Group("issues")
	{
		issues.PUT("/:issueID/sprint", SetIssueSprint)
	}
}
