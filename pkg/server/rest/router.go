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

package rest

import (
	"github.com/gin-gonic/gin"

	analyticshandler "github.com/Catter58/CTrack/pkg/core/analytics/handler"
	eventshandler "github.com/Catter58/CTrack/pkg/core/events/handler"
	issuehandler "github.com/Catter58/CTrack/pkg/core/issue/handler"
	sprinthandler "github.com/Catter58/CTrack/pkg/core/sprint/handler"
	workflowhandler "github.com/Catter58/CTrack/pkg/core/workflow/handler"
)

func (s *engine) injectRouterGroup(router *gin.RouterGroup) {
	for name, r := range map[string]injector{
		"workflow":  new(workflowhandler.Router),
		"sprint":    new(sprinthandler.Router),
		"analytics": new(analyticshandler.Router),
		"issue":     new(issuehandler.Router),
		"events":    new(eventshandler.Router),
	} {
		r.Inject(router.Group("/api/" + name))
	}
}

type injector interface {
	Inject(router *gin.RouterGroup)
}
