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

package core

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Catter58/CTrack/pkg/config"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/eventbus"
	"github.com/Catter58/CTrack/pkg/tool/log"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

const (
	mongoConnectTimeout = 10 * time.Second
)

type indexer interface {
	EnsureIndex(ctx context.Context) error
	GetCollectionName() string
}

func Start(ctx context.Context) {
	log.Init(&log.Config{
		Level:       config.LogLevel(),
		Filename:    config.LogFile(),
		SendToFile:  config.SendLogToFile(),
		Development: config.Mode() != setting.ReleaseMode,
	})

	initDatabase(ctx)

	event.Init(eventbus.New(eventbus.BusTypeRedis))
}

func Stop(ctx context.Context) {
	mongotool.Close(ctx)
}

func initDatabase(ctx context.Context) {
	connCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	mongotool.Init(connCtx, config.MongoURI())
	if err := mongotool.Ping(connCtx); err != nil {
		log.Panicf("Failed to connect to mongo, error: %s", err)
	}

	idxCtx, cancelIdx := context.WithTimeout(ctx, time.Minute)
	defer cancelIdx()

	var res error
	for _, r := range []indexer{
		mongodb.NewStatusColl(),
		mongodb.NewWorkflowTransitionColl(),
		mongodb.NewIssueColl(),
		mongodb.NewIssueActivityColl(),
		mongodb.NewSprintColl(),
		mongodb.NewProjectMembershipColl(),
	} {
		if err := r.EnsureIndex(idxCtx); err != nil {
			res = multierror.Append(res, err)
			log.Warnf("Failed to create index for %s, error: %s", r.GetCollectionName(), err)
		}
	}
	if res != nil {
		log.Warnf("Not all indexes are in place: %s", res)
	}
}
