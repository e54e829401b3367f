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

package service

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/config"
	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/cache"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	"github.com/Catter58/CTrack/pkg/types"
)

// Editing sessions live in a redis hash per issue, field = user id. The TTL
// is refreshed on every start/heartbeat, so a closed tab disappears from the
// presence list within a minute without any explicit stop.

func editingKey(issueKey string) string {
	return setting.EditingKeyPrefix + issueKey
}

func editingCache() *cache.RedisCache {
	return cache.NewRedisCache(config.RedisCacheDB())
}

func loadIssueForEditing(ctx *internalhandler.Context, issueID string) (*models.Issue, error) {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("issue not found")
		}
		return nil, e.ErrIssueEditing.AddErr(err)
	}
	return issue, nil
}

// StartEditing registers the actor as editing the issue. Calling it again
// acts as a heartbeat and pushes the TTL out.
func StartEditing(ctx *internalhandler.Context, issueID string) error {
	issue, err := loadIssueForEditing(ctx, issueID)
	if err != nil {
		return err
	}
	if err := requireEditor(ctx, issue.ProjectID); err != nil {
		return err
	}

	if err := editingCache().HWrite(editingKey(issue.Key), ctx.UserID, ctx.UserName, setting.EditingTTL); err != nil {
		return e.ErrIssueEditing.AddErr(err)
	}

	event.PublishIssueEditing(ctx, issue.ProjectID, issue.ID.Hex(), ctx.UserID, ctx.UserName, true)
	return nil
}

func StopEditing(ctx *internalhandler.Context, issueID string) error {
	issue, err := loadIssueForEditing(ctx, issueID)
	if err != nil {
		return err
	}

	if err := editingCache().HDelete(editingKey(issue.Key), ctx.UserID); err != nil {
		return e.ErrIssueEditing.AddErr(err)
	}

	event.PublishIssueEditing(ctx, issue.ProjectID, issue.ID.Hex(), ctx.UserID, ctx.UserName, false)
	return nil
}

// ListEditing returns who currently holds an editing session on the issue.
func ListEditing(ctx *internalhandler.Context, issueID string) ([]*types.UserBriefInfo, error) {
	issue, err := loadIssueForEditing(ctx, issueID)
	if err != nil {
		return nil, err
	}

	sessions, err := editingCache().HGetAllString(editingKey(issue.Key))
	if err != nil {
		return nil, e.ErrIssueEditing.AddErr(err)
	}

	resp := make([]*types.UserBriefInfo, 0, len(sessions))
	for uid, name := range sessions {
		resp = append(resp, &types.UserBriefInfo{UID: uid, Name: name})
	}
	return resp, nil
}
