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

	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/activity"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

// SetIssueSprint assigns the issue to a sprint, or back to the backlog when
// sprintID is empty. Completed sprints never gain issues.
func SetIssueSprint(ctx *internalhandler.Context, issueID, sprintID string) error {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("issue not found")
		}
		return e.ErrSetIssueSprint.AddErr(err)
	}

	role, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return e.ErrSetIssueSprint.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !role.CanEdit() {
		return e.ErrForbidden.AddDesc("viewers may not move issues between sprints")
	}

	if sprintID != "" {
		target, err := mongodb.NewSprintColl().GetByID(ctx, sprintID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return e.ErrNotFound.AddDesc("sprint not found")
			}
			return e.ErrSetIssueSprint.AddErr(err)
		}
		if target.Status == setting.SprintStatusCompleted {
			return e.ErrInvalidState.AddDesc("cannot assign issues to a completed sprint")
		}
		if target.ProjectID != issue.ProjectID {
			return e.ErrConflict.AddDesc("sprint belongs to another project")
		}
	}

	if issue.SprintID == sprintID {
		return nil
	}

	session := mongotool.Session()
	defer session.EndSession(ctx)

	if err := mongotool.StartTransaction(session); err != nil {
		return e.ErrSetIssueSprint.AddErr(err)
	}

	if err := mongodb.NewIssueCollWithSession(session).SetSprint(ctx, issue.ID, sprintID); err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrSetIssueSprint.AddErr(err)
	}

	activityID, err := activity.AppendWithSession(ctx, session, &activity.Record{
		IssueID:   issue.ID,
		UserID:    ctx.UserID,
		Action:    setting.ActivityActionSprintChanged,
		FieldName: "sprint",
		OldValue:  issue.SprintID,
		NewValue:  sprintID,
	})
	if err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrSetIssueSprint.AddErr(err)
	}

	if err := mongotool.CommitTransaction(session); err != nil {
		return e.ErrSetIssueSprint.AddErr(err)
	}

	event.PublishIssueUpdated(ctx, issue.ProjectID, issue.ID.Hex(), issue.Key, []string{"sprint"})
	event.PublishActivityCreated(ctx, issue.ProjectID, issue.ID.Hex(), activityID.Hex(), setting.ActivityActionSprintChanged)
	return nil
}
