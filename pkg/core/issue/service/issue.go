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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/activity"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	sprintservice "github.com/Catter58/CTrack/pkg/core/sprint/service"
	workflowservice "github.com/Catter58/CTrack/pkg/core/workflow/service"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

type CreateIssueArgs struct {
	ProjectID   string          `json:"project_id"`
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	StatusID    string          `json:"status_id"`
	SprintID    string          `json:"sprint_id"`
	StoryPoints *int            `json:"story_points"`
	Priority    models.Priority `json:"priority"`
	AssigneeID  string          `json:"assignee_id"`
}

// UpdateIssueArgs carries the writable issue fields. Nil pointers mean
// "leave unchanged"; StatusID routes through the workflow engine and SprintID
// through the sprint service, so those two fields keep their own rules.
type UpdateIssueArgs struct {
	Title       *string          `json:"title"`
	StatusID    *string          `json:"status_id"`
	SprintID    *string          `json:"sprint_id"`
	StoryPoints *int             `json:"story_points"`
	Priority    *models.Priority `json:"priority"`
	AssigneeID  *string          `json:"assignee_id"`
}

func validPriority(p models.Priority) bool {
	switch p {
	case models.PriorityLowest, models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityHighest:
		return true
	}
	return false
}

func requireEditor(ctx *internalhandler.Context, projectID string) error {
	role, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return e.ErrInternalError.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !role.CanEdit() {
		return e.ErrForbidden.AddDesc("viewers may not edit issues")
	}
	return nil
}

func CreateIssue(ctx *internalhandler.Context, args *CreateIssueArgs) (*models.Issue, error) {
	if args.ProjectID == "" || args.Key == "" || args.Title == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id, key and title are required")
	}
	if args.StoryPoints != nil && *args.StoryPoints < 0 {
		return nil, e.ErrInvalidParam.AddDesc("story_points must not be negative")
	}
	if args.Priority == "" {
		args.Priority = models.PriorityMedium
	}
	if !validPriority(args.Priority) {
		return nil, e.ErrInvalidParam.AddDesc("unknown priority " + string(args.Priority))
	}

	if err := requireEditor(ctx, args.ProjectID); err != nil {
		return nil, err
	}

	statusID, err := primitive.ObjectIDFromHex(args.StatusID)
	if err != nil {
		return nil, e.ErrInvalidParam.AddDesc("invalid status id")
	}
	status, err := mongodb.NewStatusColl().GetByID(ctx, args.StatusID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("status not found")
		}
		return nil, e.ErrCreateIssue.AddErr(err)
	}
	if !status.VisibleTo(args.ProjectID) {
		return nil, e.ErrInvalidParam.AddDesc("status is not visible to the project")
	}

	obj := &models.Issue{
		ProjectID:   args.ProjectID,
		Key:         args.Key,
		Title:       args.Title,
		StatusID:    statusID,
		StoryPoints: args.StoryPoints,
		Priority:    args.Priority,
		AssigneeID:  args.AssigneeID,
	}

	id, err := mongodb.NewIssueColl().Create(ctx, obj)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, e.ErrConflict.AddDesc("an issue with this key already exists in the project")
		}
		return nil, e.ErrCreateIssue.AddErr(err)
	}
	obj.ID = *id

	if err := activity.Append(ctx, obj.ProjectID, &activity.Record{
		IssueID: obj.ID,
		UserID:  ctx.UserID,
		Action:  setting.ActivityActionCreated,
	}); err != nil {
		ctx.Logger.Warnf("failed to record creation of issue %s: %v", obj.Key, err)
	}

	event.PublishIssueCreated(ctx, obj.ProjectID, obj.ID.Hex(), obj.Key)

	if args.SprintID != "" {
		if err := sprintservice.SetIssueSprint(ctx, obj.ID.Hex(), args.SprintID); err != nil {
			return nil, err
		}
		obj.SprintID = args.SprintID
	}

	return obj, nil
}

func GetIssue(ctx *internalhandler.Context, issueID string) (*models.Issue, error) {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("issue not found")
		}
		return nil, e.ErrGetIssue.AddErr(err)
	}

	_, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrGetIssue.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}
	return issue, nil
}

// UpdateIssue applies audited field edits. Each changed field yields its own
// activity record; status and sprint changes delegate to their owning
// services so their invariants hold no matter which endpoint edits them.
func UpdateIssue(ctx *internalhandler.Context, issueID string, args *UpdateIssueArgs) error {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("issue not found")
		}
		return e.ErrUpdateIssue.AddErr(err)
	}

	if err := requireEditor(ctx, issue.ProjectID); err != nil {
		return err
	}

	fields := bson.M{}
	records := []*activity.Record{}
	changed := []string{}

	if args.Title != nil && *args.Title != issue.Title {
		if *args.Title == "" {
			return e.ErrInvalidParam.AddDesc("title must not be empty")
		}
		fields["title"] = *args.Title
		changed = append(changed, "title")
		records = append(records, &activity.Record{
			IssueID:   issue.ID,
			UserID:    ctx.UserID,
			Action:    setting.ActivityActionUpdated,
			FieldName: "title",
			OldValue:  issue.Title,
			NewValue:  *args.Title,
		})
	}

	if args.AssigneeID != nil && *args.AssigneeID != issue.AssigneeID {
		fields["assignee_id"] = *args.AssigneeID
		changed = append(changed, "assignee")
		records = append(records, &activity.Record{
			IssueID:   issue.ID,
			UserID:    ctx.UserID,
			Action:    setting.ActivityActionAssigned,
			FieldName: "assignee",
			OldValue:  issue.AssigneeID,
			NewValue:  *args.AssigneeID,
		})
	}

	if args.Priority != nil && *args.Priority != issue.Priority {
		if !validPriority(*args.Priority) {
			return e.ErrInvalidParam.AddDesc("unknown priority " + string(*args.Priority))
		}
		fields["priority"] = *args.Priority
		changed = append(changed, "priority")
		records = append(records, &activity.Record{
			IssueID:   issue.ID,
			UserID:    ctx.UserID,
			Action:    setting.ActivityActionPriorityChanged,
			FieldName: "priority",
			OldValue:  issue.Priority,
			NewValue:  *args.Priority,
		})
	}

	if args.StoryPoints != nil && (issue.StoryPoints == nil || *args.StoryPoints != *issue.StoryPoints) {
		if *args.StoryPoints < 0 {
			return e.ErrInvalidParam.AddDesc("story_points must not be negative")
		}
		fields["story_points"] = *args.StoryPoints
		changed = append(changed, "story_points")
		records = append(records, &activity.Record{
			IssueID:   issue.ID,
			UserID:    ctx.UserID,
			Action:    setting.ActivityActionUpdated,
			FieldName: "story_points",
			OldValue:  issue.StoryPoints,
			NewValue:  *args.StoryPoints,
		})
	}

	if len(fields) > 0 {
		session := mongotool.Session()
		defer session.EndSession(ctx)

		if err := mongotool.StartTransaction(session); err != nil {
			return e.ErrUpdateIssue.AddErr(err)
		}

		if err := mongodb.NewIssueCollWithSession(session).UpdateFields(ctx, issue.ID, fields); err != nil {
			mongotool.AbortTransaction(session)
			return e.ErrUpdateIssue.AddErr(err)
		}
		for _, record := range records {
			if _, err := activity.AppendWithSession(ctx, session, record); err != nil {
				mongotool.AbortTransaction(session)
				return e.ErrUpdateIssue.AddErr(err)
			}
		}

		if err := mongotool.CommitTransaction(session); err != nil {
			return e.ErrUpdateIssue.AddErr(err)
		}

		event.PublishIssueUpdated(ctx, issue.ProjectID, issue.ID.Hex(), issue.Key, changed)
	}

	if args.StatusID != nil {
		if err := workflowservice.MoveIssue(ctx, issueID, *args.StatusID); err != nil {
			return err
		}
	}
	if args.SprintID != nil {
		if err := sprintservice.SetIssueSprint(ctx, issueID, *args.SprintID); err != nil {
			return err
		}
	}

	return nil
}

func DeleteIssue(ctx *internalhandler.Context, issueID string) error {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("issue not found")
		}
		return e.ErrDeleteIssue.AddErr(err)
	}

	if err := requireEditor(ctx, issue.ProjectID); err != nil {
		return err
	}

	if err := mongodb.NewIssueColl().DeleteByID(ctx, issueID); err != nil {
		return e.ErrDeleteIssue.AddErr(err)
	}

	event.PublishIssueDeleted(ctx, issue.ProjectID, issue.ID.Hex(), issue.Key)
	return nil
}

type ActivityListResponse struct {
	Total      int64                   `json:"total"`
	Activities []*models.IssueActivity `json:"activities"`
}

func ListIssueActivity(ctx *internalhandler.Context, issueID string, pageNum, pageSize int64) (*ActivityListResponse, error) {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("issue not found")
		}
		return nil, e.ErrListActivity.AddErr(err)
	}

	_, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrListActivity.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	activities, total, err := activity.ListByIssue(ctx, issue.ID, pageNum, pageSize)
	if err != nil {
		return nil, e.ErrListActivity.AddErr(err)
	}

	return &ActivityListResponse{Total: total, Activities: activities}, nil
}
