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
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

type CreateSprintArgs struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type UpdateSprintArgs struct {
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func requireManage(ctx *internalhandler.Context, projectID string) error {
	role, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return e.ErrInternalError.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !role.CanManage() {
		return e.ErrForbidden.AddDesc("sprint lifecycle requires a manager role")
	}
	return nil
}

func requireMember(ctx *internalhandler.Context, projectID string) error {
	_, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return e.ErrInternalError.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	return nil
}

func CreateSprint(ctx *internalhandler.Context, args *CreateSprintArgs) (*models.Sprint, error) {
	if err := requireManage(ctx, args.ProjectID); err != nil {
		return nil, err
	}

	obj := &models.Sprint{
		ProjectID: args.ProjectID,
		Name:      args.Name,
		Goal:      args.Goal,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
		Status:    setting.SprintStatusPlanned,
		CreatedBy: ctx.GenUserBriefInfo(),
		UpdatedBy: ctx.GenUserBriefInfo(),
	}
	if err := obj.Lint(); err != nil {
		return nil, e.ErrInvalidParam.AddErr(err)
	}

	id, err := mongodb.NewSprintColl().Create(ctx, obj)
	if err != nil {
		return nil, e.ErrCreateSprint.AddErr(err)
	}
	obj.ID = *id

	return obj, nil
}

func UpdateSprint(ctx *internalhandler.Context, sprintID string, args *UpdateSprintArgs) error {
	coll := mongodb.NewSprintColl()
	sprint, err := coll.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("sprint not found")
		}
		return e.ErrUpdateSprint.AddErr(err)
	}

	if err := requireManage(ctx, sprint.ProjectID); err != nil {
		return err
	}
	if sprint.Status == setting.SprintStatusCompleted {
		return e.ErrInvalidState.AddDesc("completed sprints are read-only")
	}

	if args.Name != "" {
		sprint.Name = args.Name
	}
	sprint.Goal = args.Goal
	if !args.StartDate.IsZero() {
		sprint.StartDate = args.StartDate
	}
	if !args.EndDate.IsZero() {
		sprint.EndDate = args.EndDate
	}
	sprint.UpdatedBy = ctx.GenUserBriefInfo()

	if err := sprint.Lint(); err != nil {
		return e.ErrInvalidParam.AddErr(err)
	}
	if err := coll.Update(ctx, sprint); err != nil {
		return e.ErrUpdateSprint.AddErr(err)
	}

	event.PublishSprintUpdated(ctx, sprint.ProjectID, sprint.ID.Hex(), sprint.Name, sprint.Status)
	return nil
}

func GetSprint(ctx *internalhandler.Context, sprintID string) (*models.Sprint, error) {
	sprint, err := mongodb.NewSprintColl().GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("sprint not found")
		}
		return nil, e.ErrGetSprint.AddErr(err)
	}

	if err := requireMember(ctx, sprint.ProjectID); err != nil {
		return nil, err
	}
	return sprint, nil
}

func ListSprints(ctx *internalhandler.Context, projectID string, status setting.SprintStatus) ([]*models.Sprint, error) {
	if projectID == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id is required")
	}
	if err := requireMember(ctx, projectID); err != nil {
		return nil, err
	}

	resp, err := mongodb.NewSprintColl().List(ctx, &mongodb.SprintListOption{
		ProjectID: projectID,
		Status:    status,
	})
	if err != nil {
		return nil, e.ErrListSprint.AddErr(err)
	}
	return resp, nil
}

// DeleteSprint detaches every issue before removing the sprint so no issue
// is left pointing at a sprint that no longer exists.
func DeleteSprint(ctx *internalhandler.Context, sprintID string) error {
	sprint, err := mongodb.NewSprintColl().GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("sprint not found")
		}
		return e.ErrDeleteSprint.AddErr(err)
	}

	if err := requireManage(ctx, sprint.ProjectID); err != nil {
		return err
	}

	issues, err := mongodb.NewIssueColl().List(ctx, &mongodb.IssueListOption{
		ProjectID: sprint.ProjectID,
		SprintID:  &sprintID,
	})
	if err != nil {
		return e.ErrDeleteSprint.AddErr(err)
	}

	session := mongotool.Session()
	defer session.EndSession(ctx)

	if err := mongotool.StartTransaction(session); err != nil {
		return e.ErrDeleteSprint.AddErr(err)
	}

	if _, err := mongodb.NewIssueCollWithSession(session).BulkSetSprint(ctx, issueIDs(issues), ""); err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrDeleteSprint.AddErr(errors.Wrap(err, "detach sprint issues"))
	}
	if err := mongodb.NewSprintCollWithSession(session).DeleteByID(ctx, sprintID); err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrDeleteSprint.AddErr(err)
	}

	if err := mongotool.CommitTransaction(session); err != nil {
		return e.ErrDeleteSprint.AddErr(err)
	}

	event.PublishSprintUpdated(ctx, sprint.ProjectID, sprint.ID.Hex(), sprint.Name, sprint.Status)
	return nil
}

// SprintStats is the point and issue tally of one sprint.
type SprintStats struct {
	SprintID        string `json:"sprint_id"`
	TotalIssues     int    `json:"total_issues"`
	DoneIssues      int    `json:"done_issues"`
	TotalPoints     int    `json:"total_points"`
	CompletedPoints int    `json:"completed_points"`
	RemainingPoints int    `json:"remaining_points"`
}

func GetSprintStats(ctx *internalhandler.Context, sprintID string) (*SprintStats, error) {
	sprint, err := mongodb.NewSprintColl().GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("sprint not found")
		}
		return nil, e.ErrGetSprint.AddErr(err)
	}
	if err := requireMember(ctx, sprint.ProjectID); err != nil {
		return nil, err
	}

	issues, doneIDs, err := loadSprintIssues(ctx, sprint)
	if err != nil {
		return nil, e.ErrGetSprint.AddErr(err)
	}

	done, _ := partitionDone(issues, doneIDs)

	return &SprintStats{
		SprintID:        sprint.ID.Hex(),
		TotalIssues:     len(issues),
		DoneIssues:      len(done),
		TotalPoints:     sumPoints(issues),
		CompletedPoints: sumPoints(done),
		RemainingPoints: sumPoints(issues) - sumPoints(done),
	}, nil
}
