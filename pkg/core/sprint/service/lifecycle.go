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
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/activity"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/cache"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

func sprintLifecycleLock(projectID string) *cache.RedisLock {
	return cache.NewRedisLock(fmt.Sprintf("sprint-lifecycle-lock-%s", projectID))
}

// StartSprint activates a planned sprint and snapshots its committed scope.
// The check for another active sprint and the activation run under the
// project's lifecycle lock, two concurrent starts cannot both pass the check.
func StartSprint(ctx *internalhandler.Context, sprintID string) error {
	coll := mongodb.NewSprintColl()

	sprint, err := coll.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("sprint not found")
		}
		return e.ErrStartSprint.AddErr(err)
	}

	if err := requireManage(ctx, sprint.ProjectID); err != nil {
		return err
	}

	lock := sprintLifecycleLock(sprint.ProjectID)
	if err := lock.Lock(); err != nil {
		return e.ErrStartSprint.AddErr(errors.Wrap(err, "acquire lifecycle lock"))
	}
	defer lock.Unlock()

	active, err := coll.GetActive(ctx, sprint.ProjectID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return e.ErrStartSprint.AddErr(err)
	}
	if err := startGuard(sprint, active); err != nil {
		return err
	}

	issues, err := mongodb.NewIssueColl().List(ctx, &mongodb.IssueListOption{
		ProjectID: sprint.ProjectID,
		SprintID:  &sprintID,
	})
	if err != nil {
		return e.ErrStartSprint.AddErr(err)
	}
	initial := sumPoints(issues)

	err = coll.UpdateFields(ctx, sprint.ID, bson.M{
		"status":               setting.SprintStatusActive,
		"initial_story_points": initial,
		"updated_by":           ctx.GenUserBriefInfo(),
	})
	if err != nil {
		return e.ErrStartSprint.AddErr(err)
	}

	event.PublishSprintUpdated(ctx, sprint.ProjectID, sprint.ID.Hex(), sprint.Name, setting.SprintStatusActive)
	ctx.Logger.Infof("sprint %s started with %d committed points", sprint.Name, initial)
	return nil
}

// CompleteSprint closes an active sprint: snapshots the done points, then
// moves every unfinished issue to the backlog or to the given target sprint.
// The snapshot and the bulk move commit in one transaction.
func CompleteSprint(ctx *internalhandler.Context, sprintID, moveIncompleteTo string) error {
	coll := mongodb.NewSprintColl()

	sprint, err := coll.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("sprint not found")
		}
		return e.ErrCompleteSprint.AddErr(err)
	}

	if err := requireManage(ctx, sprint.ProjectID); err != nil {
		return err
	}

	lock := sprintLifecycleLock(sprint.ProjectID)
	if err := lock.Lock(); err != nil {
		return e.ErrCompleteSprint.AddErr(errors.Wrap(err, "acquire lifecycle lock"))
	}
	defer lock.Unlock()

	if sprint.Status != setting.SprintStatusActive {
		return e.ErrInvalidState.AddDesc("only an active sprint can be completed")
	}

	targetSprintID := ""
	if moveIncompleteTo != "" && moveIncompleteTo != setting.MoveIncompleteToBacklog {
		target, err := coll.GetByID(ctx, moveIncompleteTo)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return e.ErrNotFound.AddDesc("target sprint not found")
			}
			return e.ErrCompleteSprint.AddErr(err)
		}
		if err := completeTargetGuard(sprint, target); err != nil {
			return err
		}
		targetSprintID = target.ID.Hex()
	}

	issues, doneIDs, err := loadSprintIssues(ctx, sprint)
	if err != nil {
		return e.ErrCompleteSprint.AddErr(err)
	}
	done, notDone := partitionDone(issues, doneIDs)
	completed := sumPoints(done)

	session := mongotool.Session()
	defer session.EndSession(ctx)

	if err := mongotool.StartTransaction(session); err != nil {
		return e.ErrCompleteSprint.AddErr(err)
	}

	err = mongodb.NewSprintCollWithSession(session).UpdateFields(ctx, sprint.ID, bson.M{
		"status":                 setting.SprintStatusCompleted,
		"completed_story_points": completed,
		"updated_by":             ctx.GenUserBriefInfo(),
	})
	if err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrCompleteSprint.AddErr(err)
	}

	if _, err := mongodb.NewIssueCollWithSession(session).BulkSetSprint(ctx, issueIDs(notDone), targetSprintID); err != nil {
		mongotool.AbortTransaction(session)
		return e.ErrCompleteSprint.AddErr(errors.Wrap(err, "move unfinished issues"))
	}

	activityIDs := make(map[string]*primitive.ObjectID, len(notDone))
	for _, issue := range notDone {
		activityID, err := activity.AppendWithSession(ctx, session, &activity.Record{
			IssueID:   issue.ID,
			UserID:    ctx.UserID,
			Action:    setting.ActivityActionSprintChanged,
			FieldName: "sprint",
			OldValue:  sprint.ID.Hex(),
			NewValue:  targetSprintID,
		})
		if err != nil {
			mongotool.AbortTransaction(session)
			return e.ErrCompleteSprint.AddErr(err)
		}
		activityIDs[issue.ID.Hex()] = activityID
	}

	if err := mongotool.CommitTransaction(session); err != nil {
		return e.ErrCompleteSprint.AddErr(err)
	}

	event.PublishSprintUpdated(ctx, sprint.ProjectID, sprint.ID.Hex(), sprint.Name, setting.SprintStatusCompleted)
	for issueID, activityID := range activityIDs {
		event.PublishActivityCreated(ctx, sprint.ProjectID, issueID, activityID.Hex(), setting.ActivityActionSprintChanged)
	}
	ctx.Logger.Infof("sprint %s completed, %d points done, %d issues moved", sprint.Name, completed, len(notDone))
	return nil
}

// startGuard holds the lifecycle preconditions of StartSprint. active is the
// project's currently active sprint, nil when there is none.
func startGuard(sprint, active *models.Sprint) error {
	if sprint.Status != setting.SprintStatusPlanned {
		return e.ErrInvalidState.AddDesc("only a planned sprint can be started")
	}
	if active != nil {
		return e.ErrConflict.AddDesc("project already has an active sprint: " + active.Name)
	}
	return nil
}

// completeTargetGuard validates the sprint that receives unfinished issues.
func completeTargetGuard(sprint, target *models.Sprint) error {
	if target.ProjectID != sprint.ProjectID {
		return e.ErrConflict.AddDesc("target sprint belongs to another project")
	}
	if target.Status == setting.SprintStatusCompleted {
		return e.ErrConflict.AddDesc("target sprint is already completed")
	}
	return nil
}

// loadSprintIssues returns the sprint's issues along with the set of
// done-category status ids visible to the project.
func loadSprintIssues(ctx *internalhandler.Context, sprint *models.Sprint) ([]*models.Issue, sets.String, error) {
	sprintID := sprint.ID.Hex()
	issues, err := mongodb.NewIssueColl().List(ctx, &mongodb.IssueListOption{
		ProjectID: sprint.ProjectID,
		SprintID:  &sprintID,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "list sprint issues")
	}

	statuses, err := mongodb.NewStatusColl().ListVisible(ctx, sprint.ProjectID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list project statuses")
	}

	doneIDs := sets.NewString()
	for _, s := range statuses {
		if s.IsDone() {
			doneIDs.Insert(s.ID.Hex())
		}
	}
	return issues, doneIDs, nil
}

func sumPoints(issues []*models.Issue) int {
	total := 0
	for _, issue := range issues {
		total += issue.Points()
	}
	return total
}

// partitionDone splits issues by whether their status is in the done set.
func partitionDone(issues []*models.Issue, doneStatusIDs sets.String) (done, notDone []*models.Issue) {
	for _, issue := range issues {
		if doneStatusIDs.Has(issue.StatusID.Hex()) {
			done = append(done, issue)
		} else {
			notDone = append(notDone, issue)
		}
	}
	return done, notDone
}

func issueIDs(issues []*models.Issue) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	return ids
}
