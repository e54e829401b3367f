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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/activity"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
	"github.com/Catter58/CTrack/pkg/types"
)

// ListTransitions returns the transitions the actor may execute on the issue
// from its current status.
func ListTransitions(ctx *internalhandler.Context, issueID string) ([]*models.WorkflowTransition, error) {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("issue not found")
		}
		return nil, e.ErrListTransitions.AddErr(err)
	}

	role, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrListTransitions.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	transitions, err := mongodb.NewWorkflowTransitionColl().ListFrom(ctx, issue.ProjectID, issue.StatusID)
	if err != nil {
		return nil, e.ErrListTransitions.AddErr(err)
	}

	return permittedTransitions(transitions, role), nil
}

// CanTransition decides whether the actor may move the issue to the target
// status. A project with no transitions at all runs an open workflow: any
// member may move any issue to any status visible to the project.
func CanTransition(ctx *internalhandler.Context, issue *models.Issue, targetStatusID primitive.ObjectID) (bool, error) {
	role, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	transitions, err := mongodb.NewWorkflowTransitionColl().ListByProject(ctx, issue.ProjectID)
	if err != nil {
		return false, err
	}

	if len(transitions) == 0 {
		target, err := mongodb.NewStatusColl().GetByID(ctx, targetStatusID.Hex())
		if err != nil {
			return false, err
		}
		return target.VisibleTo(issue.ProjectID), nil
	}

	return allowTransition(transitions, issue.StatusID, targetStatusID, role), nil
}

// ExecuteTransition moves the issue along the named edge. The status update
// and its status_changed activity commit in one transaction; the update
// re-checks the from status so a concurrent move loses cleanly instead of
// overwriting.
func ExecuteTransition(ctx *internalhandler.Context, issueID, transitionID string) error {
	issueColl := mongodb.NewIssueColl()

	issue, err := issueColl.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("issue not found")
		}
		return e.ErrExecuteTransition.AddErr(err)
	}

	transition, err := mongodb.NewWorkflowTransitionColl().GetByID(ctx, transitionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("transition not found")
		}
		return e.ErrExecuteTransition.AddErr(err)
	}

	if transition.ProjectID != issue.ProjectID {
		return e.ErrInvalidParam.AddDesc("transition does not belong to the issue's project")
	}
	if transition.FromStatusID != issue.StatusID {
		return e.ErrInvalidState.AddDesc("issue is not in the transition's source status")
	}

	role, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return e.ErrExecuteTransition.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !transition.Permits(role) {
		return e.ErrForbidden.AddDesc(fmt.Sprintf("role %s may not execute transition %s", role, transition.Name))
	}

	statusColl := mongodb.NewStatusColl()
	fromStatus, err := statusColl.GetByID(ctx, transition.FromStatusID.Hex())
	if err != nil {
		return e.ErrExecuteTransition.AddErr(errors.Wrap(err, "get source status"))
	}
	toStatus, err := statusColl.GetByID(ctx, transition.ToStatusID.Hex())
	if err != nil {
		return e.ErrExecuteTransition.AddErr(errors.Wrap(err, "get target status"))
	}

	return commitStatusMove(ctx, issue, fromStatus, toStatus, e.ErrExecuteTransition)
}

// MoveIssue is the status-edit entry point for issue field updates. It runs
// the same engine checks as an explicit transition, including the open
// workflow fallback, so every status change funnels through one commit path.
func MoveIssue(ctx *internalhandler.Context, issueID, targetStatusID string) error {
	issue, err := mongodb.NewIssueColl().GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("issue not found")
		}
		return e.ErrUpdateIssue.AddErr(err)
	}

	targetID, err := primitive.ObjectIDFromHex(targetStatusID)
	if err != nil {
		return e.ErrInvalidParam.AddDesc("invalid status id")
	}
	if targetID == issue.StatusID {
		return nil
	}

	role, found, err := membership.Role(ctx, issue.ProjectID, ctx.UserID)
	if err != nil {
		return e.ErrUpdateIssue.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !role.CanEdit() {
		return e.ErrForbidden.AddDesc("viewers may not move issues")
	}

	allowed, err := CanTransition(ctx, issue, targetID)
	if err != nil {
		return e.ErrUpdateIssue.AddErr(err)
	}
	if !allowed {
		return e.ErrForbidden.AddDesc("workflow does not permit this status change")
	}

	statusColl := mongodb.NewStatusColl()
	fromStatus, err := statusColl.GetByID(ctx, issue.StatusID.Hex())
	if err != nil {
		return e.ErrUpdateIssue.AddErr(errors.Wrap(err, "get source status"))
	}
	toStatus, err := statusColl.GetByID(ctx, targetStatusID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("target status not found")
		}
		return e.ErrUpdateIssue.AddErr(errors.Wrap(err, "get target status"))
	}
	if !toStatus.VisibleTo(issue.ProjectID) {
		return e.ErrInvalidParam.AddDesc("target status is not visible to the project")
	}

	return commitStatusMove(ctx, issue, fromStatus, toStatus, e.ErrUpdateIssue)
}

// commitStatusMove updates the issue status and appends the status_changed
// record in one transaction, then broadcasts. The update filters on the
// source status so a concurrent move loses cleanly instead of overwriting.
func commitStatusMove(ctx *internalhandler.Context, issue *models.Issue, fromStatus, toStatus *models.Status, opErr *e.HTTPError) error {
	session := mongotool.Session()
	defer session.EndSession(ctx)

	if err := mongotool.StartTransaction(session); err != nil {
		return opErr.AddErr(err)
	}

	matched, err := mongodb.NewIssueCollWithSession(session).UpdateStatus(ctx, issue.ID, fromStatus.ID, toStatus.ID)
	if err != nil {
		mongotool.AbortTransaction(session)
		return opErr.AddErr(errors.Wrap(err, "update issue status"))
	}
	if matched == 0 {
		mongotool.AbortTransaction(session)
		return e.ErrInvalidState.AddDesc("issue status changed concurrently, retry")
	}

	activityID, err := activity.AppendWithSession(ctx, session, &activity.Record{
		IssueID:   issue.ID,
		UserID:    ctx.UserID,
		Action:    setting.ActivityActionStatusChanged,
		FieldName: "status",
		OldValue:  &models.StatusValue{Name: fromStatus.Name, Category: fromStatus.Category},
		NewValue:  &models.StatusValue{Name: toStatus.Name, Category: toStatus.Category},
	})
	if err != nil {
		mongotool.AbortTransaction(session)
		return opErr.AddErr(err)
	}

	if err := mongotool.CommitTransaction(session); err != nil {
		return opErr.AddErr(err)
	}

	event.PublishIssueMoved(ctx, issue.ProjectID, issue.ID.Hex(), issue.Key, fromStatus.Name, toStatus.Name)
	event.PublishActivityCreated(ctx, issue.ProjectID, issue.ID.Hex(), activityID.Hex(), setting.ActivityActionStatusChanged)

	ctx.Logger.Infof("issue %s moved %s -> %s by %s", issue.Key, fromStatus.Name, toStatus.Name, ctx.UserName)
	return nil
}

// permittedTransitions keeps the edges whose role set is empty or contains
// the actor's role.
func permittedTransitions(transitions []*models.WorkflowTransition, role types.Role) []*models.WorkflowTransition {
	resp := make([]*models.WorkflowTransition, 0, len(transitions))
	for _, t := range transitions {
		if t.Permits(role) {
			resp = append(resp, t)
		}
	}
	return resp
}

// allowTransition reports whether an edge from -> to exists that the role may
// execute. Callers handle the zero-transition open workflow before this.
func allowTransition(transitions []*models.WorkflowTransition, from, to primitive.ObjectID, role types.Role) bool {
	for _, t := range transitions {
		if t.FromStatusID == from && t.ToStatusID == to && t.Permits(role) {
			return true
		}
	}
	return false
}
