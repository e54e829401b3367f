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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
	"github.com/Catter58/CTrack/pkg/types"
)

type CreateTransitionArgs struct {
	ProjectID    string       `json:"project_id"`
	FromStatusID string       `json:"from_status_id"`
	ToStatusID   string       `json:"to_status_id"`
	Name         string       `json:"name"`
	AllowedRoles []types.Role `json:"allowed_roles"`
}

type UpdateTransitionArgs struct {
	Name         string       `json:"name"`
	AllowedRoles []types.Role `json:"allowed_roles"`
}

func requireManager(ctx *internalhandler.Context, projectID string) error {
	role, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return e.ErrInternalError.AddErr(err)
	}
	if !found {
		return e.ErrForbidden.AddDesc("not a member of the project")
	}
	if !role.CanManage() {
		return e.ErrForbidden.AddDesc("workflow configuration requires a manager role")
	}
	return nil
}

func CreateTransition(ctx *internalhandler.Context, args *CreateTransitionArgs) (*models.WorkflowTransition, error) {
	if args.ProjectID == "" || args.Name == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id and name are required")
	}
	for _, role := range args.AllowedRoles {
		if !role.IsValid() {
			return nil, e.ErrInvalidParam.AddDesc("unknown role " + string(role))
		}
	}

	if err := requireManager(ctx, args.ProjectID); err != nil {
		return nil, err
	}

	fromID, err := primitive.ObjectIDFromHex(args.FromStatusID)
	if err != nil {
		return nil, e.ErrInvalidParam.AddDesc("invalid from_status_id")
	}
	toID, err := primitive.ObjectIDFromHex(args.ToStatusID)
	if err != nil {
		return nil, e.ErrInvalidParam.AddDesc("invalid to_status_id")
	}

	statusColl := mongodb.NewStatusColl()
	for _, idStr := range []string{args.FromStatusID, args.ToStatusID} {
		status, err := statusColl.GetByID(ctx, idStr)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, e.ErrNotFound.AddDesc("status not found")
			}
			return nil, e.ErrCreateTransition.AddErr(err)
		}
		if !status.VisibleTo(args.ProjectID) {
			return nil, e.ErrInvalidParam.AddDesc("status " + status.Name + " is not visible to the project")
		}
	}

	obj := &models.WorkflowTransition{
		ProjectID:    args.ProjectID,
		FromStatusID: fromID,
		ToStatusID:   toID,
		Name:         args.Name,
		AllowedRoles: args.AllowedRoles,
	}

	id, err := mongodb.NewWorkflowTransitionColl().Create(ctx, obj)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, e.ErrConflict.AddDesc("a transition between these statuses already exists")
		}
		return nil, e.ErrCreateTransition.AddErr(err)
	}
	obj.ID = *id

	return obj, nil
}

func UpdateTransition(ctx *internalhandler.Context, transitionID string, args *UpdateTransitionArgs) error {
	for _, role := range args.AllowedRoles {
		if !role.IsValid() {
			return e.ErrInvalidParam.AddDesc("unknown role " + string(role))
		}
	}

	coll := mongodb.NewWorkflowTransitionColl()
	transition, err := coll.GetByID(ctx, transitionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("transition not found")
		}
		return e.ErrUpdateTransition.AddErr(err)
	}

	if err := requireManager(ctx, transition.ProjectID); err != nil {
		return err
	}

	if args.Name != "" {
		transition.Name = args.Name
	}
	transition.AllowedRoles = args.AllowedRoles

	if err := coll.Update(ctx, transition); err != nil {
		return e.ErrUpdateTransition.AddErr(err)
	}
	return nil
}

func DeleteTransition(ctx *internalhandler.Context, transitionID string) error {
	coll := mongodb.NewWorkflowTransitionColl()
	transition, err := coll.GetByID(ctx, transitionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("transition not found")
		}
		return e.ErrDeleteTransition.AddErr(err)
	}

	if err := requireManager(ctx, transition.ProjectID); err != nil {
		return err
	}

	if err := coll.DeleteByID(ctx, transitionID); err != nil {
		return e.ErrDeleteTransition.AddErr(err)
	}
	return nil
}

func ListProjectTransitions(ctx *internalhandler.Context, projectID string) ([]*models.WorkflowTransition, error) {
	if projectID == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id is required")
	}

	_, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrListTransitions.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	resp, err := mongodb.NewWorkflowTransitionColl().ListByProject(ctx, projectID)
	if err != nil {
		return nil, e.ErrListTransitions.AddErr(err)
	}
	return resp, nil
}
