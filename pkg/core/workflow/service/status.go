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

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
)

type CreateStatusArgs struct {
	ProjectID string                 `json:"project_id"`
	Name      string                 `json:"name"`
	Category  setting.StatusCategory `json:"category"`
	Color     string                 `json:"color"`
	Order     int                    `json:"order"`
}

func validCategory(category setting.StatusCategory) bool {
	switch category {
	case setting.CategoryTodo, setting.CategoryInProgress, setting.CategoryDone:
		return true
	}
	return false
}

func CreateStatus(ctx *internalhandler.Context, args *CreateStatusArgs) (*models.Status, error) {
	if args.Name == "" {
		return nil, e.ErrInvalidParam.AddDesc("name is required")
	}
	if !validCategory(args.Category) {
		return nil, e.ErrInvalidParam.AddDesc("category must be todo, in_progress or done")
	}
	if args.ProjectID != "" {
		if err := requireManager(ctx, args.ProjectID); err != nil {
			return nil, err
		}
	}

	obj := &models.Status{
		ProjectID: args.ProjectID,
		Name:      args.Name,
		Category:  args.Category,
		Color:     args.Color,
		Order:     args.Order,
	}

	id, err := mongodb.NewStatusColl().Create(ctx, obj)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, e.ErrConflict.AddDesc("a status with this name already exists in the project")
		}
		return nil, e.ErrCreateStatus.AddErr(err)
	}
	obj.ID = *id

	return obj, nil
}

func UpdateStatus(ctx *internalhandler.Context, statusID string, args *CreateStatusArgs) error {
	coll := mongodb.NewStatusColl()
	status, err := coll.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("status not found")
		}
		return e.ErrUpdateStatus.AddErr(err)
	}

	if status.ProjectID != "" {
		if err := requireManager(ctx, status.ProjectID); err != nil {
			return err
		}
	}

	if args.Name != "" {
		status.Name = args.Name
	}
	if args.Category != "" {
		if !validCategory(args.Category) {
			return e.ErrInvalidParam.AddDesc("category must be todo, in_progress or done")
		}
		status.Category = args.Category
	}
	if args.Color != "" {
		status.Color = args.Color
	}
	status.Order = args.Order

	if err := coll.Update(ctx, status); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return e.ErrConflict.AddDesc("a status with this name already exists in the project")
		}
		return e.ErrUpdateStatus.AddErr(err)
	}
	return nil
}

// DeleteStatus refuses while any issue still carries the status, so a board
// can never end up with issues in a state that no longer exists.
func DeleteStatus(ctx *internalhandler.Context, statusID string) error {
	coll := mongodb.NewStatusColl()
	status, err := coll.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e.ErrNotFound.AddDesc("status not found")
		}
		return e.ErrDeleteStatus.AddErr(err)
	}

	if status.ProjectID != "" {
		if err := requireManager(ctx, status.ProjectID); err != nil {
			return err
		}
	}

	count, err := mongodb.NewIssueColl().CountByStatus(ctx, status.ID)
	if err != nil {
		return e.ErrDeleteStatus.AddErr(err)
	}
	if count > 0 {
		return e.ErrConflict.AddDesc("status is still referenced by issues")
	}

	if err := coll.DeleteByID(ctx, statusID); err != nil {
		return e.ErrDeleteStatus.AddErr(err)
	}
	return nil
}

func ListStatuses(ctx *internalhandler.Context, projectID string) ([]*models.Status, error) {
	if projectID == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id is required")
	}

	_, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrInternalError.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	resp, err := mongodb.NewStatusColl().ListVisible(ctx, projectID)
	if err != nil {
		return nil, e.ErrInternalError.AddErr(err)
	}
	return resp, nil
}
