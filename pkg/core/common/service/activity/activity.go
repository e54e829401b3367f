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

package activity

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/event"
	"github.com/Catter58/CTrack/pkg/setting"
)

// Record describes one audit entry to append to an issue's history.
type Record struct {
	IssueID   primitive.ObjectID
	UserID    string
	Action    setting.ActivityAction
	FieldName string
	OldValue  interface{}
	NewValue  interface{}
}

func (r *Record) toModel() *models.IssueActivity {
	return &models.IssueActivity{
		IssueID:   r.IssueID,
		UserID:    r.UserID,
		Action:    r.Action,
		FieldName: r.FieldName,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
	}
}

// Append writes one activity entry outside of any transaction and fans the
// activity.created event out to the project channel.
func Append(ctx context.Context, projectID string, record *Record) error {
	id, err := mongodb.NewIssueActivityColl().Create(ctx, record.toModel())
	if err != nil {
		return errors.Wrap(err, "append issue activity")
	}

	event.PublishActivityCreated(ctx, projectID, record.IssueID.Hex(), id.Hex(), record.Action)
	return nil
}

// AppendWithSession writes one activity entry inside the caller's
// transaction. The caller publishes activity.created itself after commit,
// so an aborted transaction never leaks an event.
func AppendWithSession(ctx context.Context, session mongo.Session, record *Record) (*primitive.ObjectID, error) {
	id, err := mongodb.NewIssueActivityCollWithSession(session).Create(ctx, record.toModel())
	if err != nil {
		return nil, errors.Wrap(err, "append issue activity")
	}
	return id, nil
}

// ListByIssue returns the issue's audit trail, newest first.
func ListByIssue(ctx context.Context, issueID primitive.ObjectID, pageNum, pageSize int64) ([]*models.IssueActivity, int64, error) {
	coll := mongodb.NewIssueActivityColl()

	total, err := coll.CountByIssue(ctx, issueID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count issue activities")
	}

	resp, err := coll.List(ctx, &mongodb.IssueActivityListOption{
		IssueID:  &issueID,
		PageNum:  pageNum,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "list issue activities")
	}

	return resp, total, nil
}
