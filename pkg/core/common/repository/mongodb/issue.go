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

package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Catter58/CTrack/pkg/config"
	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

type IssueColl struct {
	*mongo.Collection
	mongo.Session

	coll string
}

func NewIssueColl() *IssueColl {
	name := models.Issue{}.TableName()
	return &IssueColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), coll: name}
}

func NewIssueCollWithSession(session mongo.Session) *IssueColl {
	name := models.Issue{}.TableName()
	return &IssueColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), Session: session, coll: name}
}

func (c *IssueColl) GetCollectionName() string {
	return c.coll
}

func (c *IssueColl) EnsureIndex(ctx context.Context) error {
	mod := []mongo.IndexModel{
		{
			Keys: bson.D{
				bson.E{Key: "project_id", Value: 1},
				bson.E{Key: "key", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				bson.E{Key: "sprint_id", Value: 1},
			},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := c.Indexes().CreateMany(ctx, mod, options.CreateIndexes().SetCommitQuorumMajority())

	return err
}

func (c *IssueColl) Create(ctx context.Context, obj *models.Issue) (*primitive.ObjectID, error) {
	if obj == nil {
		return nil, errors.New("nil issue args")
	}
	obj.CreateTime = time.Now().Unix()
	obj.UpdateTime = time.Now().Unix()

	result, err := c.InsertOne(mongotool.SessionContext(ctx, c.Session), obj)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return &oid, nil
	}
	return nil, errors.New("can't convert InsertedID to primitive.ObjectID")
}

func (c *IssueColl) GetByID(ctx context.Context, idStr string) (*models.Issue, error) {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return nil, err
	}

	resp := new(models.Issue)
	err = c.FindOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id}).Decode(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type IssueListOption struct {
	ProjectID string
	SprintID  *string
	StatusIDs []primitive.ObjectID
}

func (c *IssueColl) List(ctx context.Context, opt *IssueListOption) ([]*models.Issue, error) {
	if opt == nil {
		return nil, errors.New("nil issue list option")
	}

	query := bson.M{}
	if opt.ProjectID != "" {
		query["project_id"] = opt.ProjectID
	}
	if opt.SprintID != nil {
		query["sprint_id"] = *opt.SprintID
	}
	if len(opt.StatusIDs) > 0 {
		query["status_id"] = bson.M{"$in": opt.StatusIDs}
	}

	cursor, err := c.Collection.Find(mongotool.SessionContext(ctx, c.Session), query)
	if err != nil {
		return nil, err
	}

	var resp []*models.Issue
	if err := cursor.All(mongotool.SessionContext(ctx, c.Session), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateStatus moves the issue to toStatusID only when its current status is
// still fromStatusID. The returned count is zero when another writer got
// there first.
func (c *IssueColl) UpdateStatus(ctx context.Context, id, fromStatusID, toStatusID primitive.ObjectID) (int64, error) {
	query := bson.M{
		"_id":       id,
		"status_id": fromStatusID,
	}
	change := bson.M{"$set": bson.M{
		"status_id":   toStatusID,
		"update_time": time.Now().Unix(),
	}}

	result, err := c.UpdateOne(mongotool.SessionContext(ctx, c.Session), query, change)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (c *IssueColl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	fields["update_time"] = time.Now().Unix()

	_, err := c.UpdateOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (c *IssueColl) SetSprint(ctx context.Context, id primitive.ObjectID, sprintID string) error {
	change := bson.M{"$set": bson.M{
		"sprint_id":   sprintID,
		"update_time": time.Now().Unix(),
	}}
	_, err := c.UpdateOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id}, change)
	return err
}

// BulkSetSprint reassigns every listed issue in one statement, used when a
// sprint completes or is deleted.
func (c *IssueColl) BulkSetSprint(ctx context.Context, ids []primitive.ObjectID, sprintID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := bson.M{"_id": bson.M{"$in": ids}}
	change := bson.M{"$set": bson.M{
		"sprint_id":   sprintID,
		"update_time": time.Now().Unix(),
	}}

	result, err := c.UpdateMany(mongotool.SessionContext(ctx, c.Session), query, change)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (c *IssueColl) CountByStatus(ctx context.Context, statusID primitive.ObjectID) (int64, error) {
	return c.CountDocuments(mongotool.SessionContext(ctx, c.Session), bson.M{"status_id": statusID})
}

func (c *IssueColl) DeleteByID(ctx context.Context, idStr string) error {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return err
	}
	_, err = c.DeleteOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id})
	return err
}
