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
	"github.com/Catter58/CTrack/pkg/setting"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

type IssueActivityColl struct {
	*mongo.Collection
	mongo.Session

	coll string
}

func NewIssueActivityColl() *IssueActivityColl {
	name := models.IssueActivity{}.TableName()
	return &IssueActivityColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), coll: name}
}

func NewIssueActivityCollWithSession(session mongo.Session) *IssueActivityColl {
	name := models.IssueActivity{}.TableName()
	return &IssueActivityColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), Session: session, coll: name}
}

func (c *IssueActivityColl) GetCollectionName() string {
	return c.coll
}

func (c *IssueActivityColl) EnsureIndex(ctx context.Context) error {
	mod := mongo.IndexModel{
		Keys: bson.D{
			bson.E{Key: "issue_id", Value: 1},
			bson.E{Key: "create_time", Value: -1},
		},
		Options: options.Index().SetUnique(false),
	}

	_, err := c.Indexes().CreateOne(ctx, mod, options.CreateIndexes().SetCommitQuorumMajority())

	return err
}

func (c *IssueActivityColl) Create(ctx context.Context, obj *models.IssueActivity) (*primitive.ObjectID, error) {
	if obj == nil {
		return nil, errors.New("nil issue activity args")
	}
	if obj.CreateTime == 0 {
		obj.CreateTime = time.Now().Unix()
	}

	result, err := c.InsertOne(mongotool.SessionContext(ctx, c.Session), obj)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return &oid, nil
	}
	return nil, errors.New("can't convert InsertedID to primitive.ObjectID")
}

type IssueActivityListOption struct {
	IssueID   *primitive.ObjectID
	IssueIDs  []primitive.ObjectID
	Action    setting.ActivityAction
	Ascending bool
	PageNum   int64
	PageSize  int64
}

func (c *IssueActivityColl) List(ctx context.Context, opt *IssueActivityListOption) ([]*models.IssueActivity, error) {
	if opt == nil {
		return nil, errors.New("nil issue activity list option")
	}

	query := bson.M{}
	if opt.IssueID != nil {
		query["issue_id"] = *opt.IssueID
	}
	if len(opt.IssueIDs) > 0 {
		query["issue_id"] = bson.M{"$in": opt.IssueIDs}
	}
	if opt.Action != "" {
		query["action"] = opt.Action
	}

	order := -1
	if opt.Ascending {
		order = 1
	}
	findOpt := options.Find().SetSort(bson.D{{Key: "create_time", Value: order}})
	if opt.PageNum > 0 && opt.PageSize > 0 {
		findOpt = findOpt.SetSkip((opt.PageNum - 1) * opt.PageSize).SetLimit(opt.PageSize)
	}

	cursor, err := c.Collection.Find(mongotool.SessionContext(ctx, c.Session), query, findOpt)
	if err != nil {
		return nil, err
	}

	var resp []*models.IssueActivity
	if err := cursor.All(mongotool.SessionContext(ctx, c.Session), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *IssueActivityColl) CountByIssue(ctx context.Context, issueID primitive.ObjectID) (int64, error) {
	return c.CountDocuments(mongotool.SessionContext(ctx, c.Session), bson.M{"issue_id": issueID})
}
