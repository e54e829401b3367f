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

type SprintColl struct {
	*mongo.Collection
	mongo.Session

	coll string
}

func NewSprintColl() *SprintColl {
	name := models.Sprint{}.TableName()
	return &SprintColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), coll: name}
}

func NewSprintCollWithSession(session mongo.Session) *SprintColl {
	name := models.Sprint{}.TableName()
	return &SprintColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), Session: session, coll: name}
}

func (c *SprintColl) GetCollectionName() string {
	return c.coll
}

func (c *SprintColl) EnsureIndex(ctx context.Context) error {
	mod := mongo.IndexModel{
		Keys: bson.D{
			bson.E{Key: "project_id", Value: 1},
			bson.E{Key: "status", Value: 1},
		},
		Options: options.Index().SetUnique(false),
	}

	_, err := c.Indexes().CreateOne(ctx, mod, options.CreateIndexes().SetCommitQuorumMajority())

	return err
}

func (c *SprintColl) Create(ctx context.Context, obj *models.Sprint) (*primitive.ObjectID, error) {
	if obj == nil {
		return nil, errors.New("nil sprint args")
	}
	if err := obj.Lint(); err != nil {
		return nil, err
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

func (c *SprintColl) GetByID(ctx context.Context, idStr string) (*models.Sprint, error) {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return nil, err
	}

	resp := new(models.Sprint)
	err = c.FindOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id}).Decode(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type SprintListOption struct {
	ProjectID string
	Status    setting.SprintStatus
	// Limit with ByEndDateDesc drives the velocity window.
	Limit         int64
	ByEndDateDesc bool
}

func (c *SprintColl) List(ctx context.Context, opt *SprintListOption) ([]*models.Sprint, error) {
	if opt == nil {
		return nil, errors.New("nil sprint list option")
	}

	query := bson.M{}
	if opt.ProjectID != "" {
		query["project_id"] = opt.ProjectID
	}
	if opt.Status != "" {
		query["status"] = opt.Status
	}

	findOpt := options.Find()
	if opt.ByEndDateDesc {
		findOpt = findOpt.SetSort(bson.D{{Key: "end_date", Value: -1}})
	} else {
		findOpt = findOpt.SetSort(bson.D{{Key: "start_date", Value: 1}})
	}
	if opt.Limit > 0 {
		findOpt = findOpt.SetLimit(opt.Limit)
	}

	cursor, err := c.Collection.Find(mongotool.SessionContext(ctx, c.Session), query, findOpt)
	if err != nil {
		return nil, err
	}

	var resp []*models.Sprint
	if err := cursor.All(mongotool.SessionContext(ctx, c.Session), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetActive returns the project's active sprint, or mongo.ErrNoDocuments.
func (c *SprintColl) GetActive(ctx context.Context, projectID string) (*models.Sprint, error) {
	query := bson.M{
		"project_id": projectID,
		"status":     setting.SprintStatusActive,
	}

	resp := new(models.Sprint)
	err := c.FindOne(mongotool.SessionContext(ctx, c.Session), query).Decode(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *SprintColl) Update(ctx context.Context, obj *models.Sprint) error {
	if err := obj.Lint(); err != nil {
		return err
	}
	obj.UpdateTime = time.Now().Unix()

	query := bson.M{"_id": obj.ID}
	change := bson.M{"$set": obj}
	_, err := c.UpdateOne(mongotool.SessionContext(ctx, c.Session), query, change)
	return err
}

func (c *SprintColl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	fields["update_time"] = time.Now().Unix()

	_, err := c.UpdateOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (c *SprintColl) DeleteByID(ctx context.Context, idStr string) error {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return err
	}
	_, err = c.DeleteOne(mongotool.SessionContext(ctx, c.Session), bson.M{"_id": id})
	return err
}
