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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Catter58/CTrack/pkg/config"
	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	mongotool "github.com/Catter58/CTrack/pkg/tool/mongo"
)

type WorkflowTransitionColl struct {
	*mongo.Collection

	coll string
}

func NewWorkflowTransitionColl() *WorkflowTransitionColl {
	name := models.WorkflowTransition{}.TableName()
	return &WorkflowTransitionColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), coll: name}
}

func (c *WorkflowTransitionColl) GetCollectionName() string {
	return c.coll
}

func (c *WorkflowTransitionColl) EnsureIndex(ctx context.Context) error {
	mod := mongo.IndexModel{
		Keys: bson.D{
			bson.E{Key: "project_id", Value: 1},
			bson.E{Key: "from_status_id", Value: 1},
			bson.E{Key: "to_status_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	_, err := c.Indexes().CreateOne(ctx, mod, options.CreateIndexes().SetCommitQuorumMajority())

	return err
}

func (c *WorkflowTransitionColl) Create(ctx context.Context, obj *models.WorkflowTransition) (*primitive.ObjectID, error) {
	if obj == nil {
		return nil, errors.New("nil workflow transition args")
	}

	result, err := c.InsertOne(ctx, obj)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return &oid, nil
	}
	return nil, errors.New("can't convert InsertedID to primitive.ObjectID")
}

func (c *WorkflowTransitionColl) GetByID(ctx context.Context, idStr string) (*models.WorkflowTransition, error) {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return nil, err
	}

	resp := new(models.WorkflowTransition)
	err = c.FindOne(ctx, bson.M{"_id": id}).Decode(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *WorkflowTransitionColl) ListByProject(ctx context.Context, projectID string) ([]*models.WorkflowTransition, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}

	var resp []*models.WorkflowTransition
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListFrom returns the transitions a project defines out of the given status.
func (c *WorkflowTransitionColl) ListFrom(ctx context.Context, projectID string, fromStatusID primitive.ObjectID) ([]*models.WorkflowTransition, error) {
	query := bson.M{
		"project_id":     projectID,
		"from_status_id": fromStatusID,
	}

	cursor, err := c.Collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp []*models.WorkflowTransition
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *WorkflowTransitionColl) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return c.CountDocuments(ctx, bson.M{"project_id": projectID})
}

func (c *WorkflowTransitionColl) Update(ctx context.Context, obj *models.WorkflowTransition) error {
	query := bson.M{"_id": obj.ID}
	change := bson.M{"$set": obj}
	_, err := c.UpdateOne(ctx, query, change)
	return err
}

func (c *WorkflowTransitionColl) DeleteByID(ctx context.Context, idStr string) error {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return err
	}
	_, err = c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
