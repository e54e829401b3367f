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

type ProjectMembershipColl struct {
	*mongo.Collection

	coll string
}

func NewProjectMembershipColl() *ProjectMembershipColl {
	name := models.ProjectMembership{}.TableName()
	return &ProjectMembershipColl{Collection: mongotool.Database(config.MongoDatabase()).Collection(name), coll: name}
}

func (c *ProjectMembershipColl) GetCollectionName() string {
	return c.coll
}

func (c *ProjectMembershipColl) EnsureIndex(ctx context.Context) error {
	mod := mongo.IndexModel{
		Keys: bson.D{
			bson.E{Key: "project_id", Value: 1},
			bson.E{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	_, err := c.Indexes().CreateOne(ctx, mod, options.CreateIndexes().SetCommitQuorumMajority())

	return err
}

func (c *ProjectMembershipColl) Create(ctx context.Context, obj *models.ProjectMembership) (*primitive.ObjectID, error) {
	if obj == nil {
		return nil, errors.New("nil project membership args")
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

// Get returns the user's membership in the project, or mongo.ErrNoDocuments
// when the user is not a member.
func (c *ProjectMembershipColl) Get(ctx context.Context, projectID, userID string) (*models.ProjectMembership, error) {
	query := bson.M{
		"project_id": projectID,
		"user_id":    userID,
	}

	resp := new(models.ProjectMembership)
	err := c.FindOne(ctx, query).Decode(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ProjectMembershipColl) ListByProject(ctx context.Context, projectID string) ([]*models.ProjectMembership, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}

	var resp []*models.ProjectMembership
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ProjectMembershipColl) ListByUser(ctx context.Context, userID string) ([]*models.ProjectMembership, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var resp []*models.ProjectMembership
	if err := cursor.All(ctx, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ProjectMembershipColl) Delete(ctx context.Context, projectID, userID string) error {
	query := bson.M{
		"project_id": projectID,
		"user_id":    userID,
	}
	_, err := c.DeleteOne(ctx, query)
	return err
}
