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

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Catter58/CTrack/pkg/types"
)

// ProjectMembership ties a user to a project with one role. Membership
// management itself lives outside this service; the engine only reads it for
// role gating and for the gateway's channel list.
type ProjectMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID string             `bson:"project_id"    json:"project_id"`
	UserID    string             `bson:"user_id"       json:"user_id"`
	Role      types.Role         `bson:"role"          json:"role"`
}

func (ProjectMembership) TableName() string {
	return "project_membership"
}
