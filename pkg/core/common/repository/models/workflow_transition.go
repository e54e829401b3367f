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

// WorkflowTransition is one directed edge of a project's workflow graph. At
// most one edge may exist per (project, from, to) triple. The graph may
// contain cycles and isolated statuses, both are valid configurations.
type WorkflowTransition struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	ProjectID    string             `bson:"project_id"     json:"project_id"`
	FromStatusID primitive.ObjectID `bson:"from_status_id" json:"from_status_id"`
	ToStatusID   primitive.ObjectID `bson:"to_status_id"   json:"to_status_id"`
	Name         string             `bson:"name"           json:"name"`
	// AllowedRoles empty means any project member may execute the edge.
	AllowedRoles []types.Role `bson:"allowed_roles" json:"allowed_roles"`
}

func (WorkflowTransition) TableName() string {
	return "workflow_transition"
}

// Permits reports whether the given role may execute this transition.
func (t *WorkflowTransition) Permits(role types.Role) bool {
	if len(t.AllowedRoles) == 0 {
		return true
	}
	return types.RoleSet(t.AllowedRoles).Has(string(role))
}
