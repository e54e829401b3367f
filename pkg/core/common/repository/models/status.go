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

	"github.com/Catter58/CTrack/pkg/setting"
)

// Status is a named workflow state. An empty ProjectID makes it global:
// visible to every project alongside the project's own statuses.
type Status struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	ProjectID string                 `bson:"project_id"    json:"project_id"`
	Name      string                 `bson:"name"          json:"name"`
	Category  setting.StatusCategory `bson:"category"      json:"category"`
	Color     string                 `bson:"color"         json:"color"`
	Order     int                    `bson:"order"         json:"order"`
}

func (Status) TableName() string {
	return "status"
}

// VisibleTo reports whether issues of the given project may carry this
// status.
func (s *Status) VisibleTo(projectID string) bool {
	return s.ProjectID == "" || s.ProjectID == projectID
}

func (s *Status) IsDone() bool {
	return s.Category == setting.CategoryDone
}
