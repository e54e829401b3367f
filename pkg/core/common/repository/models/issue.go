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
)

type Priority string

const (
	PriorityLowest  Priority = "lowest"
	PriorityLow     Priority = "low"
	PriorityMedium  Priority = "medium"
	PriorityHigh    Priority = "high"
	PriorityHighest Priority = "highest"
)

type Issue struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID string             `bson:"project_id"    json:"project_id"`
	Key       string             `bson:"key"           json:"key"`
	Title     string             `bson:"title"         json:"title"`
	StatusID  primitive.ObjectID `bson:"status_id"     json:"status_id"`
	// SprintID empty means the issue sits in the backlog.
	SprintID string `bson:"sprint_id" json:"sprint_id"`
	// StoryPoints nil means unestimated; unestimated issues count as zero in
	// sprint snapshots and are skipped by the burndown.
	StoryPoints *int     `bson:"story_points,omitempty" json:"story_points,omitempty"`
	Priority    Priority `bson:"priority"               json:"priority"`
	AssigneeID  string   `bson:"assignee_id"            json:"assignee_id"`
	CreateTime  int64    `bson:"create_time"            json:"create_time"`
	UpdateTime  int64    `bson:"update_time"            json:"update_time"`
}

func (Issue) TableName() string {
	return "issue"
}

// Points returns the estimate with nil flattened to zero.
func (i *Issue) Points() int {
	if i.StoryPoints == nil {
		return 0
	}
	return *i.StoryPoints
}
