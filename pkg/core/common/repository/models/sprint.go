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
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/types"
)

type Sprint struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID string               `bson:"project_id"    json:"project_id"`
	Name      string               `bson:"name"          json:"name"`
	Goal      string               `bson:"goal"          json:"goal"`
	StartDate time.Time            `bson:"start_date"    json:"start_date"`
	EndDate   time.Time            `bson:"end_date"      json:"end_date"`
	Status    setting.SprintStatus `bson:"status"        json:"status"`
	// InitialStoryPoints is snapshotted once when the sprint starts,
	// CompletedStoryPoints once when it completes. Both stay nil before
	// their lifecycle boundary is crossed.
	InitialStoryPoints   *int                `bson:"initial_story_points,omitempty"   json:"initial_story_points,omitempty"`
	CompletedStoryPoints *int                `bson:"completed_story_points,omitempty" json:"completed_story_points,omitempty"`
	CreatedBy            types.UserBriefInfo `bson:"created_by"  json:"created_by"`
	CreateTime           int64               `bson:"create_time" json:"create_time"`
	UpdatedBy            types.UserBriefInfo `bson:"updated_by"  json:"updated_by"`
	UpdateTime           int64               `bson:"update_time" json:"update_time"`
}

func (Sprint) TableName() string {
	return "sprint"
}

func (s *Sprint) Lint() error {
	if s.Name == "" {
		return fmt.Errorf("sprint name is required")
	}
	if s.ProjectID == "" {
		return fmt.Errorf("sprint project is required")
	}
	if !s.StartDate.Before(s.EndDate) {
		return fmt.Errorf("sprint start date must be before end date")
	}
	return nil
}
