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

// IssueActivity is one append-only audit record. Records are never updated
// or deleted; the earliest done-category status_changed record per issue is
// the source of truth for "when did this issue get done".
type IssueActivity struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	IssueID    primitive.ObjectID     `bson:"issue_id"      json:"issue_id"`
	UserID     string                 `bson:"user_id"       json:"user_id"`
	Action     setting.ActivityAction `bson:"action"        json:"action"`
	FieldName  string                 `bson:"field_name"    json:"field_name"`
	OldValue   interface{}            `bson:"old_value"     json:"old_value"`
	NewValue   interface{}            `bson:"new_value"     json:"new_value"`
	CreateTime int64                  `bson:"create_time"   json:"create_time"`
}

func (IssueActivity) TableName() string {
	return "issue_activity"
}

// StatusValue is the old/new payload of a status_changed record. Category is
// stored alongside the name so burndown reconstruction never needs to join
// against statuses that may have been renamed or deleted since.
type StatusValue struct {
	Name     string                 `bson:"name"     json:"name"`
	Category setting.StatusCategory `bson:"category" json:"category"`
}
