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

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/eventbus"
	"github.com/Catter58/CTrack/pkg/tool/log"
)

var bus eventbus.IEventBus

// Init wires the process-wide event bus used for live-update fan-out.
func Init(b eventbus.IEventBus) {
	bus = b
}

func Bus() eventbus.IEventBus {
	return bus
}

// ProjectChannel is the channel every live update for a project is
// published to. Browser connections subscribe to exactly one of these.
func ProjectChannel(projectID string) string {
	return fmt.Sprintf("project:%s", projectID)
}

// Envelope is the wire format of every published event. Data carries the
// event-specific payload.
type Envelope struct {
	Type      setting.EventType      `json:"type"`
	ProjectID string                 `json:"project_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Publish serializes and publishes one event to the project's channel.
// Publishing is best effort. A dead bus must never fail the business
// operation that already committed, so callers log and move on.
func Publish(ctx context.Context, projectID string, eventType setting.EventType, data map[string]interface{}) error {
	if bus == nil {
		return errors.New("event bus is not initialized")
	}

	payload, err := json.Marshal(&Envelope{
		Type:      eventType,
		ProjectID: projectID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal event payload")
	}

	return bus.Publish(ProjectChannel(projectID), string(payload))
}

func publishLogged(ctx context.Context, projectID string, eventType setting.EventType, data map[string]interface{}) {
	if err := Publish(ctx, projectID, eventType, data); err != nil {
		log.Warnf("Failed to publish %s event for project %s, err: %v", eventType, projectID, err)
	}
}

func PublishIssueCreated(ctx context.Context, projectID, issueID, issueKey string) {
	publishLogged(ctx, projectID, setting.EventIssueCreated, map[string]interface{}{
		"issue_id":  issueID,
		"issue_key": issueKey,
	})
}

func PublishIssueUpdated(ctx context.Context, projectID, issueID, issueKey string, fields []string) {
	publishLogged(ctx, projectID, setting.EventIssueUpdated, map[string]interface{}{
		"issue_id":  issueID,
		"issue_key": issueKey,
		"fields":    fields,
	})
}

func PublishIssueMoved(ctx context.Context, projectID, issueID, issueKey, fromStatus, toStatus string) {
	publishLogged(ctx, projectID, setting.EventIssueMoved, map[string]interface{}{
		"issue_id":    issueID,
		"issue_key":   issueKey,
		"from_status": fromStatus,
		"to_status":   toStatus,
	})
}

func PublishIssueDeleted(ctx context.Context, projectID, issueID, issueKey string) {
	publishLogged(ctx, projectID, setting.EventIssueDeleted, map[string]interface{}{
		"issue_id":  issueID,
		"issue_key": issueKey,
	})
}

func PublishSprintUpdated(ctx context.Context, projectID, sprintID, sprintName string, status setting.SprintStatus) {
	publishLogged(ctx, projectID, setting.EventSprintUpdated, map[string]interface{}{
		"sprint_id":   sprintID,
		"sprint_name": sprintName,
		"status":      status,
	})
}

func PublishActivityCreated(ctx context.Context, projectID, issueID, activityID string, action setting.ActivityAction) {
	publishLogged(ctx, projectID, setting.EventActivityCreated, map[string]interface{}{
		"issue_id":    issueID,
		"activity_id": activityID,
		"action":      action,
	})
}

func PublishIssueEditing(ctx context.Context, projectID, issueID, userID, userName string, editing bool) {
	eventType := setting.EventIssueEditingStart
	if !editing {
		eventType = setting.EventIssueEditingStop
	}
	publishLogged(ctx, projectID, eventType, map[string]interface{}{
		"issue_id":  issueID,
		"user_id":   userID,
		"user_name": userName,
	})
}
