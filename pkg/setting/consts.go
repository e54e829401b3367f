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

package setting

import "time"

const ProductName = "ctrack"

// envs
const (
	ENVSystemAddress = "ADDRESS"
	ENVMode          = "MODE"
	ENVPort          = "PORT"
	ENVLogLevel      = "LOG_LEVEL"

	ENVMongoDBConnectionString = "MONGODB_CONNECTION_STRING"
	ENVCTrackDBName            = "CTRACK_DB"

	ENVRedisHost       = "REDIS_HOST"
	ENVRedisPort       = "REDIS_PORT"
	ENVRedisUserName   = "REDIS_USERNAME"
	ENVRedisPassword   = "REDIS_PASSWORD"
	ENVRedisEventBusDB = "REDIS_EVENT_BUS_DB"
	ENVRedisCacheDB    = "REDIS_CACHE_DB"
)

const (
	DebugMode   = "debug"
	ReleaseMode = "release"
	TestMode    = "test"
)

// identity headers set by the auth proxy in front of the service
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

// StatusCategory is the coarse workflow bucket a status belongs to. Analytics
// only ever look at the category, never at the status name.
type StatusCategory string

const (
	CategoryTodo       StatusCategory = "todo"
	CategoryInProgress StatusCategory = "in_progress"
	CategoryDone       StatusCategory = "done"
)

// SprintStatus is the sprint lifecycle state. The lifecycle is linear:
// planned -> active -> completed, each transition fires exactly once.
type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "planned"
	SprintStatusActive    SprintStatus = "active"
	SprintStatusCompleted SprintStatus = "completed"
)

// MoveIncompleteToBacklog is the sentinel target for completing a sprint
// without carrying unfinished issues into another one.
const MoveIncompleteToBacklog = "backlog"

type ActivityAction string

const (
	ActivityActionCreated         ActivityAction = "created"
	ActivityActionUpdated         ActivityAction = "updated"
	ActivityActionStatusChanged   ActivityAction = "status_changed"
	ActivityActionAssigned        ActivityAction = "assigned"
	ActivityActionCommented       ActivityAction = "commented"
	ActivityActionSprintChanged   ActivityAction = "sprint_changed"
	ActivityActionPriorityChanged ActivityAction = "priority_changed"
)

type EventType string

const (
	EventIssueCreated      EventType = "issue.created"
	EventIssueUpdated      EventType = "issue.updated"
	EventIssueMoved        EventType = "issue.moved"
	EventIssueDeleted      EventType = "issue.deleted"
	EventSprintUpdated     EventType = "sprint.updated"
	EventCommentAdded      EventType = "comment.added"
	EventMemberJoined      EventType = "member.joined"
	EventIssueEditingStart EventType = "issue.editing_start"
	EventIssueEditingStop  EventType = "issue.editing_stop"
	EventActivityCreated   EventType = "activity.created"

	// reserved stream-control types, emitted by the gateway only
	EventStreamConnected EventType = "connected"
	EventStreamHeartbeat EventType = "heartbeat"
	EventStreamTimeout   EventType = "timeout"
	EventStreamError     EventType = "error"
)

// live-update gateway tunables
const (
	EventStreamPollInterval      = time.Second
	EventStreamHeartbeatInterval = 30 * time.Second
	EventStreamMaxConnLifetime   = time.Hour
)

// editing sessions
const (
	EditingKeyPrefix = "issue_editing:"
	EditingTTL       = 60 * time.Second
)
