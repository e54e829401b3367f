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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Catter58/CTrack/pkg/setting"
	"github.com/Catter58/CTrack/pkg/tool/eventbus"
)

func receiveEnvelope(t *testing.T, sub eventbus.ISubscription) *Envelope {
	t.Helper()
	msg, err := sub.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg, "no event within 2s")

	envelope := new(Envelope)
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), envelope))
	return envelope
}

func TestProjectChannel(t *testing.T) {
	assert.Equal(t, "project:p1", ProjectChannel("p1"))
}

func TestPublishActivityCreated(t *testing.T) {
	Init(eventbus.NewMemBus())
	defer Init(nil)

	sub, err := Bus().Subscribe(ProjectChannel("p1"))
	require.NoError(t, err)
	defer sub.Close()

	PublishActivityCreated(context.Background(), "p1", "issue-1", "act-1", setting.ActivityActionSprintChanged)

	envelope := receiveEnvelope(t, sub)
	assert.Equal(t, setting.EventActivityCreated, envelope.Type)
	assert.Equal(t, "p1", envelope.ProjectID)
	assert.NotZero(t, envelope.Timestamp)
	assert.Equal(t, "issue-1", envelope.Data["issue_id"])
	assert.Equal(t, "act-1", envelope.Data["activity_id"])
	assert.Equal(t, string(setting.ActivityActionSprintChanged), envelope.Data["action"])
}

func TestPublishWithoutBus(t *testing.T) {
	Init(nil)

	err := Publish(context.Background(), "p1", setting.EventIssueUpdated, nil)
	assert.Error(t, err)
}
