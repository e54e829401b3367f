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

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
)

func points(n int) *int {
	return &n
}

func TestStartGuard(t *testing.T) {
	tests := []struct {
		name     string
		sprint   *models.Sprint
		active   *models.Sprint
		wantCode int
	}{
		{
			name:   "planned with no active sprint starts",
			sprint: &models.Sprint{Status: setting.SprintStatusPlanned},
		},
		{
			name:     "already active sprint cannot start again",
			sprint:   &models.Sprint{Status: setting.SprintStatusActive},
			wantCode: 422,
		},
		{
			name:     "completed sprint cannot restart",
			sprint:   &models.Sprint{Status: setting.SprintStatusCompleted},
			wantCode: 422,
		},
		{
			name:     "another active sprint blocks",
			sprint:   &models.Sprint{Status: setting.SprintStatusPlanned},
			active:   &models.Sprint{Name: "sprint 4", Status: setting.SprintStatusActive},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := startGuard(tt.sprint, tt.active)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			httpErr, ok := err.(e.IHTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, httpErr.Code())
		})
	}
}

func TestCompleteTargetGuard(t *testing.T) {
	sprint := &models.Sprint{ProjectID: "demo", Status: setting.SprintStatusActive}

	tests := []struct {
		name     string
		target   *models.Sprint
		wantCode int
	}{
		{
			name:   "planned sprint in same project accepts leftovers",
			target: &models.Sprint{ProjectID: "demo", Status: setting.SprintStatusPlanned},
		},
		{
			name:   "active sprint in same project accepts leftovers",
			target: &models.Sprint{ProjectID: "demo", Status: setting.SprintStatusActive},
		},
		{
			name:     "completed target refused",
			target:   &models.Sprint{ProjectID: "demo", Status: setting.SprintStatusCompleted},
			wantCode: 409,
		},
		{
			name:     "cross-project target refused",
			target:   &models.Sprint{ProjectID: "other", Status: setting.SprintStatusPlanned},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := completeTargetGuard(sprint, tt.target)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			httpErr, ok := err.(e.IHTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, httpErr.Code())
		})
	}
}

func TestSumPoints(t *testing.T) {
	issues := []*models.Issue{
		{StoryPoints: points(5)},
		{StoryPoints: nil},
		{StoryPoints: points(8)},
		{StoryPoints: points(0)},
	}
	assert.Equal(t, 13, sumPoints(issues))
	assert.Equal(t, 0, sumPoints(nil))
}

func TestPartitionDone(t *testing.T) {
	doneStatus := primitive.NewObjectID()
	todoStatus := primitive.NewObjectID()

	issues := []*models.Issue{
		{Key: "CT-1", StatusID: doneStatus, StoryPoints: points(3)},
		{Key: "CT-2", StatusID: todoStatus, StoryPoints: points(5)},
		{Key: "CT-3", StatusID: doneStatus},
		{Key: "CT-4", StatusID: todoStatus},
	}

	done, notDone := partitionDone(issues, sets.NewString(doneStatus.Hex()))

	require.Len(t, done, 2)
	require.Len(t, notDone, 2)
	assert.Equal(t, "CT-1", done[0].Key)
	assert.Equal(t, "CT-3", done[1].Key)
	assert.Equal(t, 3, sumPoints(done))

	done, notDone = partitionDone(issues, sets.NewString())
	assert.Empty(t, done)
	assert.Len(t, notDone, 4)
}
