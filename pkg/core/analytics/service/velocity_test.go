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

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
)

func completedSprint(name string, completed *int) *models.Sprint {
	return &models.Sprint{Name: name, CompletedStoryPoints: completed}
}

func intp(n int) *int {
	return &n
}

func TestAverageCompleted(t *testing.T) {
	tests := []struct {
		name    string
		sprints []*models.Sprint
		want    float64
	}{
		{
			name: "no completed sprints",
			want: 0,
		},
		{
			name: "three sprints average to one decimal",
			sprints: []*models.Sprint{
				completedSprint("s1", intp(15)),
				completedSprint("s2", intp(20)),
				completedSprint("s3", intp(28)),
			},
			want: 21.0,
		},
		{
			name: "rounding goes to nearest tenth",
			sprints: []*models.Sprint{
				completedSprint("s1", intp(10)),
				completedSprint("s2", intp(11)),
				completedSprint("s3", intp(11)),
			},
			want: 10.7,
		},
		{
			name: "missing snapshot counts as zero",
			sprints: []*models.Sprint{
				completedSprint("s1", intp(12)),
				completedSprint("s2", nil),
			},
			want: 6.0,
		},
		{
			name: "single sprint",
			sprints: []*models.Sprint{
				completedSprint("s1", intp(7)),
			},
			want: 7.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, averageCompleted(tt.sprints))
		})
	}
}

func TestDefaultVelocityWindow(t *testing.T) {
	assert.Equal(t, 6, DefaultVelocityWindow)
}

func TestPointsOrZero(t *testing.T) {
	assert.Equal(t, 0, pointsOrZero(nil))
	assert.Equal(t, 13, pointsOrZero(intp(13)))
}

func TestVelocityEntries(t *testing.T) {
	sprints := []*models.Sprint{
		{Name: "s1", InitialStoryPoints: intp(20), CompletedStoryPoints: intp(15)},
		{Name: "s2", InitialStoryPoints: nil, CompletedStoryPoints: nil},
	}

	got := velocityEntries(sprints)

	assert.Len(t, got, 2)
	assert.Equal(t, 20, got[0].CommittedPoints)
	assert.Equal(t, 15, got[0].CompletedPoints)
	// sprint completed without snapshots reports zeros, not omissions
	assert.Equal(t, 0, got[1].CommittedPoints)
	assert.Equal(t, 0, got[1].CompletedPoints)
}

func TestReverseSprints(t *testing.T) {
	sprints := []*models.Sprint{
		completedSprint("newest", intp(1)),
		completedSprint("middle", intp(2)),
		completedSprint("oldest", intp(3)),
	}

	got := reverseSprints(sprints)

	assert.Equal(t, "oldest", got[0].Name)
	assert.Equal(t, "middle", got[1].Name)
	assert.Equal(t, "newest", got[2].Name)
	// input untouched
	assert.Equal(t, "newest", sprints[0].Name)

	assert.Empty(t, reverseSprints(nil))
}
