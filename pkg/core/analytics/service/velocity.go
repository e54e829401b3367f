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
	"math"
	"time"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
)

const DefaultVelocityWindow = 6

type VelocityEntry struct {
	SprintID        string    `json:"sprint_id"`
	Name            string    `json:"name"`
	CommittedPoints int       `json:"committed_points"`
	CompletedPoints int       `json:"completed_points"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

type VelocityResponse struct {
	ProjectID    string           `json:"project_id"`
	Sprints      []*VelocityEntry `json:"sprints"`
	Average      float64          `json:"average"`
	TotalSprints int              `json:"total_sprints"`
}

// GetVelocity averages the completed points of the project's most recent
// completed sprints, reported oldest first so charts read left to right.
func GetVelocity(ctx *internalhandler.Context, projectID string, limit int) (*VelocityResponse, error) {
	if projectID == "" {
		return nil, e.ErrInvalidParam.AddDesc("project_id is required")
	}
	if limit <= 0 {
		limit = DefaultVelocityWindow
	}

	_, found, err := membership.Role(ctx, projectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrGetVelocity.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	sprints, err := mongodb.NewSprintColl().List(ctx, &mongodb.SprintListOption{
		ProjectID:     projectID,
		Status:        setting.SprintStatusCompleted,
		Limit:         int64(limit),
		ByEndDateDesc: true,
	})
	if err != nil {
		return nil, e.ErrGetVelocity.AddErr(err)
	}

	chronological := reverseSprints(sprints)

	return &VelocityResponse{
		ProjectID:    projectID,
		Sprints:      velocityEntries(chronological),
		Average:      averageCompleted(chronological),
		TotalSprints: len(chronological),
	}, nil
}

func velocityEntries(sprints []*models.Sprint) []*VelocityEntry {
	resp := make([]*VelocityEntry, 0, len(sprints))
	for _, s := range sprints {
		resp = append(resp, &VelocityEntry{
			SprintID:        s.ID.Hex(),
			Name:            s.Name,
			CommittedPoints: pointsOrZero(s.InitialStoryPoints),
			CompletedPoints: pointsOrZero(s.CompletedStoryPoints),
			StartDate:       s.StartDate,
			EndDate:         s.EndDate,
		})
	}
	return resp
}

// averageCompleted is the mean of completed points rounded to one decimal,
// zero when there is no completed sprint yet. Sprints completed without a
// snapshot count as zero rather than being skipped.
func averageCompleted(sprints []*models.Sprint) float64 {
	if len(sprints) == 0 {
		return 0
	}

	total := 0
	for _, s := range sprints {
		if s.CompletedStoryPoints != nil {
			total += *s.CompletedStoryPoints
		}
	}

	return math.Round(float64(total)/float64(len(sprints))*10) / 10
}

func pointsOrZero(points *int) int {
	if points == nil {
		return 0
	}
	return *points
}

func reverseSprints(sprints []*models.Sprint) []*models.Sprint {
	resp := make([]*models.Sprint, 0, len(sprints))
	for i := len(sprints) - 1; i >= 0; i-- {
		resp = append(resp, sprints[i])
	}
	return resp
}
