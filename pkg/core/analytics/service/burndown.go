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

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/Catter58/CTrack/pkg/core/common/repository/models"
	"github.com/Catter58/CTrack/pkg/core/common/repository/mongodb"
	"github.com/Catter58/CTrack/pkg/core/common/service/membership"
	internalhandler "github.com/Catter58/CTrack/pkg/shared/handler"
	"github.com/Catter58/CTrack/pkg/setting"
	e "github.com/Catter58/CTrack/pkg/tool/errors"
)

type BurndownPoint struct {
	Date  string  `json:"date"`
	Ideal float64 `json:"ideal"`
	// Remaining is nil for days that have not happened yet.
	Remaining *int `json:"remaining,omitempty"`
}

type BurndownResponse struct {
	SprintID    string           `json:"sprint_id"`
	TotalPoints int              `json:"total_points"`
	Points      []*BurndownPoint `json:"points"`
}

// issueCompletion is one pointed issue's contribution to the actual line.
// doneAt is nil while the issue is unfinished.
type issueCompletion struct {
	points int
	doneAt *time.Time
}

// GetBurndown renders the sprint's ideal and actual burn lines, one sample
// per calendar day from start to end inclusive. History skew degrades the
// chart, it never fails it.
func GetBurndown(ctx *internalhandler.Context, sprintID string) (*BurndownResponse, error) {
	sprint, err := mongodb.NewSprintColl().GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound.AddDesc("sprint not found")
		}
		return nil, e.ErrGetBurndown.AddErr(err)
	}

	_, found, err := membership.Role(ctx, sprint.ProjectID, ctx.UserID)
	if err != nil {
		return nil, e.ErrGetBurndown.AddErr(err)
	}
	if !found {
		return nil, e.ErrForbidden.AddDesc("not a member of the project")
	}

	issues, doneIDs, err := loadSprintIssues(ctx, sprint)
	if err != nil {
		return nil, e.ErrGetBurndown.AddErr(err)
	}

	completions, err := loadCompletions(ctx, issues, doneIDs)
	if err != nil {
		return nil, e.ErrGetBurndown.AddErr(err)
	}

	total := burndownTotal(sprint, completions)

	return &BurndownResponse{
		SprintID:    sprint.ID.Hex(),
		TotalPoints: total,
		Points: burndownSeries(sprint.StartDate, sprint.EndDate, time.Now(), total, completions,
			sprint.Status != setting.SprintStatusCompleted),
	}, nil
}

// burndownTotal prefers the scope snapshotted at start; a sprint that never
// started burns down its live total.
func burndownTotal(sprint *models.Sprint, completions []*issueCompletion) int {
	if sprint.InitialStoryPoints != nil {
		return *sprint.InitialStoryPoints
	}
	total := 0
	for _, c := range completions {
		total += c.points
	}
	return total
}

// burndownSeries builds the chart samples. The ideal line runs linearly from
// total to exactly zero on the final day. The actual line subtracts each
// issue's points from the day it got done onward, clamped at zero; when
// capAtToday is set days after today carry no actual sample.
func burndownSeries(start, end, today time.Time, total int, completions []*issueCompletion, capAtToday bool) []*BurndownPoint {
	startDay := now.New(start).BeginningOfDay()
	endDay := now.New(end).BeginningOfDay()
	todayDay := now.New(today).BeginningOfDay()

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	points := make([]*BurndownPoint, 0, days)
	for i := 0; i < days; i++ {
		day := startDay.AddDate(0, 0, i)

		ideal := 0.0
		if days > 1 {
			ideal = float64(total) * float64(days-1-i) / float64(days-1)
			ideal = math.Round(ideal*10) / 10
		}

		point := &BurndownPoint{
			Date:  day.Format("2006-01-02"),
			Ideal: ideal,
		}

		if !capAtToday || !day.After(todayDay) {
			remaining := total
			dayEnd := day.AddDate(0, 0, 1)
			for _, c := range completions {
				if c.doneAt != nil && c.doneAt.Before(dayEnd) {
					remaining -= c.points
				}
			}
			if remaining < 0 {
				remaining = 0
			}
			point.Remaining = &remaining
		}

		points = append(points, point)
	}

	return points
}

// loadSprintIssues returns the sprint's pointed issues and the set of
// done-category status ids visible to the project.
func loadSprintIssues(ctx *internalhandler.Context, sprint *models.Sprint) ([]*models.Issue, sets.String, error) {
	sprintID := sprint.ID.Hex()
	all, err := mongodb.NewIssueColl().List(ctx, &mongodb.IssueListOption{
		ProjectID: sprint.ProjectID,
		SprintID:  &sprintID,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "list sprint issues")
	}

	issues := make([]*models.Issue, 0, len(all))
	for _, issue := range all {
		if issue.StoryPoints != nil {
			issues = append(issues, issue)
		}
	}

	statuses, err := mongodb.NewStatusColl().ListVisible(ctx, sprint.ProjectID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list project statuses")
	}

	doneIDs := sets.NewString()
	for _, s := range statuses {
		if s.IsDone() {
			doneIDs.Insert(s.ID.Hex())
		}
	}
	return issues, doneIDs, nil
}

// loadCompletions resolves each issue's completion date from its earliest
// done-category status_changed record. A done issue without history falls
// back to its update_time.
func loadCompletions(ctx *internalhandler.Context, issues []*models.Issue, doneIDs sets.String) ([]*issueCompletion, error) {
	if len(issues) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}

	records, err := mongodb.NewIssueActivityColl().List(ctx, &mongodb.IssueActivityListOption{
		IssueIDs:  ids,
		Action:    setting.ActivityActionStatusChanged,
		Ascending: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list status history")
	}

	doneAt := map[primitive.ObjectID]time.Time{}
	for _, record := range records {
		if _, seen := doneAt[record.IssueID]; seen {
			continue
		}
		value, ok := decodeStatusValue(record.NewValue)
		if !ok || value.Category != setting.CategoryDone {
			continue
		}
		doneAt[record.IssueID] = time.Unix(record.CreateTime, 0)
	}

	completions := make([]*issueCompletion, 0, len(issues))
	for _, issue := range issues {
		c := &issueCompletion{points: issue.Points()}
		if t, ok := doneAt[issue.ID]; ok {
			c.doneAt = &t
		} else if doneIDs.Has(issue.StatusID.Hex()) {
			t := time.Unix(issue.UpdateTime, 0)
			c.doneAt = &t
		}
		completions = append(completions, c)
	}

	return completions, nil
}

// decodeStatusValue recovers a StatusValue from however the activity record
// round-tripped through bson.
func decodeStatusValue(v interface{}) (*models.StatusValue, bool) {
	switch value := v.(type) {
	case nil:
		return nil, false
	case *models.StatusValue:
		return value, true
	case models.StatusValue:
		return &value, true
	}

	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, false
	}
	resp := new(models.StatusValue)
	if err := bson.Unmarshal(raw, resp); err != nil {
		return nil, false
	}
	return resp, resp.Category != ""
}
