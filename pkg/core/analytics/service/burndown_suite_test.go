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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBurndown(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Burndown Suite")
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func doneOn(points int, s string) *issueCompletion {
	t := day(s).Add(10 * time.Hour)
	return &issueCompletion{points: points, doneAt: &t}
}

var _ = Describe("burndownSeries", func() {
	var (
		start = day("2024-03-04")
		end   = day("2024-03-08")
	)

	Context("ideal line", func() {
		It("runs linearly from the total to exactly zero", func() {
			points := burndownSeries(start, end, day("2024-03-20"), 20, nil, false)

			Expect(points).To(HaveLen(5))
			Expect(points[0].Ideal).To(Equal(20.0))
			Expect(points[1].Ideal).To(Equal(15.0))
			Expect(points[2].Ideal).To(Equal(10.0))
			Expect(points[3].Ideal).To(Equal(5.0))
			Expect(points[4].Ideal).To(Equal(0.0))
		})

		It("samples one point per calendar day inclusive", func() {
			points := burndownSeries(start, end, day("2024-03-20"), 10, nil, false)

			Expect(points[0].Date).To(Equal("2024-03-04"))
			Expect(points[4].Date).To(Equal("2024-03-08"))
		})

		It("stays at zero for a zero-point sprint", func() {
			points := burndownSeries(start, end, day("2024-03-20"), 0, nil, false)

			for _, p := range points {
				Expect(p.Ideal).To(Equal(0.0))
			}
		})

		It("rounds intermediate samples to one decimal", func() {
			points := burndownSeries(start, end, day("2024-03-20"), 10, nil, false)

			Expect(points[1].Ideal).To(Equal(7.5))
			Expect(points[2].Ideal).To(Equal(5.0))
			Expect(points[3].Ideal).To(Equal(2.5))
		})
	})

	Context("actual line", func() {
		It("drops on the day an issue gets done and stays down", func() {
			completions := []*issueCompletion{
				doneOn(5, "2024-03-05"),
				doneOn(3, "2024-03-07"),
				{points: 12},
			}

			points := burndownSeries(start, end, day("2024-03-20"), 20, completions, false)

			Expect(*points[0].Remaining).To(Equal(20))
			Expect(*points[1].Remaining).To(Equal(15))
			Expect(*points[2].Remaining).To(Equal(15))
			Expect(*points[3].Remaining).To(Equal(12))
			Expect(*points[4].Remaining).To(Equal(12))
		})

		It("counts work done before the sprint started against day one", func() {
			completions := []*issueCompletion{doneOn(4, "2024-03-01")}

			points := burndownSeries(start, end, day("2024-03-20"), 20, completions, false)

			Expect(*points[0].Remaining).To(Equal(16))
		})

		It("clamps below zero when history outweighs the snapshot", func() {
			completions := []*issueCompletion{
				doneOn(8, "2024-03-04"),
				doneOn(8, "2024-03-05"),
			}

			points := burndownSeries(start, end, day("2024-03-20"), 10, completions, false)

			Expect(*points[0].Remaining).To(Equal(2))
			Expect(*points[1].Remaining).To(Equal(0))
			Expect(*points[4].Remaining).To(Equal(0))
		})
	})

	Context("active sprint capping", func() {
		It("has no actual samples after today", func() {
			points := burndownSeries(start, end, day("2024-03-05"), 10, nil, true)

			Expect(points[0].Remaining).NotTo(BeNil())
			Expect(points[1].Remaining).NotTo(BeNil())
			Expect(points[2].Remaining).To(BeNil())
			Expect(points[3].Remaining).To(BeNil())
			Expect(points[4].Remaining).To(BeNil())
		})

		It("keeps the full ideal line regardless of today", func() {
			points := burndownSeries(start, end, day("2024-03-05"), 10, nil, true)

			Expect(points[4].Ideal).To(Equal(0.0))
		})
	})

	Context("degenerate ranges", func() {
		It("collapses a single-day sprint to one zero-ideal sample", func() {
			points := burndownSeries(start, start, day("2024-03-20"), 10, nil, false)

			Expect(points).To(HaveLen(1))
			Expect(points[0].Ideal).To(Equal(0.0))
		})
	})
})
