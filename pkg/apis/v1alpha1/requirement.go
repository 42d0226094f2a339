/*
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

package v1alpha1

import (
	"github.com/samber/lo"
)

// TypeCount is a demand entry: how many operators of a given type a task
// needs on a day.
type TypeCount struct {
	Type  OperatorType `json:"type" validate:"required,oneof=Regular Flex Coordinator"`
	Count int          `json:"count" validate:"gte=0"`
}

// TaskRequirement declares a task's staffing demand. DayOverrides, when
// present for a day, replace the defaults wholesale for that day.
type TaskRequirement struct {
	TaskID              string               `json:"taskId" validate:"required"`
	Enabled             bool                 `json:"enabled"`
	DefaultRequirements []TypeCount          `json:"defaultRequirements"`
	DayOverrides        map[Day][]TypeCount  `json:"dayOverrides,omitempty"`
}

// For returns the demand in force on the given day: the day override if
// one exists, else the defaults.
func (r *TaskRequirement) For(day Day) []TypeCount {
	if override, ok := r.DayOverrides[day]; ok {
		return override
	}
	return r.DefaultRequirements
}

// TotalFor returns the summed demand across types for the given day. A
// disabled requirement always totals zero, which causes the task to be
// skipped on every day.
func (r *TaskRequirement) TotalFor(day Day) int {
	if !r.Enabled {
		return 0
	}
	return TotalCount(r.For(day))
}

// TotalCount sums the counts of a demand list.
func TotalCount(counts []TypeCount) int {
	return lo.SumBy(counts, func(tc TypeCount) int { return tc.Count })
}

// CountFor returns the demand for a single operator type within a demand
// list, summing duplicate entries.
func CountFor(counts []TypeCount, t OperatorType) int {
	return lo.SumBy(counts, func(tc TypeCount) int {
		if tc.Type == t {
			return tc.Count
		}
		return 0
	})
}
