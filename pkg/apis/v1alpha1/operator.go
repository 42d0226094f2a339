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

// Day is one of the five workday labels carried by a scheduling request
// (conventionally "Monday".."Friday"). Day comparisons are exact; the
// ordering of days is the ordering of the request's Days slice.
type Day string

// OperatorType partitions the workforce. Coordinators rotate over the
// coordinator-only tasks; Flex operators float and are exempt from most
// soft penalties; Regular operators carry the default demand.
type OperatorType string

const (
	OperatorTypeRegular     OperatorType = "Regular"
	OperatorTypeFlex        OperatorType = "Flex"
	OperatorTypeCoordinator OperatorType = "Coordinator"
)

// OperatorStatus gates entry into the assignment pool. Only Active
// operators are schedulable.
type OperatorStatus string

const (
	OperatorStatusActive   OperatorStatus = "Active"
	OperatorStatusLeave    OperatorStatus = "Leave"
	OperatorStatusSick     OperatorStatus = "Sick"
	OperatorStatusTraining OperatorStatus = "Training"
	OperatorStatusHoliday  OperatorStatus = "Holiday"
)

// Operator is a member of the workforce. All fields are immutable for
// the duration of a scheduling call.
type Operator struct {
	// ID is the stable identity used in assignments.
	ID string `json:"id" validate:"required"`
	// Name is the display name used in warning messages.
	Name string `json:"name"`
	// Type selects the demand bucket the operator can satisfy.
	Type OperatorType `json:"type" validate:"required,oneof=Regular Flex Coordinator"`
	// Status gates pool membership; anything but Active excludes the operator.
	Status OperatorStatus `json:"status"`
	// Skills the operator possesses. A task is only eligible if its
	// required skill appears here.
	Skills []string `json:"skills"`
	// Availability maps each workday to whether the operator can work it.
	// A missing day counts as unavailable.
	Availability map[Day]bool `json:"availability"`
	// PreferredTasks is an ordered list of task names the operator would
	// rather work; honored as a soft bonus when the rules enable it.
	PreferredTasks []string `json:"preferredTasks,omitempty"`
	// Archived operators never enter the pool regardless of status.
	Archived bool `json:"archived,omitempty"`
}

// Schedulable reports whether the operator may enter the assignment pool.
func (o *Operator) Schedulable() bool {
	return o.Status == OperatorStatusActive && !o.Archived
}

// AvailableOn reports whether the operator can work the given day.
func (o *Operator) AvailableOn(day Day) bool {
	return o.Availability[day]
}

// HasSkill reports whether the operator possesses the given skill.
func (o *Operator) HasSkill(skill string) bool {
	return lo.Contains(o.Skills, skill)
}

// Prefers reports whether the task name appears in the operator's
// preferred list.
func (o *Operator) Prefers(taskName string) bool {
	return lo.Contains(o.PreferredTasks, taskName)
}

// RotationExempt reports whether the operator is exempt from rotation
// and streak penalties. A Flex operator holding exactly one skill has no
// other task available, so penalising repetition would only destabilise
// the schedule.
func (o *Operator) RotationExempt() bool {
	return o.Type == OperatorTypeFlex && len(o.Skills) == 1
}
