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
	"fmt"
)

// WarningKind is the closed set of schedule warning variants.
type WarningKind string

const (
	WarningUnderstaffed         WarningKind = "understaffed"
	WarningOverstaffed          WarningKind = "overstaffed"
	WarningSkillMismatch        WarningKind = "skill_mismatch"
	WarningAvailabilityConflict WarningKind = "availability_conflict"
	WarningDoubleAssignment     WarningKind = "double_assignment"
	WarningConsecutiveHeavy     WarningKind = "consecutive_heavy"
	// WarningBudgetExhausted reports that an inner solver gave up, either
	// on its time or iteration budget or because its search found no
	// completion, and the result is the best found so far.
	WarningBudgetExhausted WarningKind = "budget_exhausted"
)

// Warning is a typed diagnostic attached to a schedule result. Day,
// TaskID and OperatorID are populated where they apply.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Day        Day         `json:"day,omitempty"`
	TaskID     string      `json:"taskId,omitempty"`
	OperatorID string      `json:"operatorId,omitempty"`
	Message    string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
