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
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"
)

// CoordinatorSkills are the required-skill names that mark a task as
// coordinator territory. Coordinators may only take tasks whose required
// skill is in this set, and non-coordinators may never take them.
var CoordinatorSkills = set.From(coordinatorSkillNames)

var coordinatorSkillNames = []string{"Process", "People", "Off Process"}

// Task is a station that demands operators each day.
type Task struct {
	// ID is the stable identity used in assignments and requirements.
	ID string `json:"id" validate:"required"`
	// Name is the human-readable station name; tier classification and
	// preference matching key off it.
	Name string `json:"name" validate:"required"`
	// RequiredSkill is the single skill an assignee must hold.
	RequiredSkill string `json:"requiredSkill" validate:"required"`
	// Heavy marks physically demanding stations subject to the
	// consecutive-heavy rules.
	Heavy bool `json:"isHeavy,omitempty"`
	// CoordinatorOnly mirrors the coordinator-skill partition for callers
	// that precompute it; the skill set remains authoritative.
	CoordinatorOnly bool `json:"isCoordinatorOnly,omitempty"`
}

// ForCoordinators reports whether the task belongs to the coordinator
// partition. Membership is decided by the required skill, matched case
// insensitively.
func (t *Task) ForCoordinators() bool {
	return lo.SomeBy(coordinatorSkillNames, func(s string) bool {
		return strings.EqualFold(s, t.RequiredSkill)
	})
}
