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

package scheduler

import (
	"fmt"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// validate runs the post-hoc checks over a finished schedule and returns
// the warnings a careful reviewer would raise. Assignments are never
// modified; pinned rows that violate hard rules are reported, not
// edited.
func validate(p *problem, assignments []v1alpha1.Assignment) []v1alpha1.Warning {
	var warnings []v1alpha1.Warning

	// Per-operator-day multiplicity and eligibility.
	seen := map[string]map[v1alpha1.Day]int{}
	for _, a := range assignments {
		if _, ok := seen[a.OperatorID]; !ok {
			seen[a.OperatorID] = map[v1alpha1.Day]int{}
		}
		seen[a.OperatorID][a.Day]++
		if seen[a.OperatorID][a.Day] == 2 {
			warnings = append(warnings, v1alpha1.Warning{
				Kind: v1alpha1.WarningDoubleAssignment, Day: a.Day, OperatorID: a.OperatorID,
				Message: fmt.Sprintf("operator %s holds more than one assignment on %s", operatorName(p, a.OperatorID), a.Day),
			})
		}

		op, okOp := p.opByID[a.OperatorID]
		task, okTask := p.taskByID[a.TaskID]
		if !okOp || !okTask {
			continue
		}
		if !op.AvailableOn(a.Day) {
			warnings = append(warnings, v1alpha1.Warning{
				Kind: v1alpha1.WarningAvailabilityConflict, Day: a.Day, OperatorID: a.OperatorID, TaskID: a.TaskID,
				Message: fmt.Sprintf("%s is assigned to %s on %s but is not available", op.Name, task.Name, a.Day),
			})
		}
		if !op.HasSkill(task.RequiredSkill) {
			warnings = append(warnings, v1alpha1.Warning{
				Kind: v1alpha1.WarningSkillMismatch, Day: a.Day, OperatorID: a.OperatorID, TaskID: a.TaskID,
				Message: fmt.Sprintf("%s lacks skill %q required by %s", op.Name, task.RequiredSkill, task.Name),
			})
		}
		if task.ForCoordinators() != (op.Type == v1alpha1.OperatorTypeCoordinator) {
			warnings = append(warnings, v1alpha1.Warning{
				Kind: v1alpha1.WarningSkillMismatch, Day: a.Day, OperatorID: a.OperatorID, TaskID: a.TaskID,
				Message: fmt.Sprintf("%s crosses the coordinator partition on %s", op.Name, task.Name),
			})
		}
	}

	// Staffing gaps per enabled (task, day).
	counted := map[string][]string{}
	for _, a := range assignments {
		key := slotKey(a.Day, a.TaskID)
		counted[key] = append(counted[key], a.OperatorID)
	}
	for _, task := range p.tasks {
		req, ok := p.requirements[task.ID]
		if !ok || !req.Enabled {
			continue
		}
		for _, day := range p.week.Days() {
			required := req.TotalFor(day)
			if required == 0 {
				continue
			}
			assignees := counted[slotKey(day, task.ID)]
			if len(assignees) == required {
				continue
			}
			// An all-locked task day is the caller's deliberate state;
			// suppress the gap warning only then.
			if len(assignees) > 0 && allFixed(p, assignees, day) {
				continue
			}
			if len(assignees) < required {
				warnings = append(warnings, v1alpha1.Warning{
					Kind: v1alpha1.WarningUnderstaffed, Day: day, TaskID: task.ID,
					Message: fmt.Sprintf("%s on %s has %d of %d required operators", task.Name, day, len(assignees), required),
				})
			} else {
				warnings = append(warnings, v1alpha1.Warning{
					Kind: v1alpha1.WarningOverstaffed, Day: day, TaskID: task.ID,
					Message: fmt.Sprintf("%s on %s has %d operators for %d seats", task.Name, day, len(assignees), required),
				})
			}
		}
	}

	// Consecutive heavy days.
	if !p.rules.ConsecutiveHeavyAllowed() {
		byOperator := map[string]map[v1alpha1.Day]string{}
		for _, a := range assignments {
			if _, ok := byOperator[a.OperatorID]; !ok {
				byOperator[a.OperatorID] = map[v1alpha1.Day]string{}
			}
			byOperator[a.OperatorID][a.Day] = a.TaskID
		}
		for _, op := range p.operators {
			days := byOperator[op.ID]
			for _, day := range p.week.Days() {
				taskID, ok := days[day]
				if !ok {
					continue
				}
				task, ok := p.taskByID[taskID]
				if !ok || !p.heavyTask(task) {
					continue
				}
				prev, ok := p.week.Prev(day)
				if !ok {
					continue
				}
				prevTaskID, ok := days[prev]
				if !ok {
					continue
				}
				if prevTask, ok := p.taskByID[prevTaskID]; ok && p.heavyTask(prevTask) {
					warnings = append(warnings, v1alpha1.Warning{
						Kind: v1alpha1.WarningConsecutiveHeavy, Day: day, OperatorID: op.ID, TaskID: taskID,
						Message: fmt.Sprintf("%s works heavy tasks on %s and %s", op.Name, prev, day),
					})
				}
			}
		}
	}

	return warnings
}

// allFixed reports whether every listed assignee is pinned or locked on
// the day.
func allFixed(p *problem, operatorIDs []string, day v1alpha1.Day) bool {
	for _, id := range operatorIDs {
		if !p.isFixed(id, day) {
			return false
		}
	}
	return true
}

func operatorName(p *problem, operatorID string) string {
	if op, ok := p.opByID[operatorID]; ok && op.Name != "" {
		return op.Name
	}
	return operatorID
}
