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
	"sort"

	"github.com/samber/lo"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// tracker is the mutable assignment state threaded through the solvers:
// who works what on which day, plus per-operator load counters.
type tracker struct {
	prob *problem
	// byOperator maps operator id -> day -> task id.
	byOperator map[string]map[v1alpha1.Day]string
	// bySlot maps day/task keys to assignee operator ids, in assignment
	// order.
	bySlot map[string][]string
	totals map[string]int
	heavy  map[string]int
}

func newTracker(p *problem) *tracker {
	return &tracker{
		prob:       p,
		byOperator: map[string]map[v1alpha1.Day]string{},
		bySlot:     map[string][]string{},
		totals:     map[string]int{},
		heavy:      map[string]int{},
	}
}

func slotKey(day v1alpha1.Day, taskID string) string {
	return string(day) + "/" + taskID
}

// add records an assignment. It is the caller's job to have checked the
// operator was free that day.
func (t *tracker) add(a v1alpha1.Assignment) {
	if _, ok := t.byOperator[a.OperatorID]; !ok {
		t.byOperator[a.OperatorID] = map[v1alpha1.Day]string{}
	}
	t.byOperator[a.OperatorID][a.Day] = a.TaskID
	key := slotKey(a.Day, a.TaskID)
	t.bySlot[key] = append(t.bySlot[key], a.OperatorID)
	t.totals[a.OperatorID]++
	if task, ok := t.prob.taskByID[a.TaskID]; ok && t.prob.heavyTask(task) {
		t.heavy[a.OperatorID]++
	}
}

// remove erases an assignment, for backtracking and swap trials.
func (t *tracker) remove(a v1alpha1.Assignment) {
	delete(t.byOperator[a.OperatorID], a.Day)
	key := slotKey(a.Day, a.TaskID)
	assignees := t.bySlot[key]
	for i, id := range assignees {
		if id == a.OperatorID {
			t.bySlot[key] = append(assignees[:i:i], assignees[i+1:]...)
			break
		}
	}
	t.totals[a.OperatorID]--
	if task, ok := t.prob.taskByID[a.TaskID]; ok && t.prob.heavyTask(task) {
		t.heavy[a.OperatorID]--
	}
}

// busy reports whether the operator already works that day.
func (t *tracker) busy(operatorID string, day v1alpha1.Day) bool {
	_, ok := t.byOperator[operatorID][day]
	return ok
}

// taskOn returns the operator's task on a day, if any.
func (t *tracker) taskOn(operatorID string, day v1alpha1.Day) (string, bool) {
	taskID, ok := t.byOperator[operatorID][day]
	return taskID, ok
}

// filled returns how many assignees a slot already has.
func (t *tracker) filled(day v1alpha1.Day, taskID string) int {
	return len(t.bySlot[slotKey(day, taskID)])
}

// streakBefore counts how many consecutive days immediately before the
// given day the operator already worked the task.
func (t *tracker) streakBefore(operatorID string, day v1alpha1.Day, taskID string) int {
	streak := 0
	for d := day; ; {
		prev, ok := t.prob.week.Prev(d)
		if !ok {
			break
		}
		if worked, ok := t.taskOn(operatorID, prev); !ok || worked != taskID {
			break
		}
		streak++
		d = prev
	}
	return streak
}

// heavyYesterday reports whether the operator worked a heavy task the
// day before.
func (t *tracker) heavyYesterday(operatorID string, day v1alpha1.Day) bool {
	prev, ok := t.prob.week.Prev(day)
	if !ok {
		return false
	}
	taskID, ok := t.taskOn(operatorID, prev)
	if !ok {
		return false
	}
	task, ok := t.prob.taskByID[taskID]
	return ok && t.prob.heavyTask(task)
}

// meanHeavy is the average heavy-task count across the pool.
func (t *tracker) meanHeavy() float64 {
	if len(t.prob.operators) == 0 {
		return 0
	}
	sum := 0
	for _, op := range t.prob.operators {
		sum += t.heavy[op.ID]
	}
	return float64(sum) / float64(len(t.prob.operators))
}

// meanTotal is the average assignment count across the pool.
func (t *tracker) meanTotal() float64 {
	if len(t.prob.operators) == 0 {
		return 0
	}
	sum := 0
	for _, op := range t.prob.operators {
		sum += t.totals[op.ID]
	}
	return float64(sum) / float64(len(t.prob.operators))
}

// assignments returns the tracked schedule in deterministic order: day
// order, then task id, then assignment order within the slot. Pinned
// placements on tasks outside the schedulable pool are emitted after the
// known tasks of their day.
func (t *tracker) assignments() []v1alpha1.Assignment {
	var out []v1alpha1.Assignment
	for _, day := range t.prob.week.Days() {
		seen := map[string]bool{}
		for _, task := range t.prob.tasks {
			seen[task.ID] = true
			for _, operatorID := range t.bySlot[slotKey(day, task.ID)] {
				out = append(out, v1alpha1.Assignment{Day: day, OperatorID: operatorID, TaskID: task.ID})
			}
		}
		var strays []string
		for _, a := range t.prob.fixed {
			if a.Day == day && !seen[a.TaskID] && !lo.Contains(strays, a.TaskID) {
				strays = append(strays, a.TaskID)
			}
		}
		sort.Strings(strays)
		for _, taskID := range strays {
			for _, operatorID := range t.bySlot[slotKey(day, taskID)] {
				out = append(out, v1alpha1.Assignment{Day: day, OperatorID: operatorID, TaskID: taskID})
			}
		}
	}
	return out
}
