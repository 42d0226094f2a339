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
	"math/rand"

	"github.com/samber/lo"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

// problem is the immutable call-scoped view of a request: pools filtered
// down to what is actually schedulable, index maps, and the seeded RNG.
type problem struct {
	req          *Request
	rules        v1alpha1.Rules
	week         *scheduling.Week
	operators    []*v1alpha1.Operator
	tasks        []*v1alpha1.Task
	opByID       map[string]*v1alpha1.Operator
	taskByID     map[string]*v1alpha1.Task
	requirements map[string]*v1alpha1.TaskRequirement
	// fixed is every pinned or locked current assignment, surfaced
	// verbatim in the output.
	fixed []v1alpha1.Assignment
	rng   *rand.Rand
}

func newProblem(req *Request, seed int64) *problem {
	rules := req.Rules.Default()
	p := &problem{
		req:   req,
		rules: rules,
		week:  scheduling.NewWeek(req.Days),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for i := range req.Operators {
		op := &req.Operators[i]
		if !op.Schedulable() {
			continue
		}
		if op.Type == v1alpha1.OperatorTypeCoordinator && !rules.Coordinators() {
			continue
		}
		p.operators = append(p.operators, op)
	}
	for i := range req.Tasks {
		task := &req.Tasks[i]
		if req.Excluded(task.Name) {
			continue
		}
		if task.ForCoordinators() && !rules.Coordinators() {
			continue
		}
		p.tasks = append(p.tasks, task)
	}
	p.opByID = lo.SliceToMap(p.operators, func(o *v1alpha1.Operator) (string, *v1alpha1.Operator) { return o.ID, o })
	p.taskByID = lo.SliceToMap(p.tasks, func(t *v1alpha1.Task) (string, *v1alpha1.Task) { return t.ID, t })
	p.requirements = map[string]*v1alpha1.TaskRequirement{}
	for i := range req.Requirements {
		r := &req.Requirements[i]
		if _, ok := p.taskByID[r.TaskID]; ok {
			p.requirements[r.TaskID] = r
		}
	}
	for operatorID, byDay := range req.Current {
		for _, day := range p.week.Days() {
			if cur, ok := byDay[day]; ok && cur.Fixed() {
				p.fixed = append(p.fixed, v1alpha1.Assignment{Day: day, OperatorID: operatorID, TaskID: cur.TaskID})
			}
		}
	}
	return p
}

// heavyTask reports whether the task is classified heavy under the
// resolved rules.
func (p *problem) heavyTask(task *v1alpha1.Task) bool {
	return p.rules.HeavyTask(task)
}

// maxRun returns the maximum consecutive days an operator may stay on
// the task: heavy tasks allow a single day, soft tasks two, everything
// else one, never exceeding the configured rule threshold.
func (p *problem) maxRun(task *v1alpha1.Task) int {
	limit := 1
	if p.rules.SoftTask(task.Name) {
		limit = 2
	}
	if limit > p.rules.MaxConsecutive() {
		limit = p.rules.MaxConsecutive()
	}
	return limit
}

// isFixed reports whether the operator's placement that day is pinned or
// locked and must not be touched.
func (p *problem) isFixed(operatorID string, day v1alpha1.Day) bool {
	cur, ok := p.req.Current[operatorID][day]
	return ok && cur.Fixed()
}

// slotTypes returns the per-type demand in force for a task day, with
// zero-count entries dropped; empty means type-agnostic.
func (p *problem) slotTypes(day v1alpha1.Day, taskID string) []v1alpha1.TypeCount {
	req, ok := p.requirements[taskID]
	if !ok || !req.Enabled {
		return nil
	}
	return lo.Filter(req.For(day), func(tc v1alpha1.TypeCount, _ int) bool { return tc.Count > 0 })
}

// coordinatorPool returns the schedulable coordinators.
func (p *problem) coordinatorPool() []*v1alpha1.Operator {
	return lo.Filter(p.operators, func(o *v1alpha1.Operator, _ int) bool {
		return o.Type == v1alpha1.OperatorTypeCoordinator
	})
}

// coordinatorTasks returns the coordinator-only tasks in play.
func (p *problem) coordinatorTasks() []*v1alpha1.Task {
	return lo.Filter(p.tasks, func(t *v1alpha1.Task, _ int) bool { return t.ForCoordinators() })
}
