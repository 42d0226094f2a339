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
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// coordinatorScheduler rotates the coordinators across the
// coordinator-only tasks, one disjoint sub-problem per day: nobody
// repeats yesterday's task, no two coordinators share a task, and across
// the week everyone sees as much variety as possible.
type coordinatorScheduler struct {
	prob  *problem
	track *tracker
	// doneCount counts how often each coordinator has already done each
	// task this week; the variety score minimises repeats.
	doneCount map[string]map[string]int
}

func newCoordinatorScheduler(p *problem, track *tracker) *coordinatorScheduler {
	return &coordinatorScheduler{prob: p, track: track, doneCount: map[string]map[string]int{}}
}

// run assigns coordinators for every day of the week in day order.
func (c *coordinatorScheduler) run() {
	coordinators := c.prob.coordinatorPool()
	tasks := c.prob.coordinatorTasks()
	if len(coordinators) == 0 || len(tasks) == 0 {
		return
	}
	for _, coord := range coordinators {
		c.doneCount[coord.ID] = map[string]int{}
	}
	for _, day := range c.prob.week.Days() {
		c.scheduleDay(day, coordinators, c.activeTasks(day, tasks))
	}
}

// activeTasks filters the coordinator tasks to those with open demand on
// the day; fixed placements already count against the demand.
func (c *coordinatorScheduler) activeTasks(day v1alpha1.Day, tasks []*v1alpha1.Task) []*v1alpha1.Task {
	var active []*v1alpha1.Task
	for _, task := range tasks {
		req, ok := c.prob.requirements[task.ID]
		if !ok || !req.Enabled {
			continue
		}
		if c.track.filled(day, task.ID) < req.TotalFor(day) {
			active = append(active, task)
		}
	}
	return active
}

func (c *coordinatorScheduler) scheduleDay(day v1alpha1.Day, coordinators []*v1alpha1.Operator, tasks []*v1alpha1.Task) {
	pool := make([]*v1alpha1.Operator, 0, len(coordinators))
	for _, coord := range coordinators {
		if coord.AvailableOn(day) && !c.track.busy(coord.ID, day) {
			pool = append(pool, coord)
		}
	}
	if len(pool) == 0 {
		return
	}
	best := c.searchDay(day, pool, tasks, true)
	if best == nil {
		// No rotation-respecting permutation exists today; relax the
		// rotation constraint rather than leave the tasks dark.
		best = c.searchDay(day, pool, tasks, false)
	}
	if best == nil {
		return
	}
	for _, coord := range pool {
		taskID, ok := best[coord.ID]
		if !ok {
			continue
		}
		c.track.add(v1alpha1.Assignment{Day: day, OperatorID: coord.ID, TaskID: taskID})
		c.doneCount[coord.ID][taskID]++
	}
}

// searchDay enumerates complete permutations of the pool over the tasks
// and returns the one with the lowest weekly variety score, or nil when
// none passes the rotation predicate.
func (c *coordinatorScheduler) searchDay(day v1alpha1.Day, pool []*v1alpha1.Operator, tasks []*v1alpha1.Task, strictRotation bool) map[string]string {
	var best map[string]string
	bestScore := -1
	assignment := map[string]string{}
	used := map[string]bool{}

	// Each coordinator takes at most one task and each task at most one
	// coordinator; with fewer tasks than coordinators the surplus sits
	// out, with fewer coordinators some tasks stay open for the general
	// solvers to flag.
	n := len(pool)
	if len(tasks) < n {
		n = len(tasks)
	}

	var walk func(idx, placed int)
	walk = func(idx, placed int) {
		if placed == n || idx == len(pool) {
			if placed < n {
				return
			}
			score := 0
			for coordID, taskID := range assignment {
				score += c.doneCount[coordID][taskID]
			}
			if bestScore == -1 || score < bestScore {
				bestScore = score
				best = map[string]string{}
				for k, v := range assignment {
					best[k] = v
				}
			}
			return
		}
		coord := pool[idx]
		for _, task := range tasks {
			if used[task.ID] {
				continue
			}
			if strictRotation && !coord.RotationExempt() {
				if prev, ok := c.prob.week.Prev(day); ok {
					if yesterday, worked := c.track.taskOn(coord.ID, prev); worked && yesterday == task.ID {
						continue
					}
				}
			}
			assignment[coord.ID] = task.ID
			used[task.ID] = true
			walk(idx+1, placed+1)
			delete(assignment, coord.ID)
			used[task.ID] = false
		}
		// The coordinator may also sit out when there are more
		// coordinators than tasks.
		if len(pool) > len(tasks) {
			walk(idx+1, placed)
		}
	}
	walk(0, 0)
	return best
}
