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

const localSearchIterations = 100

// swapMove exchanges the tasks of two operators on one day. The set of
// filled slots never changes, only who sits where.
type swapMove struct {
	a, b v1alpha1.Assignment
}

// apply swaps the two assignments in the tracker.
func (m swapMove) apply(track *tracker) {
	track.remove(m.a)
	track.remove(m.b)
	track.add(v1alpha1.Assignment{Day: m.a.Day, OperatorID: m.a.OperatorID, TaskID: m.b.TaskID})
	track.add(v1alpha1.Assignment{Day: m.b.Day, OperatorID: m.b.OperatorID, TaskID: m.a.TaskID})
}

// revert undoes apply.
func (m swapMove) revert(track *tracker) {
	track.remove(v1alpha1.Assignment{Day: m.a.Day, OperatorID: m.a.OperatorID, TaskID: m.b.TaskID})
	track.remove(v1alpha1.Assignment{Day: m.b.Day, OperatorID: m.b.OperatorID, TaskID: m.a.TaskID})
	track.add(m.a)
	track.add(m.b)
}

// localSearch is the single-swap hill climber: every iteration it scans
// all valid swaps, applies the best strictly-improving one, and stops
// when none exists or the iteration cap is hit.
type localSearch struct {
	prob  *problem
	track *tracker
}

func newLocalSearch(p *problem, track *tracker) *localSearch {
	return &localSearch{prob: p, track: track}
}

// validSwaps enumerates the legal swap moves of the current schedule.
func (l *localSearch) validSwaps() []swapMove {
	var moves []swapMove
	assignments := l.track.assignments()
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			a, b := assignments[i], assignments[j]
			if a.Day != b.Day || a.OperatorID == b.OperatorID || a.TaskID == b.TaskID {
				continue
			}
			if l.prob.isFixed(a.OperatorID, a.Day) || l.prob.isFixed(b.OperatorID, b.Day) {
				continue
			}
			if !l.swappable(a, b) {
				continue
			}
			moves = append(moves, swapMove{a: a, b: b})
		}
	}
	return moves
}

// swappable checks cross-eligibility: each operator must hold the
// other's required skill and satisfy the other slot's type label.
func (l *localSearch) swappable(a, b v1alpha1.Assignment) bool {
	opA, okA := l.prob.opByID[a.OperatorID]
	opB, okB := l.prob.opByID[b.OperatorID]
	taskA, okTA := l.prob.taskByID[a.TaskID]
	taskB, okTB := l.prob.taskByID[b.TaskID]
	if !okA || !okB || !okTA || !okTB {
		return false
	}
	if !opA.HasSkill(taskB.RequiredSkill) || !opB.HasSkill(taskA.RequiredSkill) {
		return false
	}
	// Coordinator rotation is a disjoint sub-problem; swapping inside it
	// could silently break the strict-rotation guarantee.
	if taskA.ForCoordinators() || taskB.ForCoordinators() {
		return false
	}
	if slotA := l.prob.slotTypes(a.Day, a.TaskID); len(slotA) > 0 && v1alpha1.CountFor(slotA, opB.Type) == 0 {
		return false
	}
	if slotB := l.prob.slotTypes(b.Day, b.TaskID); len(slotB) > 0 && v1alpha1.CountFor(slotB, opA.Type) == 0 {
		return false
	}
	return true
}

// run climbs until no strictly-improving swap remains.
func (l *localSearch) run() float64 {
	current := penalty(l.prob, l.track)
	for iter := 0; iter < localSearchIterations; iter++ {
		var best *swapMove
		bestPenalty := current
		for _, move := range l.validSwaps() {
			move.apply(l.track)
			if after := penalty(l.prob, l.track); after < bestPenalty {
				bestPenalty = after
				m := move
				best = &m
			}
			move.revert(l.track)
		}
		if best == nil {
			break
		}
		best.apply(l.track)
		current = bestPenalty
	}
	return current
}
