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
	"time"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

const (
	defaultMaxBacktracks  = 10000
	defaultBacktrackLimit = 5 * time.Second
)

// backtracker completes a partially-filled schedule by depth-first
// search, or proves no completion exists within its budget. It is the
// safety net for the greedy pass's myopia.
type backtracker struct {
	prob    *problem
	domains *scheduling.Domains
	track   *tracker
	// open maps each unfinished slot to its residual need.
	open map[*scheduling.Slot]int
	// order preserves definition order for tie-breaking.
	order map[*scheduling.Slot]int

	maxBacktracks int
	deadline      time.Time
	backtracks    int
	// failure records why the search gave up, empty on success.
	failure string
}

func newBacktracker(p *problem, domains *scheduling.Domains, track *tracker, open map[*scheduling.Slot]int, slots []*scheduling.Slot) *backtracker {
	b := &backtracker{
		prob:          p,
		domains:       domains,
		track:         track,
		open:          map[*scheduling.Slot]int{},
		order:         map[*scheduling.Slot]int{},
		maxBacktracks: defaultMaxBacktracks,
		deadline:      time.Now().Add(defaultBacktrackLimit),
	}
	for i, s := range slots {
		b.order[s] = i
		if n := open[s]; n > 0 {
			b.open[s] = n
		}
	}
	return b
}

// eligible returns the operators that may take the slot right now,
// type-requirement matches first (stable within the groups).
func (b *backtracker) eligible(slot *scheduling.Slot) []*v1alpha1.Operator {
	var matched, rest []*v1alpha1.Operator
	for _, op := range b.prob.operators {
		if b.track.busy(op.ID, slot.Day) {
			continue
		}
		if !b.domains.Contains(op.ID, slot.Day, slot.Task.ID) {
			continue
		}
		if _, constrained := slot.TypeDemand(op.Type); constrained {
			if slot.AdmitsType(op.Type) {
				matched = append(matched, op)
			} else {
				rest = append(rest, op)
			}
			continue
		}
		matched = append(matched, op)
	}
	return append(matched, rest...)
}

// solve runs the search. It returns true when every open slot has been
// completed; on false, failure holds the reason.
func (b *backtracker) solve() bool {
	if b.exhausted() {
		return false
	}
	slot := b.selectSlot()
	if slot == nil {
		return true
	}
	candidates := b.eligible(slot)
	if len(candidates) == 0 {
		b.backtracks++
		return false
	}
	for _, op := range candidates {
		a := v1alpha1.Assignment{Day: slot.Day, OperatorID: op.ID, TaskID: slot.Task.ID}
		mark := b.domains.Mark()
		b.track.add(a)
		b.domains.Clear(op.ID, slot.Day)
		b.open[slot]--

		if b.forwardCheck() && b.solve() {
			return true
		}

		b.open[slot]++
		b.domains.Undo(mark)
		b.track.remove(a)
		b.backtracks++
		if b.exhausted() {
			return false
		}
	}
	return false
}

// selectSlot picks the open slot with the fewest eligible operators
// (MRV), tie-broken by definition order. A minimum of one short-circuits
// the scan.
func (b *backtracker) selectSlot() *scheduling.Slot {
	var best *scheduling.Slot
	bestCount := -1
	slots := make([]*scheduling.Slot, 0, len(b.open))
	for s, n := range b.open {
		if n > 0 {
			slots = append(slots, s)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return b.order[slots[i]] < b.order[slots[j]] })
	for _, s := range slots {
		count := len(b.eligible(s))
		if bestCount == -1 || count < bestCount {
			best, bestCount = s, count
		}
		if bestCount <= 1 {
			break
		}
	}
	return best
}

// forwardCheck verifies every still-open slot can still meet its
// residual need.
func (b *backtracker) forwardCheck() bool {
	for s, n := range b.open {
		if n <= 0 {
			continue
		}
		if len(b.eligible(s)) < n {
			return false
		}
	}
	return true
}

func (b *backtracker) exhausted() bool {
	if b.backtracks >= b.maxBacktracks {
		b.failure = "backtrack limit exceeded"
		return true
	}
	if time.Now().After(b.deadline) {
		b.failure = "time budget exceeded"
		return true
	}
	return false
}

// reason explains the failure after an unsuccessful solve.
func (b *backtracker) reason() string {
	if b.failure != "" {
		return b.failure
	}
	return "no solution exists"
}
