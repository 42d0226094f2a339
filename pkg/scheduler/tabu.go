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
	"sort"
	"time"

	"github.com/hashicorp/go-set/v2"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

const (
	tabuTenure     = 20
	tabuIterations = 100
	tabuStagnation = 20
	tabuTimeBudget = 2 * time.Second
)

// tabuSearch refines a schedule over the same swap neighbourhood as the
// hill climber, but keeps a bounded FIFO memory of recent moves so it
// can walk through local optima. A tabu move is still taken when it
// beats the best schedule seen so far (aspiration).
type tabuSearch struct {
	prob   *problem
	track  *tracker
	local  *localSearch
	memory []string
	member *set.Set[string]
}

func newTabuSearch(p *problem, track *tracker) *tabuSearch {
	return &tabuSearch{
		prob:   p,
		track:  track,
		local:  newLocalSearch(p, track),
		member: set.New[string](tabuTenure),
	}
}

// moveKey is symmetric: swapping (a, b) and swapping (b, a) share one
// key, so reversing a move is tabu too.
func moveKey(m swapMove) string {
	ka := fmt.Sprintf("%s|%s|%s", m.a.Day, m.a.OperatorID, m.a.TaskID)
	kb := fmt.Sprintf("%s|%s|%s", m.b.Day, m.b.OperatorID, m.b.TaskID)
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + "||" + kb
}

func (t *tabuSearch) remember(key string) {
	t.memory = append(t.memory, key)
	t.member.Insert(key)
	if len(t.memory) > tabuTenure {
		expired := t.memory[0]
		t.memory = t.memory[1:]
		t.member.Remove(expired)
	}
}

// run refines until the iteration cap, the stagnation limit or the time
// budget ends the walk, and leaves the best-found schedule applied.
func (t *tabuSearch) run() float64 {
	deadline := time.Now().Add(tabuTimeBudget)
	current := penalty(t.prob, t.track)
	best := current
	bestAssignments := t.track.assignments()
	stagnant := 0

	for iter := 0; iter < tabuIterations; iter++ {
		if time.Now().After(deadline) {
			break
		}
		type ranked struct {
			move    swapMove
			after   float64
			tabu    bool
		}
		var neighbours []ranked
		for _, move := range t.local.validSwaps() {
			move.apply(t.track)
			after := penalty(t.prob, t.track)
			move.revert(t.track)
			neighbours = append(neighbours, ranked{move: move, after: after, tabu: t.member.Contains(moveKey(move))})
		}
		if len(neighbours) == 0 {
			break
		}
		sort.SliceStable(neighbours, func(i, j int) bool { return neighbours[i].after < neighbours[j].after })

		var chosen *ranked
		for i := range neighbours {
			n := &neighbours[i]
			if !n.tabu {
				chosen = n
				break
			}
			if n.after < best {
				// Aspiration: a forbidden move that beats the global best
				// is always worth taking.
				chosen = n
				break
			}
		}
		if chosen == nil {
			break
		}
		chosen.move.apply(t.track)
		t.remember(moveKey(chosen.move))
		current = chosen.after

		if current < best {
			best = current
			bestAssignments = t.track.assignments()
			stagnant = 0
		} else {
			stagnant++
			if stagnant >= tabuStagnation {
				break
			}
		}
	}

	t.restore(bestAssignments)
	return best
}

// restore rewinds the tracker to a previously captured schedule.
func (t *tabuSearch) restore(assignments []v1alpha1.Assignment) {
	for _, a := range t.track.assignments() {
		t.track.remove(a)
	}
	for _, a := range assignments {
		t.track.add(a)
	}
}
