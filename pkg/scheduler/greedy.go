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
	"strings"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

const exceptionsTask = "Exceptions"

// greedyPass fills residual slots in MRV order using the scoring
// function, re-checking the remaining slots after every assignment.
// Slots it cannot fill are collected as dead ends for the backtracker.
type greedyPass struct {
	prob    *problem
	domains *scheduling.Domains
	track   *tracker
	slots   []*scheduling.Slot
	// open tracks the residual need per slot, decremented as seats fill.
	open map[*scheduling.Slot]int
}

// deadEnd is a slot the greedy pass could not complete.
type deadEnd struct {
	slot    *scheduling.Slot
	missing int
}

func newGreedyPass(p *problem, domains *scheduling.Domains, track *tracker, slots []*scheduling.Slot) *greedyPass {
	g := &greedyPass{prob: p, domains: domains, track: track, slots: slots, open: map[*scheduling.Slot]int{}}
	for _, s := range slots {
		g.open[s] = s.Required
	}
	return g
}

// candidates derives the operators that may still take the slot: the
// task is in their day-domain, they are free that day, and their type is
// admitted by the slot's demand.
func (g *greedyPass) candidates(slot *scheduling.Slot) []*v1alpha1.Operator {
	var out []*v1alpha1.Operator
	for _, op := range g.prob.operators {
		if g.track.busy(op.ID, slot.Day) {
			continue
		}
		if !g.domains.Contains(op.ID, slot.Day, slot.Task.ID) {
			continue
		}
		if !slot.AdmitsType(op.Type) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// run executes the pass and returns the dead ends it hit.
func (g *greedyPass) run() []deadEnd {
	var deadEnds []deadEnd
	ranks := prioritize(g.prob, g.slots, func(s *scheduling.Slot) int { return len(g.candidates(s)) })
	for _, rank := range ranks {
		slot := rank.slot
		needed := g.open[slot]
		if needed <= 0 {
			continue
		}
		picked := g.pick(slot, needed)
		for _, op := range picked {
			g.assign(slot, op)
		}
		if missing := g.open[slot]; missing > 0 {
			deadEnds = append(deadEnds, deadEnd{slot: slot, missing: missing})
		}
		// Forward check: an assignment may have starved a later slot.
		deadEnds = append(deadEnds, g.forwardCheck(slot)...)
	}
	return dedupeDeadEnds(deadEnds)
}

// pick scores the candidates and returns the top needed, skipping
// disqualified ones.
func (g *greedyPass) pick(slot *scheduling.Slot, needed int) []*v1alpha1.Operator {
	type scored struct {
		op    *v1alpha1.Operator
		score float64
	}
	var pool []scored
	for _, op := range g.candidates(slot) {
		score, ok := g.score(slot, op)
		if !ok {
			continue
		}
		pool = append(pool, scored{op: op, score: score})
	}
	// Jitter is drawn in candidate order so a fixed seed reproduces the
	// selection exactly.
	if jitter := g.prob.rules.Jitter(); jitter > 0 {
		for i := range pool {
			pool[i].score += g.prob.rng.Float64() * jitter
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].op.ID < pool[j].op.ID
	})
	if len(pool) > needed {
		pool = pool[:needed]
	}
	var picked []*v1alpha1.Operator
	for _, s := range pool {
		picked = append(picked, s.op)
	}
	return picked
}

// score computes the candidate's fitness for the slot. The second return
// is false when a hard rule disqualifies the candidate outright.
func (g *greedyPass) score(slot *scheduling.Slot, op *v1alpha1.Operator) (float64, bool) {
	rules := g.prob.rules
	task := slot.Task
	score := 100.0

	if !op.HasSkill(task.RequiredSkill) {
		if rules.Strict() {
			return 0, false
		}
		score -= 50
	}
	if op.Type == v1alpha1.OperatorTypeCoordinator && !task.ForCoordinators() {
		return 0, false
	}

	exempt := op.RotationExempt()
	if !exempt {
		if op.Type == v1alpha1.OperatorTypeCoordinator {
			if prev, ok := g.prob.week.Prev(slot.Day); ok {
				if yesterday, worked := g.track.taskOn(op.ID, prev); worked && yesterday == task.ID {
					// Coordinators rotate daily.
					score -= 100
				}
			}
		}
		if g.prob.heavyTask(task) && !rules.ConsecutiveHeavyAllowed() && g.track.heavyYesterday(op.ID, slot.Day) {
			score -= 30
		}
		if g.track.streakBefore(op.ID, slot.Day, task.ID) >= g.prob.maxRun(task) {
			score -= 80
		}
	}

	if rules.FlexForExceptions() && strings.EqualFold(task.Name, exceptionsTask) {
		if op.Type == v1alpha1.OperatorTypeFlex {
			score += 20
		} else {
			score -= 10
		}
	}
	if rules.FairHeavy() && g.prob.heavyTask(task) {
		mean := g.track.meanHeavy()
		switch {
		case float64(g.track.heavy[op.ID]) > mean:
			score -= 15
		case float64(g.track.heavy[op.ID]) < mean:
			score += 10
		}
	}
	if rules.Balance() {
		mean := g.track.meanTotal()
		switch {
		case float64(g.track.totals[op.ID]) > mean:
			score -= 10
		case float64(g.track.totals[op.ID]) < mean:
			score += 5
		}
	}
	if rules.PreferredStations() && op.Prefers(task.Name) {
		score += 100
	}
	if _, constrained := slot.TypeDemand(op.Type); constrained && slot.AdmitsType(op.Type) {
		score += 15
	}
	if score <= 0 {
		return 0, false
	}
	return score, true
}

func (g *greedyPass) assign(slot *scheduling.Slot, op *v1alpha1.Operator) {
	g.track.add(v1alpha1.Assignment{Day: slot.Day, OperatorID: op.ID, TaskID: slot.Task.ID})
	g.domains.Clear(op.ID, slot.Day)
	g.open[slot]--
}

// forwardCheck scans the other still-open slots on the same day and
// reports the ones the latest assignments have starved.
func (g *greedyPass) forwardCheck(justFilled *scheduling.Slot) []deadEnd {
	var starved []deadEnd
	for _, s := range g.slots {
		if s == justFilled || s.Day != justFilled.Day {
			continue
		}
		remaining := g.open[s]
		if remaining <= 0 {
			continue
		}
		if available := len(g.candidates(s)); available < remaining {
			starved = append(starved, deadEnd{slot: s, missing: remaining - available})
		}
	}
	return starved
}

func dedupeDeadEnds(deadEnds []deadEnd) []deadEnd {
	seen := map[*scheduling.Slot]bool{}
	var out []deadEnd
	for _, d := range deadEnds {
		if seen[d.slot] {
			continue
		}
		seen[d.slot] = true
		out = append(out, d)
	}
	return out
}
