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

// Package scheduler is the weekly workforce scheduling core: constraint
// propagation, MRV-ordered greedy search with forward checking, a
// backtracking completion solver, per-day Hopcroft-Karp matching, and
// penalty-driven local search. The package is pure: it consumes a
// Request, returns a Result, and touches nothing else.
package scheduler

import (
	"context"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduler/propagation"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

const matchingAttempts = 5

// Schedule computes a weekly assignment for the request. The error is
// non-nil only for malformed requests; every scheduling problem,
// including provably infeasible ones, is answered with a Result whose
// warnings explain what went wrong.
func Schedule(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed, _ := req.Rules.Default().Seed()
	p := newProblem(req, seed)
	if p.rules.Pipeline() == v1alpha1.AlgorithmMaxMatching {
		return scheduleMatching(ctx, p), nil
	}
	return scheduleEnhanced(ctx, p), nil
}

// Validate re-runs the post-hoc validator over an externally supplied
// schedule, for callers that let users edit assignments by hand.
func Validate(req *Request, assignments []v1alpha1.Assignment) ([]v1alpha1.Warning, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return validate(newProblem(req, 0), assignments), nil
}

// Stats computes the objective vector of a schedule, for display.
func Stats(req *Request, assignments []v1alpha1.Assignment) (Objectives, error) {
	if err := req.Validate(); err != nil {
		return Objectives{}, err
	}
	return computeObjectives(newProblem(req, 0), assignments), nil
}

func (p *problem) propagationInput(skipForced bool) propagation.Input {
	return propagation.Input{
		Operators:          p.operators,
		Tasks:              p.tasks,
		Week:               p.week,
		Requirements:       p.requirements,
		Current:            p.req.Current,
		AllowSkillMismatch: !p.rules.Strict(),
		SkipForced:         skipForced,
	}
}

// infeasibleResult surfaces each propagation reason as an understaffed
// warning and returns no assignments; downstream stages never run.
func infeasibleResult(reasons []propagation.Reason) *Result {
	res := &Result{Assignments: []v1alpha1.Assignment{}}
	for _, reason := range reasons {
		var taskID string
		if reason.Task != nil {
			taskID = reason.Task.ID
		}
		res.Warnings = append(res.Warnings, v1alpha1.Warning{
			Kind:    v1alpha1.WarningUnderstaffed,
			Day:     reason.Day,
			TaskID:  taskID,
			Message: reason.Message(),
		})
	}
	return res
}

// scheduleEnhanced is the propagate, greedy, backtrack pipeline.
func scheduleEnhanced(ctx context.Context, p *problem) *Result {
	prop := propagation.Propagate(p.propagationInput(false))
	if !prop.Feasible() {
		return infeasibleResult(prop.Reasons)
	}

	seedTracker := func() *tracker {
		track := newTracker(p)
		for _, a := range p.fixed {
			track.add(a)
		}
		for _, a := range prop.Forced {
			track.add(a)
		}
		return track
	}

	base := prop.Domains.Mark()
	track := seedTracker()
	for _, a := range prop.Forced {
		prop.Domains.Clear(a.OperatorID, a.Day)
	}

	greedy := newGreedyPass(p, prop.Domains, track, prop.Slots)
	deadEnds := greedy.run()

	var warnings []v1alpha1.Warning
	if len(deadEnds) > 0 {
		// The greedy pass committed an operator some other slot needed.
		// Rewind to the post-propagation state and let the backtracker
		// search for a complete assignment; the greedy result stays as
		// the best effort if the search comes up empty.
		prop.Domains.Undo(base)
		retry := seedTracker()
		for _, a := range prop.Forced {
			prop.Domains.Clear(a.OperatorID, a.Day)
		}
		open := map[*scheduling.Slot]int{}
		for _, s := range prop.Slots {
			open[s] = s.Required
		}
		bt := newBacktracker(p, prop.Domains, retry, open, prop.Slots)
		if bt.solve() {
			track = retry
		} else {
			warnings = append(warnings, v1alpha1.Warning{
				Kind:    v1alpha1.WarningBudgetExhausted,
				Message: "backtracking could not complete the schedule: " + bt.reason(),
			})
		}
	}

	assignments := track.assignments()
	warnings = append(warnings, validate(p, assignments)...)
	return &Result{Assignments: assignments, Warnings: warnings}
}

// scheduleMatching is the matching-first pipeline: feasibility proof,
// coordinator rotation, per-day maximum matching, then local-search
// optimisation, over several seeded attempts.
func scheduleMatching(ctx context.Context, p *problem) *Result {
	prop := propagation.Propagate(p.propagationInput(true))
	if !prop.Feasible() {
		return infeasibleResult(prop.Reasons)
	}

	var bestTrack *tracker
	bestPenalty := 0.0
	for attempt := 0; attempt < matchingAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		track := newTracker(p)
		for _, a := range p.fixed {
			track.add(a)
		}
		if p.rules.Coordinators() {
			newCoordinatorScheduler(p, track).run()
		}
		matchDays(p, prop.Domains, track, prop.Slots)
		newLocalSearch(p, track).run()
		score := newTabuSearch(p, track).run()
		if bestTrack == nil || score < bestPenalty {
			bestTrack, bestPenalty = track, score
		}
	}
	if bestTrack == nil {
		bestTrack = newTracker(p)
	}

	assignments := bestTrack.assignments()
	warnings := validate(p, assignments)
	return &Result{Assignments: assignments, Warnings: warnings}
}

// seat is one left vertex of the per-day bipartite graph: a single
// opening on a task, optionally labelled with an operator type.
type seat struct {
	slot *scheduling.Slot
	// label restricts the seat to one operator type; empty admits any.
	label v1alpha1.OperatorType
}

// matchDays runs Hopcroft-Karp once per day over the residual openings.
func matchDays(p *problem, domains *scheduling.Domains, track *tracker, slots []*scheduling.Slot) {
	for _, day := range p.week.Days() {
		var seats []seat
		for _, slot := range slots {
			if slot.Day != day {
				continue
			}
			open := slot.Required - track.filled(slot.Day, slot.Task.ID)
			if open <= 0 {
				continue
			}
			if len(slot.Types) == 0 {
				for i := 0; i < open; i++ {
					seats = append(seats, seat{slot: slot})
				}
				continue
			}
			emitted := 0
			for _, tc := range slot.Types {
				for i := 0; i < tc.Count && emitted < open; i++ {
					seats = append(seats, seat{slot: slot, label: tc.Type})
					emitted++
				}
			}
		}
		if len(seats) == 0 {
			continue
		}

		// Shuffling the right-hand side varies which maximum matching the
		// attempt lands on.
		pool := make([]*v1alpha1.Operator, 0, len(p.operators))
		for _, op := range p.operators {
			if !track.busy(op.ID, day) {
				pool = append(pool, op)
			}
		}
		p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		graph := newBipartiteGraph(len(seats), len(pool))
		for l, st := range seats {
			for r, op := range pool {
				if !domains.Contains(op.ID, day, st.slot.Task.ID) {
					continue
				}
				if st.label != "" && op.Type != st.label {
					continue
				}
				graph.addEdge(l, r)
			}
		}
		matching := hopcroftKarp(graph)
		for l := range seats {
			if r, ok := matching[l]; ok {
				track.add(v1alpha1.Assignment{Day: day, OperatorID: pool[r].ID, TaskID: seats[l].slot.Task.ID})
			}
		}
	}
}
