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

// Package propagation builds per-operator task domains, proves or
// disproves structural feasibility, and discovers assignments that every
// feasible schedule must contain.
package propagation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

// Input carries the pre-filtered pool: operators are Schedulable, tasks
// are not excluded. Tasks without an enabled requirement produce no slots.
type Input struct {
	Operators    []*v1alpha1.Operator
	Tasks        []*v1alpha1.Task
	Week         *scheduling.Week
	Requirements map[string]*v1alpha1.TaskRequirement
	Current      map[string]map[v1alpha1.Day]v1alpha1.CurrentAssignment
	// AllowSkillMismatch admits tasks the operator lacks the skill for;
	// the scoring layer penalises them instead of the domain excluding
	// them. Set when strict skill matching is off.
	AllowSkillMismatch bool
	// SkipForced leaves forced-assignment detection to the caller. The
	// matching pipeline only wants the feasibility proof and the domains.
	SkipForced bool
}

// Reason explains one structural infeasibility.
type Reason struct {
	Day      v1alpha1.Day
	Task     *v1alpha1.Task
	Required int
	Capable  []string // operator names, for the warning message
	Detail   string
}

func (r Reason) Message() string {
	names := "none"
	if len(r.Capable) > 0 {
		names = strings.Join(r.Capable, ", ")
	}
	if r.Task == nil {
		return r.Detail
	}
	return fmt.Sprintf("%s on %s needs %d operator(s), capable: %s%s", r.Task.Name, r.Day, r.Required, names, r.Detail)
}

// Result is the propagator's verdict. Reasons is empty iff the input is
// structurally feasible; Forced, Slots and Domains describe the reduced
// problem.
type Result struct {
	Forced  []v1alpha1.Assignment
	Slots   []*scheduling.Slot
	Domains *scheduling.Domains
	Reasons []Reason
}

// Feasible reports whether a schedule can exist for the input.
func (r *Result) Feasible() bool {
	return len(r.Reasons) == 0
}

// Propagate runs the full propagation pass: domain construction, slot
// emission, feasibility proof, and forced-assignment detection.
func Propagate(in Input) *Result {
	p := &propagator{
		in:      in,
		byID:    lo.SliceToMap(in.Operators, func(o *v1alpha1.Operator) (string, *v1alpha1.Operator) { return o.ID, o }),
		domains: scheduling.NewDomains(lo.Map(in.Operators, func(o *v1alpha1.Operator, _ int) string { return o.ID }), in.Week),
	}
	p.buildDomains()
	p.buildSlots()
	p.checkFeasibility()
	if len(p.reasons) > 0 {
		return &Result{Reasons: p.reasons, Domains: p.domains}
	}
	if !in.SkipForced {
		p.detectForced()
		p.applyForced()
	}
	return &Result{Forced: p.forced, Slots: p.slots, Domains: p.domains}
}

type propagator struct {
	in      Input
	byID    map[string]*v1alpha1.Operator
	domains *scheduling.Domains
	slots   []*scheduling.Slot
	reasons []Reason
	forced  []v1alpha1.Assignment
	// fixed marks (operator, day) pairs consumed by pinned or locked
	// current assignments.
	fixed map[string]map[v1alpha1.Day]string
}

// fixedTask returns the pinned task id for an operator day, if any.
func (p *propagator) fixedTask(operatorID string, day v1alpha1.Day) (string, bool) {
	t, ok := p.fixed[operatorID][day]
	return t, ok
}

func (p *propagator) buildDomains() {
	p.fixed = map[string]map[v1alpha1.Day]string{}
	for operatorID, byDay := range p.in.Current {
		for day, cur := range byDay {
			if !cur.Fixed() {
				continue
			}
			if _, ok := p.fixed[operatorID]; !ok {
				p.fixed[operatorID] = map[v1alpha1.Day]string{}
			}
			p.fixed[operatorID][day] = cur.TaskID
		}
	}
	for _, op := range p.in.Operators {
		for _, day := range p.in.Week.Days() {
			if taskID, ok := p.fixedTask(op.ID, day); ok {
				// A pinned placement collapses the domain outright, even if
				// it violates eligibility; the validator reports it.
				p.domains.Admit(op.ID, day, taskID)
				p.domains.Collapse(op.ID, day, taskID)
				continue
			}
			if !op.AvailableOn(day) {
				continue
			}
			for _, task := range p.in.Tasks {
				if !op.HasSkill(task.RequiredSkill) && !p.in.AllowSkillMismatch {
					continue
				}
				// Coordinators and non-coordinators partition by the
				// coordinator-only skill set.
				if task.ForCoordinators() != (op.Type == v1alpha1.OperatorTypeCoordinator) {
					continue
				}
				p.domains.Admit(op.ID, day, task.ID)
			}
		}
	}
}

func (p *propagator) buildSlots() {
	for _, task := range p.in.Tasks {
		req, ok := p.in.Requirements[task.ID]
		if !ok || !req.Enabled {
			continue
		}
		for _, day := range p.in.Week.Days() {
			total := req.TotalFor(day)
			if total == 0 {
				continue
			}
			types := lo.Filter(req.For(day), func(tc v1alpha1.TypeCount, _ int) bool { return tc.Count > 0 })
			slot := &scheduling.Slot{
				Day:      day,
				Task:     task,
				Required: total,
				Types:    types,
				Tier:     scheduling.TierOf(task.Name),
			}
			p.consumeFixed(slot)
			if slot.Required > 0 {
				p.slots = append(p.slots, slot)
			}
		}
	}
}

// consumeFixed reduces a slot's demand by the pinned assignees already
// sitting on it, so the solvers only chase the residual need.
func (p *propagator) consumeFixed(slot *scheduling.Slot) {
	for operatorID, byDay := range p.fixed {
		if byDay[slot.Day] != slot.Task.ID {
			continue
		}
		slot.Required--
		if op, ok := p.byID[operatorID]; ok {
			slot.Types = reduceType(slot.Types, op.Type)
		}
		if slot.Required <= 0 {
			slot.Required = 0
			return
		}
	}
}

func reduceType(types []v1alpha1.TypeCount, t v1alpha1.OperatorType) []v1alpha1.TypeCount {
	out := make([]v1alpha1.TypeCount, 0, len(types))
	reduced := false
	for _, tc := range types {
		if !reduced && tc.Type == t && tc.Count > 0 {
			tc.Count--
			reduced = true
		}
		if tc.Count > 0 {
			out = append(out, tc)
		}
	}
	return out
}

// operatorTypeOrder fixes iteration order over type groups so forcing is
// deterministic.
var operatorTypeOrder = []v1alpha1.OperatorType{
	v1alpha1.OperatorTypeRegular,
	v1alpha1.OperatorTypeFlex,
	v1alpha1.OperatorTypeCoordinator,
}

// capability is the per-type breakdown of operators able to fill a slot.
type capability struct {
	byType map[v1alpha1.OperatorType][]*v1alpha1.Operator
}

func (c capability) total() int {
	return lo.SumBy(lo.Values(c.byType), func(ops []*v1alpha1.Operator) int { return len(ops) })
}

func (c capability) count(t v1alpha1.OperatorType) int {
	return len(c.byType[t])
}

func (c capability) names() []string {
	var names []string
	for _, ops := range c.byType {
		for _, op := range ops {
			names = append(names, op.Name)
		}
	}
	sort.Strings(names)
	return names
}

// capable computes the slot's capability breakdown, skipping operators
// already consumed for the day (pinned elsewhere or in taken).
func (p *propagator) capable(slot *scheduling.Slot, taken map[string]bool) capability {
	c := capability{byType: map[v1alpha1.OperatorType][]*v1alpha1.Operator{}}
	for _, op := range p.in.Operators {
		if taken[op.ID] {
			continue
		}
		if _, pinned := p.fixedTask(op.ID, slot.Day); pinned {
			continue
		}
		if !p.domains.Contains(op.ID, slot.Day, slot.Task.ID) {
			continue
		}
		c.byType[op.Type] = append(c.byType[op.Type], op)
	}
	return c
}

func (p *propagator) checkFeasibility() {
	for _, slot := range p.slots {
		c := p.capable(slot, nil)
		if c.total() < slot.Required {
			p.reasons = append(p.reasons, Reason{
				Day:      slot.Day,
				Task:     slot.Task,
				Required: slot.Required,
				Capable:  c.names(),
			})
			continue
		}
		if len(slot.Types) == 0 {
			continue
		}
		regularDemand := v1alpha1.CountFor(slot.Types, v1alpha1.OperatorTypeRegular)
		flexDemand := v1alpha1.CountFor(slot.Types, v1alpha1.OperatorTypeFlex)
		coordDemand := v1alpha1.CountFor(slot.Types, v1alpha1.OperatorTypeCoordinator)
		regularCapable := c.count(v1alpha1.OperatorTypeRegular)
		flexCapable := c.count(v1alpha1.OperatorTypeFlex)
		coordCapable := c.count(v1alpha1.OperatorTypeCoordinator)
		if regularDemand > regularCapable {
			p.reasons = append(p.reasons, Reason{
				Day: slot.Day, Task: slot.Task, Required: slot.Required, Capable: c.names(),
				Detail: fmt.Sprintf(" (needs %d Regular, %d capable)", regularDemand, regularCapable),
			})
			continue
		}
		// A Flex shortfall is tolerable when the Regular surplus covers
		// it: Regulars fall back onto Flex seats.
		if shortfall := flexDemand - flexCapable; shortfall > 0 {
			if regularCapable-regularDemand < shortfall {
				p.reasons = append(p.reasons, Reason{
					Day: slot.Day, Task: slot.Task, Required: slot.Required, Capable: c.names(),
					Detail: fmt.Sprintf(" (needs %d Flex, %d capable, Regular surplus cannot cover)", flexDemand, flexCapable),
				})
				continue
			}
		}
		if coordDemand > coordCapable {
			p.reasons = append(p.reasons, Reason{
				Day: slot.Day, Task: slot.Task, Required: slot.Required, Capable: c.names(),
				Detail: fmt.Sprintf(" (needs %d Coordinator, %d capable)", coordDemand, coordCapable),
			})
		}
	}
	// Each operator fills at most one slot per day, so daily demand can
	// never exceed the available headcount.
	for _, day := range p.in.Week.Days() {
		required := lo.SumBy(p.slots, func(s *scheduling.Slot) int {
			if s.Day == day {
				return s.Required
			}
			return 0
		})
		available := lo.CountBy(p.in.Operators, func(o *v1alpha1.Operator) bool {
			_, pinned := p.fixedTask(o.ID, day)
			return o.AvailableOn(day) && !pinned
		})
		if required > available {
			p.reasons = append(p.reasons, Reason{
				Day:    day,
				Detail: fmt.Sprintf("%s requires %d assignments but only %d operators are available", day, required, available),
			})
		}
	}
}

// detectForced finds operators that are the unique candidates for a
// slot, within their type group or overall, and marks them forced.
func (p *propagator) detectForced() {
	ordered := make([]*scheduling.Slot, len(p.slots))
	copy(ordered, p.slots)
	takenByDay := map[v1alpha1.Day]map[string]bool{}
	for _, day := range p.in.Week.Days() {
		takenByDay[day] = map[string]bool{}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Tier != ordered[j].Tier {
			return ordered[i].Tier < ordered[j].Tier
		}
		return p.constrainedness(ordered[i], takenByDay[ordered[i].Day]) < p.constrainedness(ordered[j], takenByDay[ordered[j].Day])
	})
	for _, slot := range ordered {
		taken := takenByDay[slot.Day]
		c := p.capable(slot, taken)
		remaining := slot.Required
		if len(slot.Types) > 0 {
			// Classic forcing within each concrete type group first.
			for _, tc := range slot.Types {
				group := c.byType[tc.Type]
				if tc.Count > 0 && len(group) == tc.Count {
					for _, op := range group {
						p.force(slot, op, taken)
						remaining--
					}
				}
			}
		}
		c = p.capable(slot, taken)
		if remaining > 0 && c.total() == remaining {
			for _, t := range operatorTypeOrder {
				for _, op := range c.byType[t] {
					p.force(slot, op, taken)
				}
			}
		}
	}
}

func (p *propagator) constrainedness(slot *scheduling.Slot, taken map[string]bool) float64 {
	if slot.Required == 0 {
		return 0
	}
	return float64(p.capable(slot, taken).total()) / float64(slot.Required)
}

func (p *propagator) force(slot *scheduling.Slot, op *v1alpha1.Operator, taken map[string]bool) {
	p.forced = append(p.forced, v1alpha1.Assignment{Day: slot.Day, OperatorID: op.ID, TaskID: slot.Task.ID})
	taken[op.ID] = true
}

// applyForced reduces each forced operator's domain to its forced task
// and rewrites the slot list with the residual demand.
func (p *propagator) applyForced() {
	forcedCount := map[string]int{} // slot key -> count
	forcedTypes := map[string][]v1alpha1.OperatorType{}
	for _, a := range p.forced {
		p.domains.Collapse(a.OperatorID, a.Day, a.TaskID)
		key := string(a.Day) + "/" + a.TaskID
		forcedCount[key]++
		if op, ok := p.byID[a.OperatorID]; ok {
			forcedTypes[key] = append(forcedTypes[key], op.Type)
		}
	}
	residual := make([]*scheduling.Slot, 0, len(p.slots))
	for _, slot := range p.slots {
		key := string(slot.Day) + "/" + slot.Task.ID
		if n := forcedCount[key]; n > 0 {
			slot.Required -= n
			for _, t := range forcedTypes[key] {
				slot.Types = reduceType(slot.Types, t)
			}
		}
		if slot.Required > 0 {
			residual = append(residual, slot)
		}
	}
	p.slots = residual
}
