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

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

// slotRank is the MRV ordering key for one residual slot.
type slotRank struct {
	slot *scheduling.Slot
	// constrainedness is capable/required; below 1 the slot is already
	// infeasible at the current state.
	constrainedness float64
	capable         int
}

// critical reports that the slot's candidate pool exactly matches its
// demand and it must be filled next.
func (r slotRank) critical() bool {
	return r.capable == r.slot.Required
}

// prioritize orders residual slots for filling: tier first, then most
// constrained, then largest demand, then day order and task name as
// deterministic tie-breaks.
func prioritize(p *problem, slots []*scheduling.Slot, capable func(*scheduling.Slot) int) []slotRank {
	ranks := make([]slotRank, 0, len(slots))
	for _, s := range slots {
		c := capable(s)
		r := slotRank{slot: s, capable: c}
		if s.Required > 0 {
			r.constrainedness = float64(c) / float64(s.Required)
		}
		ranks = append(ranks, r)
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		if a.slot.Tier != b.slot.Tier {
			return a.slot.Tier < b.slot.Tier
		}
		if a.constrainedness != b.constrainedness {
			return a.constrainedness < b.constrainedness
		}
		if a.slot.Required != b.slot.Required {
			return a.slot.Required > b.slot.Required
		}
		if di, dj := p.week.Index(a.slot.Day), p.week.Index(b.slot.Day); di != dj {
			return di < dj
		}
		return a.slot.Task.Name < b.slot.Task.Name
	})
	return ranks
}
