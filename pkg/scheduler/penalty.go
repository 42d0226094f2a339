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
	"strings"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// penalty scores a complete schedule; lower is better. The local search
// and tabu refiner accept moves purely on this number.
func penalty(p *problem, track *tracker) float64 {
	rules := p.rules
	meanHeavy := track.meanHeavy()
	meanTotal := track.meanTotal()
	skillUse := skillUseCounts(p, track)

	total := 0.0
	for _, a := range track.assignments() {
		op, okOp := p.opByID[a.OperatorID]
		task, okTask := p.taskByID[a.TaskID]
		if !okOp || !okTask {
			continue
		}
		isExceptions := strings.EqualFold(task.Name, exceptionsTask)

		if op.Type == v1alpha1.OperatorTypeFlex {
			// Flex floats by design: the only soft component that applies
			// is the Exceptions incentive.
			if rules.FlexForExceptions() && isExceptions {
				total -= 20
			}
			continue
		}

		heavy := p.heavyTask(task)
		if heavy {
			if streak := track.streakBefore(a.OperatorID, a.Day, a.TaskID); streak > 0 {
				if streak >= rules.MaxConsecutive() {
					total += 50
				} else {
					total += float64(streak) * 8
				}
			}
			if !rules.ConsecutiveHeavyAllowed() && track.heavyYesterday(a.OperatorID, a.Day) {
				total += 30
			}
			if rules.FairHeavy() {
				switch h := float64(track.heavy[a.OperatorID]); {
				case h > meanHeavy+1:
					total += 15
				case h < meanHeavy-1:
					total -= 10
				}
			}
		}
		if rules.PreferredStations() && op.Type == v1alpha1.OperatorTypeRegular && op.Prefers(task.Name) {
			total -= 15
		}
		if rules.Balance() {
			switch l := float64(track.totals[a.OperatorID]); {
			case l > meanTotal+1:
				total += 10
			case l < meanTotal-1:
				total -= 5
			}
		}
		if rules.SkillVariety() {
			switch uses := skillUse[a.OperatorID][task.RequiredSkill]; {
			case uses <= 1:
				total -= 15
			case uses >= 3:
				total += 8
			}
		}
		if rules.FlexForExceptions() && isExceptions {
			total += 10
		}
	}
	return total
}

// skillUseCounts tallies, per operator, how often each skill is
// exercised across the week.
func skillUseCounts(p *problem, track *tracker) map[string]map[string]int {
	use := map[string]map[string]int{}
	for _, a := range track.assignments() {
		task, ok := p.taskByID[a.TaskID]
		if !ok {
			continue
		}
		if _, ok := use[a.OperatorID]; !ok {
			use[a.OperatorID] = map[string]int{}
		}
		use[a.OperatorID][task.RequiredSkill]++
	}
	return use
}
