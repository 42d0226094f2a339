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
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

var testWeek = []v1alpha1.Day{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func availableAllWeek() map[v1alpha1.Day]bool {
	availability := map[v1alpha1.Day]bool{}
	for _, d := range testWeek {
		availability[d] = true
	}
	return availability
}

func penaltyProblem(rules v1alpha1.Rules) *problem {
	req := &Request{
		Operators: []v1alpha1.Operator{
			{ID: "reg", Name: "Reg", Type: v1alpha1.OperatorTypeRegular, Status: v1alpha1.OperatorStatusActive,
				Skills: []string{"H", "E"}, Availability: availableAllWeek(), PreferredTasks: []string{"Hauling"}},
			{ID: "flex", Name: "Flex", Type: v1alpha1.OperatorTypeFlex, Status: v1alpha1.OperatorStatusActive,
				Skills: []string{"H", "E"}, Availability: availableAllWeek()},
		},
		Tasks: []v1alpha1.Task{
			{ID: "haul", Name: "Hauling", RequiredSkill: "H", Heavy: true},
			{ID: "exceptions", Name: "Exceptions", RequiredSkill: "E"},
		},
		Days: testWeek,
		Requirements: []v1alpha1.TaskRequirement{
			{TaskID: "haul", Enabled: true, DefaultRequirements: []v1alpha1.TypeCount{
				{Type: v1alpha1.OperatorTypeRegular, Count: 1}, {Type: v1alpha1.OperatorTypeFlex, Count: 1}}},
			{TaskID: "exceptions", Enabled: true, DefaultRequirements: []v1alpha1.TypeCount{
				{Type: v1alpha1.OperatorTypeRegular, Count: 1}, {Type: v1alpha1.OperatorTypeFlex, Count: 1}}},
		},
		Rules: rules,
	}
	return newProblem(req, 1)
}

func TestPenaltyConsecutiveHeavy(t *testing.T) {
	p := penaltyProblem(v1alpha1.Rules{
		RespectPreferredStations:    lo.ToPtr(false),
		FairDistribution:            lo.ToPtr(false),
		BalanceWorkload:             lo.ToPtr(false),
		PrioritizeFlexForExceptions: lo.ToPtr(false),
	})
	track := newTracker(p)
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "haul"})
	single := penalty(p, track)

	track.add(v1alpha1.Assignment{Day: "Tuesday", OperatorID: "reg", TaskID: "haul"})
	double := penalty(p, track)
	// Tuesday adds a heavy-streak term plus the consecutive-heavy
	// surcharge.
	assert.Greater(t, double, single)
	assert.GreaterOrEqual(t, double-single, 30.0)
}

func TestPenaltyFlexExemptExceptForExceptions(t *testing.T) {
	p := penaltyProblem(v1alpha1.Rules{})
	track := newTracker(p)
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "flex", TaskID: "haul"})
	track.add(v1alpha1.Assignment{Day: "Tuesday", OperatorID: "flex", TaskID: "haul"})
	// Heavy streaks and consecutive-heavy days cost a Flex operator
	// nothing.
	assert.Equal(t, 0.0, penalty(p, track))

	track.add(v1alpha1.Assignment{Day: "Wednesday", OperatorID: "flex", TaskID: "exceptions"})
	assert.Equal(t, -20.0, penalty(p, track))
}

func TestPenaltyPreferredStation(t *testing.T) {
	base := v1alpha1.Rules{
		FairDistribution:            lo.ToPtr(false),
		BalanceWorkload:             lo.ToPtr(false),
		PrioritizeFlexForExceptions: lo.ToPtr(false),
	}
	p := penaltyProblem(base)
	track := newTracker(p)
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "haul"})
	withPreference := penalty(p, track)

	noPref := base
	noPref.RespectPreferredStations = lo.ToPtr(false)
	p2 := penaltyProblem(noPref)
	track2 := newTracker(p2)
	track2.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "haul"})
	withoutPreference := penalty(p2, track2)

	assert.Equal(t, -15.0, withPreference-withoutPreference)
}

func TestTrackerStreaks(t *testing.T) {
	p := penaltyProblem(v1alpha1.Rules{})
	track := newTracker(p)
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "haul"})
	track.add(v1alpha1.Assignment{Day: "Tuesday", OperatorID: "reg", TaskID: "haul"})

	assert.Equal(t, 2, track.streakBefore("reg", "Wednesday", "haul"))
	assert.Equal(t, 0, track.streakBefore("reg", "Wednesday", "exceptions"))
	assert.True(t, track.heavyYesterday("reg", "Tuesday"))
	assert.False(t, track.heavyYesterday("reg", "Monday"))

	track.remove(v1alpha1.Assignment{Day: "Tuesday", OperatorID: "reg", TaskID: "haul"})
	assert.Equal(t, 0, track.streakBefore("reg", "Wednesday", "haul"))
	assert.False(t, track.busy("reg", "Tuesday"))
	assert.Equal(t, 1, track.totals["reg"])
	assert.Equal(t, 1, track.heavy["reg"])
}

func TestLocalSearchImprovesPreferencePlacement(t *testing.T) {
	// reg prefers Hauling but starts on Exceptions; swapping with flex
	// strictly reduces the penalty, so one hill-climbing step fixes it.
	p := penaltyProblem(v1alpha1.Rules{})
	track := newTracker(p)
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "exceptions"})
	track.add(v1alpha1.Assignment{Day: "Monday", OperatorID: "flex", TaskID: "haul"})

	before := penalty(p, track)
	after := newLocalSearch(p, track).run()
	assert.Less(t, after, before)

	assignments := track.assignments()
	assert.Contains(t, assignments, v1alpha1.Assignment{Day: "Monday", OperatorID: "reg", TaskID: "haul"})
	assert.Contains(t, assignments, v1alpha1.Assignment{Day: "Monday", OperatorID: "flex", TaskID: "exceptions"})
}
