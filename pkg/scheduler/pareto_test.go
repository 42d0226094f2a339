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

	"github.com/stretchr/testify/assert"
)

func TestObjectivesDomination(t *testing.T) {
	base := Objectives{Fairness: 1, WorkloadBalance: 2, SkillMatch: 90, HeavyFairness: 1, Variety: 2}

	betterEverywhere := Objectives{Fairness: 0.5, WorkloadBalance: 1, SkillMatch: 100, HeavyFairness: 0.5, Variety: 3}
	assert.True(t, betterEverywhere.dominates(base))
	assert.False(t, base.dominates(betterEverywhere))

	// Equal on everything: neither dominates.
	assert.False(t, base.dominates(base))

	// Trade-off: better fairness, worse skill match.
	tradeoff := Objectives{Fairness: 0.5, WorkloadBalance: 2, SkillMatch: 80, HeavyFairness: 1, Variety: 2}
	assert.False(t, tradeoff.dominates(base))
	assert.False(t, base.dominates(tradeoff))

	// Equal except one strictly better axis.
	oneBetter := base
	oneBetter.Variety = 3
	assert.True(t, oneBetter.dominates(base))
}

func TestParetoFront(t *testing.T) {
	dominated := Candidate{Objectives: Objectives{Fairness: 2, WorkloadBalance: 3, SkillMatch: 50, HeavyFairness: 2, Variety: 1}}
	strong := Candidate{Objectives: Objectives{Fairness: 1, WorkloadBalance: 1, SkillMatch: 100, HeavyFairness: 1, Variety: 3}}
	tradeoff := Candidate{Objectives: Objectives{Fairness: 0.5, WorkloadBalance: 2, SkillMatch: 60, HeavyFairness: 1.5, Variety: 2}}

	front := paretoFront([]Candidate{dominated, strong, tradeoff})
	assert.Len(t, front, 2)
	assert.Equal(t, strong.Objectives, front[0].Objectives)
	assert.Equal(t, tradeoff.Objectives, front[1].Objectives)
}

func TestDiversifyKeepsSmallFronts(t *testing.T) {
	front := []Candidate{{Penalty: 1}, {Penalty: 2}}
	assert.Len(t, diversify(front, 5), 2)
}

func TestDiversifySeedsWithBestPenalty(t *testing.T) {
	front := []Candidate{
		{Penalty: 10, Objectives: Objectives{Fairness: 0}},
		{Penalty: 1, Objectives: Objectives{Fairness: 4}},
		{Penalty: 20, Objectives: Objectives{Fairness: 10}},
		{Penalty: 30, Objectives: Objectives{Fairness: 2}},
	}
	picked := diversify(front, 2)
	assert.Len(t, picked, 2)
	// The lowest-penalty candidate seeds the selection; the farthest
	// point from it in objective space joins next.
	assert.Equal(t, 1.0, picked[0].Penalty)
	assert.Equal(t, 10.0, picked[1].Objectives.Fairness)
}

func TestNormaliseRescalesEachAxis(t *testing.T) {
	out := normalise([][]float64{{0, 10}, {5, 20}, {10, 30}})
	assert.Equal(t, []float64{0, 0}, out[0])
	assert.Equal(t, []float64{0.5, 0.5}, out[1])
	assert.Equal(t, []float64{1, 1}, out[2])
}
