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

package v1alpha1

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"github.com/samber/lo"
)

// Algorithm selects the scheduling pipeline.
type Algorithm string

const (
	// AlgorithmEnhanced runs propagation, MRV greedy with forward
	// checking, and the backtracking fallback.
	AlgorithmEnhanced Algorithm = "enhanced"
	// AlgorithmMaxMatching runs per-day Hopcroft-Karp matching with
	// local-search optimisation over several seeded attempts.
	AlgorithmMaxMatching Algorithm = "max-matching"
)

var defaultRules = Rules{
	StrictSkillMatching:          lo.ToPtr(true),
	AllowConsecutiveHeavyShifts:  lo.ToPtr(false),
	PrioritizeFlexForExceptions:  lo.ToPtr(true),
	RespectPreferredStations:     lo.ToPtr(true),
	MaxConsecutiveDaysOnSameTask: lo.ToPtr(2),
	FairDistribution:             lo.ToPtr(true),
	BalanceWorkload:              lo.ToPtr(true),
	AutoAssignCoordinators:       lo.ToPtr(true),
	RandomizationFactor:          lo.ToPtr(0.0),
	PrioritizeSkillVariety:       lo.ToPtr(false),
	Algorithm:                    lo.ToPtr(AlgorithmEnhanced),
	HeavyTasks:                   []string{"Troubleshooter", "Exceptions", "Quality checker", "Troubleshooter AD", "Platform"},
	SoftTasks:                    []string{"Filler", "Exceptions", "Decanting"},
}

// Rules is the scheduling configuration record. Every field is optional;
// Default fills the gaps so the core only ever sees a fully-populated
// record.
type Rules struct {
	// StrictSkillMatching disqualifies skill mismatches outright; when
	// false a mismatch only costs a soft penalty.
	StrictSkillMatching *bool `json:"strictSkillMatching,omitempty"`
	// AllowConsecutiveHeavyShifts, when false, penalises heavy-to-heavy
	// day transitions.
	AllowConsecutiveHeavyShifts *bool `json:"allowConsecutiveHeavyShifts,omitempty"`
	// PrioritizeFlexForExceptions applies the Exceptions scoring bonus
	// for Flex operators and the penalty for everyone else.
	PrioritizeFlexForExceptions *bool `json:"prioritizeFlexForExceptions,omitempty"`
	// RespectPreferredStations applies the preferred-task bonus.
	RespectPreferredStations *bool `json:"respectPreferredStations,omitempty"`
	// MaxConsecutiveDaysOnSameTask is the streak threshold beyond which
	// repetition is penalised.
	MaxConsecutiveDaysOnSameTask *int `json:"maxConsecutiveDaysOnSameTask,omitempty" validate:"omitempty,gte=1"`
	// FairDistribution enables mean-relative heavy-load penalties.
	FairDistribution *bool `json:"fairDistribution,omitempty"`
	// BalanceWorkload enables mean-relative total-load penalties.
	BalanceWorkload *bool `json:"balanceWorkload,omitempty"`
	// AutoAssignCoordinators invokes the coordinator group scheduler.
	AutoAssignCoordinators *bool `json:"autoAssignCoordinators,omitempty"`
	// RandomizationFactor is the half-open jitter range added to greedy
	// candidate scores for variety.
	RandomizationFactor *float64 `json:"randomizationFactor,omitempty" validate:"omitempty,gte=0"`
	// PrioritizeSkillVariety enables the unused-skill bonus and the
	// over-used-skill penalty in the optimiser.
	PrioritizeSkillVariety *bool `json:"prioritizeSkillVariety,omitempty"`
	// Algorithm selects the pipeline.
	Algorithm *Algorithm `json:"algorithm,omitempty" validate:"omitempty,oneof=enhanced max-matching"`
	// HeavyTasks overrides the default heavy-task name classification.
	HeavyTasks []string `json:"heavyTasks,omitempty"`
	// SoftTasks overrides the default soft-task name classification.
	SoftTasks []string `json:"softTasks,omitempty"`
	// SchedulingSeed makes runs reproducible; the same seed with
	// identical inputs yields identical output.
	SchedulingSeed *int64 `json:"schedulingSeed,omitempty"`
}

// Default returns a copy of the rules with every unset field filled from
// the defaults.
func (r Rules) Default() Rules {
	// Without dereferencing, a set pointer counts as set even when it
	// points at false or zero, so explicit choices survive the merge.
	if err := mergo.Merge(&r, defaultRules, mergo.WithoutDereference); err != nil {
		// The merge of two plain value records cannot fail; treat it the
		// same way settings parsing treats corruption.
		panic(fmt.Sprintf("merging default rules, %v", err))
	}
	return r
}

// Validate checks the record's fields against their constraints.
func (r Rules) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return fmt.Errorf("validating rules, %w", err)
	}
	return nil
}

// Strict returns the resolved strict-skill-matching flag. The accessor
// family below assumes Default has been applied.
func (r Rules) Strict() bool { return lo.FromPtr(r.StrictSkillMatching) }

// ConsecutiveHeavyAllowed returns the resolved heavy-transition flag.
func (r Rules) ConsecutiveHeavyAllowed() bool { return lo.FromPtr(r.AllowConsecutiveHeavyShifts) }

// FlexForExceptions returns the resolved Exceptions-priority flag.
func (r Rules) FlexForExceptions() bool { return lo.FromPtr(r.PrioritizeFlexForExceptions) }

// PreferredStations returns the resolved preferred-task flag.
func (r Rules) PreferredStations() bool { return lo.FromPtr(r.RespectPreferredStations) }

// MaxConsecutive returns the resolved same-task streak threshold.
func (r Rules) MaxConsecutive() int { return lo.FromPtr(r.MaxConsecutiveDaysOnSameTask) }

// FairHeavy returns the resolved fair-distribution flag.
func (r Rules) FairHeavy() bool { return lo.FromPtr(r.FairDistribution) }

// Balance returns the resolved workload-balance flag.
func (r Rules) Balance() bool { return lo.FromPtr(r.BalanceWorkload) }

// Coordinators returns the resolved coordinator auto-assignment flag.
func (r Rules) Coordinators() bool { return lo.FromPtr(r.AutoAssignCoordinators) }

// Jitter returns the resolved randomisation factor.
func (r Rules) Jitter() float64 { return lo.FromPtr(r.RandomizationFactor) }

// SkillVariety returns the resolved skill-variety flag.
func (r Rules) SkillVariety() bool { return lo.FromPtr(r.PrioritizeSkillVariety) }

// Pipeline returns the resolved algorithm selection.
func (r Rules) Pipeline() Algorithm { return lo.FromPtr(r.Algorithm) }

// Seed returns the resolved seed and whether one was supplied.
func (r Rules) Seed() (int64, bool) {
	if r.SchedulingSeed == nil {
		return 0, false
	}
	return *r.SchedulingSeed, true
}

// HeavyTask reports whether the task name is classified heavy, either by
// the rules override or the task's own flag.
func (r Rules) HeavyTask(t *Task) bool {
	return t.Heavy || lo.Contains(r.HeavyTasks, t.Name)
}

// SoftTask reports whether the task name is in the soft classification.
func (r Rules) SoftTask(name string) bool {
	return lo.Contains(r.SoftTasks, name)
}
