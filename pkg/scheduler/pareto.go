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
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

const (
	defaultAttempts      = 5
	defaultDiversitySize = 5
	driverTimeBudget     = 10 * time.Second
	driverEarlyPenalty   = 10
)

// Objectives is the multi-objective score vector of one schedule.
// Fairness, WorkloadBalance and HeavyFairness are minimised; SkillMatch
// and Variety are maximised.
type Objectives struct {
	// Fairness is the population standard deviation of total loads.
	Fairness float64 `json:"fairness"`
	// WorkloadBalance is the max minus min total load.
	WorkloadBalance float64 `json:"workloadBalance"`
	// SkillMatch is the percentage of assignments whose operator holds
	// the exact required skill.
	SkillMatch float64 `json:"skillMatch"`
	// HeavyFairness is the population standard deviation of heavy loads.
	HeavyFairness float64 `json:"heavyFairness"`
	// Variety is the mean count of distinct tasks per assigned operator.
	Variety float64 `json:"variety"`
}

// dominates reports strict Pareto domination: at least as good on every
// objective and strictly better on one.
func (o Objectives) dominates(other Objectives) bool {
	if o.Fairness > other.Fairness || o.WorkloadBalance > other.WorkloadBalance ||
		o.HeavyFairness > other.HeavyFairness ||
		o.SkillMatch < other.SkillMatch || o.Variety < other.Variety {
		return false
	}
	return o.Fairness < other.Fairness || o.WorkloadBalance < other.WorkloadBalance ||
		o.HeavyFairness < other.HeavyFairness ||
		o.SkillMatch > other.SkillMatch || o.Variety > other.Variety
}

// vector lays the objectives out for distance computations, with
// maximise objectives negated so every axis minimises.
func (o Objectives) vector() []float64 {
	return []float64{o.Fairness, o.WorkloadBalance, -o.SkillMatch, o.HeavyFairness, -o.Variety}
}

// computeObjectives derives the objective vector of a schedule.
func computeObjectives(p *problem, assignments []v1alpha1.Assignment) Objectives {
	totals := map[string]float64{}
	heavies := map[string]float64{}
	distinct := map[string]map[string]bool{}
	perfect := 0
	scored := 0
	for _, op := range p.operators {
		totals[op.ID] = 0
		heavies[op.ID] = 0
	}
	for _, a := range assignments {
		op, okOp := p.opByID[a.OperatorID]
		task, okTask := p.taskByID[a.TaskID]
		if !okOp || !okTask {
			continue
		}
		totals[a.OperatorID]++
		if p.heavyTask(task) {
			heavies[a.OperatorID]++
		}
		scored++
		if op.HasSkill(task.RequiredSkill) {
			perfect++
		}
		if _, ok := distinct[a.OperatorID]; !ok {
			distinct[a.OperatorID] = map[string]bool{}
		}
		distinct[a.OperatorID][a.TaskID] = true
	}

	loads := lo.Map(p.operators, func(o *v1alpha1.Operator, _ int) float64 { return totals[o.ID] })
	heavyLoads := lo.Map(p.operators, func(o *v1alpha1.Operator, _ int) float64 { return heavies[o.ID] })

	obj := Objectives{}
	if len(loads) > 0 {
		obj.Fairness = stat.PopStdDev(loads, nil)
		obj.WorkloadBalance = lo.Max(loads) - lo.Min(loads)
		obj.HeavyFairness = stat.PopStdDev(heavyLoads, nil)
	}
	if scored > 0 {
		obj.SkillMatch = 100 * float64(perfect) / float64(scored)
	}
	if len(distinct) > 0 {
		sum := 0.0
		for _, tasks := range distinct {
			sum += float64(len(tasks))
		}
		obj.Variety = sum / float64(len(distinct))
	}
	return obj
}

// Candidate is one schedule the driver produced, with its objective
// vector and raw penalty.
type Candidate struct {
	Result     *Result    `json:"result"`
	Objectives Objectives `json:"objectives"`
	Penalty    float64    `json:"penalty"`
	Seed       int64      `json:"seed"`
}

// fulfilled reports full staffing: no understaffed or overstaffed
// warnings.
func (c *Candidate) fulfilled() bool {
	return !lo.SomeBy(c.Result.Warnings, func(w v1alpha1.Warning) bool {
		return w.Kind == v1alpha1.WarningUnderstaffed || w.Kind == v1alpha1.WarningOverstaffed
	})
}

// Candidates runs attempts seeded schedules, in parallel, and returns
// the Pareto front reduced to a diversity-maximising subset. Attempts
// share nothing but the read-only request.
func Candidates(ctx context.Context, req *Request, attempts int) ([]Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	baseSeed, _ := req.Rules.Default().Seed()

	ctx, cancel := context.WithTimeout(ctx, driverTimeBudget)
	defer cancel()

	var mu sync.Mutex
	candidates := make([]Candidate, 0, attempts)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < attempts; i++ {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			attempt := *req
			attempt.Rules = req.Rules
			attempt.Rules.SchedulingSeed = lo.ToPtr(seed)
			result, err := Schedule(ctx, &attempt)
			if err != nil {
				return err
			}
			p := newProblem(&attempt, seed)
			track := newTracker(p)
			for _, a := range result.Assignments {
				track.add(a)
			}
			c := Candidate{
				Result:     result,
				Objectives: computeObjectives(p, result.Assignments),
				Penalty:    penalty(p, track),
				Seed:       seed,
			}
			mu.Lock()
			candidates = append(candidates, c)
			mu.Unlock()
			if c.fulfilled() && c.Penalty < driverEarlyPenalty {
				// Good enough: stop launching further attempts.
				cancel()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && len(candidates) == 0 {
		return nil, err
	}
	// Deterministic order regardless of goroutine completion.
	candidates = lo.Filter(candidates, func(c Candidate, _ int) bool { return c.Result != nil })
	sortCandidates(candidates)

	front := paretoFront(candidates)
	return diversify(front, defaultDiversitySize), nil
}

func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Seed < candidates[j].Seed })
}

// paretoFront returns the non-dominated candidates.
func paretoFront(candidates []Candidate) []Candidate {
	return lo.Filter(candidates, func(c Candidate, i int) bool {
		for j, other := range candidates {
			if i == j {
				continue
			}
			if other.Objectives.dominates(c.Objectives) {
				return false
			}
		}
		return true
	})
}

// diversify selects up to size candidates by farthest-point selection in
// normalised objective space, seeded with the lowest-penalty candidate.
func diversify(front []Candidate, size int) []Candidate {
	if len(front) <= size {
		return front
	}
	vectors := normalise(lo.Map(front, func(c Candidate, _ int) []float64 { return c.Objectives.vector() }))

	best := 0
	for i, c := range front {
		if c.Penalty < front[best].Penalty {
			best = i
		}
	}
	selected := []int{best}
	for len(selected) < size {
		farthest, farthestDist := -1, -1.0
		for i := range front {
			if lo.Contains(selected, i) {
				continue
			}
			nearest := math.MaxFloat64
			for _, s := range selected {
				if d := euclidean(vectors[i], vectors[s]); d < nearest {
					nearest = d
				}
			}
			if nearest > farthestDist {
				farthest, farthestDist = i, nearest
			}
		}
		if farthest < 0 {
			break
		}
		selected = append(selected, farthest)
	}
	return lo.Map(selected, func(i int, _ int) Candidate { return front[i] })
}

// normalise rescales each axis to [0, 1] across the candidate set.
func normalise(vectors [][]float64) [][]float64 {
	if len(vectors) == 0 {
		return vectors
	}
	dims := len(vectors[0])
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	for d := 0; d < dims; d++ {
		mins[d], maxs[d] = math.MaxFloat64, -math.MaxFloat64
		for _, v := range vectors {
			mins[d] = math.Min(mins[d], v[d])
			maxs[d] = math.Max(maxs[d], v[d])
		}
	}
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = make([]float64, dims)
		for d := 0; d < dims; d++ {
			if span := maxs[d] - mins[d]; span > 0 {
				out[i][d] = (v[d] - mins[d]) / span
			}
		}
	}
	return out
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
