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
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// Request is the full input of one scheduling call. All fields are
// treated as immutable for the duration of the call.
type Request struct {
	Operators     []v1alpha1.Operator        `json:"operators"`
	Tasks         []v1alpha1.Task            `json:"tasks"`
	Days          []v1alpha1.Day             `json:"days"`
	Requirements  []v1alpha1.TaskRequirement `json:"requirements"`
	ExcludedTasks []string                   `json:"excludedTasks,omitempty"`
	// Current maps operator id to day to a pre-existing placement.
	Current map[string]map[v1alpha1.Day]v1alpha1.CurrentAssignment `json:"current,omitempty"`
	Rules   v1alpha1.Rules                                         `json:"rules"`
}

// Validate checks the request's structural integrity. It does not judge
// feasibility; that is the propagator's job.
func (r *Request) Validate() error {
	var errs error
	if len(r.Days) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("request declares no workdays"))
	}
	if dupes := lo.FindDuplicates(r.Days); len(dupes) > 0 {
		errs = multierr.Append(errs, fmt.Errorf("duplicate workday labels %v", dupes))
	}
	if dupes := lo.FindDuplicatesBy(r.Operators, func(o v1alpha1.Operator) string { return o.ID }); len(dupes) > 0 {
		errs = multierr.Append(errs, fmt.Errorf("duplicate operator ids"))
	}
	if dupes := lo.FindDuplicatesBy(r.Tasks, func(t v1alpha1.Task) string { return t.ID }); len(dupes) > 0 {
		errs = multierr.Append(errs, fmt.Errorf("duplicate task ids"))
	}
	if err := r.Rules.Validate(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Result is the output of one scheduling call: the assignment list plus
// every warning the pipeline produced.
type Result struct {
	Assignments []v1alpha1.Assignment `json:"assignments"`
	Warnings    []v1alpha1.Warning    `json:"warnings"`
}

// Excluded reports whether a task name is on the request's exclusion
// list, compared case insensitively.
func (r *Request) Excluded(taskName string) bool {
	return lo.SomeBy(r.ExcludedTasks, func(n string) bool { return strings.EqualFold(n, taskName) })
}
