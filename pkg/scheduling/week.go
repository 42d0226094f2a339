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

// Package scheduling provides the pure primitives the solvers are built
// from: the workweek, task tiers, constraint slots and operator domains.
package scheduling

import (
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// Week is the ordered list of workday labels for one scheduling call.
// Day ordering everywhere in the core is the ordering of this list.
type Week struct {
	days  []v1alpha1.Day
	index map[v1alpha1.Day]int
}

func NewWeek(days []v1alpha1.Day) *Week {
	index := make(map[v1alpha1.Day]int, len(days))
	for i, d := range days {
		index[d] = i
	}
	return &Week{days: days, index: index}
}

// Days returns the ordered day labels.
func (w *Week) Days() []v1alpha1.Day {
	return w.days
}

// Len returns the number of workdays.
func (w *Week) Len() int {
	return len(w.days)
}

// Index returns the position of the day in the week, or -1 for a day the
// request never declared.
func (w *Week) Index(d v1alpha1.Day) int {
	if i, ok := w.index[d]; ok {
		return i
	}
	return -1
}

// Prev returns the workday immediately before d, if d is not the first.
func (w *Week) Prev(d v1alpha1.Day) (v1alpha1.Day, bool) {
	i := w.Index(d)
	if i <= 0 {
		return "", false
	}
	return w.days[i-1], true
}
