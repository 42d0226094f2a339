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

package scheduling

import (
	"github.com/hashicorp/go-set/v2"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// Domains tracks, per operator per day, the set of task ids the operator
// may still take. Collapse and Clear push undo records onto a trail so the
// backtracker can roll a branch back without cloning the whole structure.
type Domains struct {
	week  *Week
	opIdx map[string]int
	sets  [][]*set.Set[string]
	trail []undo
}

type undo struct {
	op, day  int
	previous *set.Set[string]
}

// NewDomains builds an empty domain structure for the given operators
// and week. Every (operator, day) set starts empty; the propagator
// populates them.
func NewDomains(operatorIDs []string, week *Week) *Domains {
	d := &Domains{
		week:  week,
		opIdx: make(map[string]int, len(operatorIDs)),
		sets:  make([][]*set.Set[string], len(operatorIDs)),
	}
	for i, id := range operatorIDs {
		d.opIdx[id] = i
		d.sets[i] = make([]*set.Set[string], week.Len())
		for j := range d.sets[i] {
			d.sets[i][j] = set.New[string](0)
		}
	}
	return d
}

func (d *Domains) at(operatorID string, day v1alpha1.Day) (int, int, bool) {
	i, ok := d.opIdx[operatorID]
	if !ok {
		return 0, 0, false
	}
	j := d.week.Index(day)
	if j < 0 {
		return 0, 0, false
	}
	return i, j, true
}

// Admit adds a task to the operator's domain on a day.
func (d *Domains) Admit(operatorID string, day v1alpha1.Day, taskID string) {
	if i, j, ok := d.at(operatorID, day); ok {
		d.sets[i][j].Insert(taskID)
	}
}

// Contains reports whether the task is still in the operator's domain on
// the day.
func (d *Domains) Contains(operatorID string, day v1alpha1.Day, taskID string) bool {
	if i, j, ok := d.at(operatorID, day); ok {
		return d.sets[i][j].Contains(taskID)
	}
	return false
}

// Size returns the domain cardinality for an operator day.
func (d *Domains) Size(operatorID string, day v1alpha1.Day) int {
	if i, j, ok := d.at(operatorID, day); ok {
		return d.sets[i][j].Size()
	}
	return 0
}

// Tasks returns the task ids in the operator's domain on the day.
func (d *Domains) Tasks(operatorID string, day v1alpha1.Day) []string {
	if i, j, ok := d.at(operatorID, day); ok {
		return d.sets[i][j].Slice()
	}
	return nil
}

// Collapse reduces the operator's domain on the day to a single task,
// recording the previous set on the trail. Used for pinned and forced
// assignments.
func (d *Domains) Collapse(operatorID string, day v1alpha1.Day, taskID string) {
	if i, j, ok := d.at(operatorID, day); ok {
		d.trail = append(d.trail, undo{op: i, day: j, previous: d.sets[i][j]})
		d.sets[i][j] = set.From([]string{taskID})
	}
}

// Clear empties the operator's domain on the day, recording the previous
// set on the trail. Used once an operator is assigned for the day.
func (d *Domains) Clear(operatorID string, day v1alpha1.Day) {
	if i, j, ok := d.at(operatorID, day); ok {
		d.trail = append(d.trail, undo{op: i, day: j, previous: d.sets[i][j]})
		d.sets[i][j] = set.New[string](0)
	}
}

// Mark returns the current trail position for a later Undo.
func (d *Domains) Mark() int {
	return len(d.trail)
}

// Undo rolls the domain state back to a previous Mark.
func (d *Domains) Undo(mark int) {
	for len(d.trail) > mark {
		u := d.trail[len(d.trail)-1]
		d.trail = d.trail[:len(d.trail)-1]
		d.sets[u.op][u.day] = u.previous
	}
}
