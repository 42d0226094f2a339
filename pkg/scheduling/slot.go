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
	"fmt"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// Slot is one (day, task) staffing demand produced by the propagator. A
// slot with Required = k needs k distinct operators that day.
type Slot struct {
	Day      v1alpha1.Day
	Task     *v1alpha1.Task
	Required int
	// Types is the per-type demand in force for the day; empty means the
	// demand is type-agnostic.
	Types []v1alpha1.TypeCount
	Tier  Tier
}

// Key identifies the slot within one scheduling call.
func (s *Slot) Key() string {
	return fmt.Sprintf("%s/%s", s.Day, s.Task.ID)
}

// TypeDemand returns the demand for one operator type, and whether the
// slot constrains types at all.
func (s *Slot) TypeDemand(t v1alpha1.OperatorType) (int, bool) {
	if len(s.Types) == 0 {
		return 0, false
	}
	return v1alpha1.CountFor(s.Types, t), true
}

// AdmitsType reports whether an operator of the given type may fill the
// slot. Slots without type demands admit everyone.
func (s *Slot) AdmitsType(t v1alpha1.OperatorType) bool {
	demand, constrained := s.TypeDemand(t)
	return !constrained || demand > 0
}
