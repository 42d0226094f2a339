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

package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
)

var week = []v1alpha1.Day{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func TestWeekOrdering(t *testing.T) {
	w := scheduling.NewWeek(week)
	assert.Equal(t, 5, w.Len())
	assert.Equal(t, 0, w.Index("Monday"))
	assert.Equal(t, 4, w.Index("Friday"))
	assert.Equal(t, -1, w.Index("Saturday"))

	prev, ok := w.Prev("Tuesday")
	require.True(t, ok)
	assert.Equal(t, v1alpha1.Day("Monday"), prev)

	_, ok = w.Prev("Monday")
	assert.False(t, ok)
}

func TestTierClassification(t *testing.T) {
	cases := []struct {
		name string
		want scheduling.Tier
	}{
		{name: "Sorting", want: scheduling.TierCritical},
		{name: "Exceptions", want: scheduling.TierConditional},
		{name: "filler", want: scheduling.TierConditional},
		{name: "Decanting", want: scheduling.TierFallback},
		{name: "DECANTING", want: scheduling.TierFallback},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scheduling.TierOf(tc.name), tc.name)
	}
}

func TestDomainsAdmitAndClear(t *testing.T) {
	w := scheduling.NewWeek(week)
	d := scheduling.NewDomains([]string{"o1", "o2"}, w)

	d.Admit("o1", "Monday", "t1")
	d.Admit("o1", "Monday", "t2")
	assert.True(t, d.Contains("o1", "Monday", "t1"))
	assert.Equal(t, 2, d.Size("o1", "Monday"))
	assert.Equal(t, 0, d.Size("o2", "Monday"))

	d.Clear("o1", "Monday")
	assert.Equal(t, 0, d.Size("o1", "Monday"))
}

func TestDomainsCollapse(t *testing.T) {
	w := scheduling.NewWeek(week)
	d := scheduling.NewDomains([]string{"o1"}, w)
	d.Admit("o1", "Monday", "t1")
	d.Admit("o1", "Monday", "t2")

	d.Collapse("o1", "Monday", "t2")
	assert.Equal(t, 1, d.Size("o1", "Monday"))
	assert.True(t, d.Contains("o1", "Monday", "t2"))
	assert.False(t, d.Contains("o1", "Monday", "t1"))
}

func TestDomainsUndoTrail(t *testing.T) {
	w := scheduling.NewWeek(week)
	d := scheduling.NewDomains([]string{"o1"}, w)
	d.Admit("o1", "Monday", "t1")
	d.Admit("o1", "Monday", "t2")

	mark := d.Mark()
	d.Collapse("o1", "Monday", "t1")
	d.Clear("o1", "Tuesday")
	assert.Equal(t, 1, d.Size("o1", "Monday"))

	d.Undo(mark)
	assert.Equal(t, 2, d.Size("o1", "Monday"))
	assert.True(t, d.Contains("o1", "Monday", "t2"))
}

func TestDomainsUnknownKeysAreEmpty(t *testing.T) {
	w := scheduling.NewWeek(week)
	d := scheduling.NewDomains([]string{"o1"}, w)
	assert.Equal(t, 0, d.Size("ghost", "Monday"))
	assert.False(t, d.Contains("o1", "Saturday", "t1"))
	assert.Nil(t, d.Tasks("ghost", "Monday"))
}

func TestSlotTypeAdmission(t *testing.T) {
	slot := &scheduling.Slot{
		Day:      "Monday",
		Task:     &v1alpha1.Task{ID: "t1", Name: "Sorting"},
		Required: 2,
		Types: []v1alpha1.TypeCount{
			{Type: v1alpha1.OperatorTypeRegular, Count: 2},
		},
	}
	assert.True(t, slot.AdmitsType(v1alpha1.OperatorTypeRegular))
	assert.False(t, slot.AdmitsType(v1alpha1.OperatorTypeFlex))

	untyped := &scheduling.Slot{Day: "Monday", Task: &v1alpha1.Task{ID: "t2"}, Required: 1}
	assert.True(t, untyped.AdmitsType(v1alpha1.OperatorTypeFlex))
}
