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

package propagation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduler/propagation"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/scheduling"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/test"
)

func TestPropagation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Propagation")
}

func input(operators []v1alpha1.Operator, tasks []v1alpha1.Task, requirements []v1alpha1.TaskRequirement) propagation.Input {
	return propagation.Input{
		Operators: lo.Map(operators, func(o v1alpha1.Operator, _ int) *v1alpha1.Operator { return &o }),
		Tasks:     lo.Map(tasks, func(t v1alpha1.Task, _ int) *v1alpha1.Task { return &t }),
		Week:      scheduling.NewWeek(test.Workweek),
		Requirements: lo.SliceToMap(requirements, func(r v1alpha1.TaskRequirement) (string, *v1alpha1.TaskRequirement) {
			return r.TaskID, &r
		}),
	}
}

var _ = Describe("Domains", func() {
	It("should admit a task iff the operator is available and skilled", func() {
		alice := test.Operator(test.OperatorOptions{ID: "alice", Skills: []string{"X"}, Unavailable: []v1alpha1.Day{"Wednesday"}})
		sorting := test.Task(test.TaskOptions{ID: "sorting", Name: "Sorting", RequiredSkill: "X"})
		decant := test.Task(test.TaskOptions{ID: "decant", Name: "Decanting", RequiredSkill: "Y"})

		res := propagation.Propagate(input(
			[]v1alpha1.Operator{alice},
			[]v1alpha1.Task{sorting, decant},
			[]v1alpha1.TaskRequirement{test.Requirement("sorting", 1)},
		))
		// Nobody can take Wednesday's sorting seat, so the week is
		// infeasible; the domains are still reported.
		Expect(res.Feasible()).To(BeFalse())
		Expect(res.Domains.Contains("alice", "Monday", "sorting")).To(BeTrue())
		Expect(res.Domains.Contains("alice", "Monday", "decant")).To(BeFalse())
		Expect(res.Domains.Size("alice", "Wednesday")).To(BeZero())
	})
	It("should partition coordinator tasks away from regular operators", func() {
		reg := test.Operator(test.OperatorOptions{ID: "reg", Skills: []string{"Process", "X"}})
		coord := test.Operator(test.OperatorOptions{ID: "coord", Type: v1alpha1.OperatorTypeCoordinator, Skills: []string{"Process", "X"}})
		process := test.Task(test.TaskOptions{ID: "process", Name: "Process", RequiredSkill: "Process"})
		sorting := test.Task(test.TaskOptions{ID: "sorting", Name: "Sorting", RequiredSkill: "X"})

		res := propagation.Propagate(input(
			[]v1alpha1.Operator{reg, coord},
			[]v1alpha1.Task{process, sorting},
			[]v1alpha1.TaskRequirement{
				test.TypedRequirement("process", v1alpha1.TypeCount{Type: v1alpha1.OperatorTypeCoordinator, Count: 1}),
				test.Requirement("sorting", 1),
			},
		))
		Expect(res.Feasible()).To(BeTrue())
		Expect(res.Domains.Contains("reg", "Monday", "process")).To(BeFalse())
		Expect(res.Domains.Contains("reg", "Monday", "sorting")).To(BeTrue())
		Expect(res.Domains.Contains("coord", "Monday", "process")).To(BeTrue())
		Expect(res.Domains.Contains("coord", "Monday", "sorting")).To(BeFalse())
	})
	It("should collapse a pinned operator's domain to the pinned task", func() {
		alice := test.Operator(test.OperatorOptions{ID: "alice", Skills: []string{"X", "Y"}})
		bob := test.Operator(test.OperatorOptions{ID: "bob", Skills: []string{"X", "Y"}})
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})
		t2 := test.Task(test.TaskOptions{ID: "t2", Name: "Station Two", RequiredSkill: "Y"})

		in := input(
			[]v1alpha1.Operator{alice, bob},
			[]v1alpha1.Task{t1, t2},
			[]v1alpha1.TaskRequirement{test.Requirement("t1", 1), test.Requirement("t2", 1)},
		)
		in.Current = map[string]map[v1alpha1.Day]v1alpha1.CurrentAssignment{
			"alice": {"Monday": {TaskID: "t2", Pinned: true}},
		}
		res := propagation.Propagate(in)
		Expect(res.Feasible()).To(BeTrue())
		Expect(res.Domains.Tasks("alice", "Monday")).To(ConsistOf("t2"))
		Expect(res.Domains.Size("alice", "Tuesday")).To(Equal(2))
	})
})

var _ = Describe("Feasibility", func() {
	It("should prove infeasibility when too few operators are capable", func() {
		alice := test.Operator(test.OperatorOptions{ID: "alice", Name: "Alice", Skills: []string{"X"}})
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})

		res := propagation.Propagate(input(
			[]v1alpha1.Operator{alice},
			[]v1alpha1.Task{t1},
			[]v1alpha1.TaskRequirement{test.Requirement("t1", 2)},
		))
		Expect(res.Feasible()).To(BeFalse())
		messages := lo.Map(res.Reasons, func(r propagation.Reason, _ int) string { return r.Message() })
		Expect(messages).To(ContainElement(And(ContainSubstring("Station One"), ContainSubstring("Alice"))))
	})
	It("should let a Regular surplus cover a Flex shortfall", func() {
		ops := []v1alpha1.Operator{
			test.Operator(test.OperatorOptions{ID: "r1", Skills: []string{"X"}}),
			test.Operator(test.OperatorOptions{ID: "r2", Skills: []string{"X"}}),
		}
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})
		req := test.TypedRequirement("t1",
			v1alpha1.TypeCount{Type: v1alpha1.OperatorTypeRegular, Count: 1},
			v1alpha1.TypeCount{Type: v1alpha1.OperatorTypeFlex, Count: 1},
		)
		res := propagation.Propagate(input(ops, []v1alpha1.Task{t1}, []v1alpha1.TaskRequirement{req}))
		Expect(res.Feasible()).To(BeTrue())
	})
	It("should reject a Flex shortfall the Regular surplus cannot cover", func() {
		ops := []v1alpha1.Operator{
			test.Operator(test.OperatorOptions{ID: "r1", Skills: []string{"X"}}),
		}
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})
		req := test.TypedRequirement("t1",
			v1alpha1.TypeCount{Type: v1alpha1.OperatorTypeRegular, Count: 1},
			v1alpha1.TypeCount{Type: v1alpha1.OperatorTypeFlex, Count: 1},
		)
		res := propagation.Propagate(input(ops, []v1alpha1.Task{t1}, []v1alpha1.TaskRequirement{req}))
		Expect(res.Feasible()).To(BeFalse())
	})
	It("should reject a day whose demand exceeds the available headcount", func() {
		ops := []v1alpha1.Operator{
			test.Operator(test.OperatorOptions{ID: "o1", Skills: []string{"X", "Y"}}),
		}
		tasks := []v1alpha1.Task{
			test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"}),
			test.Task(test.TaskOptions{ID: "t2", Name: "Station Two", RequiredSkill: "Y"}),
		}
		res := propagation.Propagate(input(ops, tasks, []v1alpha1.TaskRequirement{
			test.Requirement("t1", 1),
			test.Requirement("t2", 1),
		}))
		Expect(res.Feasible()).To(BeFalse())
	})
})

var _ = Describe("Forced assignments", func() {
	It("should force unique candidates onto their only task", func() {
		alice := test.Operator(test.OperatorOptions{ID: "alice", Skills: []string{"X"}})
		bob := test.Operator(test.OperatorOptions{ID: "bob", Skills: []string{"Y"}})
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})
		t2 := test.Task(test.TaskOptions{ID: "t2", Name: "Station Two", RequiredSkill: "Y"})

		res := propagation.Propagate(input(
			[]v1alpha1.Operator{alice, bob},
			[]v1alpha1.Task{t1, t2},
			[]v1alpha1.TaskRequirement{test.Requirement("t1", 1), test.Requirement("t2", 1)},
		))
		Expect(res.Feasible()).To(BeTrue())
		Expect(res.Forced).To(HaveLen(10))
		for _, day := range test.Workweek {
			Expect(res.Forced).To(ContainElement(v1alpha1.Assignment{Day: day, OperatorID: "alice", TaskID: "t1"}))
			Expect(res.Forced).To(ContainElement(v1alpha1.Assignment{Day: day, OperatorID: "bob", TaskID: "t2"}))
		}
		Expect(res.Slots).To(BeEmpty())
		Expect(res.Domains.Tasks("alice", "Monday")).To(ConsistOf("t1"))
	})
	It("should chain forcing once earlier forced operators are taken", func() {
		ops := []v1alpha1.Operator{
			test.Operator(test.OperatorOptions{ID: "only-x", Skills: []string{"X"}}),
			test.Operator(test.OperatorOptions{ID: "both-1", Skills: []string{"X", "Y"}}),
			test.Operator(test.OperatorOptions{ID: "both-2", Skills: []string{"X", "Y"}}),
		}
		t1 := test.Task(test.TaskOptions{ID: "t1", Name: "Station One", RequiredSkill: "X"})
		t2 := test.Task(test.TaskOptions{ID: "t2", Name: "Station Two", RequiredSkill: "Y"})

		res := propagation.Propagate(input(ops, []v1alpha1.Task{t1, t2}, []v1alpha1.TaskRequirement{
			test.Requirement("t1", 1),
			test.Requirement("t2", 2),
		}))
		Expect(res.Feasible()).To(BeTrue())
		// t2 forces both-1 and both-2, which leaves only-x as the unique
		// candidate for t1.
		for _, day := range test.Workweek {
			Expect(res.Forced).To(ContainElement(v1alpha1.Assignment{Day: day, OperatorID: "only-x", TaskID: "t1"}))
		}
		Expect(res.Slots).To(BeEmpty())
	})
})
