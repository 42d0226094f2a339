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

// Package test provides fixture builders for scheduler tests.
package test

import (
	"fmt"

	"github.com/Pallinder/go-randomdata"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
)

// Workweek is the default five-day week used across the tests.
var Workweek = []v1alpha1.Day{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// OperatorOptions customises a generated operator; zero values fall back
// to sensible defaults.
type OperatorOptions struct {
	ID             string
	Name           string
	Type           v1alpha1.OperatorType
	Status         v1alpha1.OperatorStatus
	Skills         []string
	Unavailable    []v1alpha1.Day
	PreferredTasks []string
	Archived       bool
}

// Operator generates a schedulable operator available all week.
func Operator(overrides ...OperatorOptions) v1alpha1.Operator {
	opts := firstOrZero(overrides)
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Name == "" {
		opts.Name = randomdata.FullName(randomdata.RandomGender)
	}
	if opts.Type == "" {
		opts.Type = v1alpha1.OperatorTypeRegular
	}
	if opts.Status == "" {
		opts.Status = v1alpha1.OperatorStatusActive
	}
	availability := map[v1alpha1.Day]bool{}
	for _, day := range Workweek {
		availability[day] = !lo.Contains(opts.Unavailable, day)
	}
	return v1alpha1.Operator{
		ID:             opts.ID,
		Name:           opts.Name,
		Type:           opts.Type,
		Status:         opts.Status,
		Skills:         opts.Skills,
		Availability:   availability,
		PreferredTasks: opts.PreferredTasks,
		Archived:       opts.Archived,
	}
}

// TaskOptions customises a generated task.
type TaskOptions struct {
	ID            string
	Name          string
	RequiredSkill string
	Heavy         bool
}

// Task generates a task; the required skill defaults to the task name.
func Task(overrides ...TaskOptions) v1alpha1.Task {
	opts := firstOrZero(overrides)
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("station-%s", randomdata.Noun())
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.RequiredSkill == "" {
		opts.RequiredSkill = opts.Name
	}
	return v1alpha1.Task{
		ID:            opts.ID,
		Name:          opts.Name,
		RequiredSkill: opts.RequiredSkill,
		Heavy:         opts.Heavy,
	}
}

// Requirement builds an enabled requirement demanding count Regular
// operators every day.
func Requirement(taskID string, count int) v1alpha1.TaskRequirement {
	return v1alpha1.TaskRequirement{
		TaskID:  taskID,
		Enabled: true,
		DefaultRequirements: []v1alpha1.TypeCount{
			{Type: v1alpha1.OperatorTypeRegular, Count: count},
		},
	}
}

// TypedRequirement builds an enabled requirement with an explicit
// per-type demand applied every day.
func TypedRequirement(taskID string, counts ...v1alpha1.TypeCount) v1alpha1.TaskRequirement {
	return v1alpha1.TaskRequirement{
		TaskID:              taskID,
		Enabled:             true,
		DefaultRequirements: counts,
	}
}

func firstOrZero[T any](overrides []T) T {
	var zero T
	if len(overrides) > 0 {
		return overrides[0]
	}
	return zero
}
