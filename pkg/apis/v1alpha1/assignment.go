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

// Assignment places one operator on one task for one day. For any
// (operator, day) pair at most one Assignment exists in a valid schedule.
type Assignment struct {
	Day        Day    `json:"day"`
	OperatorID string `json:"operatorId"`
	TaskID     string `json:"taskId"`
}

// CurrentAssignment is a pre-existing placement supplied with the
// request. Pinned and locked assignments are both preserved verbatim by
// the scheduler; Locked additionally blocks outer edits, which is not
// the scheduler's concern.
type CurrentAssignment struct {
	TaskID string `json:"taskId"`
	Locked bool   `json:"locked,omitempty"`
	Pinned bool   `json:"pinned,omitempty"`
}

// Fixed reports whether the placement must survive scheduling unchanged.
func (c CurrentAssignment) Fixed() bool {
	return c.Locked || c.Pinned
}
