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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHopcroftKarpPerfectMatching(t *testing.T) {
	// 3x3 with a unique perfect matching: l0-r0, l1-r1, l2-r2.
	g := newBipartiteGraph(3, 3)
	g.addEdge(0, 0)
	g.addEdge(1, 0)
	g.addEdge(1, 1)
	g.addEdge(2, 1)
	g.addEdge(2, 2)

	matching := hopcroftKarp(g)
	assert.Len(t, matching, 3)
	assert.Equal(t, 0, matching[0])
	assert.Equal(t, 1, matching[1])
	assert.Equal(t, 2, matching[2])
}

func TestHopcroftKarpRequiresAugmentingPaths(t *testing.T) {
	// A greedy matcher that pairs l0-r1 first would strand l1; the
	// augmenting-path search must recover the size-2 matching.
	g := newBipartiteGraph(2, 2)
	g.addEdge(0, 0)
	g.addEdge(0, 1)
	g.addEdge(1, 1)

	matching := hopcroftKarp(g)
	assert.Len(t, matching, 2)
	assert.Equal(t, 0, matching[0])
	assert.Equal(t, 1, matching[1])
}

func TestHopcroftKarpPartialMatching(t *testing.T) {
	// Two left vertices compete for one right vertex.
	g := newBipartiteGraph(2, 1)
	g.addEdge(0, 0)
	g.addEdge(1, 0)

	matching := hopcroftKarp(g)
	assert.Len(t, matching, 1)
}

func TestHopcroftKarpDisconnectedVertices(t *testing.T) {
	g := newBipartiteGraph(3, 2)
	g.addEdge(0, 0)
	// l1 and l2 have no edges at all.

	matching := hopcroftKarp(g)
	assert.Len(t, matching, 1)
	_, ok := matching[1]
	assert.False(t, ok)
}

func TestHopcroftKarpEmptyGraph(t *testing.T) {
	assert.Empty(t, hopcroftKarp(newBipartiteGraph(0, 0)))
}

func TestHopcroftKarpMaximumOnLargerGraph(t *testing.T) {
	// Bipartite graph whose maximum matching is 4 of 5.
	g := newBipartiteGraph(5, 5)
	edges := [][2]int{
		{0, 0}, {0, 1},
		{1, 0},
		{2, 1}, {2, 2},
		{3, 2}, {3, 3},
		{4, 3},
	}
	for _, e := range edges {
		g.addEdge(e[0], e[1])
	}
	// r0 is the only option for l1 and r3 the only one for l4, which
	// pushes l0 to r1, l2 to r2 and l3 to r2/r3; one left vertex always
	// stays unmatched.
	matching := hopcroftKarp(g)
	assert.Len(t, matching, 4)
}
