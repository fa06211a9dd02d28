// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "sort"

// Adjacency rebuilds the neighbour relation from the current spring list in
// O(nodes + springs). Every existing node gets an entry, isolated nodes map to
// an empty set.
func (o *Structure) Adjacency() map[int]map[int]bool {
	adj := make(map[int]map[int]bool, len(o.Nodes))
	for id := range o.Nodes {
		adj[id] = make(map[int]bool)
	}
	for _, s := range o.Springs {
		adj[s.I][s.J] = true
		adj[s.J][s.I] = true
	}
	return adj
}

// Degree returns the number of springs incident to node id (0 if absent)
func (o *Structure) Degree(id int) (d int) {
	for _, s := range o.Springs {
		if s.I == id || s.J == id {
			d++
		}
	}
	return
}

// ConnectedComponents finds the components of the structure by breadth-first
// traversal over the adjacency relation. Each component is sorted ascending
// and components are ordered by their smallest id, so the output is
// deterministic.
func (o *Structure) ConnectedComponents() (comps [][]int) {
	adj := o.Adjacency()
	seen := make(map[int]bool, len(o.Nodes))
	for _, start := range o.SortedIds() {
		if seen[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for nb := range adj[cur] {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return
}
