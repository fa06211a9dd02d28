// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"github.com/ArturMCI/feder/fem"
	"github.com/ArturMCI/feder/model"
)

// tryRemove validates the removal of node id on a trial copy. It returns the
// full list of node ids to remove (the candidate plus pruned dead ends) and
// whether the removal is safe. Safe means: the remaining structure stays a
// single connected component containing every protected node, keeps at least
// one free degree of freedom, still solves, and does not degrade beyond the
// configured quality factors relative to the current solution.
func tryRemove(s *model.Structure, id int, protected map[int]bool, cfg Config, base *fem.Solution) ([]int, bool) {
	trial := s.Clone()
	if err := trial.RemoveNode(id); err != nil {
		return nil, false
	}
	batch := append([]int{id}, pruneDeadEnds(trial, protected, cfg.MinDegree, cfg.CascadeDeadEnds)...)
	if !connectivityOK(trial, protected) {
		return nil, false
	}
	if !hasFreeDof(trial) {
		return nil, false
	}

	// the reduced structure must still carry the load
	sol, err := fem.Solve(trial, cfg.Solver)
	if err != nil {
		return nil, false
	}
	if cfg.MaxEnergyFactor > 0 && sol.TotalEnergy > base.TotalEnergy*cfg.MaxEnergyFactor {
		return nil, false
	}
	if cfg.MaxDispFactor > 0 && sol.MaxDisplacement() > base.MaxDisplacement()*cfg.MaxDispFactor {
		return nil, false
	}
	return batch, true
}

// pruneDeadEnds removes non-protected nodes whose degree dropped below
// minDegree. A node hanging on a single spring cannot resist load usefully
// and only adds mass. With cascade true the pass repeats until no dead end is
// left; otherwise only one level is pruned and deeper dead ends wait for the
// next iteration's re-scoring.
func pruneDeadEnds(s *model.Structure, protected map[int]bool, minDegree int, cascade bool) (removed []int) {
	for {
		adj := s.Adjacency()
		var batch []int
		for _, id := range s.SortedIds() {
			if protected[id] {
				continue
			}
			if len(adj[id]) < minDegree {
				batch = append(batch, id)
			}
		}
		if len(batch) == 0 {
			return
		}
		for _, id := range batch {
			s.RemoveNode(id)
			removed = append(removed, id)
		}
		if !cascade {
			return
		}
	}
}

// connectivityOK reports whether the structure forms a single connected
// component; protected nodes are never pruned, so a single component
// necessarily contains all supports and loads
func connectivityOK(s *model.Structure, protected map[int]bool) bool {
	for id := range protected {
		if _, ok := s.Nodes[id]; !ok {
			return false
		}
	}
	return len(s.ConnectedComponents()) == 1
}

// hasFreeDof reports whether at least one displacement axis remains
// unconstrained somewhere in the structure
func hasFreeDof(s *model.Structure) bool {
	for _, n := range s.Nodes {
		if !n.FixX || !n.FixZ {
			return true
		}
	}
	return false
}
