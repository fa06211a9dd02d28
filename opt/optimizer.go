// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opt implements the topology optimizer: a strictly sequential
// solve => score => prune loop that removes low-importance nodes from a spring
// structure until a target mass is reached, the structure cannot be reduced
// further, or it becomes mechanically unstable.
package opt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ArturMCI/feder/fem"
	"github.com/ArturMCI/feder/model"
)

// ErrInvalidConfig indicates out-of-range optimizer parameters
var ErrInvalidConfig = errors.New("opt: invalid configuration")

// State is the terminal condition of an optimization run
type State int

const (
	Running   State = iota // loop in progress
	Converged              // target mass reached
	Stalled                // no removable node left (or iteration cap hit)
	Failed                 // solver reported an unstable structure
)

// String implements fmt.Stringer
func (o State) String() string {
	switch o {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Stalled:
		return "stalled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(o))
}

// ProgressFn observes the loop once per iteration. It must not mutate the
// structure; any snapshot kept for later display must be a Clone.
type ProgressFn func(iteration int, mass, target float64, nodes int)

// Config holds optimizer parameters
type Config struct {
	TargetMassFraction float64    // fraction of the initial mass to reach; must be in (0,1)
	BatchSize          int        // max removals per iteration (default 1)
	MaxIterations      int        // safety cap; hitting it reports Stalled (default 10000)
	CascadeDeadEnds    bool       // prune dead ends transitively within one iteration
	MinDegree          int        // non-protected nodes below this degree are pruned (default 2)
	MaxEnergyFactor    float64    // reject removals raising total energy beyond this factor; <= 0 disables
	MaxDispFactor      float64    // reject removals raising max displacement beyond this factor; <= 0 disables
	Solver             fem.Config // equilibrium solver parameters
	Progress           ProgressFn // optional observer
}

// DefaultConfig returns the default optimizer parameters
func DefaultConfig() Config {
	return Config{
		TargetMassFraction: 0.5,
		BatchSize:          1,
		MaxIterations:      10000,
		CascadeDeadEnds:    true,
		MinDegree:          2,
		MaxEnergyFactor:    1.5,
		MaxDispFactor:      1.5,
		Solver:             fem.DefaultConfig(),
	}
}

// Result reports the outcome of a run. Structure aliases the input structure,
// which is mutated in place across iterations.
type Result struct {
	Structure  *model.Structure
	State      State
	Iterations int     // completed iterations
	Mass       float64 // final mass
	Target     float64 // absolute target mass
	Removed    []int   // removed node ids in removal order
}

// Run reduces s until its mass drops to TargetMassFraction of the initial
// mass. Nodes carrying supports or loads are protected and never removed; a
// removal that would disconnect the structure or strand a protected node is
// skipped. Invalid caller input is reported as an error before any iteration;
// Stalled and Failed are terminal outcomes, not errors, and the structure held
// by the result is the best one reached.
func Run(s *model.Structure, cfg Config) (*Result, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 10000
	}
	if cfg.MinDegree == 0 {
		cfg.MinDegree = 2
	}
	if cfg.TargetMassFraction <= 0 || cfg.TargetMassFraction >= 1 {
		return nil, fmt.Errorf("%w: target mass fraction must be in (0,1), got %v", ErrInvalidConfig, cfg.TargetMassFraction)
	}
	if cfg.BatchSize < 0 || cfg.MinDegree < 1 {
		return nil, fmt.Errorf("%w: batch size %d, min degree %d", ErrInvalidConfig, cfg.BatchSize, cfg.MinDegree)
	}

	protected := protectedNodes(s)
	res := &Result{
		Structure: s,
		State:     Running,
		Mass:      s.Mass(),
	}
	res.Target = cfg.TargetMassFraction * res.Mass

	for it := 0; it < cfg.MaxIterations; it++ {
		sol, err := fem.Solve(s, cfg.Solver)
		if err != nil {
			if errors.Is(err, fem.ErrUnstableStructure) {
				// no removal from this iteration was attempted: s still holds
				// the last stable state
				res.State = Failed
				res.Mass = s.Mass()
				return res, nil
			}
			return nil, err
		}

		scores := nodeScores(s, sol)
		candidates := rank(s, scores, protected) // materialized before any mutation

		removals := 0
		for _, id := range candidates {
			if removals >= cfg.BatchSize {
				break
			}
			if _, ok := s.Nodes[id]; !ok {
				continue // already gone via dead-end pruning
			}
			batch, ok := tryRemove(s, id, protected, cfg, sol)
			if !ok {
				continue
			}
			for _, rid := range batch {
				if err := s.RemoveNode(rid); err != nil {
					return nil, err
				}
			}
			res.Removed = append(res.Removed, batch...)
			removals++
		}

		res.Iterations = it + 1
		res.Mass = s.Mass()
		if cfg.Progress != nil {
			cfg.Progress(it, res.Mass, res.Target, s.NodeCount())
		}
		if res.Mass <= res.Target {
			res.State = Converged
			return res, nil
		}
		if removals == 0 {
			res.State = Stalled
			return res, nil
		}
	}

	res.State = Stalled // iteration cap
	return res, nil
}

// scoring ///////////////////////////////////////////////////////////////////////////////////////

// protectedNodes collects the nodes that must never be removed: supports and
// load application points
func protectedNodes(s *model.Structure) map[int]bool {
	p := make(map[int]bool)
	for id, n := range s.Nodes {
		if n.FixX || n.FixZ || n.Fx != 0 || n.Fz != 0 {
			p[id] = true
		}
	}
	return p
}

// nodeScores rates each node by the strain energy of its incident springs,
// half of each spring's energy going to each endpoint
func nodeScores(s *model.Structure, sol *fem.Solution) map[int]float64 {
	scores := make(map[int]float64, len(s.Nodes))
	for id := range s.Nodes {
		scores[id] = 0
	}
	for idx, sp := range s.Springs {
		e := sol.SpringEnergy[idx]
		scores[sp.I] += 0.5 * e
		scores[sp.J] += 0.5 * e
	}
	return scores
}

// rank returns the non-protected node ids ascending by score, ties broken by
// ascending id for reproducibility
func rank(s *model.Structure, scores map[int]float64, protected map[int]bool) []int {
	ids := make([]int, 0, len(s.Nodes))
	for _, id := range s.SortedIds() {
		if !protected[id] {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(a, b int) bool {
		sa, sb := scores[ids[a]], scores[ids[b]]
		if sa != sb {
			return sa < sb
		}
		return ids[a] < ids[b]
	})
	return ids
}
