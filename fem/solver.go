// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem solves the static equilibrium of planar spring structures. It
// assembles the global stiffness matrix from 2-node axial elements, eliminates
// the constrained degrees of freedom, solves the reduced linear system and
// computes per-spring strain energies. The solver never mutates the structure.
package fem

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/ArturMCI/feder/model"
)

var (
	// ErrDegenerateSpring indicates a spring whose endpoints coincide
	ErrDegenerateSpring = errors.New("fem: degenerate spring (coincident nodes)")

	// ErrInvalidBoundaryConditions indicates a structure without any support
	// or without any free degree of freedom
	ErrInvalidBoundaryConditions = errors.New("fem: invalid boundary conditions")

	// ErrUnstableStructure indicates a singular or ill-conditioned stiffness
	// matrix that regularization could not fix
	ErrUnstableStructure = errors.New("fem: unstable structure (singular stiffness matrix)")
)

// Config holds solver parameters. The zero value selects defaults.
type Config struct {
	SparseThreshold int     // node count at/above which the sparse (UMFPACK) path is used
	RegEps          float64 // diagonal regularization added on the retry pass
	ResidTol        float64 // relative residual tolerance accepting a solution of K·u = F
}

// DefaultConfig returns the default solver parameters
func DefaultConfig() Config {
	return Config{SparseThreshold: 200, RegEps: 1e-9, ResidTol: 1e-8}
}

func (o *Config) withDefaults() Config {
	c := *o
	d := DefaultConfig()
	if c.SparseThreshold == 0 {
		c.SparseThreshold = d.SparseThreshold
	}
	if c.RegEps == 0 {
		c.RegEps = d.RegEps
	}
	if c.ResidTol == 0 {
		c.ResidTol = d.ResidTol
	}
	return c
}

// Solution holds the results of one equilibrium solve
type Solution struct {
	U            map[int][2]float64 // node id => (ux, uz); zero at constrained dofs
	SpringEnergy []float64          // strain energy per spring, aligned with Structure.Springs
	TotalEnergy  float64            // sum of spring energies
	Free         int                // number of free degrees of freedom
	Sparse       bool               // whether the sparse path was taken
}

// MaxDisplacement returns the largest nodal displacement magnitude
func (o *Solution) MaxDisplacement() (m float64) {
	for _, u := range o.U {
		if d := math.Hypot(u[0], u[1]); d > m {
			m = d
		}
	}
	return
}

// Solve computes the nodal displacement field of s under its supports and
// point loads, plus the strain energy stored in each spring. s is not
// modified. The reduced system is solved densely below cfg.SparseThreshold
// nodes and via a sparse direct solver above it; a singular system is retried
// once with diagonal regularization before ErrUnstableStructure is reported.
func Solve(s *model.Structure, cfg Config) (*Solution, error) {
	cfg = cfg.withDefaults()
	sys, err := assemble(s)
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		U:      make(map[int][2]float64, len(s.Nodes)),
		Free:   len(sys.free),
		Sparse: s.NodeCount() >= cfg.SparseThreshold,
	}

	// an unloaded structure does not deform
	var u la.Vector
	if maxAbs(sys.f) == 0 {
		u = la.NewVector(len(sys.free))
	} else {
		if len(s.Springs) == 0 {
			return nil, fmt.Errorf("%w: loaded free node without any spring", ErrUnstableStructure)
		}
		u, err = sys.solve(sol.Sparse, cfg)
		if err != nil {
			return nil, err
		}
	}

	// reassemble full displacement field (zero at fixed dofs)
	for _, id := range sys.ids {
		p := sys.pos[id]
		var d [2]float64
		for axis := 0; axis < 2; axis++ {
			if fi := sys.dof2free[2*p+axis]; fi >= 0 {
				d[axis] = u[fi]
			}
		}
		sol.U[id] = d
	}

	// strain energies
	sol.SpringEnergy = make([]float64, len(s.Springs))
	for idx, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		dx := nj.X - ni.X
		dz := nj.Z - ni.Z
		l := math.Hypot(dx, dz)
		c, sn := dx/l, dz/l
		ui := sol.U[sp.I]
		uj := sol.U[sp.J]
		delta := c*(uj[0]-ui[0]) + sn*(uj[1]-ui[1]) // elongation along the axis
		e := 0.5 * sp.K * delta * delta
		sol.SpringEnergy[idx] = e
		sol.TotalEnergy += e
	}
	return sol, nil
}

// assembly //////////////////////////////////////////////////////////////////////////////////////

// kentry is one coefficient of the reduced stiffness matrix, kept alongside
// the triplet so that residuals are checked against the unregularized system
type kentry struct {
	i, j int
	v    float64
}

type system struct {
	ids      []int       // node ids, ascending
	pos      map[int]int // id => node slot
	free     []int       // free index => global dof (2*slot + axis)
	dof2free []int       // global dof => free index or -1
	kk       *la.Triplet // reduced stiffness matrix
	entries  []kentry    // reduced stiffness coefficients (pre-regularization)
	f        la.Vector   // reduced load vector
}

// assemble numbers the free degrees of freedom and builds the reduced
// stiffness matrix and load vector. Constrained dofs are eliminated, which is
// exact for homogeneous supports.
func assemble(s *model.Structure) (*system, error) {
	o := &system{
		ids: s.SortedIds(),
		pos: make(map[int]int, len(s.Nodes)),
	}
	for p, id := range o.ids {
		o.pos[id] = p
	}

	// number free dofs
	o.dof2free = make([]int, 2*len(o.ids))
	nfixed := 0
	for p, id := range o.ids {
		n := s.Nodes[id]
		for axis, fixed := range [2]bool{n.FixX, n.FixZ} {
			dof := 2*p + axis
			if fixed {
				o.dof2free[dof] = -1
				nfixed++
			} else {
				o.dof2free[dof] = len(o.free)
				o.free = append(o.free, dof)
			}
		}
	}
	if nfixed == 0 {
		return nil, fmt.Errorf("%w: structure has no support", ErrInvalidBoundaryConditions)
	}
	if len(o.free) == 0 {
		return nil, fmt.Errorf("%w: structure has no free degree of freedom", ErrInvalidBoundaryConditions)
	}

	// load vector
	o.f = la.NewVector(len(o.free))
	for p, id := range o.ids {
		n := s.Nodes[id]
		if fi := o.dof2free[2*p]; fi >= 0 {
			o.f[fi] += n.Fx
		}
		if fi := o.dof2free[2*p+1]; fi >= 0 {
			o.f[fi] += n.Fz
		}
	}

	// stiffness: per spring, the 4x4 block k·(d⊗d) with +(i,i) +(j,j) -(i,j) -(j,i)
	o.kk = la.NewTriplet(len(o.free), len(o.free), 16*len(s.Springs)+len(o.free))
	for _, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		dx := nj.X - ni.X
		dz := nj.Z - ni.Z
		l := math.Hypot(dx, dz)
		if l == 0 {
			return nil, fmt.Errorf("%w: spring (%d,%d)", ErrDegenerateSpring, sp.I, sp.J)
		}
		c, sn := dx/l, dz/l
		d := [2]float64{c, sn}
		pi := o.pos[sp.I]
		pj := o.pos[sp.J]
		gdofs := [4]int{2 * pi, 2*pi + 1, 2 * pj, 2*pj + 1}
		for a := 0; a < 4; a++ {
			ra := o.dof2free[gdofs[a]]
			if ra < 0 {
				continue
			}
			for b := 0; b < 4; b++ {
				rb := o.dof2free[gdofs[b]]
				if rb < 0 {
					continue
				}
				sign := 1.0
				if (a < 2) != (b < 2) { // cross blocks (i,j) and (j,i)
					sign = -1.0
				}
				v := sign * sp.K * d[a%2] * d[b%2]
				o.kk.Put(ra, rb, v)
				o.entries = append(o.entries, kentry{ra, rb, v})
			}
		}
	}
	return o, nil
}

// linear solve //////////////////////////////////////////////////////////////////////////////////

// solve runs the direct solver on the reduced system, retrying once with a
// small diagonal regularization if the first pass fails or leaves a residual
// above cfg.ResidTol
func (o *system) solve(sparse bool, cfg Config) (la.Vector, error) {
	u, err := o.run(sparse)
	if err == nil && o.acceptable(u, cfg.ResidTol) {
		return u, nil
	}
	for i := 0; i < len(o.free); i++ {
		o.kk.Put(i, i, cfg.RegEps)
	}
	u, err = o.run(sparse)
	if err != nil {
		return nil, err
	}
	if !o.acceptable(u, cfg.ResidTol) {
		return nil, fmt.Errorf("%w: residual above tolerance after regularization", ErrUnstableStructure)
	}
	return u, nil
}

// run performs one direct solve, converting solver panics (LAPACK/UMFPACK
// singularity signals) into ErrUnstableStructure
func (o *system) run(sparse bool) (u la.Vector, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: linear solver failed: %v", ErrUnstableStructure, r)
		}
	}()
	if sparse {
		u = la.SpSolve(o.kk, o.f)
		return
	}
	u = la.NewVector(len(o.free))
	la.DenSolve(u, o.kk.ToDense(), o.f, false)
	return
}

// acceptable checks the solution for NaN/Inf and verifies the residual of the
// unregularized system: max|K·u - F| <= tol * max(1, max|F|)
func (o *system) acceptable(u la.Vector, tol float64) bool {
	for _, v := range u {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	r := la.NewVector(len(o.free))
	for _, e := range o.entries {
		r[e.i] += e.v * u[e.j]
	}
	for i, v := range o.f {
		r[i] -= v
	}
	ref := maxAbs(o.f)
	if ref < 1 {
		ref = 1
	}
	return maxAbs(r) <= tol*ref
}

func maxAbs(v la.Vector) (m float64) {
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return
}
