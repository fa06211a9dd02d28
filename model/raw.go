// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
)

// RawStructure is the plain record form of a Structure, suitable for storage
// by an external persistence collaborator. Round-tripping through it
// reproduces an equal structure.
type RawStructure struct {
	Nodes            []Node   `json:"nodes"`
	Springs          []Spring `json:"springs"`
	SpringMassPerLen float64  `json:"smassperlen,omitempty"`
}

// Raw returns the record form with nodes sorted by id
func (o *Structure) Raw() *RawStructure {
	r := &RawStructure{
		Nodes:            make([]Node, 0, len(o.Nodes)),
		Springs:          make([]Spring, len(o.Springs)),
		SpringMassPerLen: o.SpringMassPerLen,
	}
	for _, id := range o.SortedIds() {
		r.Nodes = append(r.Nodes, *o.Nodes[id])
	}
	for i, s := range o.Springs {
		r.Springs[i] = *s
	}
	return r
}

// FromRaw reconstructs a structure from its record form, revalidating every
// node and spring through the construction contract. Explicit ids are kept; a
// spring record with a non-positive rest length (e.g. a hand-written input
// file) gets its rest length rederived from the node positions.
func FromRaw(r *RawStructure) (*Structure, error) {
	o := New()
	for _, n := range r.Nodes {
		if !isFinite(n.X) || !isFinite(n.Z) {
			return nil, fmt.Errorf("%w: node %d has non-finite position", ErrInvalidGeometry, n.Id)
		}
		if _, ok := o.Nodes[n.Id]; ok {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrInvalidParameter, n.Id)
		}
		nn := n
		if nn.Mass == 0 {
			nn.Mass = 1
		}
		o.Nodes[n.Id] = &nn
		if n.Id >= o.nextId {
			o.nextId = n.Id + 1
		}
	}
	for _, s := range r.Springs {
		if err := o.AddSpring(s.I, s.J, s.K); err != nil {
			return nil, err
		}
		if s.L0 > 0 {
			o.Springs[len(o.Springs)-1].L0 = s.L0
		}
	}
	o.SpringMassPerLen = r.SpringMassPerLen
	return o, nil
}

// Equal reports whether two record forms describe the same structure within
// the given floating-point tolerance
func (o *RawStructure) Equal(b *RawStructure, tol float64) bool {
	if len(o.Nodes) != len(b.Nodes) || len(o.Springs) != len(b.Springs) {
		return false
	}
	feq := func(x, y float64) bool { return math.Abs(x-y) <= tol }
	for i, n := range o.Nodes {
		m := b.Nodes[i]
		if n.Id != m.Id || n.FixX != m.FixX || n.FixZ != m.FixZ {
			return false
		}
		if !feq(n.X, m.X) || !feq(n.Z, m.Z) || !feq(n.Fx, m.Fx) || !feq(n.Fz, m.Fz) || !feq(n.Mass, m.Mass) {
			return false
		}
	}
	for i, s := range o.Springs {
		t := b.Springs[i]
		if s.I != t.I || s.J != t.J || !feq(s.K, t.K) || !feq(s.L0, t.L0) {
			return false
		}
	}
	return feq(o.SpringMassPerLen, b.SpringMassPerLen)
}
