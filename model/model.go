// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model implements the mechanical data model of a planar spring
// structure: point masses (nodes) in the x-z plane connected by linear axial
// springs. A Structure owns its nodes and springs; the solver and the
// optimizer only borrow it.
package model

import (
	"fmt"
	"math"
	"sort"
)

// Node is a point mass in the x-z plane with optional support constraints and
// an optional applied force
type Node struct {
	Id   int     `json:"id"`   // unique identifier; never reused after removal
	X    float64 `json:"x"`    // horizontal coordinate
	Z    float64 `json:"z"`    // vertical coordinate
	FixX bool    `json:"fixx"` // horizontal displacement is constrained
	FixZ bool    `json:"fixz"` // vertical displacement is constrained
	Fx   float64 `json:"fx"`   // applied horizontal force
	Fz   float64 `json:"fz"`   // applied vertical force
	Mass float64 `json:"mass"` // mass contribution of this node
}

// Spring is a linear axial element between two nodes
type Spring struct {
	I  int     `json:"i"`  // first node id
	J  int     `json:"j"`  // second node id
	K  float64 `json:"k"`  // stiffness coefficient
	L0 float64 `json:"l0"` // rest length, captured from the node positions at creation
}

// SupportType selects which displacement axes a support fixes
type SupportType int

const (
	Pinned SupportType = iota + 1 // both axes fixed
	Roller                        // vertical axis only
)

// Structure owns a set of nodes and the springs connecting them. Node ids are
// handed out once and never reused within the same instance, so a removed id
// stays dead. All operations are deterministic for a given call sequence.
type Structure struct {
	Nodes   map[int]*Node `json:"nodes"`   // id => node
	Springs []*Spring     `json:"springs"` // ordered spring list

	// optional per-spring mass: each spring adds SpringMassPerLen * L0 to Mass()
	SpringMassPerLen float64 `json:"smassperlen"`

	nextId int // next fresh node id
}

// New returns an empty structure
func New() *Structure {
	return &Structure{Nodes: make(map[int]*Node)}
}

// AddNode adds a node at (x, z) with unit mass and returns its fresh id.
// Returns ErrInvalidGeometry if either coordinate is NaN or infinite.
func (o *Structure) AddNode(x, z float64) (id int, err error) {
	if !isFinite(x) || !isFinite(z) {
		return -1, fmt.Errorf("%w: non-finite position (%v,%v)", ErrInvalidGeometry, x, z)
	}
	id = o.nextId
	o.nextId++
	o.Nodes[id] = &Node{Id: id, X: x, Z: z, Mass: 1}
	return
}

// SetSupport marks node id as a support of the given type
func (o *Structure) SetSupport(id int, typ SupportType) error {
	n, ok := o.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownNode, id)
	}
	switch typ {
	case Pinned:
		n.FixX, n.FixZ = true, true
	case Roller:
		n.FixX, n.FixZ = false, true
	default:
		return fmt.Errorf("%w: support type %d", ErrInvalidParameter, typ)
	}
	return nil
}

// AddForce accumulates an external point load at node id
func (o *Structure) AddForce(id int, fx, fz float64) error {
	n, ok := o.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownNode, id)
	}
	if !isFinite(fx) || !isFinite(fz) {
		return fmt.Errorf("%w: non-finite force (%v,%v)", ErrInvalidParameter, fx, fz)
	}
	n.Fx += fx
	n.Fz += fz
	return nil
}

// AddSpring connects nodes i and j with a spring of stiffness k. The rest
// length is taken from the current node positions. Returns ErrUnknownNode if
// either id is absent, ErrDuplicateSpring if the unordered pair is already
// connected and ErrInvalidParameter if k <= 0 or i == j.
func (o *Structure) AddSpring(i, j int, k float64) error {
	if i == j {
		return fmt.Errorf("%w: spring endpoints must differ (i=j=%d)", ErrInvalidParameter, i)
	}
	if k <= 0 || !isFinite(k) {
		return fmt.Errorf("%w: stiffness must be positive (k=%v)", ErrInvalidParameter, k)
	}
	ni, ok := o.Nodes[i]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownNode, i)
	}
	nj, ok := o.Nodes[j]
	if !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownNode, j)
	}
	if o.HasSpring(i, j) {
		return fmt.Errorf("%w: pair (%d,%d)", ErrDuplicateSpring, i, j)
	}
	o.Springs = append(o.Springs, &Spring{I: i, J: j, K: k, L0: math.Hypot(nj.X-ni.X, nj.Z-ni.Z)})
	return nil
}

// HasSpring reports whether the unordered pair (i, j) is connected
func (o *Structure) HasSpring(i, j int) bool {
	for _, s := range o.Springs {
		if (s.I == i && s.J == j) || (s.I == j && s.J == i) {
			return true
		}
	}
	return false
}

// RemoveNode removes node id and every spring touching it. Removing an absent
// id is an error, not a silent no-op.
func (o *Structure) RemoveNode(id int) error {
	if _, ok := o.Nodes[id]; !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownNode, id)
	}
	delete(o.Nodes, id)
	keep := o.Springs[:0]
	for _, s := range o.Springs {
		if s.I != id && s.J != id {
			keep = append(keep, s)
		}
	}
	o.Springs = keep
	return nil
}

// NodeCount returns the number of nodes
func (o *Structure) NodeCount() int { return len(o.Nodes) }

// SpringCount returns the number of springs
func (o *Structure) SpringCount() int { return len(o.Springs) }

// Mass returns the total mass: the sum of nodal masses plus, if
// SpringMassPerLen is set, the rest length of each spring times that factor.
// Non-increasing under node removal.
func (o *Structure) Mass() (m float64) {
	for _, n := range o.Nodes {
		m += n.Mass
	}
	if o.SpringMassPerLen > 0 {
		for _, s := range o.Springs {
			m += o.SpringMassPerLen * s.L0
		}
	}
	return
}

// SortedIds returns all node ids in ascending order. This is the canonical
// iteration order for reproducible solves.
func (o *Structure) SortedIds() []int {
	ids := make([]int, 0, len(o.Nodes))
	for id := range o.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a deep, independent copy. Snapshots handed to external
// collaborators must go through here because the optimizer mutates the
// original in place.
func (o *Structure) Clone() *Structure {
	c := &Structure{
		Nodes:            make(map[int]*Node, len(o.Nodes)),
		Springs:          make([]*Spring, len(o.Springs)),
		SpringMassPerLen: o.SpringMassPerLen,
		nextId:           o.nextId,
	}
	for id, n := range o.Nodes {
		nn := *n
		c.Nodes[id] = &nn
	}
	for i, s := range o.Springs {
		ss := *s
		c.Springs[i] = &ss
	}
	return c
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
