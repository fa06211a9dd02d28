// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana implements analytical solutions used to verify the solver
package ana

import "math"

// AxialSpring is the closed-form solution for a single spring with one end
// pinned and the other free:
//
//	     d
//	o---////---●  ← F
//	pinned    free
//
// The free end moves (F·d)/k along the spring axis and not at all
// perpendicular to it.
type AxialSpring struct {
	K      float64 // spring stiffness
	Dx, Dz float64 // unit vector along the spring axis
}

// Init sets the stiffness and normalizes the axis direction
func (o *AxialSpring) Init(dx, dz, k float64) {
	l := math.Hypot(dx, dz)
	o.Dx = dx / l
	o.Dz = dz / l
	o.K = k
}

// Displacement returns the free-node displacement under the load (fx, fz)
func (o *AxialSpring) Displacement(fx, fz float64) (ux, uz float64) {
	p := (fx*o.Dx + fz*o.Dz) / o.K
	return p * o.Dx, p * o.Dz
}

// Energy returns the strain energy stored in the spring under (fx, fz)
func (o *AxialSpring) Energy(fx, fz float64) float64 {
	delta := (fx*o.Dx + fz*o.Dz) / o.K
	return 0.5 * o.K * delta * delta
}
