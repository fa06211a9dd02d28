// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
)

// Grid generates a rectangular nx by nz grid of nodes at unit spacing with
// horizontal, vertical and both diagonal springs. Horizontal and vertical
// springs get stiffness k; diagonals get k/sqrt(2) so that stiffness per
// length is uniform. Node ids are row-major: id = j*nx + i with x = i and
// z = j, hence row j = 0 is the bottom of the grid.
func Grid(nx, nz int, k float64) (*Structure, error) {
	if nx < 2 || nz < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2x2 nodes (nx=%d nz=%d)", ErrInvalidParameter, nx, nz)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: stiffness must be positive (k=%v)", ErrInvalidParameter, k)
	}
	o := New()
	for j := 0; j < nz; j++ {
		for i := 0; i < nx; i++ {
			if _, err := o.AddNode(float64(i), float64(j)); err != nil {
				return nil, err
			}
		}
	}
	nid := func(i, j int) int { return j*nx + i }
	kdiag := k / math.Sqrt2
	for j := 0; j < nz; j++ {
		for i := 0; i < nx; i++ {
			if i+1 < nx {
				if err := o.AddSpring(nid(i, j), nid(i+1, j), k); err != nil {
					return nil, err
				}
			}
			if j+1 < nz {
				if err := o.AddSpring(nid(i, j), nid(i, j+1), k); err != nil {
					return nil, err
				}
			}
			if i+1 < nx && j+1 < nz {
				if err := o.AddSpring(nid(i, j), nid(i+1, j+1), kdiag); err != nil {
					return nil, err
				}
			}
			if i-1 >= 0 && j+1 < nz {
				if err := o.AddSpring(nid(i, j), nid(i-1, j+1), kdiag); err != nil {
					return nil, err
				}
			}
		}
	}
	return o, nil
}

// MBBGrid builds the classic MBB beam setup on a unit grid: a pinned support
// at the bottom-left corner, a roller at the bottom-right corner and a
// downward load at the top-centre node. Returns the structure and the ids of
// the left support, right support and loaded node.
func MBBGrid(nx, nz int, k, load float64) (s *Structure, left, right, loaded int, err error) {
	s, err = Grid(nx, nz, k)
	if err != nil {
		return
	}
	left = 0
	right = nx - 1
	loaded = (nz-1)*nx + nx/2
	if err = s.SetSupport(left, Pinned); err != nil {
		return
	}
	if err = s.SetSupport(right, Roller); err != nil {
		return
	}
	err = s.AddForce(loaded, 0, -math.Abs(load))
	return
}
