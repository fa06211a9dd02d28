// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/ArturMCI/feder/model"

// Support assigns a constraint type to a node
type Support struct {
	Node int               `json:"node"`
	Type model.SupportType `json:"type"`
}

// PointLoad is an external force applied at a node
type PointLoad struct {
	Node int     `json:"node"`
	Fx   float64 `json:"fx"`
	Fz   float64 `json:"fz"`
}

// SolveWithBCs solves s under the given supports and loads instead of the
// conditions stored on its nodes. s itself is never touched: the boundary
// configuration is applied to an internal copy.
func SolveWithBCs(s *model.Structure, supports []Support, loads []PointLoad, cfg Config) (*Solution, error) {
	c := s.Clone()
	for _, n := range c.Nodes {
		n.FixX, n.FixZ = false, false
		n.Fx, n.Fz = 0, 0
	}
	for _, sp := range supports {
		if err := c.SetSupport(sp.Node, sp.Type); err != nil {
			return nil, err
		}
	}
	for _, ld := range loads {
		if err := c.AddForce(ld.Node, ld.Fx, ld.Fz); err != nil {
			return nil, err
		}
	}
	return Solve(c, cfg)
}
