// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out draws spring structures, deformed shapes and strain-energy maps
// using gosl/plt. It is a pure consumer of the core data model: nothing here
// mutates a structure, and callers passing optimizer snapshots must pass
// clones because the optimizer mutates in place.
package out

import (
	"github.com/cpmech/gosl/plt"

	"github.com/ArturMCI/feder/fem"
	"github.com/ArturMCI/feder/model"
)

// energy colours, cold to hot
var palette = []string{"#c0c8d8", "#7fa8d0", "#58b368", "#e8c547", "#e8832a", "#d43d2a"}

// Draw plots the undeformed structure: springs as lines, nodes as markers,
// supports highlighted
func Draw(s *model.Structure, args *plt.A) {
	if args == nil {
		args = &plt.A{C: "#3b5b92", Lw: 1.2, NoClip: true}
	}
	for _, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		plt.Plot([]float64{ni.X, nj.X}, []float64{ni.Z, nj.Z}, args)
	}
	drawNodes(s, 0, nil)
	plt.Equal()
}

// DrawDeformed overlays the displaced shape, magnified by scale, on top of a
// grey undeformed outline
func DrawDeformed(s *model.Structure, sol *fem.Solution, scale float64) {
	grey := &plt.A{C: "#cccccc", Lw: 0.8, NoClip: true}
	for _, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		plt.Plot([]float64{ni.X, nj.X}, []float64{ni.Z, nj.Z}, grey)
	}
	def := &plt.A{C: "#3b5b92", Lw: 1.5, NoClip: true}
	for _, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		ui := sol.U[sp.I]
		uj := sol.U[sp.J]
		plt.Plot(
			[]float64{ni.X + scale*ui[0], nj.X + scale*uj[0]},
			[]float64{ni.Z + scale*ui[1], nj.Z + scale*uj[1]},
			def,
		)
	}
	drawNodes(s, scale, sol)
	plt.Equal()
}

// DrawEnergy colours each spring by its strain energy relative to the largest
// one, giving a heatmap of where the load is carried
func DrawEnergy(s *model.Structure, sol *fem.Solution) {
	emax := 0.0
	for _, e := range sol.SpringEnergy {
		if e > emax {
			emax = e
		}
	}
	for idx, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		c := palette[0]
		if emax > 0 {
			bucket := int(sol.SpringEnergy[idx] / emax * float64(len(palette)-1))
			c = palette[bucket]
		}
		plt.Plot([]float64{ni.X, nj.X}, []float64{ni.Z, nj.Z}, &plt.A{C: c, Lw: 2, NoClip: true})
	}
	drawNodes(s, 0, nil)
	plt.Equal()
}

// Save saves the current figure as dirout/fnkey.png
func Save(dirout, fnkey string) error {
	return plt.Save(dirout, fnkey)
}

func drawNodes(s *model.Structure, scale float64, sol *fem.Solution) {
	for _, id := range s.SortedIds() {
		n := s.Nodes[id]
		x, z := n.X, n.Z
		if sol != nil {
			u := sol.U[id]
			x += scale * u[0]
			z += scale * u[1]
		}
		switch {
		case n.FixX && n.FixZ:
			plt.PlotOne(x, z, &plt.A{C: "#111111", M: "^", Ms: 9, NoClip: true})
		case n.FixX || n.FixZ:
			plt.PlotOne(x, z, &plt.A{C: "#111111", M: "v", Ms: 9, NoClip: true})
		case n.Fx != 0 || n.Fz != 0:
			plt.PlotOne(x, z, &plt.A{C: "#d43d2a", M: "o", Ms: 6, NoClip: true})
		default:
			plt.PlotOne(x, z, &plt.A{C: "#3b5b92", M: ".", Ms: 4, NoClip: true})
		}
	}
}
