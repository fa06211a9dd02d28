// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/ArturMCI/feder/ana"
	"github.com/ArturMCI/feder/model"
)

// checkEquilibrium verifies K·u = F from first principles: at every free axis
// of every node, the axial spring forces balance the applied load
func checkEquilibrium(tst *testing.T, s *model.Structure, sol *Solution, tol float64) {
	rx := make(map[int]float64)
	rz := make(map[int]float64)
	for id, n := range s.Nodes {
		rx[id] = n.Fx
		rz[id] = n.Fz
	}
	for _, sp := range s.Springs {
		ni := s.Nodes[sp.I]
		nj := s.Nodes[sp.J]
		l := math.Hypot(nj.X-ni.X, nj.Z-ni.Z)
		c, sn := (nj.X-ni.X)/l, (nj.Z-ni.Z)/l
		ui := sol.U[sp.I]
		uj := sol.U[sp.J]
		axf := sp.K * (c*(uj[0]-ui[0]) + sn*(uj[1]-ui[1])) // tension positive
		rx[sp.I] += axf * c
		rz[sp.I] += axf * sn
		rx[sp.J] -= axf * c
		rz[sp.J] -= axf * sn
	}
	for id, n := range s.Nodes {
		if !n.FixX {
			chk.Float64(tst, io.Sf("equilibrium fx @ node %d", id), tol, rx[id], 0)
		}
		if !n.FixZ {
			chk.Float64(tst, io.Sf("equilibrium fz @ node %d", id), tol, rz[id], 0)
		}
	}
}

func Test_solver01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver01. single spring along 45 degrees. u = F/k on axis")

	s := model.New()
	a, _ := s.AddNode(0, 0)
	b, _ := s.AddNode(1, 1)
	if err := s.SetSupport(a, model.Pinned); err != nil {
		tst.Fatal(err)
	}
	if err := s.AddSpring(a, b, 1); err != nil {
		tst.Fatal(err)
	}

	// load purely along the spring axis
	f := 0.5
	if err := s.AddForce(b, f/math.Sqrt2, f/math.Sqrt2); err != nil {
		tst.Fatal(err)
	}

	sol, err := Solve(s, Config{})
	if err != nil {
		tst.Fatalf("solve failed: %v", err)
	}

	var ref ana.AxialSpring
	ref.Init(1, 1, 1)
	ux, uz := ref.Displacement(f/math.Sqrt2, f/math.Sqrt2)
	chk.Float64(tst, "ux", 1e-7, sol.U[b][0], ux)
	chk.Float64(tst, "uz", 1e-7, sol.U[b][1], uz)
	chk.Float64(tst, "ua", 1e-7, sol.U[a][0], 0)
	chk.Float64(tst, "|u| axial", 1e-7, math.Hypot(sol.U[b][0], sol.U[b][1]), f/1.0)

	// no displacement perpendicular to the axis
	perp := -sol.U[b][0]/math.Sqrt2 + sol.U[b][1]/math.Sqrt2
	chk.Float64(tst, "u perpendicular", 1e-7, perp, 0)

	chk.Float64(tst, "total energy", 1e-7, sol.TotalEnergy, ref.Energy(f/math.Sqrt2, f/math.Sqrt2))
}

func Test_solver02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver02. 3x3 grid, pinned corners, load at top-centre")

	s, err := model.Grid(3, 3, 100)
	if err != nil {
		tst.Fatal(err)
	}
	if err := s.SetSupport(0, model.Pinned); err != nil {
		tst.Fatal(err)
	}
	if err := s.SetSupport(2, model.Pinned); err != nil {
		tst.Fatal(err)
	}
	if err := s.AddForce(7, 0, -1); err != nil {
		tst.Fatal(err)
	}

	sol, err := Solve(s, Config{})
	if err != nil {
		tst.Fatalf("solve failed: %v", err)
	}
	if chk.Verbose {
		for _, id := range s.SortedIds() {
			io.Pf("u[%d] = (%13.6e, %13.6e)\n", id, sol.U[id][0], sol.U[id][1])
		}
	}

	// loaded node sinks; supports do not move
	if sol.U[7][1] >= 0 {
		tst.Errorf("loaded node must have negative vertical displacement; got %v", sol.U[7][1])
	}
	chk.Float64(tst, "support 0 ux", 1e-15, sol.U[0][0], 0)
	chk.Float64(tst, "support 0 uz", 1e-15, sol.U[0][1], 0)
	chk.Float64(tst, "support 2 ux", 1e-15, sol.U[2][0], 0)
	chk.Float64(tst, "support 2 uz", 1e-15, sol.U[2][1], 0)

	checkEquilibrium(tst, s, sol, 1e-9)

	if sol.TotalEnergy <= 0 {
		tst.Errorf("loaded grid must store strain energy; got %v", sol.TotalEnergy)
	}
	chk.Int(tst, "free dofs", sol.Free, 14)
}

func Test_solver03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver03. roller support. zero load means zero displacement")

	s, _, right, loaded, err := model.MBBGrid(3, 3, 100, 1)
	if err != nil {
		tst.Fatal(err)
	}
	sol, err := Solve(s, Config{})
	if err != nil {
		tst.Fatalf("solve failed: %v", err)
	}
	chk.Float64(tst, "roller uz", 1e-12, sol.U[right][1], 0)
	checkEquilibrium(tst, s, sol, 1e-9)
	if sol.U[loaded][1] >= 0 {
		tst.Errorf("loaded node must sink; got %v", sol.U[loaded][1])
	}

	// same grid without load: nothing deforms
	s2, err := model.Grid(3, 3, 100)
	if err != nil {
		tst.Fatal(err)
	}
	s2.SetSupport(0, model.Pinned)
	s2.SetSupport(2, model.Roller)
	sol2, err := Solve(s2, Config{})
	if err != nil {
		tst.Fatalf("solve failed: %v", err)
	}
	for _, id := range s2.SortedIds() {
		chk.Float64(tst, io.Sf("zero ux @ %d", id), 1e-15, sol2.U[id][0], 0)
		chk.Float64(tst, io.Sf("zero uz @ %d", id), 1e-15, sol2.U[id][1], 0)
	}
	chk.Float64(tst, "zero energy", 1e-15, sol2.TotalEnergy, 0)
}

func Test_solver04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver04. error conditions")

	// coincident nodes
	s := model.New()
	a, _ := s.AddNode(0, 0)
	b, _ := s.AddNode(0, 0)
	s.SetSupport(a, model.Pinned)
	s.AddSpring(a, b, 1)
	s.AddForce(b, 1, 0)
	_, err := Solve(s, Config{})
	if !errors.Is(err, ErrDegenerateSpring) {
		tst.Errorf("want ErrDegenerateSpring, got %v", err)
	}

	// no support at all
	s = model.New()
	a, _ = s.AddNode(0, 0)
	b, _ = s.AddNode(1, 0)
	s.AddSpring(a, b, 1)
	_, err = Solve(s, Config{})
	if !errors.Is(err, ErrInvalidBoundaryConditions) {
		tst.Errorf("want ErrInvalidBoundaryConditions, got %v", err)
	}

	// everything fixed: no free dof
	s = model.New()
	a, _ = s.AddNode(0, 0)
	b, _ = s.AddNode(1, 0)
	s.SetSupport(a, model.Pinned)
	s.SetSupport(b, model.Pinned)
	s.AddSpring(a, b, 1)
	_, err = Solve(s, Config{})
	if !errors.Is(err, ErrInvalidBoundaryConditions) {
		tst.Errorf("want ErrInvalidBoundaryConditions, got %v", err)
	}

	// loaded node with no spring at all
	s = model.New()
	a, _ = s.AddNode(0, 0)
	b, _ = s.AddNode(1, 0)
	s.SetSupport(a, model.Pinned)
	s.AddForce(b, 0, -1)
	_, err = Solve(s, Config{})
	if !errors.Is(err, ErrUnstableStructure) {
		tst.Errorf("want ErrUnstableStructure, got %v", err)
	}

	// floating loaded cluster: spring cannot resist the perpendicular load
	s = model.New()
	a, _ = s.AddNode(0, 0)
	b, _ = s.AddNode(1, 0)
	c, _ := s.AddNode(5, 0)
	d, _ := s.AddNode(6, 0)
	s.SetSupport(a, model.Pinned)
	s.AddSpring(a, b, 1)
	s.AddSpring(c, d, 1)
	s.AddForce(d, 0, -1)
	_, err = Solve(s, Config{})
	if !errors.Is(err, ErrUnstableStructure) {
		tst.Errorf("want ErrUnstableStructure, got %v", err)
	}
}

func Test_solver05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver05. serialize, deserialize, solve: equal displacement fields")

	s, _, _, _, err := model.MBBGrid(4, 3, 100, 1)
	if err != nil {
		tst.Fatal(err)
	}
	s2, err := model.FromRaw(s.Raw())
	if err != nil {
		tst.Fatal(err)
	}
	chk.Ints(tst, "node ids", s2.SortedIds(), utl.IntRange(12))

	solA, err := Solve(s, Config{})
	if err != nil {
		tst.Fatal(err)
	}
	solB, err := Solve(s2, Config{})
	if err != nil {
		tst.Fatal(err)
	}
	for _, id := range s.SortedIds() {
		chk.Float64(tst, io.Sf("ux @ %d", id), 1e-12, solA.U[id][0], solB.U[id][0])
		chk.Float64(tst, io.Sf("uz @ %d", id), 1e-12, solA.U[id][1], solB.U[id][1])
	}
	chk.Float64(tst, "total energy", 1e-12, solA.TotalEnergy, solB.TotalEnergy)
}

func Test_solver06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver06. sparse and dense paths agree")

	s, _, _, _, err := model.MBBGrid(5, 4, 100, 1)
	if err != nil {
		tst.Fatal(err)
	}

	dense, err := Solve(s, Config{SparseThreshold: 1000})
	if err != nil {
		tst.Fatal(err)
	}
	sparse, err := Solve(s, Config{SparseThreshold: 1})
	if err != nil {
		tst.Fatal(err)
	}
	if dense.Sparse || !sparse.Sparse {
		tst.Fatalf("path selection wrong: dense.Sparse=%v sparse.Sparse=%v", dense.Sparse, sparse.Sparse)
	}
	for _, id := range s.SortedIds() {
		chk.Float64(tst, io.Sf("ux @ %d", id), 1e-10, dense.U[id][0], sparse.U[id][0])
		chk.Float64(tst, io.Sf("uz @ %d", id), 1e-10, dense.U[id][1], sparse.U[id][1])
	}
}

func Test_solver07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver07. explicit boundary conditions match stored ones")

	s, err := model.Grid(3, 3, 100)
	if err != nil {
		tst.Fatal(err)
	}
	bare := s.Clone() // no supports, no loads stored

	s.SetSupport(0, model.Pinned)
	s.SetSupport(2, model.Roller)
	s.AddForce(7, 0, -1)
	solA, err := Solve(s, Config{})
	if err != nil {
		tst.Fatal(err)
	}

	solB, err := SolveWithBCs(bare,
		[]Support{{Node: 0, Type: model.Pinned}, {Node: 2, Type: model.Roller}},
		[]PointLoad{{Node: 7, Fz: -1}},
		Config{})
	if err != nil {
		tst.Fatal(err)
	}
	for _, id := range s.SortedIds() {
		chk.Float64(tst, io.Sf("ux @ %d", id), 1e-14, solA.U[id][0], solB.U[id][0])
		chk.Float64(tst, io.Sf("uz @ %d", id), 1e-14, solA.U[id][1], solB.U[id][1])
	}

	// bare structure untouched by the explicit-BC call
	for _, n := range bare.Nodes {
		if n.FixX || n.FixZ || n.Fx != 0 || n.Fz != 0 {
			tst.Fatalf("SolveWithBCs mutated node %d", n.Id)
		}
	}

	// unknown node in the boundary set
	if _, err := SolveWithBCs(bare, []Support{{Node: 99, Type: model.Pinned}}, nil, Config{}); err == nil {
		tst.Fatal("want error for unknown support node")
	}
}
