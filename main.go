// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/ArturMCI/feder/fem"
	"github.com/ArturMCI/feder/inp"
	"github.com/ArturMCI/feder/opt"
	"github.com/ArturMCI/feder/out"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// input parameters
	fnamepath, fnkey := io.ArgToFilename(0, "structure", ".json", true)
	target := io.ArgToFloat(1, 0.5)
	batch := io.ArgToInt(2, 1)
	doplot := io.ArgToBool(3, false)

	// message
	io.Pf("\nFeder -- 2D spring structure solver and topology optimizer\n\n")
	io.Pf("%v\n", io.ArgsTable("INPUT ARGUMENTS",
		"structure file path", "fnamepath", fnamepath,
		"target mass fraction", "target", target,
		"removals per iteration", "batch", batch,
		"save plots", "doplot", doplot,
	))

	// read structure
	s, err := inp.Read(fnamepath)
	if err != nil {
		chk.Panic("cannot read structure:\n%v", err)
	}
	io.Pf("structure: %d nodes, %d springs, mass = %g\n", s.NodeCount(), s.SpringCount(), s.Mass())

	// initial solve
	sol, err := fem.Solve(s, fem.DefaultConfig())
	if err != nil {
		chk.Panic("cannot solve initial structure:\n%v", err)
	}
	io.Pf("initial solve: total strain energy = %g, max displacement = %g\n\n", sol.TotalEnergy, sol.MaxDisplacement())

	// optimize
	cfg := opt.DefaultConfig()
	cfg.TargetMassFraction = target
	cfg.BatchSize = batch
	cfg.Progress = func(it int, mass, tgt float64, nodes int) {
		io.Pf("iteration %4d: mass = %10.4f  target = %10.4f  nodes = %d\n", it, mass, tgt, nodes)
	}
	res, err := opt.Run(s, cfg)
	if err != nil {
		chk.Panic("optimization failed:\n%v", err)
	}
	switch res.State {
	case opt.Converged:
		io.Pfgreen("\noptimization converged after %d iterations: mass = %g (target %g)\n", res.Iterations, res.Mass, res.Target)
	case opt.Stalled:
		io.Pfyel("\noptimization stalled after %d iterations: mass = %g (target %g)\n", res.Iterations, res.Mass, res.Target)
	case opt.Failed:
		io.PfRed("\noptimization hit an unstable structure after %d iterations; returning last stable state\n", res.Iterations)
	}

	// save result
	fnout := fnkey + "-opt.json"
	if err := inp.Save(fnout, res.Structure); err != nil {
		chk.Panic("cannot save optimized structure:\n%v", err)
	}
	io.Pf("optimized structure saved to %s\n", fnout)

	// plots
	if doplot {
		if sol, err = fem.Solve(res.Structure, fem.DefaultConfig()); err == nil {
			plt.Reset(true, nil)
			out.DrawEnergy(res.Structure, sol)
			if err := out.Save("/tmp/feder", fnkey+"-energy"); err != nil {
				chk.Panic("cannot save plot:\n%v", err)
			}
			io.Pf("energy plot saved to /tmp/feder/%s-energy.png\n", fnkey)
		}
	}
}
