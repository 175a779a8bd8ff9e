// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/rs/zerolog"

	"github.com/ellipsis14/fenics-hpc-cesga/fem"
	"github.com/ellipsis14/fenics-hpc-cesga/lin"
	"github.com/ellipsis14/fenics-hpc-cesga/logger"
	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	nx := io.ArgToInt(0, 10)
	ny := io.ArgToInt(1, 10)
	bval := io.ArgToFloat(2, 5.0)
	verbose := io.ArgToBool(3, true)

	// message
	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nDirichlet boundary-condition enforcement demo\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"number of cells along x", "nx", nx,
			"number of cells along y", "ny", ny,
			"boundary value", "bval", bval,
			"show messages", "verbose", verbose,
		))
	}

	// logger: root partition only
	log := logger.Logger()
	if mpi.Rank() != 0 || !verbose {
		log = zerolog.Nop()
	}

	// mesh and spaces: 2-component field on the unit square
	m := msh.UnitSquare(nx, ny)
	dm := fem.NewDofMap(m, 2)
	form, err := fem.NewForm(m, dm, fem.NewDofMap(m, 1))
	if err != nil {
		io.PfRed("cannot create form:\n%v\n", err)
		return
	}

	// linear system
	A, err := fem.AssembleModelMatrix(m, dm)
	if err != nil {
		io.PfRed("cannot assemble matrix:\n%v\n", err)
		return
	}
	b := lin.NewVector(dm.NumDofs())
	log.Info().Int("dofs", dm.NumDofs()).Msg("linear system assembled")

	// fix component 0 to bval on the left edge
	left := msh.SubDomainFn(func(x []float64) bool { return math.Abs(x[0]) < 1e-12 })
	vfun := []fun.Func{&fun.Cte{C: bval}, &fun.Cte{C: 0}}
	bc := fem.NewDirichletBC(m, left, 0, vfun, log)

	// apply twice, as an outer solver iteration would
	for it := 0; it < 2; it++ {
		err = bc.Apply(A, b, form)
		if err != nil {
			io.PfRed("cannot apply boundary conditions:\n%v\n", err)
			return
		}
	}

	// report
	if mpi.Rank() == 0 && verbose {
		nbc := 0
		for _, v := range m.Verts {
			if left.Inside(v.C) {
				d := dm.Dof(v.Id, 0)
				if b.V[d] == bval {
					nbc++
				}
			}
		}
		io.Pf("\n> constrained rows = %d\n", nbc)
		io.Pf("> norm(b) = %g\n", b.Norm())
		io.PfGreen("> Success\n")
	}
}
