// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// UnitSquare generates a structured qua4 mesh of the unit square [0,1]×[0,1]
// with nx×ny cells. All cells are placed in partition 0.
func UnitSquare(nx, ny int) (o *Mesh) {
	if nx < 1 || ny < 1 {
		chk.Panic("unit square needs at least 1x1 cells. nx=%d, ny=%d is invalid", nx, ny)
	}

	// vertices
	o = new(Mesh)
	o.Ndim = 2
	X := utl.LinSpace(0, 1, nx+1)
	Y := utl.LinSpace(0, 1, ny+1)
	o.Verts = make([]*Vert, (nx+1)*(ny+1))
	for j := 0; j < ny+1; j++ {
		for i := 0; i < nx+1; i++ {
			id := j*(nx+1) + i
			o.Verts[id] = &Vert{Id: id, C: []float64{X[i], Y[j]}}
		}
	}

	// cells (counter-clockwise local numbering)
	o.Cells = make([]*Cell, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			id := j*nx + i
			a := j*(nx+1) + i
			o.Cells[id] = &Cell{
				Id:    id,
				Type:  "qua4",
				Verts: []int{a, a + 1, a + nx + 2, a + nx + 1},
			}
		}
	}

	// derived data
	err := o.CalcDerived()
	if err != nil {
		chk.Panic("cannot compute derived data of unit square:\n%v", err)
	}
	return
}
