// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ellipsis14/fenics-hpc-cesga/lin"
	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

// AssembleModelMatrix assembles a model operator with the sparsity of a
// piecewise-linear discretisation: a per-cell graph Laplacian for each field
// component plus a lumped mass term on the diagonal. The result is symmetric
// positive-definite and couples exactly the DOFs sharing a cell, which is
// the structure the row-elimination machinery operates on.
func AssembleModelMatrix(m *msh.Mesh, dm *DofMap) (A *lin.CSR, err error) {

	// triplet with an estimate of the number of nonzeros
	ndof := dm.NumDofs()
	t := new(lin.Triplet)
	guess := 0
	for _, c := range m.Cells {
		nv := len(c.Verts)
		guess += nv * nv * dm.Ncomp
	}
	t.Init(ndof, ndof, guess+ndof)

	// mass term keeps isolated DOFs regular
	for i := 0; i < ndof; i++ {
		t.Put(i, i, 1)
	}

	// element loop
	var dofs []int
	for _, c := range m.Cells {
		cdim := len(c.Verts)
		if len(dofs) != cdim*dm.Ncomp {
			dofs = make([]int, cdim*dm.Ncomp)
		}
		err = dm.Tabulate(dofs, c)
		if err != nil {
			return nil, chk.Err("cannot tabulate DOFs of cell %d:\n%v", c.Id, err)
		}
		for comp := 0; comp < dm.Ncomp; comp++ {
			for a := 0; a < cdim; a++ {
				for b := 0; b < cdim; b++ {
					i := dofs[a+cdim*comp]
					j := dofs[b+cdim*comp]
					if a == b {
						t.Put(i, j, float64(cdim-1))
					} else {
						t.Put(i, j, -1)
					}
				}
			}
		}
	}
	return t.ToCSR()
}
