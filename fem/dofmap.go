// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

// DofMap maps (vertex, component) pairs of a continuous piecewise-linear
// field to global equation numbers. Global numbering is blocked per
// component: dof = comp*nverts + vertex. Within a cell, tabulated DOFs are
// laid out component-major: dofs[ci + cdim*comp] where ci is the local
// vertex index and cdim the number of cell vertices.
type DofMap struct {
	Ncomp  int // number of field components; 1 for scalar fields
	Nverts int // number of mesh vertices
}

// NewDofMap returns a DofMap for a field with ncomp components over mesh m
func NewDofMap(m *msh.Mesh, ncomp int) (o *DofMap) {
	if ncomp < 1 {
		chk.Panic("number of components must be at least 1. ncomp=%d is invalid", ncomp)
	}
	return &DofMap{Ncomp: ncomp, Nverts: len(m.Verts)}
}

// NumDofs returns the total number of DOFs
func (o *DofMap) NumDofs() int { return o.Ncomp * o.Nverts }

// Dof returns the global equation number of (vertex, component)
func (o *DofMap) Dof(vid, comp int) int { return comp*o.Nverts + vid }

// Tabulate fills dofs with the global equation numbers of all (vertex,
// component) pairs of a cell. len(dofs) must be len(cell.Verts) * Ncomp.
func (o *DofMap) Tabulate(dofs []int, c *msh.Cell) (err error) {
	cdim := len(c.Verts)
	if len(dofs) != cdim*o.Ncomp {
		return chk.Err("dofs slice has incorrect length. %d != %d", len(dofs), cdim*o.Ncomp)
	}
	for comp := 0; comp < o.Ncomp; comp++ {
		for ci, vid := range c.Verts {
			dofs[ci+cdim*comp] = o.Dof(vid, comp)
		}
	}
	return
}
