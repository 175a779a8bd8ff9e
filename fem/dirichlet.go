// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the enforcement of essential (Dirichlet) boundary
// conditions on one component of a piecewise-linear vector field, by row
// elimination of the assembled linear system
package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/mpi"
	"github.com/rs/zerolog"

	"github.com/ellipsis14/fenics-hpc-cesga/lin"
	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

// markerOwnership tells whether the subdomain marker belongs to the boundary
// condition or to the caller
type markerOwnership int

const (
	markerOwned markerOwnership = iota
	markerBorrowed
)

// DirichletBC enforces an essential boundary condition on one component of a
// vector-valued field, by eliminating the matrix rows of the constrained
// DOFs and fixing the corresponding right-hand-side values.
//
// The first call to Apply extracts the boundary mesh, duplicates the matrix
// and allocates scratch buffers; subsequent calls reuse them. The sparsity
// pattern of the matrix must therefore remain unchanged for the lifetime of
// this object.
type DirichletBC struct {

	// input
	Msh   *msh.Mesh      // the mesh
	Comp  int            // constrained component of the vector field
	Vfun  []fun.Func     // boundary value functions, one per field component
	Log   zerolog.Logger // logger; pass zerolog.Nop() on non-root partitions
	T     float64        // time at which boundary values are evaluated
	Distr bool           // distributed/parallel run

	// subdomain marker
	marker *msh.VertMarker // vertex labels; target label identifies the constrained boundary
	mkOwn  markerOwnership // whether marker was created here or supplied by the caller
	target int             // marker label of the constrained boundary

	// boundary data (built on first Apply)
	boundary *msh.BoundaryMesh

	// row-elimination cache (built on first Apply; see type comment)
	ws          lin.Matrix   // working duplicate of the matrix
	rowBlock    []float64    // value scratch
	zeroBlock   []float64    // zero values written into eliminated rows
	idxBlock    []int        // column-index scratch
	dofsBlock   []int        // tabulated cell DOFs scratch
	offProcRows map[int]bool // DOFs touched by this partition's cells
}

// NewDirichletBC returns a boundary condition constraining component comp to
// the values of vfun[comp] on the part of the boundary inside sd.
//  m    -- the mesh
//  sd   -- predicate identifying the constrained boundary subset
//  comp -- index of the constrained component
//  vfun -- boundary value functions, one per field component
//  log  -- logger for progress messages
func NewDirichletBC(m *msh.Mesh, sd msh.SubDomain, comp int, vfun []fun.Func, log zerolog.Logger) (o *DirichletBC) {
	o = new(DirichletBC)
	o.Msh = m
	o.Comp = comp
	o.Vfun = vfun
	o.Log = log
	o.Distr = mpi.IsOn() && mpi.Size() > 1

	// label everything 1, then mark the constrained boundary 0
	o.marker = msh.NewVertMarker(m, 1)
	o.marker.Mark(sd, 0)
	o.mkOwn = markerOwned
	o.target = 0
	return
}

// NewDirichletBCMarked is like NewDirichletBC but borrows a caller-owned
// marker; vertices labelled target are constrained
func NewDirichletBCMarked(m *msh.Mesh, marker *msh.VertMarker, target, comp int, vfun []fun.Func, log zerolog.Logger) (o *DirichletBC) {
	o = new(DirichletBC)
	o.Msh = m
	o.Comp = comp
	o.Vfun = vfun
	o.Log = log
	o.Distr = mpi.IsOn() && mpi.Size() > 1
	o.marker = marker
	o.mkOwn = markerBorrowed
	o.target = target
	return
}

// Apply constrains the linear system {A, b} produced by form fm: for every
// locally-owned boundary DOF, the matrix row is zeroed, the diagonal set to
// one and the right-hand-side entry set to the boundary value at the
// corresponding vertex. Matrix and vector are flushed before returning.
func (o *DirichletBC) Apply(A lin.Matrix, b *lin.Vector, fm *Form) (err error) {

	// vector-valued DOF map of the form
	if fm == nil || len(fm.DofMaps()) == 0 {
		return chk.Err("form with at least one DOF map is required")
	}
	dm := fm.DofMaps()[0]
	if o.Comp < 0 || o.Comp >= dm.Ncomp {
		return chk.Err("component %d is out of range. field has %d components", o.Comp, dm.Ncomp)
	}
	if len(o.Vfun) != dm.Ncomp {
		return chk.Err("number of value functions must equal the number of components. %d != %d", len(o.Vfun), dm.Ncomp)
	}
	o.Log.Info().Msg("applying Dirichlet boundary conditions to linear system")

	// extract boundary mesh (once)
	if o.boundary == nil {
		o.boundary = o.Msh.ExtractBoundary()
	}

	// build row-elimination cache (once)
	if o.ws == nil {
		o.ws = A.Duplicate()
		if o.Distr {
			err = o.initGhostLayout(b, dm)
			if err != nil {
				return
			}
		}
		n := A.Rows()
		o.rowBlock = make([]float64, n)
		o.zeroBlock = make([]float64, n)
		o.idxBlock = make([]int, n)
	}

	// copy current matrix values into the working duplicate
	err = o.ws.CopyValuesFrom(A)
	if err != nil {
		return chk.Err("cannot copy matrix into working duplicate:\n%v", err)
	}

	// constrain boundary DOFs
	count := 0
	if o.boundary.NumCells() > 0 {
		vals := o.rowBlock[:dm.Ncomp]
		for _, vid := range o.boundary.VertexMap {

			// skip vertices not inside the sub domain
			if o.marker.Get(vid) != o.target {
				continue
			}

			// skip vertices owned by other partitions
			if o.Distr && o.Msh.IsGhostVert(vid) {
				continue
			}

			// locate DOF of (vertex, component) through the owning cell
			dof, err := o.locateDof(dm, vid)
			if err != nil {
				return err
			}

			// zero the row at its original column positions and set the diagonal
			cols, _ := o.ws.GetRow(dof)
			k := len(cols)
			copy(o.idxBlock[:k], cols)
			err = o.ws.SetRow(dof, o.zeroBlock[:k], o.idxBlock[:k])
			if err != nil {
				return chk.Err("cannot zero row %d:\n%v", dof, err)
			}
			err = o.ws.Set(dof, dof, 1)
			if err != nil {
				return chk.Err("cannot set diagonal of row %d:\n%v", dof, err)
			}

			// fix the right-hand-side value
			x := o.Msh.Verts[vid].C
			for i, f := range o.Vfun {
				vals[i] = f.F(o.T, x)
			}
			b.Set(dof, vals[o.Comp])
			count++
		}
	}

	// finalise: working copy back into the caller's matrix, then flush both
	err = o.ws.Flush()
	if err != nil {
		return chk.Err("cannot flush working duplicate:\n%v", err)
	}
	err = A.CopyValuesFrom(o.ws)
	if err != nil {
		return chk.Err("cannot copy working duplicate back into matrix:\n%v", err)
	}
	err = A.Flush()
	if err != nil {
		return chk.Err("cannot flush matrix:\n%v", err)
	}
	err = b.Flush()
	if err != nil {
		return chk.Err("cannot flush vector:\n%v", err)
	}
	o.Log.Info().Int("constrained", count).Msg("boundary rows eliminated")
	return
}

// ApplyWithDofMap would constrain the system using an explicitly supplied
// DOF map instead of the form's. Not implemented.
func (o *DirichletBC) ApplyWithDofMap(A lin.Matrix, b *lin.Vector, dm *DofMap) error {
	return chk.Err("not implemented: Apply(A, b, dofMap) with an explicit DOF map")
}

// ApplyWithSolution would constrain the system relative to a current
// solution vector. Not implemented.
func (o *DirichletBC) ApplyWithSolution(A lin.Matrix, b *lin.Vector, x *lin.Vector, fm *Form) error {
	return chk.Err("not implemented: Apply(A, b, x, form) with a current solution vector")
}

// auxiliary /////////////////////////////////////////////////////////////////////////////////////

// locateDof finds the global DOF of (vertex, o.Comp) by tabulating the DOFs
// of the first cell sharing the vertex
func (o *DirichletBC) locateDof(dm *DofMap, vid int) (dof int, err error) {
	cells := o.Msh.Vert2cells[vid]
	if len(cells) == 0 {
		return -1, chk.Err("boundary vertex %d belongs to no cell", vid)
	}
	cell := o.Msh.Cells[cells[0]]

	// local index of this vertex within the cell's vertex list
	ci := -1
	for k, w := range cell.Verts {
		if w == vid {
			ci = k
			break
		}
	}
	if ci < 0 {
		return -1, chk.Err("vertex %d is not listed in its owning cell %d", vid, cell.Id)
	}

	// tabulated DOF of (vertex, component)
	cdim := len(cell.Verts)
	if len(o.dofsBlock) != cdim*dm.Ncomp {
		o.dofsBlock = make([]int, cdim*dm.Ncomp)
	}
	err = dm.Tabulate(o.dofsBlock, cell)
	if err != nil {
		return -1, chk.Err("cannot tabulate DOFs of cell %d:\n%v", cell.Id, err)
	}
	return o.dofsBlock[ci+cdim*o.Comp], nil
}

// initGhostLayout collects every DOF touched by this partition's cells into
// the off-process row set and establishes the vector's ghosted layout and
// row ownership. Called once, on the first Apply of a distributed run.
func (o *DirichletBC) initGhostLayout(b *lin.Vector, dm *DofMap) (err error) {
	o.offProcRows = make(map[int]bool)
	for _, c := range o.Msh.Cells {
		cdim := len(c.Verts)
		if len(o.dofsBlock) != cdim*dm.Ncomp {
			o.dofsBlock = make([]int, cdim*dm.Ncomp)
		}
		err = dm.Tabulate(o.dofsBlock, c)
		if err != nil {
			return chk.Err("cannot tabulate DOFs of cell %d:\n%v", c.Id, err)
		}
		for _, d := range o.dofsBlock {
			o.offProcRows[d] = true
		}
	}
	b.InitGhosted(o.offProcRows)

	// row ownership follows vertex ownership
	owned := make([]bool, dm.NumDofs())
	for _, v := range o.Msh.Verts {
		g := o.Msh.IsGhostVert(v.Id)
		for comp := 0; comp < dm.Ncomp; comp++ {
			owned[dm.Dof(v.Id, comp)] = !g
		}
	}
	b.SetOwnership(owned)
	return
}
