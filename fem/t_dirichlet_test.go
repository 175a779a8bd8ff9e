// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"

	"github.com/ellipsis14/fenics-hpc-cesga/lin"
	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

// leftEdge marks the x=0 edge of the unit square
var leftEdge = msh.SubDomainFn(func(x []float64) bool {
	return math.Abs(x[0]) < 1e-12
})

// newSquareSystem builds the unit-square test system: a 2-component field on
// a nx×ny mesh, the model matrix and a zeroed right-hand-side vector
func newSquareSystem(tst *testing.T, nx, ny int) (m *msh.Mesh, dm *DofMap, fm *Form, A *lin.CSR, b *lin.Vector) {
	m = msh.UnitSquare(nx, ny)
	dm = NewDofMap(m, 2)
	fm, err := NewForm(m, dm, NewDofMap(m, 1))
	if err != nil {
		tst.Fatalf("NewForm failed:\n%v", err)
	}
	A, err = AssembleModelMatrix(m, dm)
	if err != nil {
		tst.Fatalf("AssembleModelMatrix failed:\n%v", err)
	}
	b = lin.NewVector(dm.NumDofs())
	return
}

// checkConstrainedRow checks that row d has diagonal one, zeros elsewhere,
// and the fixed right-hand-side value
func checkConstrainedRow(tst *testing.T, A lin.Matrix, b *lin.Vector, d int, bval float64) {
	cols, vals := A.GetRow(d)
	for k, j := range cols {
		if j == d {
			chk.Scalar(tst, io.Sf("A[%d][%d]", d, j), 1e-17, vals[k], 1)
		} else {
			chk.Scalar(tst, io.Sf("A[%d][%d]", d, j), 1e-17, vals[k], 0)
		}
	}
	chk.Scalar(tst, io.Sf("b[%d]", d), 1e-17, b.V[d], bval)
}

func Test_dbc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc01. left edge of unit square. component 0 fixed to 5")

	// system
	m, dm, fm, A, b := newSquareSystem(tst, 3, 3)
	pre := A.Duplicate()

	// boundary condition
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())
	err := bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}

	// left-edge DOFs of component 0 are constrained
	var nbc int
	for _, v := range m.Verts {
		if !leftEdge.Inside(v.C) {
			continue
		}
		nbc++
		checkConstrainedRow(tst, A, b, dm.Dof(v.Id, 0), 5)
	}
	chk.IntAssert(nbc, 4)

	// all other rows are unchanged and their rhs entries are still zero
	for _, v := range m.Verts {
		for comp := 0; comp < dm.Ncomp; comp++ {
			if comp == 0 && leftEdge.Inside(v.C) {
				continue
			}
			d := dm.Dof(v.Id, comp)
			_, vals := A.GetRow(d)
			_, ref := pre.GetRow(d)
			chk.Vector(tst, io.Sf("row %d", d), 1e-17, vals, ref)
			chk.Scalar(tst, io.Sf("b[%d]", d), 1e-17, b.V[d], 0)
		}
	}
}

func Test_dbc02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc02. idempotence and cache reuse across iterations")

	// system and boundary condition
	m, dm, fm, A, b := newSquareSystem(tst, 4, 2)
	assembled := A.Duplicate()
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())

	// first application
	err := bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	snapA := A.Duplicate()
	snapB := make([]float64, len(b.V))
	copy(snapB, b.V)

	// applying twice in a row reproduces the same state bit by bit
	err = bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("second Apply failed:\n%v", err)
		return
	}
	for i := 0; i < A.Rows(); i++ {
		_, vals := A.GetRow(i)
		_, ref := snapA.GetRow(i)
		chk.Vector(tst, io.Sf("row %d", i), 0, vals, ref)
	}
	chk.Vector(tst, "b", 0, b.V, snapB)

	// re-assembly between solver iterations: constrained rows come out
	// identical again from the cached buffers
	err = A.CopyValuesFrom(assembled)
	if err != nil {
		tst.Errorf("CopyValuesFrom failed:\n%v", err)
		return
	}
	b.Fill(0)
	err = bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("third Apply failed:\n%v", err)
		return
	}
	for _, v := range m.Verts {
		if leftEdge.Inside(v.C) {
			d := dm.Dof(v.Id, 0)
			_, vals := A.GetRow(d)
			_, ref := snapA.GetRow(d)
			chk.Vector(tst, io.Sf("row %d", d), 0, vals, ref)
			chk.Scalar(tst, io.Sf("b[%d]", d), 0, b.V[d], snapB[d])
		}
	}
}

func Test_dbc03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc03. predicate matching nothing is a no-op")

	// system
	m, _, fm, A, b := newSquareSystem(tst, 3, 3)
	pre := A.Duplicate()

	// subdomain far outside the unit square
	nowhere := msh.SubDomainFn(func(x []float64) bool { return x[0] > 100 })
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, nowhere, 0, vfun, zerolog.Nop())
	err := bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}

	// nothing changed
	for i := 0; i < A.Rows(); i++ {
		_, vals := A.GetRow(i)
		_, ref := pre.GetRow(i)
		chk.Vector(tst, io.Sf("row %d", i), 1e-17, vals, ref)
	}
	chk.Scalar(tst, "norm(b)", 1e-17, b.Norm(), 0)
}

func Test_dbc04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc04. empty mesh gives an empty boundary and a no-op")

	// mesh with no cells
	m := &msh.Mesh{Ndim: 2}
	err := m.CalcDerived()
	if err != nil {
		tst.Errorf("CalcDerived failed:\n%v", err)
		return
	}
	dm := NewDofMap(m, 2)
	fm, err := NewForm(m, dm)
	if err != nil {
		tst.Errorf("NewForm failed:\n%v", err)
		return
	}
	A, err := AssembleModelMatrix(m, dm)
	if err != nil {
		tst.Errorf("AssembleModelMatrix failed:\n%v", err)
		return
	}
	b := lin.NewVector(dm.NumDofs())

	// apply completes without touching anything
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())
	err = bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	chk.IntAssert(A.Rows(), 0)
}

func Test_dbc05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc05. unimplemented entry points fail loudly")

	m, dm, fm, A, b := newSquareSystem(tst, 2, 2)
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())

	if err := bc.ApplyWithDofMap(A, b, dm); err == nil {
		tst.Errorf("ApplyWithDofMap must fail")
		return
	}
	if err := bc.ApplyWithSolution(A, b, lin.NewVector(dm.NumDofs()), fm); err == nil {
		tst.Errorf("ApplyWithSolution must fail")
		return
	}
}

func Test_dbc06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc06. ghost vertices are skipped in distributed runs")

	// system with two left-edge vertices owned by another partition
	m, dm, fm, A, b := newSquareSystem(tst, 3, 3)
	pre := A.Duplicate()
	ghost := make([]bool, len(m.Verts))
	var owned, remote []int
	for _, v := range m.Verts {
		if leftEdge.Inside(v.C) {
			if len(remote) < 2 {
				ghost[v.Id] = true
				remote = append(remote, v.Id)
			} else {
				owned = append(owned, v.Id)
			}
		}
	}
	m.Dist = &msh.DistData{VertGhost: ghost}

	// force the distributed code path without mpi
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())
	bc.Distr = true
	err := bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}

	// the ghosted layout was established
	if !b.Ghosted() {
		tst.Errorf("ghosted layout was not established")
		return
	}

	// owned boundary vertices are constrained; remote ones left untouched
	chk.IntAssert(len(remote), 2)
	chk.IntAssert(len(owned), 2)
	for _, vid := range owned {
		checkConstrainedRow(tst, A, b, dm.Dof(vid, 0), 5)
	}
	for _, vid := range remote {
		d := dm.Dof(vid, 0)
		_, vals := A.GetRow(d)
		_, ref := pre.GetRow(d)
		chk.Vector(tst, io.Sf("row %d", d), 1e-17, vals, ref)
		chk.Scalar(tst, io.Sf("b[%d]", d), 1e-17, b.V[d], 0)
	}
}

func Test_dbc07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc07. borrowed marker with a custom target label")

	// mark the bottom edge with label 7 on a caller-owned marker
	m, dm, fm, A, b := newSquareSystem(tst, 3, 2)
	marker := msh.NewVertMarker(m, 1)
	bottom := msh.SubDomainFn(func(x []float64) bool { return math.Abs(x[1]) < 1e-12 })
	marker.Mark(bottom, 7)

	// constrain component 1 to -2
	vfun := []fun.Func{&fun.Cte{C: 0}, &fun.Cte{C: -2}}
	bc := NewDirichletBCMarked(m, marker, 7, 1, vfun, zerolog.Nop())
	err := bc.Apply(A, b, fm)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	for _, v := range m.Verts {
		if bottom.Inside(v.C) {
			checkConstrainedRow(tst, A, b, dm.Dof(v.Id, 1), -2)
		}
	}
}

func Test_dbc08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dbc08. invalid input is rejected")

	m, _, fm, A, b := newSquareSystem(tst, 2, 2)

	// component out of range
	vfun := []fun.Func{&fun.Cte{C: 5}, &fun.Cte{C: 0}}
	bc := NewDirichletBC(m, leftEdge, 3, vfun, zerolog.Nop())
	if err := bc.Apply(A, b, fm); err == nil {
		tst.Errorf("out-of-range component must fail")
		return
	}

	// wrong number of value functions
	bc = NewDirichletBC(m, leftEdge, 0, vfun[:1], zerolog.Nop())
	if err := bc.Apply(A, b, fm); err == nil {
		tst.Errorf("wrong number of value functions must fail")
		return
	}

	// missing form
	bc = NewDirichletBC(m, leftEdge, 0, vfun, zerolog.Nop())
	if err := bc.Apply(A, b, nil); err == nil {
		tst.Errorf("nil form must fail")
		return
	}
}
