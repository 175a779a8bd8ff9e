// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lin implements the linear-algebra collaborators: a row-oriented
// sparse matrix with a fixed sparsity pattern and a vector that may hold a
// ghosted layout in distributed runs
package lin

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Matrix defines the backend capabilities required to eliminate rows of a
// sparse matrix: row read/write access at fixed sparsity, value duplication
// and a flush finalising pending mutations
type Matrix interface {
	Rows() int                                      // number of rows
	GetRow(i int) (cols []int, vals []float64)      // column indices and values of row i
	SetRow(i int, vals []float64, cols []int) error // set values of row i at the given columns
	Set(i, j int, v float64) error                  // set single entry; must exist in the pattern
	Duplicate() Matrix                              // new matrix with same pattern and values
	CopyValuesFrom(other Matrix) error              // overwrite values; patterns must match
	Flush() error                                   // finalise pending mutations
}

// CSR implements Matrix with compressed sparse row storage. The sparsity
// pattern is fixed at construction; Set and SetRow fail on entries outside it.
type CSR struct {
	n  int       // number of rows == number of columns
	ap []int     // [n+1] row pointers
	aj []int     // [nnz] column indices, sorted within each row
	ax []float64 // [nnz] values
}

// Rows returns the number of rows
func (o *CSR) Rows() int { return o.n }

// GetRow returns the column indices and values of row i.
// The returned slices alias internal storage and must not be modified.
func (o *CSR) GetRow(i int) (cols []int, vals []float64) {
	return o.aj[o.ap[i]:o.ap[i+1]], o.ax[o.ap[i]:o.ap[i+1]]
}

// SetRow sets the values of row i at the given column positions
func (o *CSR) SetRow(i int, vals []float64, cols []int) (err error) {
	if len(vals) != len(cols) {
		return chk.Err("lengths of values and columns differ. %d != %d", len(vals), len(cols))
	}
	for k, j := range cols {
		p := o.find(i, j)
		if p < 0 {
			return chk.Err("entry (%d,%d) is outside the sparsity pattern", i, j)
		}
		o.ax[p] = vals[k]
	}
	return
}

// Set sets a single entry; the entry must exist in the sparsity pattern
func (o *CSR) Set(i, j int, v float64) (err error) {
	p := o.find(i, j)
	if p < 0 {
		return chk.Err("entry (%d,%d) is outside the sparsity pattern", i, j)
	}
	o.ax[p] = v
	return
}

// Get returns the value of entry (i,j); zero if outside the pattern
func (o *CSR) Get(i, j int) float64 {
	p := o.find(i, j)
	if p < 0 {
		return 0
	}
	return o.ax[p]
}

// Duplicate returns a new matrix with the same pattern and values
func (o *CSR) Duplicate() Matrix {
	d := new(CSR)
	d.n = o.n
	d.ap = make([]int, len(o.ap))
	d.aj = make([]int, len(o.aj))
	d.ax = make([]float64, len(o.ax))
	copy(d.ap, o.ap)
	copy(d.aj, o.aj)
	copy(d.ax, o.ax)
	return d
}

// CopyValuesFrom overwrites the values of o with the values of other.
// Both matrices must have the same sparsity pattern.
func (o *CSR) CopyValuesFrom(other Matrix) (err error) {
	if other.Rows() != o.n {
		return chk.Err("matrices have different sizes. %d != %d", other.Rows(), o.n)
	}
	if c, ok := other.(*CSR); ok {
		if len(c.ax) != len(o.ax) {
			return chk.Err("matrices have different numbers of nonzeros. %d != %d", len(c.ax), len(o.ax))
		}
		copy(o.ax, c.ax)
		return
	}
	for i := 0; i < o.n; i++ {
		cols, vals := other.GetRow(i)
		err = o.SetRow(i, vals, cols)
		if err != nil {
			return
		}
	}
	return
}

// Flush finalises pending mutations. CSR mutations are immediate; Flush
// exists to satisfy the backend contract shared with distributed storage.
func (o *CSR) Flush() error { return nil }

// find returns the storage position of entry (i,j); -1 if absent
func (o *CSR) find(i, j int) int {
	if i < 0 || i >= o.n {
		return -1
	}
	lo, hi := o.ap[i], o.ap[i+1]
	p := lo + sort.SearchInts(o.aj[lo:hi], j)
	if p < hi && o.aj[p] == j {
		return p
	}
	return -1
}

// Triplet ////////////////////////////////////////////////////////////////////////////////////////

// Triplet holds triplet (i,j,x) entries for assembling a CSR matrix.
// Repeated (i,j) pairs are summed during conversion.
type Triplet struct {
	m, n int       // dimensions
	i, j []int     // indices
	x    []float64 // values
}

// Init initialises the triplet with a guess of the number of nonzeros
func (o *Triplet) Init(m, n, guess int) {
	o.m, o.n = m, n
	o.i = make([]int, 0, guess)
	o.j = make([]int, 0, guess)
	o.x = make([]float64, 0, guess)
}

// Start resets the entries, keeping allocated capacity
func (o *Triplet) Start() {
	o.i = o.i[:0]
	o.j = o.j[:0]
	o.x = o.x[:0]
}

// Put adds one entry
func (o *Triplet) Put(i, j int, x float64) {
	o.i = append(o.i, i)
	o.j = append(o.j, j)
	o.x = append(o.x, x)
}

// Len returns the current number of entries
func (o *Triplet) Len() int { return len(o.x) }

// ToCSR converts the triplet to compressed sparse row format, sorting
// columns within each row and summing duplicate entries
func (o *Triplet) ToCSR() (c *CSR, err error) {
	if o.m != o.n {
		return nil, chk.Err("matrix must be square. %d != %d", o.m, o.n)
	}

	// group entry positions per row
	rows := make([][]int, o.m)
	for k, i := range o.i {
		if i < 0 || i >= o.m || o.j[k] < 0 || o.j[k] >= o.n {
			return nil, chk.Err("entry (%d,%d) is out of range", i, o.j[k])
		}
		rows[i] = append(rows[i], k)
	}

	// compress, sorting and summing duplicates
	c = new(CSR)
	c.n = o.n
	c.ap = make([]int, o.m+1)
	for i, ks := range rows {
		sort.Slice(ks, func(a, b int) bool { return o.j[ks[a]] < o.j[ks[b]] })
		last := -1
		for _, k := range ks {
			if o.j[k] == last {
				c.ax[len(c.ax)-1] += o.x[k]
				continue
			}
			c.aj = append(c.aj, o.j[k])
			c.ax = append(c.ax, o.x[k])
			last = o.j[k]
		}
		c.ap[i+1] = len(c.aj)
	}
	return
}
