// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/mpi"
)

// Vector holds a vector of the linear system. In distributed runs, a ghosted
// layout may be established once so that Flush can exchange owner values.
type Vector struct {
	V []float64 // values

	// ghosted layout (distributed runs only)
	ghostRows []int     // sorted off-process rows readable by this partition
	owned     []bool    // [len(V)] whether this partition owns each row
	work      []float64 // workspace for the all-reduce exchange
}

// NewVector returns a new vector of size n, filled with zeros
func NewVector(n int) (o *Vector) {
	o = new(Vector)
	o.V = make([]float64, n)
	return
}

// Set sets one entry
func (o *Vector) Set(i int, v float64) { o.V[i] = v }

// Fill sets all entries to v
func (o *Vector) Fill(v float64) { la.VecFill(o.V, v) }

// Norm returns the Euclidean norm
func (o *Vector) Norm() float64 { return la.VecNorm(o.V) }

// InitGhosted establishes the ghosted layout from a set of off-process rows.
// Must be called at most once per sparsity configuration, before Flush is
// used in a distributed run.
func (o *Vector) InitGhosted(offProcRows map[int]bool) {
	o.ghostRows = make([]int, 0, len(offProcRows))
	for r := range offProcRows {
		o.ghostRows = append(o.ghostRows, r)
	}
	sort.Ints(o.ghostRows)
	o.work = make([]float64, len(o.V))
}

// SetOwnership records which rows this partition owns
func (o *Vector) SetOwnership(owned []bool) { o.owned = owned }

// Ghosted tells whether the ghosted layout has been established
func (o *Vector) Ghosted() bool { return o.ghostRows != nil }

// Flush makes owner values globally visible. Serial runs need no exchange.
// In distributed runs each partition contributes its owned entries and the
// sum across partitions replaces the local values.
func (o *Vector) Flush() (err error) {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return
	}
	if o.owned == nil {
		return chk.Err("cannot flush distributed vector without ownership data")
	}
	for i := range o.V {
		if !o.owned[i] {
			o.V[i] = 0
		}
	}
	mpi.AllReduceSum(o.V, o.work)
	return
}
