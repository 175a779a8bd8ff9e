// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

// SubDomain defines a predicate identifying a subset of the mesh by the
// coordinates of its vertices
type SubDomain interface {
	Inside(x []float64) bool
}

// SubDomainFn wraps a plain function as a SubDomain
type SubDomainFn func(x []float64) bool

// Inside implements the SubDomain interface
func (o SubDomainFn) Inside(x []float64) bool { return o(x) }

// VertMarker holds one integer label per vertex of a mesh
type VertMarker struct {
	msh *Mesh
	V   []int // [nverts] labels
}

// NewVertMarker returns a new marker with all vertices labelled def
func NewVertMarker(m *Mesh, def int) (o *VertMarker) {
	o = new(VertMarker)
	o.msh = m
	o.V = make([]int, len(m.Verts))
	for i := range o.V {
		o.V[i] = def
	}
	return
}

// Mark sets label on all vertices inside the sub domain
func (o *VertMarker) Mark(sd SubDomain, label int) {
	for _, v := range o.msh.Verts {
		if sd.Inside(v.C) {
			o.V[v.Id] = label
		}
	}
}

// Get returns the label of a vertex
func (o *VertMarker) Get(vid int) int { return o.V[vid] }
