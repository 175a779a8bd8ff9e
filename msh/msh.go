// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msh implements the mesh collaborator: vertices, cells, derived
// connectivity, boundary-mesh extraction and distributed-mesh data
package msh

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"` // id
	Tag int       `json:"t"`  // tag
	C   []float64 `json:"c"`  // coordinates (size == Ndim)
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`   // id
	Tag   int    `json:"tag"`  // tag
	Part  int    `json:"part"` // partition id
	Type  string `json:"type"` // geometry type; e.g. "tri3", "qua4"
	Verts []int  `json:"verts"`
}

// Mesh holds a mesh for a single region
type Mesh struct {

	// input data
	Ndim  int     `json:"ndim"`  // space dimension
	Verts []*Vert `json:"verts"` // vertices
	Cells []*Cell `json:"cells"` // cells

	// derived
	Vert2cells [][]int   // [nverts] id of cells sharing each vertex
	Dist       *DistData // distributed-mesh data; may be nil (single partition)
}

// edges holds the local vertex pairs forming the edges of each cell type
var edges = map[string][][]int{
	"tri3": {{0, 1}, {1, 2}, {2, 0}},
	"qua4": {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
}

// Read reads a mesh from a JSON file
func Read(fname string) (o *Mesh, err error) {
	b, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", fname, err)
	}
	o = new(Mesh)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", fname, err)
	}
	err = o.CalcDerived()
	if err != nil {
		return nil, err
	}
	return
}

// CalcDerived computes derived quantities such as the vertex-to-cell map.
// It must be called once, after Verts and Cells are set.
func (o *Mesh) CalcDerived() (err error) {
	o.Vert2cells = make([][]int, len(o.Verts))
	for _, c := range o.Cells {
		if _, ok := edges[c.Type]; !ok {
			return chk.Err("cell type %q is not available", c.Type)
		}
		for _, v := range c.Verts {
			if v < 0 || v >= len(o.Verts) {
				return chk.Err("cell %d references inexistent vertex %d", c.Id, v)
			}
			o.Vert2cells[v] = append(o.Vert2cells[v], c.Id)
		}
	}
	return
}

// IsGhostVert tells whether a vertex is owned by another partition.
// Single-partition meshes own every vertex.
func (o *Mesh) IsGhostVert(vid int) bool {
	if o.Dist == nil {
		return false
	}
	return o.Dist.IsGhost(vid)
}

// BoundaryMesh holds the facets of a mesh that belong to exactly one cell,
// together with the maps from boundary entities back to volume entities
type BoundaryMesh struct {
	VertexMap []int   // [nbverts] boundary vertex => volume vertex id
	CellMap   []int   // [nbcells] boundary cell (facet) => volume cell id
	Cells     [][]int // [nbcells] facet vertices, in boundary-local numbering
}

// NumCells returns the number of boundary cells (facets)
func (o *BoundaryMesh) NumCells() int { return len(o.Cells) }

// NumVerts returns the number of boundary vertices
func (o *BoundaryMesh) NumVerts() int { return len(o.VertexMap) }

// ExtractBoundary extracts the boundary mesh: every edge shared by exactly
// one cell becomes a boundary cell. Vertices follow facet iteration order.
func (o *Mesh) ExtractBoundary() (b *BoundaryMesh) {

	// count how many cells share each edge
	type facet struct {
		cid   int   // volume cell
		verts []int // volume vertex ids
	}
	count := make(map[[2]int]int)
	first := make(map[[2]int]facet)
	var keys [][2]int // insertion order
	for _, c := range o.Cells {
		for _, ed := range edges[c.Type] {
			va, vb := c.Verts[ed[0]], c.Verts[ed[1]]
			key := [2]int{va, vb}
			if vb < va {
				key[0], key[1] = vb, va
			}
			if _, ok := count[key]; !ok {
				keys = append(keys, key)
				first[key] = facet{c.Id, []int{va, vb}}
			}
			count[key]++
		}
	}

	// collect facets on the boundary
	b = new(BoundaryMesh)
	vol2bnd := make(map[int]int)
	for _, key := range keys {
		if count[key] != 1 {
			continue
		}
		f := first[key]
		bverts := make([]int, len(f.verts))
		for i, v := range f.verts {
			bv, ok := vol2bnd[v]
			if !ok {
				bv = len(b.VertexMap)
				vol2bnd[v] = bv
				b.VertexMap = append(b.VertexMap, v)
			}
			bverts[i] = bv
		}
		b.CellMap = append(b.CellMap, f.cid)
		b.Cells = append(b.Cells, bverts)
	}
	return
}
