// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ellipsis14/fenics-hpc-cesga/msh"
)

// Form pairs a mesh with the DOF maps of the spaces entering a variational
// form. For the mixed vector/scalar forms handled here, the vector space is
// at index 0 and is the one tabulated when constraining rows.
type Form struct {
	m   *msh.Mesh
	dms []*DofMap
}

// NewForm returns a new form over mesh m with the given DOF maps
func NewForm(m *msh.Mesh, dms ...*DofMap) (o *Form, err error) {
	if len(dms) == 0 {
		return nil, chk.Err("form needs at least one DOF map")
	}
	return &Form{m: m, dms: dms}, nil
}

// Mesh returns the mesh
func (o *Form) Mesh() *msh.Mesh { return o.m }

// DofMaps returns the DOF maps
func (o *Form) DofMaps() []*DofMap { return o.dms }
