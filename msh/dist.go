// Copyright 2017 The fenics-hpc-cesga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

// DistData holds distributed-mesh data for one partition. A ghost vertex is
// present in this partition's cells but owned by another partition.
type DistData struct {
	VertGhost []bool `json:"vertghost"` // [nverts] whether vertex is owned remotely
}

// IsGhost tells whether a vertex is owned by another partition
func (o *DistData) IsGhost(vid int) bool {
	if o == nil || vid >= len(o.VertGhost) {
		return false
	}
	return o.VertGhost[vid]
}
