// Package spacefill extracts the exterior surface of a voxelized model by
// growing a second, "empty" octree outward from outside the volume in
// lock-step with the filled tree, then differencing the two to find faces
// that border open space.
package spacefill

import (
	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/vmath"
)

// MeshNode names one face of one octree node: which axis it's perpendicular
// to (dim), which side of the node along that axis (positive), and the
// node's own coordinates/depth.
type MeshNode struct {
	Coords   vmath.IVec3
	Dim      uint8
	Positive bool
	Depth    uint8
}

// BitToggle flips coordinate bit `depth` of cords on or off per octant oct,
// used while walking down into a child octant during BFS expansion.
func BitToggle(cords vmath.IVec3, depth uint32, oct uint32) vmath.IVec3 {
	toggle := func(dim int32, set bool) int32 {
		if set {
			return dim | (1 << depth)
		}
		return dim &^ (1 << depth)
	}

	return vmath.IVec3{
		X: toggle(cords.X, (oct>>0)&1 != 0),
		Y: toggle(cords.Y, (oct>>1)&1 != 0),
		Z: toggle(cords.Z, (oct>>2)&1 != 0),
	}
}

// ToSquare returns the two opposite corners of the node's face as integer
// voxel coordinates.
func (n MeshNode) ToSquare(octreeDepth uint8) [2]vmath.IVec3 {
	size := int32(1) << (octreeDepth - n.Depth)
	base := n.Coords

	if n.Positive {
		switch n.Dim {
		case 0:
			base.X += size
		case 1:
			base.Y += size
		case 2:
			base.Z += size
		}
	}

	opposite := base
	if n.Dim != 0 {
		opposite.X += size
	}
	if n.Dim != 1 {
		opposite.Y += size
	}
	if n.Dim != 2 {
		opposite.Z += size
	}

	return [2]vmath.IVec3{base, opposite}
}

// ToVertices expands the node's face into two distinct triangles (6
// vertices) covering the square: base/corner1/opposite and
// base/corner2/opposite, corner1 and corner2 being the two other corners of
// the square besides base and opposite.
func (n MeshNode) ToVertices(octreeDepth uint8) [6]vmath.IVec3 {
	size := int32(1) << (octreeDepth - n.Depth)
	square := n.ToSquare(octreeDepth)
	base, opposite := square[0], square[1]

	corner1 := base
	if n.Dim != 0 {
		corner1.X += size
	} else if n.Dim != 1 {
		corner1.Y += size
	}

	corner2 := base
	if n.Dim != 2 {
		corner2.Z += size
	} else if n.Dim != 1 {
		corner2.Y += size
	}

	return [6]vmath.IVec3{base, corner1, opposite, base, corner2, opposite}
}

// allOctreeSides is the shared per-side octant table from package octree,
// reused here to walk the 4 children touching each face during BFS.
var allOctreeSides = octree.AllOctreeSides()
