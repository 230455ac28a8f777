package spacefill

import (
	"fmt"

	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/vmath"
)

// filledIterStruct threads the matching offsets into the filled and empty
// trees, plus the side being expanded, through one level of recursion.
type filledIterStruct struct {
	filledOffset uint32
	emptyOffset  uint32
	coords       octree.Pos
	side         uint8
}

// coordSet is the BFS frontier: the set of octree positions discovered on
// the current wave that still need their six neighbors visited.
type coordSet map[octree.Pos]struct{}

func insertMaxStart(filled, empty *octree.Octree, start vmath.IVec3) uint32 {
	emptyPointer := uint32(0)
	filledPointer := uint32(0)

	for d := uint32(0); d <= filled.Depth; d++ {
		filledHeader := filled.Data[filledPointer]
		oct := filled.GetOctInverted(start, d)

		if !octree.GetExists(filledHeader, oct) {
			octree.SetFinal(&empty.Data[emptyPointer], oct)
			octree.SetExists(&empty.Data[emptyPointer], oct)
			return d
		}

		if !octree.GetExists(empty.Data[emptyPointer], oct) {
			octree.SetExists(&empty.Data[emptyPointer], oct)
			next := empty.CreateEmptyOct(d)
			empty.Data[emptyPointer+1+oct] = next
		}

		filledPointer = filled.Data[filledPointer+1+oct]
		emptyPointer = empty.Data[emptyPointer+1+oct]
	}

	panic(fmt.Sprintf("space-filling seed %v is inside the model; the one-voxel margin invariant was violated", start))
}

func minAdjacentDepth(filled, empty *octree.Octree, next coordSet, cord octree.Pos, side uint8) (filledIterStruct, bool) {
	maxSize := int32(1) << (filled.Depth + 1)
	minOctantSize := int32(1) << (filled.Depth - cord.Depth)

	dim := int(side % 3)
	delta := int32(-1)
	if side < 3 {
		delta = minOctantSize
	}
	base := cord.Coords.AddScalarAxis(dim, delta)

	if base.Get(dim) >= maxSize || base.Get(dim) < 0 {
		return filledIterStruct{}, false
	}

	adjacent := base

	emptyOffset := uint32(0)
	filledOffset := uint32(0)

	for d := uint32(0); d < cord.Depth+1; d++ {
		adjacentOct := filled.GetOctInverted(adjacent, d)

		emptyHeader := empty.Data[emptyOffset]
		filledHeader := filled.Data[filledOffset]

		if octree.GetFinal(filledHeader|emptyHeader, adjacentOct) {
			return filledIterStruct{}, false
		}

		if !octree.GetExists(filledHeader, adjacentOct) {
			next[octree.Pos{Coords: base, Depth: d}] = struct{}{}

			octree.SetExists(&empty.Data[emptyOffset], adjacentOct)
			octree.SetFinal(&empty.Data[emptyOffset], adjacentOct)

			return filledIterStruct{}, false
		}

		if !octree.GetExists(emptyHeader, adjacentOct) {
			nextOffset := empty.CreateEmptyOct(d)
			octree.SetExists(&empty.Data[emptyOffset], adjacentOct)
			empty.Data[emptyOffset+1+adjacentOct] = nextOffset
		}

		emptyOffset = empty.Data[emptyOffset+1+adjacentOct]
		filledOffset = filled.Data[filledOffset+1+adjacentOct]
	}

	return filledIterStruct{
		coords:       octree.Pos{Coords: adjacent, Depth: cord.Depth + 1},
		filledOffset: filledOffset,
		emptyOffset:  emptyOffset,
		side:         side,
	}, true
}

func recursiveCollect(filled, empty *octree.Octree, adjacent filledIterStruct, next coordSet) {
	emptyHeader := empty.Data[adjacent.emptyOffset]
	filledHeader := filled.Data[adjacent.filledOffset]

	for _, oct := range allOctreeSides[adjacent.side] {
		if octree.GetFinal(filledHeader, oct) {
			continue
		}
		if octree.GetFinal(emptyHeader, oct) {
			continue
		}

		pos := BitToggle(adjacent.coords.Coords, filled.Depth-adjacent.coords.Depth, oct)
		octant := octree.Pos{Coords: pos, Depth: adjacent.coords.Depth}

		if !octree.GetExists(filledHeader, oct) {
			octree.SetExists(&empty.Data[adjacent.emptyOffset], oct)
			octree.SetFinal(&empty.Data[adjacent.emptyOffset], oct)

			next[octant.Simplify(filled.Depth)] = struct{}{}
			continue
		}

		if !octree.GetExists(emptyHeader, oct) {
			nextOffset := empty.CreateEmptyOct(adjacent.coords.Depth)
			octree.SetExists(&empty.Data[adjacent.emptyOffset], oct)
			empty.Data[adjacent.emptyOffset+1+oct] = nextOffset
		}

		filledOffset := filled.Data[adjacent.filledOffset+1+oct]
		emptyOffset := empty.Data[adjacent.emptyOffset+1+oct]

		recursiveCollect(filled, empty, filledIterStruct{
			coords:       octree.Pos{Coords: pos, Depth: adjacent.coords.Depth + 1},
			filledOffset: filledOffset,
			emptyOffset:  emptyOffset,
			side:         adjacent.side,
		}, next)
	}
}

type nodeColor struct {
	node  MeshNode
	color octree.RGBA8
}

// emptyToMesh differences the filled and empty trees: a leaf's face is part
// of the exterior surface exactly when the empty tree contains the voxel
// immediately on the other side of that face.
func emptyToMesh(filled, empty *octree.Octree) []nodeColor {
	var out []nodeColor

	maxSize := int32(1) << (filled.Depth + 1)

	for _, entry := range filled.CollectNodes() {
		color := octree.ToColor(entry.Color)

		for i := 0; i < 6; i++ {
			dim := i / 2
			positive := i%2 == 0

			delta := int32(-1)
			if positive {
				delta = 1
			}
			adjacent := entry.Pos.Coords.AddScalarAxis(dim, delta)

			if adjacent.Get(dim) >= maxSize || adjacent.Get(dim) < 0 {
				continue
			}

			node := octree.Pos{Coords: adjacent, Depth: filled.Depth}
			if !empty.ContainsPoint(node) {
				continue
			}

			out = append(out, nodeColor{
				node: MeshNode{
					Coords:   entry.Pos.Coords,
					Dim:      uint8(dim),
					Positive: positive,
					Depth:    uint8(filled.Depth),
				},
				color: color,
			})
		}
	}

	return out
}

// emitFace expands one node face into its two covering triangles (6
// vertices total), mapping integer voxel coordinates into the [-1, 1]
// normalized cube the output formats expect.
func emitFace(node MeshNode, octreeDepth uint8, maxSize uint32, color [3]uint8) [6]mesh.Vertex {
	coords := node.ToVertices(octreeDepth)

	var verts [6]mesh.Vertex
	for i, c := range coords {
		pos := c.Add(vmath.IVec3{X: -1, Y: -1, Z: -1}).AsVec3()
		pos = pos.Mul(1 / float32(maxSize))
		pos = pos.Mul(2).Sub(vmath.Vec3{1, 1, 1})
		verts[i] = mesh.Vertex{Position: pos, Color: color}
	}
	return verts
}

// FillSpace computes the sparse exterior mesh of a voxelized model: only
// the faces of leaves that border open space, found by growing a
// complementary "empty" octree outward from outside the model and
// differencing it against the filled tree.
func FillSpace(filled *octree.Octree, maxSize uint32) []mesh.Vertex {
	empty := octree.New(filled.Depth)
	current := coordSet{}
	next := coordSet{}

	start := vmath.IVec3{}
	depth := insertMaxStart(filled, empty, start)
	current[octree.Pos{Coords: start, Depth: depth}] = struct{}{}

	for {
		for cord := range current {
			for side := uint8(0); side < 6; side++ {
				adjacent, ok := minAdjacentDepth(filled, empty, next, cord, side)
				if !ok {
					continue
				}
				recursiveCollect(filled, empty, adjacent, next)
			}
		}

		current, next = next, coordSet{}
		if len(current) == 0 {
			break
		}
	}

	faces := emptyToMesh(filled, empty)

	verts := make([]mesh.Vertex, 0, len(faces)*6)
	for _, f := range faces {
		color := [3]uint8{f.color.R, f.color.G, f.color.B}
		face := emitFace(f.node, uint8(filled.Depth), maxSize, color)
		verts = append(verts, face[:]...)
	}
	return verts
}

// DenseMesh emits all six faces of every occupied leaf, regardless of
// whether a neighbor occupies the adjacent voxel. Its output is larger than
// FillSpace's but it needs no adjacency analysis, and is useful when internal
// faces must be preserved (e.g. a deliberately hollowed-out model).
func DenseMesh(filled *octree.Octree, maxSize uint32) []mesh.Vertex {
	nodes := filled.CollectNodes()
	verts := make([]mesh.Vertex, 0, len(nodes)*36)

	for _, entry := range nodes {
		color := octree.ToColor(entry.Color)
		rgb := [3]uint8{color.R, color.G, color.B}

		for i := 0; i < 6; i++ {
			node := MeshNode{
				Coords:   entry.Pos.Coords,
				Dim:      uint8(i / 2),
				Positive: (i % 2) == 0,
				Depth:    uint8(filled.Depth),
			}
			face := emitFace(node, uint8(filled.Depth), maxSize, rgb)
			verts = append(verts, face[:]...)
		}
	}

	return verts
}
