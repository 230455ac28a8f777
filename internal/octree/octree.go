package octree

import "github.com/szostid/meshvox/internal/vmath"

// uninitializedSentinel fills freshly allocated child slots. Implementations
// must never read a slot without first checking its EXISTS bit, so the
// specific value here is only useful for catching bugs under a debugger.
const uninitializedSentinel Word = 69420420

// Pos identifies a node in the octree: its integer coordinates (aligned to
// the node's depth) and the depth (level from the root, 0 = root).
type Pos struct {
	Coords vmath.IVec3
	Depth  uint32
}

// ZeroPos returns the root-relative origin position at the given depth.
func ZeroPos(depth uint32) Pos {
	return Pos{Coords: vmath.IVec3{}, Depth: depth}
}

// Simplify aligns p's coordinates down to the grid of its own depth relative
// to maxDepth, clearing the low bits that depth no longer resolves.
func (p Pos) Simplify(maxDepth uint32) Pos {
	mask := int32((uint32(1) << (maxDepth - p.Depth)) - 1)
	return Pos{
		Coords: vmath.IVec3{
			X: p.Coords.X &^ mask,
			Y: p.Coords.Y &^ mask,
			Z: p.Coords.Z &^ mask,
		},
		Depth: p.Depth,
	}
}

// getOctreeIdx computes the 3-bit octant mask of coords at the given
// exponent (number of low bits still resolved below this level).
func getOctreeIdx(coords vmath.IVec3, depth uint32) uint32 {
	x := (uint32(coords.X) >> depth) & 1
	y := (uint32(coords.Y) >> depth) & 1
	z := (uint32(coords.Z) >> depth) & 1
	return x | (y << 1) | (z << 2)
}

// Octree is the packed sparse octree: a dense array of 32-bit words and a
// maximum depth. Interior chunks occupy 9 consecutive words (1 header + 8
// child slots); the root chunk always lives at offset 0.
type Octree struct {
	Data  []Word
	Depth uint32
}

// New allocates an empty octree with just the root chunk.
func New(depth uint32) *Octree {
	o := &Octree{Depth: depth}
	o.CreateNewOct(0)
	return o
}

// GetOctInverted returns the octant index of coords at tree level i
// (0 = root), derived from the inverted depth so the root resolves the
// most-significant coordinate bits.
func (o *Octree) GetOctInverted(coords vmath.IVec3, i uint32) uint32 {
	return getOctreeIdx(coords, o.Depth-i)
}

// CreateNewOct appends a 9-word interior chunk with the given initial
// header (HeaderTag is OR'd in automatically) and returns its offset. Child
// slots are left at an uninitialized sentinel; callers must gate all reads
// on the EXISTS bit.
func (o *Octree) CreateNewOct(header Word) uint32 {
	offset := uint32(len(o.Data))
	SetHeaderTag(&header)

	o.Data = append(o.Data, header)
	for i := 0; i < 8; i++ {
		o.Data = append(o.Data, uninitializedSentinel)
	}
	return offset
}

// Store inserts a color at position, silently dropping the call if pos
// falls outside the legal voxel range (the +1 margin used against
// floating-point rasterization overshoot).
func (o *Octree) Store(pos vmath.IVec3, color RGBA8) {
	node := Pos{Coords: pos, Depth: o.Depth}

	limit := int32((uint32(1) << (o.Depth + 1)) - 1)
	if node.Coords.MinElement() < 1 || node.Coords.MaxElement() >= limit {
		return
	}

	o.Insert(node, color)
}

// Insert walks from the root to node.Depth, allocating chunks as needed, and
// writes color into the target leaf slot. Returns false ("not inserted")
// when an ancestor on the path is already FINAL (leaf-before-leaf) or the
// exact leaf already exists (first-writer-wins).
func (o *Octree) Insert(node Pos, color RGBA8) (uint32, bool) {
	if node.Depth > o.Depth {
		return 0, false
	}

	currentPointer := uint32(0)
	currentOct := o.GetOctInverted(node.Coords, 0)
	currentNode := currentPointer + 1 + currentOct
	inserted := true

	for d := uint32(0); d < node.Depth; d++ {
		currentHeader := o.Data[currentPointer]
		nextOct := o.GetOctInverted(node.Coords, d+1)

		if GetExists(currentHeader, currentOct) && inserted {
			if GetFinal(currentHeader, currentOct) {
				return 0, false
			}
			currentPointer = o.Data[currentNode]
		} else {
			var nextHeader Word
			SetExists(&nextHeader, nextOct)
			nextPointer := o.CreateNewOct(nextHeader)

			SetExists(&o.Data[currentPointer], currentOct)
			o.Data[currentNode] = nextPointer
			inserted = false

			currentPointer = nextPointer
		}

		currentNode = currentPointer + 1 + nextOct
		currentOct = nextOct
	}

	nextNode := currentPointer + 1 + currentOct
	currentHeader := &o.Data[currentPointer]

	if GetExists(*currentHeader, currentOct) && inserted {
		return 0, false
	}

	SetExists(currentHeader, currentOct)
	SetFinal(currentHeader, currentOct)

	o.Data[nextNode] = FromColor(color)

	return nextNode, true
}

// ContainsPoint reports whether node lies within an occupied part of the
// tree, returning true as soon as a FINAL ancestor is reached and false as
// soon as EXISTS is missing along the path. A path that stays EXISTS all the
// way down to node.Depth also counts as contained.
func (o *Octree) ContainsPoint(node Pos) bool {
	pointer := uint32(0)

	for d := uint32(0); d <= node.Depth; d++ {
		header := o.Data[pointer]
		oct := o.GetOctInverted(node.Coords, d)

		if !GetExists(header, oct) {
			return false
		}
		if GetFinal(header, oct) {
			return true
		}

		pointer = o.Data[pointer+1+oct]
	}
	return true
}

// ContainsExact reports whether the child at node's exact depth is both
// EXISTS and FINAL.
func (o *Octree) ContainsExact(node Pos) bool {
	pointer := uint32(0)

	for d := uint32(0); d < node.Depth; d++ {
		header := o.Data[pointer]
		oct := o.GetOctInverted(node.Coords, d)

		if !GetExists(header, oct) {
			return false
		}
		if GetFinal(header, oct) {
			return false
		}

		pointer = o.Data[pointer+1+oct]
	}

	header := o.Data[pointer]
	oct := o.GetOctInverted(node.Coords, node.Depth)
	return GetExists(header, oct) && GetFinal(header, oct)
}

// octPermutations enumerates the IVec3 unit offset for each of the 8
// octants (bit 0 -> +X, bit 1 -> +Y, bit 2 -> +Z).
var octPermutations = func() [8]vmath.IVec3 {
	var perms [8]vmath.IVec3
	for i := int32(0); i < 8; i++ {
		perms[i] = vmath.IVec3{X: i & 1, Y: (i >> 1) & 1, Z: (i >> 2) & 1}
	}
	return perms
}()

// OctPermutations exposes the per-octant unit offsets for callers outside
// this package (the space-filling engine reuses them for bit toggling).
func OctPermutations() [8]vmath.IVec3 { return octPermutations }

// generateSideMask lists the 4 octants whose `dim` bit equals positive,
// i.e. the 4 children that lie on one face of a unit cube.
func generateSideMask(dim uint, positive bool) [4]uint32 {
	var out [4]uint32
	n := 0
	for oct := uint32(0); oct < 8; oct++ {
		bit := (oct >> dim) & 1
		want := uint32(0)
		if positive {
			want = 1
		}
		if bit == want {
			out[n] = oct
			n++
		}
	}
	return out
}

// allOctreeSides[i] lists the 4 child octants touching side i, in the
// order -X, -Y, -Z, +X, +Y, +Z.
var allOctreeSides = [6][4]uint32{
	generateSideMask(0, false),
	generateSideMask(1, false),
	generateSideMask(2, false),
	generateSideMask(0, true),
	generateSideMask(1, true),
	generateSideMask(2, true),
}

// AllOctreeSides exposes the per-side octant masks for the space-filling
// engine's face-adjacency walk.
func AllOctreeSides() [6][4]uint32 { return allOctreeSides }

// CreateNewEmptyOct appends a single-word leaf chunk (header only, no child
// slots) used by the parallel "empty" octree for nodes at the tree's
// maximum depth, which never need children.
func (o *Octree) CreateNewEmptyOct() uint32 {
	offset := uint32(len(o.Data))
	var header Word
	SetHeaderTag(&header)
	o.Data = append(o.Data, header)
	return offset
}

// CreateEmptyOct allocates a chunk for the empty tree at the given depth:
// a single-word leaf chunk at the tree's maximum depth, or a full 9-word
// interior chunk otherwise.
func (o *Octree) CreateEmptyOct(depth uint32) uint32 {
	if o.Depth == depth {
		return o.CreateNewEmptyOct()
	}
	return o.CreateNewOct(0)
}

type iterLevel struct {
	offset uint32
	pos    Pos
}

func (o *Octree) collectRecursive(nodes *[]LeafNode, it iterLevel) {
	header := o.Data[it.offset]

	for i := uint32(0); i < 8; i++ {
		if !GetExists(header, i) {
			continue
		}

		scale := int32(1) << (o.Depth - it.pos.Depth)
		perm := octPermutations[i]
		newPos := it.pos.Coords.Add(vmath.IVec3{X: perm.X * scale, Y: perm.Y * scale, Z: perm.Z * scale})
		offset := o.Data[it.offset+1+i]

		if GetFinal(header, i) {
			*nodes = append(*nodes, LeafNode{
				Pos:   Pos{Coords: newPos, Depth: it.pos.Depth},
				Color: offset,
			})
		} else {
			o.collectRecursive(nodes, iterLevel{
				offset: offset,
				pos:    Pos{Coords: newPos, Depth: it.pos.Depth + 1},
			})
		}
	}
}

// LeafNode pairs a leaf's position with its packed color word.
type LeafNode struct {
	Pos   Pos
	Color Word
}

// CollectNodes recursively enumerates every occupied leaf in the tree.
func (o *Octree) CollectNodes() []LeafNode {
	nodes := make([]LeafNode, 0, len(o.Data)/9)
	o.collectRecursive(&nodes, iterLevel{offset: 0, pos: Pos{Depth: 0}})
	return nodes
}
