// Package voxelize rasterizes a triangle mesh into a sparse octree using a
// 3D DDA walk per edge, shading each visited voxel from either a flat
// material color or a nearest-neighbor texture sample.
package voxelize

import (
	"image"
	"math"
	"math/bits"

	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/vmath"
)

// Mode selects how a triangle's surface is rasterized into voxels.
type Mode int

const (
	// Triangles fans DDA lines across a triangle's filled interior.
	Triangles Mode = iota
	// Lines walks only the triangle's three edges, producing a wireframe.
	Lines
	// Points stores one voxel per vertex and skips edges entirely.
	Points
)

// shading resolves the color to store at a voxel position, either from a
// flat material color or by projecting the position onto the source
// triangle and sampling its texture at the nearest texel.
type shading struct {
	textured bool
	image    *image.RGBA
	vertices [3]vmath.Vec3
	uvs      [3]vmath.Vec2
	color    [3]uint8
}

func (s shading) colorAt(pos vmath.IVec3) octree.RGBA8 {
	if !s.textured {
		return octree.RGBA8{R: s.color[0], G: s.color[1], B: s.color[2], A: 255}
	}

	point := vmath.ClosestPointOnTriangle(pos.AsVec3(), s.vertices)
	bary := vmath.Barycentric(point, s.vertices)

	uv := s.uvs[0].Mul(bary[0]).Add(s.uvs[1].Mul(bary[1])).Add(s.uvs[2].Mul(bary[2]))
	u := vmath.RemEuclid(uv[0], 1)
	v := vmath.RemEuclid(uv[1], 1)

	bounds := s.image.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	x := bounds.Min.X + int(float32(w-1)*u)
	y := bounds.Min.Y + int(float32(h-1)*v)

	c := s.image.RGBAAt(x, y)
	return octree.RGBA8{R: c.R, G: c.G, B: c.B, A: 255}
}

// voxelizeLine walks the 3D DDA grid from p1 to p2, storing a shaded voxel
// at every integer cell the ray crosses.
func voxelizeLine(tree *octree.Octree, sh shading, p1, p2 vmath.Vec3) {
	if p1 == p2 {
		return
	}

	end := vmath.AsIVec3(p2)
	rayPos := p1

	rayDir := p2.Sub(p1).Normalize()
	if !vmath.IsFinite(rayDir) {
		return
	}

	invDir := vmath.Vec3{1 / rayDir[0], 1 / rayDir[1], 1 / rayDir[2]}

	mapPos := vmath.FloorToIVec3(rayPos)

	tDelta := vmath.Vec3{absf(invDir[0]), absf(invDir[1]), absf(invDir[2])}
	sign := vmath.Sign(rayDir)
	step := vmath.AsIVec3(sign)

	stepClamped := vmath.IVec3{
		X: maxI32(step.X, 0),
		Y: maxI32(step.Y, 0),
		Z: maxI32(step.Z, 0),
	}
	nextPos := mapPos.Add(stepClamped).AsVec3()

	tMaxV := nextPos.Sub(rayPos)
	tMax := vmath.Vec3{tMaxV[0] * invDir[0], tMaxV[1] * invDir[1], tMaxV[2] * invDir[2]}

	for {
		tree.Store(mapPos, sh.colorAt(mapPos))

		if mapPos.Eq(end) {
			break
		}

		axis := vmath.MinPositionAxis(tMax)
		tMax[axis] += tDelta[axis]
		mapPos = mapPos.AddScalarAxis(axis, step.Get(axis))
	}
}

func voxelizeWireframe(tree *octree.Octree, sh shading, tri [3]vmath.Vec3) {
	voxelizeLine(tree, sh, tri[0], tri[1])
	voxelizeLine(tree, sh, tri[1], tri[2])
	voxelizeLine(tree, sh, tri[0], tri[2])
}

// voxelizeTriangle fans DDA lines from the vertex opposite the longest edge
// onto that edge, filling the triangle's interior.
func voxelizeTriangle(tree *octree.Octree, sh shading, tri [3]vmath.Vec3) {
	type edge struct {
		a, b int
		len2 float32
	}
	edges := [3]edge{
		{1, 2, tri[1].Sub(tri[2]).LenSqr()},
		{0, 2, tri[0].Sub(tri[2]).LenSqr()},
		{0, 1, tri[0].Sub(tri[1]).LenSqr()},
	}

	longest := edges[0]
	for _, e := range edges[1:] {
		if e.len2 > longest.len2 {
			longest = e
		}
	}

	a, b := longest.a, longest.b
	c := 3 - a - b
	ab := float32(math.Sqrt(float64(longest.len2)))

	numSteps := int32(math.Ceil(float64(ab)))
	if numSteps < 1 {
		numSteps = 1
	}

	dir := tri[b].Sub(tri[a]).Mul(1 / float32(numSteps))

	for i := int32(0); i <= numSteps; i++ {
		start := tri[a].Add(dir.Mul(float32(i)))
		voxelizeLine(tree, sh, start, tri[c])
	}
}

func voxelizePoint(tree *octree.Octree, point vmath.Vec3) {
	p := vmath.RoundToIVec3(point)
	tree.Store(p, octree.RGBA8{R: 32, G: 32, B: 32, A: 255})
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Voxelize converts m into a sparse octree at the given voxel resolution and
// rasterization mode. size includes the one-voxel margin kept around the
// model so containment queries downstream can tell inside from outside.
func Voxelize(m mesh.Mesh, size uint32, mode Mode) *octree.Octree {
	maxSize := size - 1
	depth := uint32(31 - bits.LeadingZeros32(size+1))

	largestDim := vmath.MaxElement(m.Bounds.Size())
	scale := float32(maxSize) / largestDim

	tree := octree.New(depth)

	for _, tri := range m.Triangles {
		var vertices [3]vmath.Vec3
		for i, v := range tri.Positions {
			v = v.Sub(m.Bounds.Min)
			v = v.Mul(scale)
			v = v.Add(vmath.Vec3{1, 1, 1})
			vertices[i] = v
		}

		material := m.MaterialFor(tri.Extras[0].MaterialIdx)

		var sh shading
		if material.IsTextured() {
			var uvs [3]vmath.Vec2
			for i, ex := range tri.Extras {
				if uv, ok := ex.UV(); ok {
					uvs[i] = uv
				}
			}
			sh = shading{
				textured: true,
				image:    material.Image,
				vertices: vertices,
				uvs:      uvs,
			}
		} else {
			sh = shading{color: material.Color}
		}

		switch mode {
		case Triangles:
			voxelizeTriangle(tree, sh, vertices)
		case Lines:
			voxelizeWireframe(tree, sh, vertices)
		case Points:
			for _, v := range vertices {
				voxelizePoint(tree, v)
			}
		}
	}

	return tree
}
