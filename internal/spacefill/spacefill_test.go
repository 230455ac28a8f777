package spacefill

import (
	"fmt"
	"testing"

	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/vmath"
)

const cubeMin, cubeMax = 2, 9 // an 8x8x8 solid cube, with margin from the tree's edges

func solidCube(depth uint32, skip func(x, y, z int32) bool) *octree.Octree {
	tree := octree.New(depth)
	color := octree.RGBA8{R: 1, G: 2, B: 3, A: 255}
	for x := int32(cubeMin); x <= cubeMax; x++ {
		for y := int32(cubeMin); y <= cubeMax; y++ {
			for z := int32(cubeMin); z <= cubeMax; z++ {
				if skip != nil && skip(x, y, z) {
					continue
				}
				tree.Store(vmath.NewIVec3(x, y, z), color)
			}
		}
	}
	return tree
}

func faceKey(verts [6]mesh.Vertex) string {
	return fmt.Sprintf("%v", verts)
}

// groupFaces splits a flat vertex list (as returned by FillSpace/DenseMesh,
// six vertices per face) into its per-face groups.
func groupFaces(t *testing.T, verts []mesh.Vertex) [][6]mesh.Vertex {
	t.Helper()
	if len(verts)%6 != 0 {
		t.Fatalf("vertex list length %d is not a multiple of 6", len(verts))
	}
	out := make([][6]mesh.Vertex, 0, len(verts)/6)
	for i := 0; i < len(verts); i += 6 {
		var g [6]mesh.Vertex
		copy(g[:], verts[i:i+6])
		out = append(out, g)
	}
	return out
}

func TestFillSpaceScenarioC_SolidCubeEmitsOnlyOuterFaces(t *testing.T) {
	t.Parallel()

	const depth = 4
	tree := solidCube(depth, nil)
	maxSize := uint32(1)<<(depth+1) - 1

	verts := FillSpace(tree, maxSize)
	faces := groupFaces(t, verts)

	side := cubeMax - cubeMin + 1 // 8
	wantFaces := 6 * side * side
	if len(faces) != wantFaces {
		t.Fatalf("got %d faces, want %d (6 sides x %dx%d)", len(faces), wantFaces, side, side)
	}
}

func TestFillSpaceScenarioD_InteriorCavityFacesAreAbsent(t *testing.T) {
	t.Parallel()

	const depth = 4
	// Carve out a 2x2x2 pocket entirely inside the solid cube, not
	// touching any of its outer faces.
	cavity := func(x, y, z int32) bool {
		return x >= 4 && x <= 5 && y >= 4 && y <= 5 && z >= 4 && z <= 5
	}

	solid := solidCube(depth, nil)
	hollow := solidCube(depth, cavity)

	maxSize := uint32(1)<<(depth+1) - 1

	solidFaces := groupFaces(t, FillSpace(solid, maxSize))
	hollowFaces := groupFaces(t, FillSpace(hollow, maxSize))

	if len(hollowFaces) != len(solidFaces) {
		t.Fatalf("hollow cube produced %d faces, want %d (same as the solid cube's outer shell — the cavity is unreachable from outside and must not surface)",
			len(hollowFaces), len(solidFaces))
	}
}

func TestFillSpaceFacesAreSubsetOfDenseMeshFaces(t *testing.T) {
	t.Parallel()

	const depth = 4
	cavity := func(x, y, z int32) bool {
		return x >= 4 && x <= 5 && y >= 4 && y <= 5 && z >= 4 && z <= 5
	}
	tree := solidCube(depth, cavity)
	maxSize := uint32(1)<<(depth+1) - 1

	sparse := groupFaces(t, FillSpace(tree, maxSize))
	dense := groupFaces(t, DenseMesh(tree, maxSize))

	denseSet := map[string]int{}
	for _, f := range dense {
		denseSet[faceKey(f)]++
	}

	for _, f := range sparse {
		key := faceKey(f)
		if denseSet[key] <= 0 {
			t.Fatalf("sparse face %v is not present in the dense face set", f)
		}
		denseSet[key]--
	}
}

func TestFillSpaceIsIdempotent(t *testing.T) {
	t.Parallel()

	const depth = 4
	tree := solidCube(depth, nil)
	maxSize := uint32(1)<<(depth+1) - 1

	first := FillSpace(tree, maxSize)
	second := FillSpace(tree, maxSize)

	if len(first) != len(second) {
		t.Fatalf("two FillSpace runs produced %d and %d vertices", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vertex %d differs between runs: %v != %v", i, first[i], second[i])
		}
	}
}

func TestFillSpaceEmptyTreeEmitsNoFaces(t *testing.T) {
	t.Parallel()

	const depth = 4
	tree := octree.New(depth)
	maxSize := uint32(1)<<(depth+1) - 1

	verts := FillSpace(tree, maxSize)
	if len(verts) != 0 {
		t.Fatalf("expected no faces for an empty octree, got %d vertices", len(verts))
	}
}

func TestDenseMeshEmitsSixFacesPerLeaf(t *testing.T) {
	t.Parallel()

	const depth = 3
	tree := octree.New(depth)
	tree.Store(vmath.NewIVec3(3, 3, 3), octree.RGBA8{R: 1, A: 255})

	maxSize := uint32(1)<<(depth+1) - 1
	verts := DenseMesh(tree, maxSize)

	if len(verts) != 36 { // 6 faces * 2 triangles * 3 vertices
		t.Fatalf("got %d vertices for a single leaf, want 36", len(verts))
	}
}

func TestMeshNodeToVerticesProducesTwoDistinctTriangles(t *testing.T) {
	t.Parallel()

	n := MeshNode{Coords: vmath.NewIVec3(4, 4, 4), Dim: 0, Positive: true, Depth: 2}
	verts := n.ToVertices(5)

	tri1 := [3]vmath.IVec3{verts[0], verts[1], verts[2]}
	tri2 := [3]vmath.IVec3{verts[3], verts[4], verts[5]}

	if tri1 == tri2 {
		t.Fatal("the two triangles covering a face are identical — fill_space's duplicate-triangle bug is not fixed")
	}
	// Each triangle's three corners must themselves be pairwise distinct.
	if tri1[0] == tri1[1] || tri1[1] == tri1[2] || tri1[0] == tri1[2] {
		t.Fatalf("triangle 1 has coincident corners: %v", tri1)
	}
	if tri2[0] == tri2[1] || tri2[1] == tri2[2] || tri2[0] == tri2[2] {
		t.Fatalf("triangle 2 has coincident corners: %v", tri2)
	}
}
