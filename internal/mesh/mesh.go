// Package mesh holds the domain types shared between the glTF reader, the
// voxelizer, the space-filling engine and the glTF/voxel-file writers: a
// flattened triangle soup plus enough material and camera context to shade
// and re-export it.
package mesh

import (
	"image"

	"github.com/szostid/meshvox/internal/vmath"
)

// VertexExtras carries the per-corner attributes that ride alongside a
// triangle's bare positions: the optional shading normal, the optional UV
// coordinate and the material the corner's triangle belongs to.
//
// The original format represented "no value" with a NaN sentinel compared
// by equality, which the spec calls out as unsound for floats; here presence
// is tracked explicitly instead.
type VertexExtras struct {
	normal    vmath.Vec3
	hasNormal bool
	uv        vmath.Vec2
	hasUV     bool

	MaterialIdx uint32
}

// NewVertexExtras builds a VertexExtras from optional normal/uv pointers.
func NewVertexExtras(normal *vmath.Vec3, uv *vmath.Vec2, materialIdx uint32) VertexExtras {
	v := VertexExtras{MaterialIdx: materialIdx}
	if normal != nil {
		v.normal, v.hasNormal = *normal, true
	}
	if uv != nil {
		v.uv, v.hasUV = *uv, true
	}
	return v
}

// Normal returns the corner's shading normal, if the source supplied one.
func (v VertexExtras) Normal() (vmath.Vec3, bool) { return v.normal, v.hasNormal }

// UV returns the corner's texture coordinate, if the source supplied one.
func (v VertexExtras) UV() (vmath.Vec2, bool) { return v.uv, v.hasUV }

// Material is either a decoded base-color texture or a flat RGB color, the
// two shading sources a triangle's material can resolve to.
type Material struct {
	Image *image.RGBA // non-nil for a textured material
	Color [3]uint8    // valid when Image is nil
}

// IsTextured reports whether the material should be sampled from Image.
func (m Material) IsTextured() bool { return m.Image != nil }

// PerspectiveCamera mirrors a glTF perspective camera projection.
type PerspectiveCamera struct {
	YFov        float32
	ZNear       float32
	ZFar        *float32
	AspectRatio *float32
}

// OrthographicCamera mirrors a glTF orthographic camera projection.
type OrthographicCamera struct {
	XMag, YMag float32
	ZNear, ZFar float32
}

// Camera is either a perspective or an orthographic projection, carried
// through the pipeline so it can be reattached to the output glTF scene.
type Camera struct {
	Perspective  *PerspectiveCamera
	Orthographic *OrthographicCamera
}

// View packages the first camera found in the source scene (if any) with
// the source's model-view-projection matrix, taken from the first scene's
// first root node regardless of what that node contains, so the output
// file's scene framing matches the input's.
type View struct {
	Camera *Camera
	MVP    vmath.Mat4
}

// Triangle is three shaded corners forming one face.
type Triangle struct {
	Positions [3]vmath.Vec3
	Extras    [3]VertexExtras
}

// Mesh is the flattened, triangulated input to the voxelizer: every
// triangle in the source scene, its per-corner extras, the resolved
// material table they index into, and the source's bounding box and view.
type Mesh struct {
	Triangles []Triangle
	Materials []Material
	Bounds    vmath.BoundingBox
	View      View
}

// MaterialFor resolves a triangle's material slot, falling back to the
// first material (matching the source's own fallback) when the index is
// out of range.
func (m Mesh) MaterialFor(idx uint32) Material {
	if int(idx) < len(m.Materials) {
		return m.Materials[idx]
	}
	return m.Materials[0]
}

// Vertex is one packed output vertex: a position and an 8-bit-per-channel
// color, the format written into the sparse exterior mesh.
type Vertex struct {
	Position vmath.Vec3
	Color    [3]uint8
}

// FloatVertex is Vertex with the color expressed as normalized floats,
// used when the output asks for float vertex colors instead of bytes.
type FloatVertex struct {
	Position vmath.Vec3
	Color    [3]float32
}

// ToFloatVertex converts a byte-colored vertex to its float equivalent.
func (v Vertex) ToFloatVertex() FloatVertex {
	return FloatVertex{
		Position: v.Position,
		Color: [3]float32{
			float32(v.Color[0]) / 255,
			float32(v.Color[1]) / 255,
			float32(v.Color[2]) / 255,
		},
	}
}
