// Package meshsrc adapts a glTF/GLB document into the flattened mesh.Mesh
// the voxelizer consumes: triangulated geometry, resolved materials, a
// bounding box and the first camera found in the scene. Vertex positions
// are taken as stored in each mesh; node transforms are not applied to them.
package meshsrc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/vmath"
)

// Load reads a .gltf or .glb file at path and flattens every mesh in the
// document into a single mesh.Mesh. Non-triangle primitives, missing
// indices, and a textured material whose triangles are missing UV
// coordinates are all hard errors.
func Load(path string) (mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return mesh.Mesh{}, fmt.Errorf("meshsrc: opening %q: %w", path, err)
	}

	materials, err := resolveMaterials(doc, path)
	if err != nil {
		return mesh.Mesh{}, fmt.Errorf("meshsrc: resolving materials: %w", err)
	}

	b := &builder{doc: doc, materials: materials, bounds: vmath.EmptyBoundingBox()}

	for i := range doc.Meshes {
		if err := b.addMesh(uint32(i)); err != nil {
			return mesh.Mesh{}, err
		}
	}

	return mesh.Mesh{
		Triangles: b.triangles,
		Materials: materials,
		Bounds:    b.bounds,
		View:      buildView(doc),
	}, nil
}

// buildView captures the scene's first camera (uncorrected-off-by-one
// source would skip index 0; here the first camera found is used
// unconditionally) and the first root node's local transform, both
// opaque to the core and passed straight through to the emitters.
func buildView(doc *gltf.Document) mesh.View {
	view := mesh.View{MVP: mgl32.Ident4()}

	if len(doc.Cameras) > 0 {
		if cam, err := convertCamera(doc, 0); err == nil {
			view.Camera = cam
		}
	}

	sceneIdx := uint32(0)
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) < len(doc.Scenes) {
		if nodes := doc.Scenes[sceneIdx].Nodes; len(nodes) > 0 && int(nodes[0]) < len(doc.Nodes) {
			view.MVP = localTransform(doc.Nodes[nodes[0]])
		}
	}

	return view
}

type builder struct {
	doc       *gltf.Document
	materials []mesh.Material
	triangles []mesh.Triangle
	bounds    vmath.BoundingBox
}

// localTransform builds a node's local matrix from its explicit Matrix
// field when present, otherwise from its TRS (translation/rotation/scale)
// fields.
func localTransform(node *gltf.Node) vmath.Mat4 {
	if node.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range node.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := node.Translation
	r := node.Rotation
	s := node.Scale

	translate := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))
	rotate := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}.Mat4()
	scale := mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2]))

	return translate.Mul4(rotate).Mul4(scale)
}

func (b *builder) addMesh(meshIdx uint32) error {
	gm := b.doc.Meshes[meshIdx]

	for primIdx, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			return fmt.Errorf("meshsrc: mesh %d primitive %d uses non-triangle geometry", meshIdx, primIdx)
		}

		posAccessorIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return fmt.Errorf("meshsrc: mesh %d primitive %d has no POSITION attribute", meshIdx, primIdx)
		}
		positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posAccessorIdx], nil)
		if err != nil {
			return fmt.Errorf("meshsrc: reading positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(b.doc, b.doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("meshsrc: reading normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("meshsrc: reading texture coordinates: %w", err)
			}
		}

		if prim.Indices == nil {
			return fmt.Errorf("meshsrc: mesh %d primitive %d has no vertex indices", meshIdx, primIdx)
		}
		indices, err := modeler.ReadIndices(b.doc, b.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("meshsrc: reading indices: %w", err)
		}

		// A primitive with no material index resolves to the trailing
		// default-white entry resolveMaterials appends.
		matIdx := uint32(len(b.materials) - 1)
		if prim.Material != nil {
			matIdx = *prim.Material
		}
		material := b.materials[0]
		if int(matIdx) < len(b.materials) {
			material = b.materials[matIdx]
		}

		for t := 0; t+2 < len(indices); t += 3 {
			i1, i2, i3 := indices[t], indices[t+1], indices[t+2]

			var tri mesh.Triangle
			for corner, vi := range [3]uint32{i1, i2, i3} {
				p := positions[vi]
				pos := vmath.Vec3{p[0], p[1], p[2]}
				tri.Positions[corner] = pos
				b.bounds.Extend(pos)

				var normalPtr *vmath.Vec3
				if normals != nil {
					n := vmath.Vec3{normals[vi][0], normals[vi][1], normals[vi][2]}
					normalPtr = &n
				}

				var uvPtr *vmath.Vec2
				if uvs != nil {
					uv := vmath.Vec2{uvs[vi][0], uvs[vi][1]}
					uvPtr = &uv
				} else if material.IsTextured() {
					return fmt.Errorf("meshsrc: mesh %d primitive %d has a textured material but no UV coordinates", meshIdx, primIdx)
				}

				tri.Extras[corner] = mesh.NewVertexExtras(normalPtr, uvPtr, matIdx)
			}
			b.triangles = append(b.triangles, tri)
		}
	}
	return nil
}

func convertCamera(doc *gltf.Document, idx uint32) (*mesh.Camera, error) {
	if int(idx) >= len(doc.Cameras) {
		return nil, fmt.Errorf("meshsrc: camera index %d out of range", idx)
	}
	cam := doc.Cameras[idx]

	switch cam.Type {
	case gltf.CameraPerspective:
		p := cam.Perspective
		c := &mesh.PerspectiveCamera{YFov: p.Yfov, ZNear: p.Znear}
		if p.Zfar != nil {
			zf := *p.Zfar
			c.ZFar = &zf
		}
		if p.AspectRatio != nil {
			ar := *p.AspectRatio
			c.AspectRatio = &ar
		}
		return &mesh.Camera{Perspective: c}, nil
	case gltf.CameraOrthographic:
		o := cam.Orthographic
		return &mesh.Camera{Orthographic: &mesh.OrthographicCamera{
			XMag: o.Xmag, YMag: o.Ymag, ZNear: o.Znear, ZFar: o.Zfar,
		}}, nil
	default:
		return nil, fmt.Errorf("meshsrc: unknown camera type %q", cam.Type)
	}
}
