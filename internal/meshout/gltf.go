// Package meshout writes the flat vertex list produced by the
// space-filling engine back out as a standard glTF 2.0 asset: a single
// interleaved vertex buffer, one double-sided material, one mesh
// primitive, and a scene node carrying the source view's passed-through
// model-view-projection matrix.
package meshout

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/vmath"
)

// WriteGLTF writes verts (a flat triple-of-triangle-vertex list, as
// returned by spacefill.FillSpace or spacefill.DenseMesh) to path as a
// glTF document with an external ".bin" buffer alongside it. float
// selects whether COLOR_0 is stored as float32 or as normalized uint8.
func WriteGLTF(path string, verts []mesh.Vertex, view mesh.View, float bool) error {
	bounds := vmath.EmptyBoundingBox()
	for _, v := range verts {
		bounds.Extend(v.Position)
	}

	stride, data, err := packVertices(verts, float)
	if err != nil {
		return fmt.Errorf("meshout: packing vertices: %w", err)
	}

	doc := gltf.NewDocument()
	doc.Asset = gltf.Asset{Version: "2.0"}

	doc.Buffers = []*gltf.Buffer{{
		URI:        "model.bin",
		ByteLength: uint32(len(data)),
		Data:       data,
	}}
	doc.BufferViews = []*gltf.BufferView{{
		Buffer:     0,
		ByteOffset: 0,
		ByteLength: uint32(len(data)),
		ByteStride: uint32(stride),
	}}

	bvIdx := uint32(0)

	posOffset := uint32(0)
	posAccessor := &gltf.Accessor{
		BufferView:    &bvIdx,
		ByteOffset:    posOffset,
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(verts)),
		Max:           []float64{float64(bounds.Max[0]), float64(bounds.Max[1]), float64(bounds.Max[2])},
		Min:           []float64{float64(bounds.Min[0]), float64(bounds.Min[1]), float64(bounds.Min[2])},
	}

	colorOffset := uint32(12) // after a Vec3 of float32
	colorAccessor := &gltf.Accessor{
		BufferView:    &bvIdx,
		ByteOffset:    colorOffset,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(verts)),
	}
	if float {
		colorAccessor.ComponentType = gltf.ComponentFloat
	} else {
		colorAccessor.ComponentType = gltf.ComponentUbyte
		colorAccessor.Normalized = true
	}

	doc.Accessors = []*gltf.Accessor{posAccessor, colorAccessor}

	doc.Materials = []*gltf.Material{{
		Name:        "exterior",
		DoubleSided: true,
	}}

	matIdx := uint32(0)
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				gltf.POSITION: 0,
				gltf.COLOR_0:  1,
			},
			Material: &matIdx,
			Mode:     gltf.PrimitiveTriangles,
		}},
	}}

	meshIdx := uint32(0)
	rootNode := &gltf.Node{
		Mesh:   &meshIdx,
		Matrix: mvpToArray(view.MVP),
	}
	doc.Nodes = []*gltf.Node{rootNode}
	sceneNodes := []uint32{0}

	if view.Camera != nil {
		camIdx, err := appendCamera(doc, view.Camera)
		if err != nil {
			return fmt.Errorf("meshout: %w", err)
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{Camera: &camIdx})
		sceneNodes = append(sceneNodes, uint32(len(doc.Nodes)-1))
	}

	doc.Scenes = []*gltf.Scene{{Nodes: sceneNodes}}
	zero := uint32(0)
	doc.Scene = &zero

	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("meshout: saving %q: %w", path, err)
	}

	return nil
}

func appendCamera(doc *gltf.Document, cam *mesh.Camera) (uint32, error) {
	gc := &gltf.Camera{}
	switch {
	case cam.Perspective != nil:
		p := cam.Perspective
		gc.Type = gltf.CameraPerspective
		gc.Perspective = &gltf.Perspective{
			Yfov:        p.YFov,
			Znear:       p.ZNear,
			Zfar:        p.ZFar,
			AspectRatio: p.AspectRatio,
		}
	case cam.Orthographic != nil:
		o := cam.Orthographic
		gc.Type = gltf.CameraOrthographic
		gc.Orthographic = &gltf.Orthographic{
			Xmag: o.XMag, Ymag: o.YMag, Znear: o.ZNear, Zfar: o.ZFar,
		}
	default:
		return 0, fmt.Errorf("camera has neither a perspective nor an orthographic projection")
	}
	doc.Cameras = append(doc.Cameras, gc)
	return uint32(len(doc.Cameras) - 1), nil
}

func mvpToArray(m vmath.Mat4) [16]float64 {
	var out [16]float64
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

// packVertices interleaves position and color into one binary blob, matching
// the byte layout the output's bufferView/accessor pair describes: a Vec3
// position immediately followed by a Vec3 color (float32 triplet, or
// normalized uint8 triplet padded to a 4-byte vertex stride).
func packVertices(verts []mesh.Vertex, float bool) (stride int, data []byte, err error) {
	var buf bytes.Buffer

	if float {
		stride = 24
		for _, v := range verts {
			fv := v.ToFloatVertex()
			if err := binary.Write(&buf, binary.LittleEndian, fv.Position); err != nil {
				return 0, nil, err
			}
			if err := binary.Write(&buf, binary.LittleEndian, fv.Color); err != nil {
				return 0, nil, err
			}
		}
		return stride, buf.Bytes(), nil
	}

	stride = 16
	for _, v := range verts {
		if err := binary.Write(&buf, binary.LittleEndian, v.Position); err != nil {
			return 0, nil, err
		}
		buf.WriteByte(v.Color[0])
		buf.WriteByte(v.Color[1])
		buf.WriteByte(v.Color[2])
		buf.WriteByte(0) // pad to a 4-byte-aligned stride
	}
	return stride, buf.Bytes(), nil
}
