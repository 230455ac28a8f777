// Package voxout writes a filled octree's leaves out as a MagicaVoxel-
// compatible chunked .vox file: the leaf volume is binned into 256-cube
// models addressed by a transform/group/shape scene graph, with an
// interleaved Y/Z axis swap that mirrors the target format's own
// coordinate convention.
package voxout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/vmath"
)

const chunkSize int32 = 256

type voxel struct {
	x, y, z byte
	index   byte
}

// Write renders every leaf of tree into the .vox file at path.
func Write(tree *octree.Octree, path string) error {
	chunks := map[vmath.IVec3][]voxel{}

	for _, leaf := range tree.CollectNodes() {
		color := octree.ToColor(leaf.Color)
		idx := magicaEncode(color)

		c := leaf.Pos.Coords
		chunkCoord := vmath.IVec3{X: floorDiv(c.X, chunkSize), Y: floorDiv(c.Y, chunkSize), Z: floorDiv(c.Z, chunkSize)}
		local := vmath.IVec3{X: floorMod(c.X, chunkSize), Y: floorMod(c.Y, chunkSize), Z: floorMod(c.Z, chunkSize)}

		// Axis swap: the target format's local Z/Y axes are transposed
		// relative to ours, matching the same swap applied to the
		// chunk-translation frame below.
		chunks[chunkCoord] = append(chunks[chunkCoord], voxel{
			x:     byte(local.X),
			y:     byte(local.Z),
			z:     byte(local.Y),
			index: idx,
		})
	}

	doc := buildDocument(chunks)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("voxout: creating %q: %w", path, err)
	}
	defer f.Close()

	if err := doc.encode(f); err != nil {
		return fmt.Errorf("voxout: writing %q: %w", path, err)
	}
	return nil
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int32) int32 {
	return a - floorDiv(a, b)*b
}

// document is the in-memory MagicaVoxel scene graph about to be encoded.
type document struct {
	models  []model
	palette [256]octree.RGBA8
	nodes   []sceneNode
}

type model struct {
	voxels []voxel
}

// sceneNode is a pre-serialized MagicaVoxel scene-graph node (nTRN, nGRP, or
// nSHP), built ahead of encoding since shape/group nodes reference each
// other by id.
type sceneNode struct {
	chunkID string
	content []byte
}

func buildDocument(chunks map[vmath.IVec3][]voxel) document {
	doc := document{}

	for i := 0; i < 256; i++ {
		doc.palette[i] = magicaDecode(byte(i))
	}

	// Node 0: root transform pointing at the group.
	doc.nodes = append(doc.nodes, transformNode(0, 1, nil))
	// Node 1: group, children appended as chunks are discovered.
	doc.nodes = append(doc.nodes, sceneNode{})
	groupChildren := make([]uint32, 0, len(chunks))

	for coord, voxels := range chunks {
		modelID := uint32(len(doc.models))
		doc.models = append(doc.models, model{voxels: voxels})

		transformID := uint32(len(doc.nodes))
		shapeID := transformID + 1

		translation := [3]int32{coord.X * chunkSize, coord.Z * chunkSize, coord.Y * chunkSize}
		doc.nodes = append(doc.nodes, transformNode(transformID, shapeID, &translation))
		doc.nodes = append(doc.nodes, shapeNode(shapeID, modelID))

		groupChildren = append(groupChildren, transformID)
	}

	doc.nodes[1] = groupNode(1, groupChildren)

	return doc
}

func (d document) encode(w *os.File) error {
	var body bytes.Buffer

	if len(d.models) > 1 {
		writeChunk(&body, "PACK", packChunkContent(len(d.models)))
	}
	for _, m := range d.models {
		writeChunk(&body, "SIZE", sizeChunkContent())
		writeChunk(&body, "XYZI", xyziChunkContent(m.voxels))
	}
	for _, n := range d.nodes {
		writeChunk(&body, n.chunkID, n.content)
	}
	writeChunk(&body, "RGBA", rgbaChunkContent(d.palette))

	if _, err := w.Write([]byte("VOX ")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(150)); err != nil {
		return err
	}

	var main bytes.Buffer
	main.WriteString("MAIN")
	binary.Write(&main, binary.LittleEndian, int32(0))
	binary.Write(&main, binary.LittleEndian, int32(body.Len()))
	main.Write(body.Bytes())

	_, err := w.Write(main.Bytes())
	return err
}

func writeChunk(w *bytes.Buffer, id string, content []byte) {
	w.WriteString(id)
	binary.Write(w, binary.LittleEndian, int32(len(content)))
	binary.Write(w, binary.LittleEndian, int32(0))
	w.Write(content)
}

func packChunkContent(numModels int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(numModels))
	return buf.Bytes()
}

func sizeChunkContent() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	return buf.Bytes()
}

func xyziChunkContent(voxels []voxel) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(voxels)))
	for _, v := range voxels {
		buf.Write([]byte{v.x, v.y, v.z, v.index})
	}
	return buf.Bytes()
}

func rgbaChunkContent(palette [256]octree.RGBA8) []byte {
	var buf bytes.Buffer
	for _, c := range palette {
		buf.Write([]byte{c.R, c.G, c.B, c.A})
	}
	return buf.Bytes()
}

// writeDict encodes a MagicaVoxel attribute dictionary: an int32 count
// followed by (string key, string value) pairs, each string as an int32
// length prefix plus raw bytes.
func writeDict(buf *bytes.Buffer, attrs map[string]string) {
	binary.Write(buf, binary.LittleEndian, int32(len(attrs)))
	for k, v := range attrs {
		writeString(buf, k)
		writeString(buf, v)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, int32(len(s)))
	buf.WriteString(s)
}

func transformNode(nodeID, childID uint32, translation *[3]int32) sceneNode {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, nodeID)
	writeDict(&buf, nil)
	binary.Write(&buf, binary.LittleEndian, childID)
	binary.Write(&buf, binary.LittleEndian, int32(-1)) // reserved
	binary.Write(&buf, binary.LittleEndian, int32(0))  // layer id

	frames := map[string]string{}
	if translation != nil {
		frames["_t"] = fmt.Sprintf("%d %d %d", translation[0], translation[1], translation[2])
	}
	binary.Write(&buf, binary.LittleEndian, int32(1)) // one frame
	writeDict(&buf, frames)

	return sceneNode{chunkID: "nTRN", content: buf.Bytes()}
}

func groupNode(nodeID uint32, children []uint32) sceneNode {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, nodeID)
	writeDict(&buf, nil)
	binary.Write(&buf, binary.LittleEndian, int32(len(children)))
	for _, c := range children {
		binary.Write(&buf, binary.LittleEndian, c)
	}
	return sceneNode{chunkID: "nGRP", content: buf.Bytes()}
}

func shapeNode(nodeID, modelID uint32) sceneNode {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, nodeID)
	writeDict(&buf, nil)
	binary.Write(&buf, binary.LittleEndian, int32(1)) // one model
	binary.Write(&buf, binary.LittleEndian, modelID)
	writeDict(&buf, nil)
	return sceneNode{chunkID: "nSHP", content: buf.Bytes()}
}
