// Package pipeline wires the mesh source, voxelizer, space-filling engine
// and output emitters into the single end-to-end conversion the CLI
// driver exposes.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/szostid/meshvox/internal/mesh"
	"github.com/szostid/meshvox/internal/meshout"
	"github.com/szostid/meshvox/internal/meshsrc"
	"github.com/szostid/meshvox/internal/octree"
	"github.com/szostid/meshvox/internal/spacefill"
	"github.com/szostid/meshvox/internal/voxelize"
	"github.com/szostid/meshvox/internal/voxout"
)

// InputType names the recognized mesh-source file kinds.
type InputType int

const (
	// GlbGltf covers both .gltf and .glb containers.
	GlbGltf InputType = iota
)

// OutputType names the recognized emitter file kinds.
type OutputType int

const (
	// Gltf emits a triangle mesh of the voxelized model's exterior.
	Gltf OutputType = iota
	// MagicaVoxel emits a chunked, scene-graphed .vox file.
	MagicaVoxel
)

// InputTypeFromFile infers the mesh source type from path's extension.
func InputTypeFromFile(path string) (InputType, error) {
	switch ext(path) {
	case "gltf", "glb":
		return GlbGltf, nil
	default:
		return 0, fmt.Errorf("unknown input file extension %q (only .gltf and .glb are supported)", ext(path))
	}
}

// OutputTypeFromFile infers the emitter type from path's extension.
func OutputTypeFromFile(path string) (OutputType, error) {
	switch ext(path) {
	case "gltf":
		return Gltf, nil
	case "vox":
		return MagicaVoxel, nil
	default:
		return 0, fmt.Errorf("unknown output file extension %q (only .gltf and .vox are supported)", ext(path))
	}
}

func ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Options configures one run of the pipeline.
type Options struct {
	Input  string
	Output string
	Dim    uint32
	Sparse bool
}

// Run loads Input, voxelizes it at Dim resolution, and writes the result to
// Output using whichever emitter its extension selects.
func Run(opts Options) error {
	inputType, err := InputTypeFromFile(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to infer input file type: %w", err)
	}
	outputType, err := OutputTypeFromFile(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to infer output file type: %w", err)
	}

	m, err := loadMesh(inputType, opts.Input)
	if err != nil {
		return fmt.Errorf("failed to load the input file: %w", err)
	}
	fmt.Println("[pipeline] Mesh is loaded")

	tree := voxelize.Voxelize(m, opts.Dim, voxelize.Triangles)
	fmt.Println("[pipeline] Mesh is voxelized")

	if err := save(tree, m.View, outputType, opts); err != nil {
		return fmt.Errorf("failed to save the output file: %w", err)
	}
	fmt.Println("[pipeline] Mesh is saved")

	return nil
}

func loadMesh(t InputType, path string) (mesh.Mesh, error) {
	switch t {
	case GlbGltf:
		return meshsrc.Load(path)
	default:
		return mesh.Mesh{}, fmt.Errorf("unsupported input type")
	}
}

func save(tree *octree.Octree, view mesh.View, t OutputType, opts Options) error {
	switch t {
	case Gltf:
		maxSize := opts.Dim - 1
		var verts []mesh.Vertex
		if opts.Sparse {
			verts = spacefill.FillSpace(tree, maxSize)
		} else {
			verts = spacefill.DenseMesh(tree, maxSize)
		}
		return meshout.WriteGLTF(opts.Output, verts, view, true)
	case MagicaVoxel:
		return voxout.Write(tree, opts.Output)
	default:
		return fmt.Errorf("unsupported output type")
	}
}
