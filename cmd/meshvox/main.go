// Command meshvox converts a triangle mesh into a voxel volume and back
// out as either an exterior-surface triangle mesh or a chunked voxel file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/szostid/meshvox/internal/pipeline"
)

func main() {
	input := flag.String("input", "", "the input file that will be voxelized (.gltf or .glb)")
	output := flag.String("output", "", "the output file after voxelization (.gltf or .vox)")
	dim := flag.Uint("dim", 1022, "the resolution of the output model")
	sparse := flag.Bool("sparse", true, "extract only the exterior surface instead of every face")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: meshvox -input <file> -output <file> [-dim N] [-sparse=true|false]")
		os.Exit(2)
	}

	err := pipeline.Run(pipeline.Options{
		Input:  *input,
		Output: *output,
		Dim:    uint32(*dim),
		Sparse: *sparse,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "meshvox: %v\n", err)
		os.Exit(1)
	}
}
