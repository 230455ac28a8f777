package voxout

import "github.com/szostid/meshvox/internal/octree"

// magicaEncode quantizes an RGB color into MagicaVoxel's 3:3:2 palette byte
// (R in bits 0-2, G in bits 3-5, B in bits 6-7).
func magicaEncode(c octree.RGBA8) uint8 {
	return (c.R >> 5) | ((c.G >> 5) << 3) | ((c.B >> 6) << 6)
}

// magicaDecode expands a 3:3:2 palette byte back into an RGB color. It is
// the inverse of magicaEncode up to quantization: magicaEncode(magicaDecode(i))
// == i for every i in [0, 256).
func magicaDecode(b uint8) octree.RGBA8 {
	const mask3 = (1 << 3) - 1
	const mask2 = (1 << 2) - 1

	r := (b & mask3) << 5
	g := ((b >> 3) & mask3) << 5
	blue := ((b >> 6) & mask2) << 6

	return octree.RGBA8{R: r, G: g, B: blue, A: 255}
}
