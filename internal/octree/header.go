// Package octree implements the sparse octree used to hold voxelized mesh
// data: a compact packed representation over a flat array of 32-bit words,
// supporting point insertion, containment queries and leaf enumeration.
package octree

// Word is one 32-bit slot of the backing array: either an interior-chunk
// header, a chunk child-slot (an index into data), or a leaf color word.
type Word = uint32

// Header bit layout, low to high: EXISTS (0-7), FINAL (8-15), EMPTY (16-23),
// TAG (24-31).
const (
	existsOffset = 0
	finalOffset  = 8
	emptyOffset  = 16
	tagOffset    = 24

	// HeaderTag marks an interior chunk's header word.
	HeaderTag Word = 68
	// ColorTag is the alternative tag used to distinguish a leaf/color word
	// from an interior header during debugging; it is never written by this
	// package, but the constant documents the invariant described in the
	// design notes.
	ColorTag Word = 118
)

// GetExists reports whether child idx (0-7) of header is present.
func GetExists(header Word, idx uint32) bool {
	return (header>>(existsOffset+idx))&1 != 0
}

// SetExists marks child idx of header as present.
func SetExists(header *Word, idx uint32) {
	*header |= 1 << (existsOffset + idx)
}

// GetFinal reports whether child idx of header is terminal (a leaf).
func GetFinal(header Word, idx uint32) bool {
	return (header>>(finalOffset+idx))&1 != 0
}

// SetFinal marks child idx of header as terminal.
func SetFinal(header *Word, idx uint32) {
	*header |= 1 << (finalOffset + idx)
}

// GetEmpty reports the EMPTY bit for child idx; used only by the parallel
// empty-octree representation in package spacefill.
func GetEmpty(header Word, idx uint32) bool {
	return (header>>(emptyOffset+idx))&1 != 0
}

// SetEmpty sets the EMPTY bit for child idx.
func SetEmpty(header *Word, idx uint32) {
	*header |= 1 << (emptyOffset + idx)
}

// SetHeaderTag stamps header with HeaderTag in the TAG byte.
func SetHeaderTag(header *Word) {
	*header |= HeaderTag << tagOffset
}

// IsHeader reports whether word carries HeaderTag.
func IsHeader(word Word) bool {
	return (word >> tagOffset) == HeaderTag
}

// RGBA8 is a packed 8-bit-per-channel color; A is unused by voxel storage
// but kept so the color word round-trips exactly.
type RGBA8 struct {
	R, G, B, A uint8
}

// FromColor packs an RGBA8 into its little-endian leaf word.
func FromColor(c RGBA8) Word {
	return Word(c.R) | Word(c.G)<<8 | Word(c.B)<<16 | Word(c.A)<<24
}

// ToColor unpacks a leaf word into an RGBA8.
func ToColor(word Word) RGBA8 {
	return RGBA8{
		R: uint8(word),
		G: uint8(word >> 8),
		B: uint8(word >> 16),
		A: uint8(word >> 24),
	}
}
