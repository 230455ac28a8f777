// Package vmath provides the vector, matrix and bounding-box types shared
// across the voxelization pipeline.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a floating-point 3-vector.
type Vec3 = mgl32.Vec3

// Vec2 is a floating-point 2-vector, used for UV coordinates.
type Vec2 = mgl32.Vec2

// Mat4 is a column-major 4x4 matrix.
type Mat4 = mgl32.Mat4

// IVec3 is a signed integer 3-vector used for octree and voxel coordinates.
// Coordinates must accommodate values up to +/-2^31, so each component is a
// plain int32; mathgl has no integer vector type, so this one is hand-rolled.
type IVec3 struct {
	X, Y, Z int32
}

// NewIVec3 builds an IVec3 from three components.
func NewIVec3(x, y, z int32) IVec3 {
	return IVec3{X: x, Y: y, Z: z}
}

// Get returns the component at the given axis index (0=X, 1=Y, 2=Z).
func (v IVec3) Get(axis int) int32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Set returns a copy of v with the given axis replaced.
func (v IVec3) Set(axis int, value int32) IVec3 {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Add returns the componentwise sum.
func (v IVec3) Add(o IVec3) IVec3 {
	return IVec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// AddScalarAxis adds delta to a single axis.
func (v IVec3) AddScalarAxis(axis int, delta int32) IVec3 {
	return v.Set(axis, v.Get(axis)+delta)
}

// Eq reports whether all components are equal.
func (v IVec3) Eq(o IVec3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// MinElement returns the smallest of the three components.
func (v IVec3) MinElement() int32 {
	m := v.X
	if v.Y < m {
		m = v.Y
	}
	if v.Z < m {
		m = v.Z
	}
	return m
}

// MaxElement returns the largest of the three components.
func (v IVec3) MaxElement() int32 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

// AsVec3 converts to a floating-point vector.
func (v IVec3) AsVec3() Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// FloorToIVec3 floors each component of v and returns the integer vector.
func FloorToIVec3(v Vec3) IVec3 {
	return IVec3{
		X: int32(math.Floor(float64(v[0]))),
		Y: int32(math.Floor(float64(v[1]))),
		Z: int32(math.Floor(float64(v[2]))),
	}
}

// RoundToIVec3 rounds each component of v to the nearest integer.
func RoundToIVec3(v Vec3) IVec3 {
	return IVec3{
		X: int32(math.Round(float64(v[0]))),
		Y: int32(math.Round(float64(v[1]))),
		Z: int32(math.Round(float64(v[2]))),
	}
}

// AsIVec3 truncates each component of v towards zero (Rust's `as_ivec3`).
func AsIVec3(v Vec3) IVec3 {
	return IVec3{X: int32(v[0]), Y: int32(v[1]), Z: int32(v[2])}
}

// Sign returns the componentwise signum, with 0 mapping to 0.
func Sign(v Vec3) Vec3 {
	return Vec3{sign1(v[0]), sign1(v[1]), sign1(v[2])}
}

func sign1(f float32) float32 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// IsFinite reports whether every component of v is finite (not NaN/Inf).
func IsFinite(v Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// MinPositionAxis returns the axis index holding the smallest component.
func MinPositionAxis(v Vec3) int {
	axis := 0
	min := v[0]
	for i := 1; i < 3; i++ {
		if v[i] < min {
			min = v[i]
			axis = i
		}
	}
	return axis
}

// BoundingBox is an axis-aligned bounding box over Vec3 points.
type BoundingBox struct {
	Min, Max Vec3
}

// EmptyBoundingBox returns a bounding box initialized so that the first
// Extend call establishes real bounds.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Extend widens the box to include pos.
func (b *BoundingBox) Extend(pos Vec3) {
	for i := 0; i < 3; i++ {
		if pos[i] < b.Min[i] {
			b.Min[i] = pos[i]
		}
		if pos[i] > b.Max[i] {
			b.Max[i] = pos[i]
		}
	}
}

// Size returns max - min.
func (b BoundingBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// FromPoints builds a BoundingBox from a sequence of points.
func FromPoints(points []Vec3) BoundingBox {
	b := EmptyBoundingBox()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// MaxElement returns the largest of the three components of v.
func MaxElement(v Vec3) float32 {
	m := v[0]
	if v[1] > m {
		m = v[1]
	}
	if v[2] > m {
		m = v[2]
	}
	return m
}
