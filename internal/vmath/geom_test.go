package vmath

import (
	"math"
	"testing"
)

func almostEqual(a, b Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if d := a[i] - b[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

func TestClosestPointOnTriangleVertexRegion(t *testing.T) {
	t.Parallel()

	tri := [3]Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	got := ClosestPointOnTriangle(Vec3{-5, -5, 0}, tri)
	if !almostEqual(got, tri[0], 1e-5) {
		t.Errorf("got %v, want the nearest vertex %v", got, tri[0])
	}
}

func TestClosestPointOnTriangleFaceRegion(t *testing.T) {
	t.Parallel()

	tri := [3]Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	got := ClosestPointOnTriangle(Vec3{2, 2, 5}, tri)
	want := Vec3{2, 2, 0}
	if !almostEqual(got, want, 1e-4) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBarycentricSumsToOne(t *testing.T) {
	t.Parallel()

	tri := [3]Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	p := Vec3{3, 3, 0}
	bary := Barycentric(p, tri)

	sum := bary[0] + bary[1] + bary[2]
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("barycentric coordinates %v sum to %v, want 1", bary, sum)
	}
}

func TestBarycentricReconstructsPoint(t *testing.T) {
	t.Parallel()

	tri := [3]Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	p := Vec3{4, 3, 0}
	bary := Barycentric(p, tri)

	reconstructed := tri[0].Mul(bary[0]).Add(tri[1].Mul(bary[1])).Add(tri[2].Mul(bary[2]))
	if !almostEqual(reconstructed, p, 1e-3) {
		t.Errorf("reconstructed %v, want %v", reconstructed, p)
	}
}

func TestRemEuclidWrapsIntoRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, m, want float32
	}{
		{0.5, 1, 0.5},
		{1.5, 1, 0.5},
		{-0.5, 1, 0.5},
		{-1.5, 1, 0.5},
		{2.25, 1, 0.25},
	}

	for _, tc := range tests {
		got := RemEuclid(tc.a, tc.m)
		if math.Abs(float64(got-tc.want)) > 1e-4 {
			t.Errorf("RemEuclid(%v, %v) = %v, want %v", tc.a, tc.m, got, tc.want)
		}
		if got < 0 || got >= tc.m {
			t.Errorf("RemEuclid(%v, %v) = %v, out of [0, %v)", tc.a, tc.m, got, tc.m)
		}
	}
}

func TestIsFiniteRejectsNaNAndInf(t *testing.T) {
	t.Parallel()

	if !IsFinite(Vec3{1, 2, 3}) {
		t.Error("finite vector reported as non-finite")
	}
	if IsFinite(Vec3{float32(math.NaN()), 0, 0}) {
		t.Error("NaN component reported as finite")
	}
	if IsFinite(Vec3{float32(math.Inf(1)), 0, 0}) {
		t.Error("+Inf component reported as finite")
	}
}

func TestBoundingBoxExtend(t *testing.T) {
	t.Parallel()

	b := EmptyBoundingBox()
	b.Extend(Vec3{1, -2, 3})
	b.Extend(Vec3{-4, 5, 0})

	wantMin := Vec3{-4, -2, 0}
	wantMax := Vec3{1, 5, 3}
	if b.Min != wantMin {
		t.Errorf("Min = %v, want %v", b.Min, wantMin)
	}
	if b.Max != wantMax {
		t.Errorf("Max = %v, want %v", b.Max, wantMax)
	}
}
