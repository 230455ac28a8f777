package mesh

import (
	"testing"

	"github.com/szostid/meshvox/internal/vmath"
)

func TestVertexExtrasTracksPresenceExplicitly(t *testing.T) {
	t.Parallel()

	none := NewVertexExtras(nil, nil, 0)
	if _, ok := none.Normal(); ok {
		t.Error("Normal() reported present when none was supplied")
	}
	if _, ok := none.UV(); ok {
		t.Error("UV() reported present when none was supplied")
	}

	n := vmath.Vec3{1, 0, 0}
	uv := vmath.Vec2{0.5, 0.5}
	both := NewVertexExtras(&n, &uv, 7)

	gotN, ok := both.Normal()
	if !ok || gotN != n {
		t.Errorf("Normal() = %v, %v, want %v, true", gotN, ok, n)
	}
	gotUV, ok := both.UV()
	if !ok || gotUV != uv {
		t.Errorf("UV() = %v, %v, want %v, true", gotUV, ok, uv)
	}
	if both.MaterialIdx != 7 {
		t.Errorf("MaterialIdx = %d, want 7", both.MaterialIdx)
	}
}

func TestMaterialIsTextured(t *testing.T) {
	t.Parallel()

	flat := Material{Color: [3]uint8{1, 2, 3}}
	if flat.IsTextured() {
		t.Error("flat-color material reported as textured")
	}
}

func TestMeshMaterialForFallsBackWhenIndexOutOfRange(t *testing.T) {
	t.Parallel()

	m := Mesh{Materials: []Material{
		{Color: [3]uint8{9, 9, 9}},
		{Color: [3]uint8{1, 1, 1}},
	}}

	if got := m.MaterialFor(1); got.Color != [3]uint8{1, 1, 1} {
		t.Errorf("MaterialFor(1) = %v, want the second material", got)
	}
	if got := m.MaterialFor(99); got.Color != [3]uint8{9, 9, 9} {
		t.Errorf("MaterialFor(99) = %v, want the fallback first material", got)
	}
}

func TestVertexToFloatVertexNormalizesColor(t *testing.T) {
	t.Parallel()

	v := Vertex{Position: vmath.Vec3{1, 2, 3}, Color: [3]uint8{0, 128, 255}}
	fv := v.ToFloatVertex()

	if fv.Position != v.Position {
		t.Errorf("position changed: %v != %v", fv.Position, v.Position)
	}
	if fv.Color[0] != 0 {
		t.Errorf("Color[0] = %v, want 0", fv.Color[0])
	}
	if fv.Color[2] != 1 {
		t.Errorf("Color[2] = %v, want 1", fv.Color[2])
	}
}
