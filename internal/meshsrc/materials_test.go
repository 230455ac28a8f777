package meshsrc

import (
	"testing"

	"github.com/qmuntal/gltf"
)

func TestPbrSpecularGlossinessMissingExtension(t *testing.T) {
	t.Parallel()

	m := &gltf.Material{}
	_, ok := pbrSpecularGlossiness(m)
	if ok {
		t.Error("expected no specular/glossiness extension to be found")
	}
}

func TestPbrSpecularGlossinessReadsDiffuseTextureIndex(t *testing.T) {
	t.Parallel()

	m := &gltf.Material{
		Extensions: gltf.Extensions{
			"KHR_materials_pbrSpecularGlossiness": map[string]interface{}{
				"diffuseTexture": map[string]interface{}{
					"index": float64(3),
				},
			},
		},
	}

	spec, ok := pbrSpecularGlossiness(m)
	if !ok {
		t.Fatal("expected the extension to be recognized")
	}
	if spec.DiffuseTexture == nil || spec.DiffuseTexture.Index != 3 {
		t.Errorf("DiffuseTexture = %v, want index 3", spec.DiffuseTexture)
	}
}

func TestResolveMaterialsAppendsDefaultWhite(t *testing.T) {
	t.Parallel()

	doc := &gltf.Document{
		Materials: []*gltf.Material{
			{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: [4]float32{1, 0, 0, 1}}},
		},
	}

	materials, err := resolveMaterials(doc, "/tmp/model.gltf")
	if err != nil {
		t.Fatalf("resolveMaterials: %v", err)
	}
	if len(materials) != 2 {
		t.Fatalf("got %d materials, want 2 (1 parsed + 1 default)", len(materials))
	}
	if materials[1].Color != [3]uint8{255, 255, 255} {
		t.Errorf("trailing default material = %v, want white", materials[1].Color)
	}
}
