package meshsrc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/szostid/meshvox/internal/mesh"
	"golang.org/x/sync/errgroup"
)

// resolveMaterials parses every material in the document into a flat
// mesh.Material table, fanned out across goroutines since each material's
// texture decode is independent of the others. The fallback chain tried
// per material is base color texture, then emissive texture, then the
// specular/glossiness diffuse texture, then the flat base color factor. A
// trailing default-white material is appended after every parsed entry so
// a primitive with no material index (or an index the format leaves
// implicit) always resolves to something.
func resolveMaterials(doc *gltf.Document, path string) ([]mesh.Material, error) {
	sourceDir := filepath.Dir(path)

	materials := make([]mesh.Material, len(doc.Materials))

	var g errgroup.Group
	for i, m := range doc.Materials {
		i, m := i, m
		g.Go(func() error {
			mat, err := parseMaterial(doc, m, sourceDir)
			if err != nil {
				return fmt.Errorf("material %d: %w", i, err)
			}
			materials[i] = mat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The implicit default material triangles fall back to when no
	// material index applies.
	materials = append(materials, mesh.Material{Color: [3]uint8{255, 255, 255}})

	return materials, nil
}

func parseMaterial(doc *gltf.Document, m *gltf.Material, sourceDir string) (mesh.Material, error) {
	if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		img, err := parseImage(doc, pbr.BaseColorTexture.Index, sourceDir)
		if err != nil {
			return mesh.Material{}, fmt.Errorf("base color texture: %w", err)
		}
		return mesh.Material{Image: img}, nil
	}

	if m.EmissiveTexture != nil {
		img, err := parseImage(doc, m.EmissiveTexture.Index, sourceDir)
		if err != nil {
			return mesh.Material{}, fmt.Errorf("emissive texture: %w", err)
		}
		return mesh.Material{Image: img}, nil
	}

	if spec, ok := pbrSpecularGlossiness(m); ok && spec.DiffuseTexture != nil {
		img, err := parseImage(doc, spec.DiffuseTexture.Index, sourceDir)
		if err != nil {
			return mesh.Material{}, fmt.Errorf("specular/glossiness diffuse texture: %w", err)
		}
		return mesh.Material{Image: img}, nil
	}

	baseColor := [4]float32{1, 1, 1, 1}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		baseColor = pbr.BaseColorFactor
	}
	return mesh.Material{Color: [3]uint8{
		uint8(baseColor[0] * 255),
		uint8(baseColor[1] * 255),
		uint8(baseColor[2] * 255),
	}}, nil
}

// pbrSpecularGlossiness reads the KHR_materials_pbrSpecularGlossiness
// extension, which qmuntal/gltf surfaces as a raw extension map rather than
// a typed field.
type specularGlossiness struct {
	DiffuseTexture *gltf.TextureInfo
}

func pbrSpecularGlossiness(m *gltf.Material) (specularGlossiness, bool) {
	ext, ok := m.Extensions["KHR_materials_pbrSpecularGlossiness"]
	if !ok {
		return specularGlossiness{}, false
	}
	fields, ok := ext.(map[string]interface{})
	if !ok {
		return specularGlossiness{}, false
	}
	texInfo, ok := fields["diffuseTexture"].(map[string]interface{})
	if !ok {
		return specularGlossiness{}, false
	}
	idxFloat, ok := texInfo["index"].(float64)
	if !ok {
		return specularGlossiness{}, false
	}
	idx := uint32(idxFloat)
	return specularGlossiness{DiffuseTexture: &gltf.TextureInfo{Index: idx}}, true
}

// parseImage decodes the image backing the texture at textureIdx, reading
// it from an embedded buffer view or, failing that, from a URI relative to
// the source file's directory.
func parseImage(doc *gltf.Document, textureIdx uint32, sourceDir string) (*image.RGBA, error) {
	if int(textureIdx) >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIdx)
	}
	tex := doc.Textures[textureIdx]
	if tex.Source == nil {
		return nil, fmt.Errorf("texture %d has no image source", textureIdx)
	}
	if int(*tex.Source) >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", *tex.Source)
	}
	img := doc.Images[*tex.Source]

	var raw []byte
	switch {
	case img.BufferView != nil:
		data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("reading embedded image buffer: %w", err)
		}
		raw = data

	case img.URI != "":
		fullPath := filepath.Join(sourceDir, img.URI)
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("reading %q used by the mesh: %w", fullPath, err)
		}
		raw = data

	default:
		return nil, fmt.Errorf("image has neither a buffer view nor a URI")
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	rgba, ok := decoded.(*image.RGBA)
	if ok {
		return rgba, nil
	}
	bounds := decoded.Bounds()
	converted := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			converted.Set(x, y, decoded.At(x, y))
		}
	}
	return converted, nil
}
