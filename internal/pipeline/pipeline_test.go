package pipeline

import "testing"

func TestInputTypeFromFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    InputType
		wantErr bool
	}{
		{"model.gltf", GlbGltf, false},
		{"model.glb", GlbGltf, false},
		{"MODEL.GLB", GlbGltf, false},
		{"model.obj", 0, true},
		{"noext", 0, true},
	}

	for _, tc := range tests {
		got, err := InputTypeFromFile(tc.path)
		if (err != nil) != tc.wantErr {
			t.Errorf("InputTypeFromFile(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("InputTypeFromFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestOutputTypeFromFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    OutputType
		wantErr bool
	}{
		{"out.gltf", Gltf, false},
		{"out.vox", MagicaVoxel, false},
		{"out.glb", 0, true},
		{"noext", 0, true},
	}

	for _, tc := range tests {
		got, err := OutputTypeFromFile(tc.path)
		if (err != nil) != tc.wantErr {
			t.Errorf("OutputTypeFromFile(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("OutputTypeFromFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
