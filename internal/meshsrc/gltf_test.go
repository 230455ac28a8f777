package meshsrc

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

func TestLocalTransformUsesMatrixWhenPresent(t *testing.T) {
	t.Parallel()

	m := mgl32.Translate3D(1, 2, 3)
	var arr [16]float64
	for i, v := range m {
		arr[i] = float64(v)
	}
	node := &gltf.Node{Matrix: arr}

	got := localTransform(node)
	want := m
	if got != want {
		t.Errorf("localTransform(matrix node) = %v, want %v", got, want)
	}
}

func TestLocalTransformComposesTRSWhenMatrixAbsent(t *testing.T) {
	t.Parallel()

	node := &gltf.Node{
		Translation: [3]float64{1, 2, 3},
		Rotation:    [4]float64{0, 0, 0, 1}, // identity quaternion
		Scale:       [3]float64{1, 1, 1},
	}

	got := localTransform(node)
	want := mgl32.Translate3D(1, 2, 3)
	if got != want {
		t.Errorf("localTransform(TRS node) = %v, want %v", got, want)
	}
}

func TestLocalTransformAppliesNonIdentityScale(t *testing.T) {
	t.Parallel()

	node := &gltf.Node{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{2, 3, 4},
	}

	got := localTransform(node)
	p := got.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	want := mgl32.Vec4{2, 3, 4, 1}
	if p != want {
		t.Errorf("scaled point = %v, want %v", p, want)
	}
}

func TestBuildViewDefaultsToIdentityWithNoScenes(t *testing.T) {
	t.Parallel()

	doc := &gltf.Document{}
	view := buildView(doc)

	if view.MVP != mgl32.Ident4() {
		t.Errorf("MVP = %v, want identity", view.MVP)
	}
	if view.Camera != nil {
		t.Errorf("Camera = %v, want nil", view.Camera)
	}
}

func TestBuildViewTakesFirstCameraUnconditionally(t *testing.T) {
	t.Parallel()

	yfov := float32(1.0)
	doc := &gltf.Document{
		Cameras: []*gltf.Camera{
			{Type: gltf.CameraPerspective, Perspective: &gltf.Perspective{Yfov: yfov, Znear: 0.1}},
		},
	}

	view := buildView(doc)
	if view.Camera == nil {
		t.Fatal("expected the first (and only) camera to be selected")
	}
	if view.Camera.Perspective == nil || view.Camera.Perspective.YFov != yfov {
		t.Errorf("Camera.Perspective = %v, want YFov %v", view.Camera.Perspective, yfov)
	}
}

func TestBuildViewUsesFirstSceneRootNodeTransform(t *testing.T) {
	t.Parallel()

	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Translation: [3]float64{5, 6, 7}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}},
		},
		Scenes: []*gltf.Scene{{Nodes: []uint32{0}}},
	}

	view := buildView(doc)
	want := mgl32.Translate3D(5, 6, 7)
	if view.MVP != want {
		t.Errorf("MVP = %v, want %v", view.MVP, want)
	}
}
