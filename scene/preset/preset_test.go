package preset

import (
	"errors"
	"testing"

	"github.com/aezaqiel/Silmaril/types"
)

func TestList(t *testing.T) {
	expNames := []string{"cornell", "sphere", "spheregrid"}
	list := List()
	if len(list) != len(expNames) {
		t.Fatalf("expected %d presets; got %d", len(expNames), len(list))
	}
	for index, p := range list {
		if p.Name != expNames[index] {
			t.Fatalf("[spec %d] expected preset %q; got %q", index, expNames[index], p.Name)
		}
		if p.Description == "" {
			t.Fatalf("[spec %d] expected preset %q to have a description", index, p.Name)
		}
	}
}

func TestBuild(t *testing.T) {
	type spec struct {
		name          string
		expPrimitives int
		expLights     int
	}
	specs := []spec{
		{"sphere", 1, 1},
		{"cornell", 14, 2},
		{"spheregrid", 28, 2},
	}

	for index, s := range specs {
		sc, err := Build(s.name, 32, 24)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if sc.Camera == nil {
			t.Fatalf("[spec %d] expected scene to have a camera", index)
		}
		if got := len(sc.Primitives); got != s.expPrimitives {
			t.Fatalf("[spec %d] expected %d primitives; got %d", index, s.expPrimitives, got)
		}
		if got := len(sc.Lights); got != s.expLights {
			t.Fatalf("[spec %d] expected %d lights; got %d", index, s.expLights, got)
		}

		ray := sc.Camera.GenerateRay(types.Vec2{16, 12})
		if _, hit := sc.Intersect(ray); !hit {
			t.Fatalf("[spec %d] expected the ray through the film center to hit the scene", index)
		}
	}
}

func TestBuildUnknown(t *testing.T) {
	_, err := Build("teapot", 8, 8)
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset; got %v", err)
	}
}
