package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/light"
	"github.com/aezaqiel/Silmaril/scene/material"
	"github.com/aezaqiel/Silmaril/types"
)

func TestOptionsValidate(t *testing.T) {
	type spec struct {
		opts    Options
		expErr  bool
		expSpp  uint32
		expTile uint32
	}
	specs := []spec{
		{Options{FrameW: 0, FrameH: 10}, true, 0, 0},
		{Options{FrameW: 10, FrameH: 0}, true, 0, 0},
		{Options{FrameW: 10, FrameH: 10, MaxDepth: -1}, true, 0, 0},
		{Options{FrameW: 10, FrameH: 10, Output: "frame.gif"}, true, 0, 0},
		{Options{FrameW: 10, FrameH: 10}, false, DefaultSamplesPerPixel, DefaultTileSize},
		{Options{FrameW: 10, FrameH: 10, SamplesPerPixel: 4, TileSize: 8, Output: "frame.png"}, false, 4, 8},
	}

	for index, s := range specs {
		err := s.opts.Validate()
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected a validation error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if s.opts.SamplesPerPixel != s.expSpp {
			t.Fatalf("[spec %d] expected spp %d; got %d", index, s.expSpp, s.opts.SamplesPerPixel)
		}
		if s.opts.TileSize != s.expTile {
			t.Fatalf("[spec %d] expected tile size %d; got %d", index, s.expTile, s.opts.TileSize)
		}
		if s.opts.MaxDepth != DefaultMaxDepth {
			t.Fatalf("[spec %d] expected default depth %d; got %d", index, DefaultMaxDepth, s.opts.MaxDepth)
		}
		if s.opts.Workers <= 0 {
			t.Fatalf("[spec %d] expected a positive worker count; got %d", index, s.opts.Workers)
		}
	}
}

func TestNewCPUErrors(t *testing.T) {
	if _, err := NewCPU(nil, Options{FrameW: 4, FrameH: 4}); !errors.Is(err, ErrSceneNotDefined) {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewCPU(scene.New(), Options{FrameW: 4, FrameH: 4}); !errors.Is(err, ErrCameraNotDefined) {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}
}

func TestCPURender(t *testing.T) {
	const w, h = 16, 12

	sc := scene.New()
	cam := scene.NewPerspectiveCamera(45, w, h)
	cam.SetView(types.Vec3{0, 0, 4}, types.Vec3{}, types.Vec3{0, 1, 0})
	sc.SetCamera(cam)

	mat := material.NewMatteColor(types.Vec3{0.5, 0.5, 0.5})
	if err := sc.AddMaterial(mat); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddPrimitive(scene.NewGeometricPrimitive(scene.NewSphere(types.Vec3{}, 1), mat, nil)); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddLight(light.NewPoint(types.Vec3{0, 5, 5}, types.Splat(50))); err != nil {
		t.Fatal(err)
	}
	if err := sc.Build(); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "frame.bmp")
	r, err := NewCPU(sc, Options{
		FrameW:          w,
		FrameH:          h,
		SamplesPerPixel: 3,
		MaxDepth:        3,
		TileSize:        8,
		Workers:         2,
		Jitter:          true,
		Output:          out,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(out); err != nil {
		t.Fatalf("expected output image to be written: %v", err)
	}

	stats := r.Stats()
	// A stratified sampler rounds 3 spp up to a 2x2 grid
	if stats.SamplesPerPixel != 4 {
		t.Fatalf("expected 4 samples per pixel; got %d", stats.SamplesPerPixel)
	}
	if stats.Tiles != 4 {
		t.Fatalf("expected 4 tiles; got %d", stats.Tiles)
	}
	if exp := uint64(w * h * stats.SamplesPerPixel); stats.PrimaryRays != exp {
		t.Fatalf("expected %d primary rays; got %d", exp, stats.PrimaryRays)
	}
	if stats.ShadowRays == 0 || stats.TotalRays() <= stats.PrimaryRays {
		t.Fatalf("expected shadow and indirect rays to be traced; got %+v", stats)
	}

	if c := r.Frame().Pixel(w/2, h/2); c.IsZero() {
		t.Fatal("expected the center pixel to be lit")
	}
}
