package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
	"golang.org/x/image/bmp"
)

func checkerImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func vecClose(a, b types.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func TestDecodeAndLookup(t *testing.T) {
	type spec struct {
		encode func(*bytes.Buffer, image.Image) error
	}
	specs := []spec{
		{func(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }},
		{func(buf *bytes.Buffer, img image.Image) error { return bmp.Encode(buf, img) }},
	}

	for index, s := range specs {
		var buf bytes.Buffer
		if err := s.encode(&buf, checkerImage()); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		tex, err := Decode(&buf, "checker", true)
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if tex.Width != 2 || tex.Height != 2 {
			t.Fatalf("[spec %d] expected 2x2 texture; got %dx%d", index, tex.Width, tex.Height)
		}

		// v points up so the top-left texel sits at uv (0.25, 0.75)
		lookups := []struct {
			uv  types.Vec2
			exp types.Vec3
		}{
			{types.Vec2{0.25, 0.75}, types.Vec3{1, 0, 0}},
			{types.Vec2{0.75, 0.75}, types.Vec3{0, 1, 0}},
			{types.Vec2{0.25, 0.25}, types.Vec3{0, 0, 1}},
			{types.Vec2{0.75, 0.25}, types.Vec3{1, 1, 1}},
			// Wrapping
			{types.Vec2{1.75, -0.75}, types.Vec3{1, 1, 1}},
			// Halfway between the two top texels
			{types.Vec2{0.5, 0.75}, types.Vec3{0.5, 0.5, 0}},
		}
		for li, l := range lookups {
			if got := tex.Lookup(l.uv); !vecClose(got, l.exp, 1e-4) {
				t.Fatalf("[spec %d] lookup %d: expected %v at %v; got %v", index, li, l.exp, l.uv, got)
			}
		}
	}
}

func TestDecodeSRGB(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{128})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	tex, err := Decode(&buf, "gray", false)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Format != Luminance8 {
		t.Fatalf("expected format Luminance8; got %s", tex.Format)
	}

	exp := math32.Pow(128.0/255.0, srgbGamma)
	got := tex.Lookup(types.Vec2{0.5, 0.5})
	if math32.Abs(got[0]-exp) > 1e-4 || got[0] != got[1] || got[1] != got[2] {
		t.Fatalf("expected linearized gray %f; got %v", exp, got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(bytes.NewBufferString("not an image"), "bogus", false); err == nil {
		t.Fatal("expected an error while decoding garbage")
	}
	if _, err := FromTexels("bad", 2, 2, make([]types.Vec3, 3)); err == nil {
		t.Fatal("expected an error for a texel count mismatch")
	}
}

func TestSolidAndMissing(t *testing.T) {
	si := &scene.SurfaceInteraction{UV: types.Vec2{0.3, 0.3}}
	if v := NewSolid(types.Vec3{0.1, 0.2, 0.3}).Evaluate(si); v != (types.Vec3{0.1, 0.2, 0.3}) {
		t.Fatalf("expected solid value; got %v", v)
	}
	if v := Missing().Evaluate(si); v != MissingColor {
		t.Fatalf("expected missing texture color; got %v", v)
	}

	var nilTex *ImageTexture
	if v := nilTex.Lookup(types.Vec2{}); v != MissingColor {
		t.Fatalf("expected missing texture color for nil image; got %v", v)
	}
}
