package texture

import (
	"fmt"
	"image"
	"image/color"
	"io"

	// Register decoders
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Gamma used to linearize sRGB encoded images.
const srgbGamma float32 = 2.2

// Substituted for textures that could not be loaded.
var MissingColor = types.Vec3{1, 0, 1}

// ImageTexture stores a decoded image as linear RGB floats and samples it
// with bilinear filtering. Texture coordinates wrap around and v points up.
type ImageTexture struct {
	Name   string
	Format Format

	Width  uint32
	Height uint32

	// Row-major linear RGB texels; row 0 is the top of the image.
	data []types.Vec3
}

// Decode an image from r. Images in color formats are assumed to be sRGB
// encoded unless linear is set.
func Decode(r io.Reader, name string, linear bool) (*ImageTexture, error) {
	img, imgType, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", name, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("texture: %s (%s) has no pixels", name, imgType)
	}

	tex := &ImageTexture{
		Name:   name,
		Format: detectFormat(img),
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		data:   make([]types.Vec3, bounds.Dx()*bounds.Dy()),
	}

	decode := func(c uint32) float32 {
		v := float32(c) / 0xffff
		if linear {
			return v
		}
		return math32.Pow(v, srgbGamma)
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Alpha is ignored; colors are un-premultiplied first
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			tex.data[offset] = types.Vec3{decode(uint32(c.R)), decode(uint32(c.G)), decode(uint32(c.B))}
			offset++
		}
	}

	return tex, nil
}

// Create a texture from a linear RGB texel slice. Used for generated
// textures.
func FromTexels(name string, width, height uint32, texels []types.Vec3) (*ImageTexture, error) {
	if width == 0 || height == 0 || int(width*height) != len(texels) {
		return nil, fmt.Errorf("texture: %s: expected %d texels; got %d", name, width*height, len(texels))
	}
	return &ImageTexture{
		Name:   name,
		Format: Rgb8,
		Width:  width,
		Height: height,
		data:   texels,
	}, nil
}

func detectFormat(img image.Image) Format {
	switch img.(type) {
	case *image.Gray:
		return Luminance8
	case *image.Gray16:
		return Luminance16
	case *image.RGBA64, *image.NRGBA64:
		return Rgba16
	case *image.YCbCr, *image.Paletted:
		return Rgb8
	}
	return Rgba8
}

func (t *ImageTexture) texel(x, y int) types.Vec3 {
	return t.data[y*int(t.Width)+x]
}

// Sample the texture at uv using bilinear filtering.
func (t *ImageTexture) Lookup(uv types.Vec2) types.Vec3 {
	if t == nil || len(t.data) == 0 {
		return MissingColor
	}

	u := uv[0] - math32.Floor(uv[0])
	v := uv[1] - math32.Floor(uv[1])

	// Texel centers sit at half-integer coordinates
	fx := u*float32(t.Width) - 0.5
	fy := (1-v)*float32(t.Height) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	w, h := int(t.Width), int(t.Height)
	wrap := func(i, n int) int {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	x1, y1 := wrap(x0+1, w), wrap(y0+1, h)
	x0, y0 = wrap(x0, w), wrap(y0, h)

	top := t.texel(x0, y0).Lerp(t.texel(x1, y0), dx)
	bottom := t.texel(x0, y1).Lerp(t.texel(x1, y1), dx)
	return top.Lerp(bottom, dy)
}

func (t *ImageTexture) Evaluate(si *scene.SurfaceInteraction) types.Vec3 {
	return t.Lookup(si.UV)
}
