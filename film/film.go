package film

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aezaqiel/Silmaril/types"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("film: unsupported image format")

// Image encodings supported by Write.
type Format uint8

const (
	PNG Format = iota
	TIFF
	BMP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Detect the image format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Film stores the linear radiance estimate of each pixel. Concurrent writes
// to distinct pixels are safe; no synchronization is performed.
type Film struct {
	Width  uint32
	Height uint32

	pixels []types.Vec3
}

// Create a film with all pixels set to black.
func New(width, height uint32) *Film {
	return &Film{
		Width:  width,
		Height: height,
		pixels: make([]types.Vec3, width*height),
	}
}

func (f *Film) index(x, y uint32) (uint32, bool) {
	if x >= f.Width || y >= f.Height {
		return 0, false
	}
	return y*f.Width + x, true
}

// Overwrite a pixel. Out of bounds coordinates are ignored.
func (f *Film) SetPixel(x, y uint32, c types.Vec3) {
	if i, ok := f.index(x, y); ok {
		f.pixels[i] = c
	}
}

// Add L to a pixel.
func (f *Film) AddSample(x, y uint32, L types.Vec3) {
	if i, ok := f.index(x, y); ok {
		f.pixels[i] = f.pixels[i].Add(L)
	}
}

// Fold sample number sample (zero based) into the running mean of a pixel.
// After samples 0..n-1 have been accumulated the pixel holds their average.
func (f *Film) AccumulateSample(x, y uint32, L types.Vec3, sample uint32) {
	if i, ok := f.index(x, y); ok {
		p := f.pixels[i]
		f.pixels[i] = p.Add(L.Sub(p).Mul(1 / float32(sample+1)))
	}
}

// Get a pixel value. Out of bounds coordinates return black.
func (f *Film) Pixel(x, y uint32) types.Vec3 {
	if i, ok := f.index(x, y); ok {
		return f.pixels[i]
	}
	return types.Vec3{}
}

// Reset all pixels to black.
func (f *Film) Clear() {
	clear(f.pixels)
}

// Tone map the film into an 8 bit image.
func (f *Film) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(f.Width), int(f.Height)))
	for y := uint32(0); y < f.Height; y++ {
		for x := uint32(0); x < f.Width; x++ {
			c := ToDisplay(f.pixels[y*f.Width+x])
			img.SetNRGBA(int(x), int(y), color.NRGBA{c[0], c[1], c[2], 255})
		}
	}
	return img
}

// Encode the tone mapped film.
func (f *Film) Encode(w io.Writer, format Format) error {
	img := f.Image()
	switch format {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Write the tone mapped film to path. The encoding is selected by the file
// extension and missing parent directories are created.
func (f *Film) Write(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("film: could not create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("film: could not create output file: %w", err)
	}

	if err = f.Encode(file, format); err != nil {
		file.Close()
		return fmt.Errorf("film: could not encode %s: %w", path, err)
	}
	return file.Close()
}
