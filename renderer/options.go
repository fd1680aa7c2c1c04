package renderer

import (
	"fmt"

	"github.com/aezaqiel/Silmaril/film"
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/tracer"
)

const (
	DefaultSamplesPerPixel uint32 = 16
	DefaultMaxDepth               = 8
	DefaultTileSize        uint32 = 32
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples. The sampler may round this up.
	SamplesPerPixel uint32

	// Max path length; 1 only renders direct hits.
	MaxDepth int

	// Edge length of the square render tiles.
	TileSize uint32

	// Number of worker goroutines. Values <= 0 select one per CPU.
	Workers int

	// Refine the whole frame one sample per pass.
	Progressive bool

	// Jitter samples within their strata.
	Jitter bool

	Sampler   sampler.Kind
	TileOrder tracer.TileOrder

	// Output image; the format is selected by the extension. Leave empty to
	// keep the frame in memory only.
	Output string
}

// Fill in defaults for unset fields and check the remaining values.
func (o *Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("renderer: invalid frame dimensions %dx%d", o.FrameW, o.FrameH)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("renderer: invalid max depth %d", o.MaxDepth)
	}

	if o.SamplesPerPixel == 0 {
		o.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	if o.Workers <= 0 {
		o.Workers = tracer.DefaultWorkerCount()
	}

	if o.Output != "" {
		if _, err := film.FormatFromPath(o.Output); err != nil {
			return fmt.Errorf("renderer: invalid output %q: %w", o.Output, err)
		}
	}
	return nil
}
