package sampler

import (
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Salts keep the 1D and 2D permutation seeds apart.
const (
	salt1D uint32 = 0x12345678
	salt2D uint32 = 0x87654321
)

// StratifiedSampler divides the pixel into an xSamples by ySamples grid and
// places one sample in each stratum. Successive dimensions visit the strata
// in independently permuted orders.
type StratifiedSampler struct {
	xSamples uint32
	ySamples uint32
	spp      uint32
	jitter   bool

	rng PCG32

	// Current pixel sample.
	x, y, sampleIndex uint32

	dim1D uint32
	dim2D uint32
}

// Create a stratified sampler. The grid is round(sqrt(spp)) strata wide so
// the actual sample count may differ from spp; see SamplesPerPixel.
func NewStratified(spp uint32, jitter bool) *StratifiedSampler {
	if spp == 0 {
		spp = 1
	}
	xSamples := uint32(math32.Round(math32.Sqrt(float32(spp))))
	if xSamples == 0 {
		xSamples = 1
	}
	ySamples := uint32(math32.Round(float32(spp) / float32(xSamples)))
	if ySamples == 0 {
		ySamples = 1
	}

	s := &StratifiedSampler{
		xSamples: xSamples,
		ySamples: ySamples,
		spp:      xSamples * ySamples,
		jitter:   jitter,
	}
	s.rng.Seed(pcgDefaultState, pcgDefaultSeq)
	return s
}

func (s *StratifiedSampler) StartPixel(x, y, sampleIndex uint32) {
	s.x, s.y, s.sampleIndex = x, y, sampleIndex
	s.dim1D = 0
	s.dim2D = 0
	s.rng.Seed(Hash(x, y, sampleIndex), pcgDefaultStream)
}

// Get the stratum for the current sample index in the given dimension.
func (s *StratifiedSampler) stratum(dim, salt uint32) uint32 {
	seed := uint32(Hash(s.x, s.y, dim^salt))
	return permute(s.sampleIndex%s.spp, s.spp, seed)
}

func (s *StratifiedSampler) offset() float32 {
	if s.jitter {
		return s.rng.Float32()
	}
	return 0.5
}

func (s *StratifiedSampler) Get1D() float32 {
	stratum := s.stratum(s.dim1D, salt1D)
	s.dim1D++

	return clampSample((float32(stratum) + s.offset()) / float32(s.spp))
}

func (s *StratifiedSampler) Get2D() types.Vec2 {
	// The first 2D dimension (the pixel footprint) walks the grid in order
	stratum := s.sampleIndex % s.spp
	if s.dim2D > 0 {
		stratum = s.stratum(s.dim2D, salt2D)
	}
	s.dim2D++

	sx := stratum % s.xSamples
	sy := stratum / s.xSamples
	dx := s.offset()
	dy := s.offset()

	return types.Vec2{
		clampSample((float32(sx) + dx) / float32(s.xSamples)),
		clampSample((float32(sy) + dy) / float32(s.ySamples)),
	}
}

func (s *StratifiedSampler) SamplesPerPixel() uint32 {
	return s.spp
}

// Get the stratum grid dimensions.
func (s *StratifiedSampler) Grid() (uint32, uint32) {
	return s.xSamples, s.ySamples
}

func (s *StratifiedSampler) Clone() Sampler {
	clone := &StratifiedSampler{
		xSamples: s.xSamples,
		ySamples: s.ySamples,
		spp:      s.spp,
		jitter:   s.jitter,
	}
	clone.rng.Seed(pcgDefaultState, pcgDefaultSeq)
	return clone
}
