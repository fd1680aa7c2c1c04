package sampler

import "github.com/aezaqiel/Silmaril/types"

// RandomSampler returns independent uniform variates. It is seeded the same
// way as StratifiedSampler so renders remain reproducible.
type RandomSampler struct {
	spp uint32
	rng PCG32
}

func NewRandom(spp uint32) *RandomSampler {
	if spp == 0 {
		spp = 1
	}
	s := &RandomSampler{spp: spp}
	s.rng.Seed(pcgDefaultState, pcgDefaultSeq)
	return s
}

func (s *RandomSampler) StartPixel(x, y, sampleIndex uint32) {
	s.rng.Seed(Hash(x, y, sampleIndex), pcgDefaultStream)
}

func (s *RandomSampler) Get1D() float32 {
	return s.rng.Float32()
}

func (s *RandomSampler) Get2D() types.Vec2 {
	return types.Vec2{s.rng.Float32(), s.rng.Float32()}
}

func (s *RandomSampler) SamplesPerPixel() uint32 {
	return s.spp
}

func (s *RandomSampler) Clone() Sampler {
	return NewRandom(s.spp)
}
