package sampler

import (
	"fmt"

	"github.com/aezaqiel/Silmaril/types"
)

// Largest float32 below 1. Sample values are clamped to it.
const OneMinusEpsilon float32 = 0x1.fffffep-1

// A Sampler generates sample vectors for pixel samples. Sequences are fully
// determined by the arguments of StartPixel so that each pixel sample can be
// reproduced regardless of which worker renders it.
//
// Sampler instances are not safe for concurrent use; each job should work on
// its own Clone.
type Sampler interface {
	// Reset the sampler for sample s of pixel (x, y).
	StartPixel(x, y, s uint32)

	// Get the next sample dimension. The value lies in [0, 1).
	Get1D() float32

	// Get the next two sample dimensions. Both values lie in [0, 1).
	Get2D() types.Vec2

	// Get the actual number of samples per pixel. This may differ from the
	// requested value.
	SamplesPerPixel() uint32

	// Create an independent sampler with the same configuration.
	Clone() Sampler
}

// The type of sampler to create.
type Kind uint8

// The supported sampler types.
const (
	Stratified Kind = iota
	Random
)

func (k Kind) String() string {
	switch k {
	case Stratified:
		return "stratified"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Parse a sampler kind from its name.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "stratified", "":
		return Stratified, nil
	case "random":
		return Random, nil
	}
	return 0, fmt.Errorf("sampler: unknown sampler type %q", name)
}

// Create a new sampler of the given kind. Jitter only applies to stratified
// samplers.
func New(kind Kind, spp uint32, jitter bool) (Sampler, error) {
	switch kind {
	case Stratified:
		return NewStratified(spp, jitter), nil
	case Random:
		return NewRandom(spp), nil
	}
	return nil, fmt.Errorf("sampler: unsupported sampler type %s", kind)
}

func clampSample(v float32) float32 {
	if v > OneMinusEpsilon {
		return OneMinusEpsilon
	}
	return v
}
