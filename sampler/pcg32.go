package sampler

const (
	pcgMultiplier uint64 = 6364136223846793005

	// Default stream selector used when reseeding per pixel.
	pcgDefaultStream uint64 = 1442695040888963407

	// Initial state and stream of a freshly created generator.
	pcgDefaultState uint64 = 0x853c49e6748fea9b
	pcgDefaultSeq   uint64 = 0xda3e39cb94b95bdb
)

// PCG32 is a permuted congruential generator with 64 bits of state and a
// 64 bit stream selector (XSH RR variant). The zero value is not seeded; use
// NewPCG32 or Seed.
type PCG32 struct {
	state uint64
	inc   uint64
}

// Create a generator seeded with the default state and stream.
func NewPCG32() *PCG32 {
	rng := &PCG32{}
	rng.Seed(pcgDefaultState, pcgDefaultSeq)
	return rng
}

// Reseed the generator. Different initSeq values select independent streams.
func (rng *PCG32) Seed(initState, initSeq uint64) {
	rng.state = 0
	rng.inc = (initSeq << 1) | 1
	rng.Next()
	rng.state += initState
	rng.Next()
}

// Generate a uniformly distributed 32 bit value.
func (rng *PCG32) Next() uint32 {
	oldState := rng.state
	rng.state = oldState*pcgMultiplier + rng.inc
	xorShifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

// Generate a float in [0, 1). Only the top 24 bits are used so the result
// is exactly representable and never rounds up to 1.
func (rng *PCG32) Float32() float32 {
	return float32(rng.Next()>>8) * 0x1p-24
}
