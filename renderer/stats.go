package renderer

import "time"

type FrameStats struct {
	// Frame dims and the number of samples actually taken per pixel.
	FrameW          uint32
	FrameH          uint32
	SamplesPerPixel uint32

	Workers int
	Tiles   int

	// Render time of each pass. Renders that are not progressive have a
	// single pass.
	Passes []time.Duration

	// Traced rays by kind.
	PrimaryRays  uint64
	ShadowRays   uint64
	IndirectRays uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Get the total number of traced rays.
func (s FrameStats) TotalRays() uint64 {
	return s.PrimaryRays + s.ShadowRays + s.IndirectRays
}

// Get the average ray throughput in rays per second.
func (s FrameStats) RaysPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.TotalRays()) / s.RenderTime.Seconds()
}
