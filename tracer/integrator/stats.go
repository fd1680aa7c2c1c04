package integrator

import "time"

// Render statistics.
type Stats struct {
	// Number of tiles per pass.
	Tiles int

	// Duration of each completed pass. Renders that are not progressive
	// report a single pass.
	Passes []time.Duration

	// Total render time, excluding output encoding.
	RenderTime time.Duration

	PrimaryRays  uint64
	ShadowRays   uint64
	IndirectRays uint64
}

// Get the total number of traced rays.
func (s Stats) TotalRays() uint64 {
	return s.PrimaryRays + s.ShadowRays + s.IndirectRays
}

// Per-tile ray counters. Merged into Stats once per tile.
type rayCounters struct {
	primary  uint64
	shadow   uint64
	indirect uint64
}
