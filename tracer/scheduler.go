package tracer

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// The order in which tiles are submitted to the job system.
type TileOrder uint8

const (
	// Left to right, top to bottom.
	RowMajor TileOrder = iota

	// Tiles closest to the frame center first.
	CenterOut

	// Tiles that took longest during the previous pass first.
	CostFirst
)

func (o TileOrder) String() string {
	switch o {
	case RowMajor:
		return "rowmajor"
	case CenterOut:
		return "center"
	case CostFirst:
		return "cost"
	}
	return fmt.Sprintf("TileOrder(%d)", uint8(o))
}

// Parse a tile order from its name.
func ParseTileOrder(name string) (TileOrder, error) {
	switch name {
	case "rowmajor", "":
		return RowMajor, nil
	case "center":
		return CenterOut, nil
	case "cost":
		return CostFirst, nil
	}
	return 0, fmt.Errorf("tracer: unknown tile order %q", name)
}

// The TileScheduler interface is implemented by all tile ordering algorithms.
type TileScheduler interface {
	// Return the tiles in the order they should be rendered. The input
	// slice is not modified.
	Schedule(tiles []Tile) []Tile

	// Report the time it took to render a tile. May be called concurrently
	// from multiple workers.
	Feedback(tile Tile, elapsed time.Duration)
}

// Create a scheduler for the given order.
func NewTileScheduler(order TileOrder) TileScheduler {
	switch order {
	case CenterOut:
		return &centerOutScheduler{}
	case CostFirst:
		return NewCostScheduler()
	}
	return &rowMajorScheduler{}
}

type rowMajorScheduler struct{}

func (sch *rowMajorScheduler) Schedule(tiles []Tile) []Tile {
	out := append([]Tile(nil), tiles...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (sch *rowMajorScheduler) Feedback(Tile, time.Duration) {}

type centerOutScheduler struct{}

// Order tiles by the distance of their center to the center of the area
// covered by all tiles.
func (sch *centerOutScheduler) Schedule(tiles []Tile) []Tile {
	out := append([]Tile(nil), tiles...)

	var frameW, frameH uint32
	for _, t := range tiles {
		frameW = max(frameW, t.X+t.W)
		frameH = max(frameH, t.Y+t.H)
	}

	// Twice the distance so everything stays integral
	dist := func(t Tile) int64 {
		dx := int64(2*t.X+t.W) - int64(frameW)
		dy := int64(2*t.Y+t.H) - int64(frameH)
		return dx*dx + dy*dy
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dist(out[i]), dist(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func (sch *centerOutScheduler) Feedback(Tile, time.Duration) {}

// The cost scheduler assumes that the volume of work for a tile is about the
// same between two subsequent passes. Tiles are scheduled in decreasing order
// of their last render time so that expensive tiles do not end up at the tail
// of a pass. Tiles without timing information are scheduled center-out after
// the timed ones.
type costScheduler struct {
	mu    sync.Mutex
	costs map[int]time.Duration

	fallback centerOutScheduler
}

// Create a new cost scheduler instance.
func NewCostScheduler() TileScheduler {
	return &costScheduler{
		costs: make(map[int]time.Duration),
	}
}

func (sch *costScheduler) Schedule(tiles []Tile) []Tile {
	out := sch.fallback.Schedule(tiles)

	sch.mu.Lock()
	defer sch.mu.Unlock()
	if len(sch.costs) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, iok := sch.costs[out[i].Index]
		cj, jok := sch.costs[out[j].Index]
		if iok != jok {
			return iok
		}
		return ci > cj
	})
	return out
}

func (sch *costScheduler) Feedback(tile Tile, elapsed time.Duration) {
	sch.mu.Lock()
	sch.costs[tile.Index] = elapsed
	sch.mu.Unlock()
}
