package tracer

import (
	"testing"
	"time"
)

func tileIndices(tiles []Tile) []int {
	out := make([]int, len(tiles))
	for i, t := range tiles {
		out[i] = t.Index
	}
	return out
}

func equalIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTileSchedulers(t *testing.T) {
	type spec struct {
		order    TileOrder
		expOrder []int
	}
	// 3x3 tiles; tile 4 is in the center
	specs := []spec{
		{RowMajor, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{CenterOut, []int{4, 1, 3, 5, 7, 0, 2, 6, 8}},
		{CostFirst, []int{4, 1, 3, 5, 7, 0, 2, 6, 8}},
	}

	tiles := PartitionTiles(30, 30, 10)
	for index, s := range specs {
		sch := NewTileScheduler(s.order)
		got := tileIndices(sch.Schedule(tiles))
		if !equalIndices(got, s.expOrder) {
			t.Fatalf("[spec %d] expected order %v; got %v", index, s.expOrder, got)
		}
	}

	// Input must not be reordered
	if got := tileIndices(tiles); !equalIndices(got, specs[0].expOrder) {
		t.Fatalf("expected input tiles to be left untouched; got %v", got)
	}
}

func TestCostScheduler(t *testing.T) {
	tiles := PartitionTiles(30, 30, 10)
	sch := NewCostScheduler()

	// First pass has no feedback and behaves like the center-out scheduler
	first := tileIndices(sch.Schedule(tiles))
	if first[0] != 4 {
		t.Fatalf("expected center tile to be scheduled first; got %v", first)
	}

	sch.Feedback(tiles[8], 5*time.Millisecond)
	sch.Feedback(tiles[0], 3*time.Millisecond)
	sch.Feedback(tiles[2], 9*time.Millisecond)

	got := tileIndices(sch.Schedule(tiles))
	exp := []int{2, 8, 0, 4, 1, 3, 5, 7, 6}
	if !equalIndices(got, exp) {
		t.Fatalf("expected order %v; got %v", exp, got)
	}
}

func TestParseTileOrder(t *testing.T) {
	type spec struct {
		name   string
		exp    TileOrder
		expErr bool
	}
	specs := []spec{
		{"", RowMajor, false},
		{"rowmajor", RowMajor, false},
		{"center", CenterOut, false},
		{"cost", CostFirst, false},
		{"hilbert", 0, true},
	}

	for index, s := range specs {
		order, err := ParseTileOrder(s.name)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil || order != s.exp {
			t.Fatalf("[spec %d] expected %s; got %s (%v)", index, s.exp, order, err)
		}
		if order.String() != s.name && s.name != "" {
			t.Fatalf("[spec %d] expected String() to return %q; got %q", index, s.name, order.String())
		}
	}
}
