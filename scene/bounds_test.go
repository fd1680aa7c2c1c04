package scene

import (
	"math/rand"
	"testing"

	"github.com/aezaqiel/Silmaril/types"
)

func TestBoundsMerge(t *testing.T) {
	empty := EmptyBounds()
	if !empty.IsEmpty() {
		t.Fatal("expected default bounds to be empty")
	}

	b := empty.Merge(Bounds{1, 2})
	if b != (Bounds{1, 2}) {
		t.Fatalf("expected merging with an empty interval to be a no-op; got %v", b)
	}

	b = b.Extend(-1).Pad(2)
	if b != (Bounds{-2, 3}) {
		t.Fatalf("expected padded interval [-2, 3]; got %v", b)
	}
}

func TestAABBHitFromInside(t *testing.T) {
	box := NewAABB(types.Vec3{-1, -2, -3}, types.Vec3{1, 2, 3})
	rng := rand.New(rand.NewSource(1))

	dirs := []types.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for i := 0; i < 500; i++ {
		dirs = append(dirs, types.Vec3{
			float32(rng.NormFloat64()),
			float32(rng.NormFloat64()),
			float32(rng.NormFloat64()),
		}.Normalize())
	}

	origins := []types.Vec3{{0, 0, 0}, {0.9, -1.9, 2.9}, {-0.5, 1, 0}}
	for _, o := range origins {
		for index, d := range dirs {
			interval, hit := box.HitInterval(types.NewRay(o, d), InfiniteBounds())
			if !hit {
				t.Fatalf("[spec %d] expected ray from %v along %v to hit enclosing box", index, o, d)
			}
			if !interval.Contains(0) {
				t.Fatalf("[spec %d] expected hit interval %v to contain 0", index, interval)
			}
		}
	}
}

func TestAABBHit(t *testing.T) {
	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		clip   Bounds
		expHit bool
	}

	box := NewAABB(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1})
	specs := []spec{
		// Straight at the box
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}, Bounds{0, 100}, true},
		// Pointing away
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, 1}, Bounds{0, 100}, false},
		// Axis parallel ray outside the slab on another axis
		{types.Vec3{2, 0, 5}, types.Vec3{0, 0, -1}, Bounds{0, 100}, false},
		// Clip interval ends before the box
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}, Bounds{0, 3.5}, false},
		// Clip interval ends inside the box
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}, Bounds{0, 4.5}, true},
		// Diagonal
		{types.Vec3{5, 5, 5}, types.Vec3{-1, -1, -1}, Bounds{0, 100}, true},
	}

	for index, s := range specs {
		if hit := box.Hit(types.NewRay(s.origin, s.dir), s.clip); hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
	}
}

func TestAABBLongestAxis(t *testing.T) {
	box := NewAABB(types.Vec3{0, 0, 0}, types.Vec3{1, 3, 2})
	if axis := box.LongestAxis(); axis != 1 {
		t.Fatalf("expected longest axis to be 1; got %d", axis)
	}
	if c := box.Centroid(); c != (types.Vec3{0.5, 1.5, 1}) {
		t.Fatalf("expected centroid (0.5, 1.5, 1); got %v", c)
	}
}
