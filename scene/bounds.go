package scene

import (
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Bounds is a closed scalar interval. The zero-extent empty interval is
// [+inf, -inf] so that merging with it is a no-op.
type Bounds struct {
	Min float32
	Max float32
}

// Create an empty interval.
func EmptyBounds() Bounds {
	return Bounds{Min: math32.Inf(1), Max: math32.Inf(-1)}
}

// Create an interval covering the entire real line.
func InfiniteBounds() Bounds {
	return Bounds{Min: math32.Inf(-1), Max: math32.Inf(1)}
}

// Size of the interval. Negative for empty intervals.
func (b Bounds) Size() float32 {
	return b.Max - b.Min
}

// Returns true if the interval contains no points.
func (b Bounds) IsEmpty() bool {
	return b.Max < b.Min
}

// Returns true if x lies inside the interval.
func (b Bounds) Contains(x float32) bool {
	return b.Min <= x && x <= b.Max
}

// Merge two intervals.
func (b Bounds) Merge(o Bounds) Bounds {
	return Bounds{Min: math32.Min(b.Min, o.Min), Max: math32.Max(b.Max, o.Max)}
}

// Grow the interval to include x.
func (b Bounds) Extend(x float32) Bounds {
	return Bounds{Min: math32.Min(b.Min, x), Max: math32.Max(b.Max, x)}
}

// Expand the interval by delta/2 on each side.
func (b Bounds) Pad(delta float32) Bounds {
	half := delta * 0.5
	return Bounds{Min: b.Min - half, Max: b.Max + half}
}

// AABB is an axis-aligned box stored as one interval per axis.
type AABB [3]Bounds

// Create an empty box.
func EmptyAABB() AABB {
	return AABB{EmptyBounds(), EmptyBounds(), EmptyBounds()}
}

// Create a box spanning two arbitrary corner points.
func NewAABB(p0, p1 types.Vec3) AABB {
	var box AABB
	for axis := 0; axis < 3; axis++ {
		box[axis] = Bounds{Min: math32.Min(p0[axis], p1[axis]), Max: math32.Max(p0[axis], p1[axis])}
	}
	return box
}

// Merge two boxes.
func (a AABB) Merge(b AABB) AABB {
	return AABB{a[0].Merge(b[0]), a[1].Merge(b[1]), a[2].Merge(b[2])}
}

// Grow the box to include p.
func (a AABB) ExtendPoint(p types.Vec3) AABB {
	return AABB{a[0].Extend(p[0]), a[1].Extend(p[1]), a[2].Extend(p[2])}
}

// Ensure that no axis is thinner than delta. Flat boxes (axis aligned
// triangles) would otherwise be missed by the slab test.
func (a AABB) PadToMinimum(delta float32) AABB {
	out := a
	for axis := 0; axis < 3; axis++ {
		if out[axis].Size() < delta {
			out[axis] = out[axis].Pad(delta)
		}
	}
	return out
}

// Min corner.
func (a AABB) Min() types.Vec3 {
	return types.Vec3{a[0].Min, a[1].Min, a[2].Min}
}

// Max corner.
func (a AABB) Max() types.Vec3 {
	return types.Vec3{a[0].Max, a[1].Max, a[2].Max}
}

// Box center.
func (a AABB) Centroid() types.Vec3 {
	return types.Vec3{
		(a[0].Min + a[0].Max) * 0.5,
		(a[1].Min + a[1].Max) * 0.5,
		(a[2].Min + a[2].Max) * 0.5,
	}
}

// Index of the axis with the largest extent.
func (a AABB) LongestAxis() int {
	axis := 0
	maxExtent := a[0].Size()
	if a[1].Size() > maxExtent {
		axis = 1
		maxExtent = a[1].Size()
	}
	if a[2].Size() > maxExtent {
		axis = 2
	}
	return axis
}

// Returns true if b lies entirely inside a.
func (a AABB) ContainsBox(b AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b[axis].Min < a[axis].Min || b[axis].Max > a[axis].Max {
			return false
		}
	}
	return true
}

// Exit distances are widened by this factor so that rounding in the slab
// computation never culls a box that a primitive inside it would report.
const slabErrorScale float32 = 1 + 2*(3*0x1p-24)/(1-3*0x1p-24)

// Slab test against the clip interval. Returns true if the ray overlaps the
// box for some t inside clip.
func (a AABB) Hit(ray types.Ray, clip Bounds) bool {
	_, hit := a.HitInterval(ray, clip)
	return hit
}

// Slab test returning the clipped parametric interval. Axis-parallel rays
// produce infinite slab distances from the reciprocal direction and need no
// special casing; NaN distances (origin on a slab plane) leave the interval
// untouched because every comparison with NaN is false.
func (a AABB) HitInterval(ray types.Ray, clip Bounds) (Bounds, bool) {
	for axis := 0; axis < 3; axis++ {
		invD := ray.InvDir[axis]
		t0 := (a[axis].Min - ray.Origin[axis]) * invD
		t1 := (a[axis].Max - ray.Origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		t1 *= slabErrorScale

		if t0 > clip.Min {
			clip.Min = t0
		}
		if t1 < clip.Max {
			clip.Max = t1
		}
		if clip.Max <= clip.Min {
			return clip, false
		}
	}
	return clip, true
}
