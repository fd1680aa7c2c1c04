package types

// A ray with a precomputed reciprocal direction. Zero direction components
// map to signed infinities which the slab test relies on.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	InvDir Vec3
	Time   float32
}

// Create a new ray. The direction is used as-is and is not normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]},
	}
}

// Get the point along the ray at parametric distance t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Frame is an orthonormal basis used to move directions in and out of a
// local shading space where N is the +Z axis.
type Frame struct {
	S, T, N Vec3
}

// Build a frame around the unit normal n.
func NewFrame(n Vec3) Frame {
	s, t := CoordinateSystem(n)
	return Frame{S: s, T: t, N: n}
}

// Transform a world space vector into the frame.
func (f Frame) ToLocal(v Vec3) Vec3 {
	return Vec3{v.Dot(f.S), v.Dot(f.T), v.Dot(f.N)}
}

// Transform a local vector back to world space.
func (f Frame) FromLocal(v Vec3) Vec3 {
	return f.S.Mul(v[0]).Add(f.T.Mul(v[1])).Add(f.N.Mul(v[2]))
}
