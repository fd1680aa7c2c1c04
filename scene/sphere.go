package scene

import (
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Relative floating point error bound for reprojected sphere hit points.
const spherePErrorScale float32 = 5 * 0x1p-24

// A sphere defined by its center and radius.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create new sphere.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

func (s *Sphere) Bound() AABB {
	r := types.Splat(s.Radius)
	return NewAABB(s.Center.Sub(r), s.Center.Add(r))
}

func (s *Sphere) Area() float32 {
	return 4 * math32.Pi * s.Radius * s.Radius
}

func (s *Sphere) Intersect(ray types.Ray, tMax float32) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.LenSq()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSq() - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math32.Sqrt(disc)

	t := (-halfB - sqrtDisc) / a
	if t <= MinHitDistance || t >= tMax {
		t = (-halfB + sqrtDisc) / a
		if t <= MinHitDistance || t >= tMax {
			return 0, false
		}
	}
	return t, true
}

func (s *Sphere) FillSurfaceInteraction(ray types.Ray, tHit float32, si *SurfaceInteraction) {
	n := ray.At(tHit).Sub(s.Center).Normalize()

	// Reproject the hit point onto the surface
	p := s.Center.Add(n.Mul(s.Radius))

	phi := math32.Atan2(n[1], n[0])
	if phi < 0 {
		phi += 2 * math32.Pi
	}
	theta := math32.Acos(clamp(n[2], -1, 1))

	dpdu := types.Vec3{-2 * math32.Pi * n[1], 2 * math32.Pi * n[0], 0}.Mul(s.Radius)
	if dpdu.LenSq() == 0 {
		// Poles; any tangent will do
		dpdu, _ = types.CoordinateSystem(n)
	}

	si.P = p
	si.PError = types.Vec3{math32.Abs(p[0]), math32.Abs(p[1]), math32.Abs(p[2])}.Mul(spherePErrorScale)
	si.N = n
	si.Wo = ray.Dir.Neg().Normalize()
	si.UV = types.Vec2{phi / (2 * math32.Pi), theta / math32.Pi}
	si.Dpdu = dpdu
	si.Shading = Shading{N: n, Dpdu: dpdu}
}

func (s *Sphere) Sample(u types.Vec2) (Interaction, float32) {
	n := sampler.UniformSampleSphere(u)
	return Interaction{
		P: s.Center.Add(n.Mul(s.Radius)),
		N: n,
	}, 1 / s.Area()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
