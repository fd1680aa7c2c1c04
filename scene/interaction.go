package scene

import "github.com/aezaqiel/Silmaril/types"

const (
	// Distance used for offsetting spawned ray origins off a surface.
	RayEpsilon float32 = 1e-4

	// Hits closer than this to the ray origin are ignored by shapes and by
	// BVH node clipping.
	MinHitDistance float32 = 1e-4

	// Shadow rays stop this far short of the sampled light point.
	ShadowEpsilon float32 = 1e-3
)

// HitInteraction is the cheap record produced while searching for the
// closest hit. T acts as the current upper bound for the search.
type HitInteraction struct {
	T         float32
	Primitive Primitive
}

// Interaction is a point on a surface together with its geometric normal.
// It is used as a reference point for light sampling and as the result of
// sampling a point on a shape.
type Interaction struct {
	P      types.Vec3
	PError types.Vec3
	N      types.Vec3
	Wo     types.Vec3
}

// Shading frame of a surface point.
type Shading struct {
	N    types.Vec3
	Dpdu types.Vec3
}

// SurfaceInteraction carries the full differential geometry of a hit. It is
// only populated for the winning primitive of an intersection query.
type SurfaceInteraction struct {
	Interaction

	UV      types.Vec2
	Dpdu    types.Vec3
	Shading Shading

	T         float32
	Primitive Primitive

	// Attached by the primitive's material.
	BSDF BSDF
}

// Create a ray leaving the interaction along dir. The origin is pushed off
// the surface along the geometric normal, on the side dir points to.
func (it *Interaction) SpawnRay(dir types.Vec3) types.Ray {
	return types.NewRay(it.offsetOrigin(dir), dir)
}

// Create a ray from the interaction towards p. The returned distance is the
// length from the offset origin to p along the normalized direction.
func (it *Interaction) SpawnRayTo(p types.Vec3) (types.Ray, float32) {
	d := p.Sub(it.P)
	dir := d.Normalize()
	origin := it.offsetOrigin(dir)
	return types.NewRay(origin, dir), p.Sub(origin).Len()
}

func (it *Interaction) offsetOrigin(dir types.Vec3) types.Vec3 {
	offset := it.N.Mul(RayEpsilon)
	if dir.Dot(it.N) < 0 {
		offset = offset.Neg()
	}
	return it.P.Add(offset)
}

// Emitted radiance leaving the surface along w. Zero for non-emissive hits.
func (si *SurfaceInteraction) Le(w types.Vec3) types.Vec3 {
	if si.Primitive == nil {
		return types.Vec3{}
	}
	light := si.Primitive.Light()
	if light == nil {
		return types.Vec3{}
	}
	return light.L(si.Interaction, w)
}
