package scene

import "github.com/aezaqiel/Silmaril/types"

// A Shape provides geometry only: bounds, intersection and area sampling.
type Shape interface {
	Bound() AABB
	Area() float32

	// Find the closest intersection with t in (MinHitDistance, tMax).
	Intersect(ray types.Ray, tMax float32) (float32, bool)

	// Compute the differential geometry at ray.At(tHit).
	FillSurfaceInteraction(ray types.Ray, tHit float32, si *SurfaceInteraction)

	// Uniformly sample a point on the surface. The pdf is with respect to
	// surface area.
	Sample(u types.Vec2) (Interaction, float32)
}

// A Primitive is either a leaf that binds a shape to its material and
// optional area light, or an aggregate over other primitives.
type Primitive interface {
	// Test for an intersection closer than hit.T. On success, hit is
	// updated with the new distance and the leaf primitive that was hit.
	Intersect(ray types.Ray, hit *HitInteraction) bool

	// Populate si for a hit previously reported by Intersect.
	FillSurfaceInteraction(ray types.Ray, hit HitInteraction, si *SurfaceInteraction)

	Bound() AABB
	Material() Material
	Light() Light
}

// GeometricPrimitive is a leaf primitive.
type GeometricPrimitive struct {
	shape    Shape
	material Material
	light    Light
}

// Create a new leaf primitive. Material and light may be nil.
func NewGeometricPrimitive(shape Shape, material Material, light Light) *GeometricPrimitive {
	return &GeometricPrimitive{
		shape:    shape,
		material: material,
		light:    light,
	}
}

func (p *GeometricPrimitive) Intersect(ray types.Ray, hit *HitInteraction) bool {
	t, ok := p.shape.Intersect(ray, hit.T)
	if !ok {
		return false
	}
	hit.T = t
	hit.Primitive = p
	return true
}

func (p *GeometricPrimitive) FillSurfaceInteraction(ray types.Ray, hit HitInteraction, si *SurfaceInteraction) {
	p.shape.FillSurfaceInteraction(ray, hit.T, si)
	si.T = hit.T
	si.Primitive = p
}

func (p *GeometricPrimitive) Bound() AABB {
	return p.shape.Bound()
}

func (p *GeometricPrimitive) Material() Material {
	return p.material
}

func (p *GeometricPrimitive) Light() Light {
	return p.light
}

// Get the wrapped shape.
func (p *GeometricPrimitive) Shape() Shape {
	return p.shape
}

// emptyAggregate is the aggregate of a scene without primitives. It never
// reports a hit.
type emptyAggregate struct{}

func (emptyAggregate) Intersect(types.Ray, *HitInteraction) bool { return false }

func (emptyAggregate) FillSurfaceInteraction(types.Ray, HitInteraction, *SurfaceInteraction) {}

func (emptyAggregate) Bound() AABB { return EmptyAABB() }

func (emptyAggregate) Material() Material { return nil }

func (emptyAggregate) Light() Light { return nil }
