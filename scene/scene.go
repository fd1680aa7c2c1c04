package scene

import (
	"errors"
	"fmt"

	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

var ErrNoCamera = errors.New("scene: no camera defined")

// Scene owns the primitives, materials and lights of a render along with the
// acceleration structure built over the primitives. A scene must not be
// modified after Build.
type Scene struct {
	Camera Camera

	Materials  []Material
	Primitives []Primitive
	Lights     []Light

	aggregate Primitive
}

func New() *Scene {
	return &Scene{
		Materials:  make([]Material, 0),
		Primitives: make([]Primitive, 0),
		Lights:     make([]Light, 0),
		aggregate:  emptyAggregate{},
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material Material) error {
	if material == nil {
		return fmt.Errorf("scene: nil material")
	}
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a light to the scene. Area lights attached to primitives are added
// automatically by AddPrimitive.
func (s *Scene) AddLight(light Light) error {
	if light == nil {
		return fmt.Errorf("scene: nil light")
	}
	for _, l := range s.Lights {
		if l == light {
			return fmt.Errorf("scene: light already added")
		}
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// Add a primitive to the scene. A primitive without a material is allowed
// (pure emitters); otherwise the material must already be part of the scene.
func (s *Scene) AddPrimitive(primitive Primitive) error {
	if primitive.Material() != nil {
		known := false
		for _, mat := range s.Materials {
			if mat == primitive.Material() {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive")
		}
	}

	if light := primitive.Light(); light != nil {
		if err := s.AddLight(light); err != nil {
			return err
		}
	}

	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Build the acceleration structure. The scene is read-only afterwards.
func (s *Scene) Build() error {
	if s.Camera == nil {
		return ErrNoCamera
	}

	aggregate, err := CreateBVH(s.Primitives)
	if err != nil {
		return err
	}
	s.aggregate = aggregate
	return nil
}

// Get the aggregate primitive.
func (s *Scene) Aggregate() Primitive {
	return s.aggregate
}

// Get the scene bounds.
func (s *Scene) Bound() AABB {
	return s.aggregate.Bound()
}

// Find the closest intersection along ray. Only the winning primitive
// computes its surface interaction.
func (s *Scene) Intersect(ray types.Ray) (SurfaceInteraction, bool) {
	var si SurfaceInteraction

	hit := HitInteraction{T: math32.Inf(1)}
	if !s.aggregate.Intersect(ray, &hit) {
		return si, false
	}

	hit.Primitive.FillSurfaceInteraction(ray, hit, &si)
	return si, true
}

// Returns true if anything blocks ray before tMax.
func (s *Scene) IntersectP(ray types.Ray, tMax float32) bool {
	if occluder, ok := s.aggregate.(interface {
		IntersectP(types.Ray, float32) bool
	}); ok {
		return occluder.IntersectP(ray, tMax)
	}

	hit := HitInteraction{T: tMax}
	return s.aggregate.Intersect(ray, &hit)
}
