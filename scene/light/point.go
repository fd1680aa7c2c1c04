package light

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
)

// PointLight emits uniformly in all directions from a single point.
type PointLight struct {
	Position  types.Vec3
	Intensity types.Vec3
}

func NewPoint(position, intensity types.Vec3) *PointLight {
	return &PointLight{
		Position:  position,
		Intensity: intensity,
	}
}

func (l *PointLight) SampleLi(ref scene.Interaction, _ types.Vec2) (scene.LightSample, bool) {
	d := l.Position.Sub(ref.P)
	dist2 := d.LenSq()
	if dist2 == 0 {
		return scene.LightSample{}, false
	}
	dist := d.Len()

	return scene.LightSample{
		Wi:   d.Mul(1 / dist),
		L:    l.Intensity.Mul(1 / dist2),
		Pdf:  1,
		P:    l.Position,
		Dist: dist,
	}, true
}

func (l *PointLight) PdfLi(scene.Interaction, scene.Interaction) float32 {
	return 0
}

// A point light cannot be hit by a ray.
func (l *PointLight) L(scene.Interaction, types.Vec3) types.Vec3 {
	return types.Vec3{}
}

func (l *PointLight) IsDelta() bool {
	return true
}
