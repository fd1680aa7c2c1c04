package material

import (
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/texture"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// MatteMaterial is a Lambertian reflector.
type MatteMaterial struct {
	Kd scene.Texture
}

func NewMatte(kd scene.Texture) *MatteMaterial {
	return &MatteMaterial{Kd: kd}
}

// Create a matte material with a constant reflectance.
func NewMatteColor(kd types.Vec3) *MatteMaterial {
	return &MatteMaterial{Kd: texture.NewSolid(kd)}
}

func (m *MatteMaterial) ComputeScatteringFunctions(si *scene.SurfaceInteraction) {
	si.BSDF = &LambertianBSDF{
		R:     saturate(m.Kd.Evaluate(si)),
		frame: shadingFrame(si),
	}
}

// LambertianBSDF scatters light equally in all directions of the hemisphere
// around the shading normal.
type LambertianBSDF struct {
	R     types.Vec3
	frame types.Frame
}

func (b *LambertianBSDF) F(wo, wi types.Vec3) types.Vec3 {
	if wo.Dot(b.frame.N) <= 0 || wi.Dot(b.frame.N) <= 0 {
		return types.Vec3{}
	}
	return b.R.Mul(1 / math32.Pi)
}

func (b *LambertianBSDF) SampleF(wo types.Vec3, u types.Vec2) (scene.BSDFSample, bool) {
	local := sampler.CosineSampleHemisphere(u)
	pdf := sampler.CosineHemispherePdf(local[2])
	if pdf <= 0 {
		return scene.BSDFSample{}, false
	}

	wi := b.frame.FromLocal(local)
	return scene.BSDFSample{
		Wi:  wi,
		F:   b.F(wo, wi),
		Pdf: pdf,
	}, true
}

func (b *LambertianBSDF) Pdf(wo, wi types.Vec3) float32 {
	if wo.Dot(b.frame.N) <= 0 {
		return 0
	}
	return sampler.CosineHemispherePdf(wi.Dot(b.frame.N))
}
