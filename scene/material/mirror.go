package material

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/texture"
	"github.com/aezaqiel/Silmaril/types"
)

// MirrorMaterial is a perfect specular reflector.
type MirrorMaterial struct {
	Kr scene.Texture
}

func NewMirror(kr scene.Texture) *MirrorMaterial {
	return &MirrorMaterial{Kr: kr}
}

func NewMirrorColor(kr types.Vec3) *MirrorMaterial {
	return &MirrorMaterial{Kr: texture.NewSolid(kr)}
}

func (m *MirrorMaterial) ComputeScatteringFunctions(si *scene.SurfaceInteraction) {
	si.BSDF = &SpecularReflectionBSDF{
		R: saturate(m.Kr.Evaluate(si)),
		N: si.Shading.N.FaceForward(si.Wo),
	}
}

// SpecularReflectionBSDF reflects all light about N. Its distribution is a
// delta function so F and Pdf are always zero for arbitrary directions.
type SpecularReflectionBSDF struct {
	R types.Vec3
	N types.Vec3
}

func (b *SpecularReflectionBSDF) F(_, _ types.Vec3) types.Vec3 {
	return types.Vec3{}
}

func (b *SpecularReflectionBSDF) SampleF(wo types.Vec3, _ types.Vec2) (scene.BSDFSample, bool) {
	cosTheta := wo.Dot(b.N)
	if cosTheta <= 0 {
		return scene.BSDFSample{}, false
	}

	// f is scaled so that f*cos/pdf equals R
	return scene.BSDFSample{
		Wi:    reflect(wo, b.N),
		F:     b.R.Mul(1 / cosTheta),
		Pdf:   1,
		Delta: true,
	}, true
}

func (b *SpecularReflectionBSDF) Pdf(_, _ types.Vec3) float32 {
	return 0
}
