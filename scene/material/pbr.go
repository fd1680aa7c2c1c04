package material

import (
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/texture"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

const (
	// Roughness is clamped to this value to keep the GGX lobe finite.
	minRoughness float32 = 0.04

	// Reflectance at normal incidence for dielectrics.
	dielectricF0 float32 = 0.04

	// Keeps the microfacet denominators away from zero.
	microfacetEpsilon float32 = 1e-4
)

// PBRMaterial is a metallic/roughness material combining a Lambertian base
// with a GGX specular lobe. Metallic and roughness are read from the first
// channel of their textures.
type PBRMaterial struct {
	Albedo    scene.Texture
	Metallic  scene.Texture
	Roughness scene.Texture
}

func NewPBR(albedo, metallic, roughness scene.Texture) *PBRMaterial {
	return &PBRMaterial{
		Albedo:    albedo,
		Metallic:  metallic,
		Roughness: roughness,
	}
}

// Create a PBR material with constant parameters.
func NewPBRColor(albedo types.Vec3, metallic, roughness float32) *PBRMaterial {
	return NewPBR(texture.NewSolid(albedo), texture.NewScalar(metallic), texture.NewScalar(roughness))
}

func (m *PBRMaterial) ComputeScatteringFunctions(si *scene.SurfaceInteraction) {
	si.BSDF = NewGGXBSDF(
		saturate(m.Albedo.Evaluate(si)),
		m.Metallic.Evaluate(si)[0],
		m.Roughness.Evaluate(si)[0],
		si.Shading.N.FaceForward(si.Wo),
	)
}

// GGXBSDF evaluates the Cook-Torrance model with a GGX distribution,
// Schlick's Fresnel approximation and the Smith-Schlick masking term.
//
// Directions are sampled from a mixture of the GGX half vector distribution
// and a cosine weighted hemisphere; the specular lobe is picked with
// probability specWeight.
type GGXBSDF struct {
	albedo    types.Vec3
	metallic  float32
	roughness float32
	f0        types.Vec3

	specWeight float32
	frame      types.Frame
}

func NewGGXBSDF(albedo types.Vec3, metallic, roughness float32, n types.Vec3) *GGXBSDF {
	metallic = clamp(metallic, 0, 1)
	return &GGXBSDF{
		albedo:     albedo,
		metallic:   metallic,
		roughness:  math32.Max(roughness, minRoughness),
		f0:         types.Splat(dielectricF0).Lerp(albedo, metallic),
		specWeight: 0.5 + 0.5*metallic,
		frame:      types.NewFrame(n),
	}
}

func (b *GGXBSDF) distribution(nDotH float32) float32 {
	a := b.roughness * b.roughness
	a2 := a * a
	denom := nDotH*nDotH*(a2-1) + 1
	return a2 / (math32.Pi * denom * denom)
}

func (b *GGXBSDF) geometrySchlick(nDotV float32) float32 {
	r := b.roughness + 1
	k := r * r / 8
	return nDotV / (nDotV*(1-k) + k)
}

func (b *GGXBSDF) fresnel(cosTheta float32) types.Vec3 {
	w := math32.Pow(1-cosTheta, 5)
	return b.f0.Add(types.Splat(1).Sub(b.f0).Mul(w))
}

func (b *GGXBSDF) F(wo, wi types.Vec3) types.Vec3 {
	n := b.frame.N
	v := wo.Normalize()
	l := wi.Normalize()

	nDotV := v.Dot(n)
	nDotL := l.Dot(n)
	if nDotV <= 0 || nDotL <= 0 {
		return types.Vec3{}
	}

	h := v.Add(l).Normalize()
	nDotH := math32.Max(n.Dot(h), 0)
	hDotV := math32.Max(h.Dot(v), 0)

	f := b.fresnel(hDotV)
	d := b.distribution(nDotH)
	g := b.geometrySchlick(nDotV) * b.geometrySchlick(nDotL)
	specular := f.Mul(d * g / (4*nDotV*nDotL + microfacetEpsilon))

	kd := types.Splat(1).Sub(f).Mul(1 - b.metallic)
	diffuse := kd.MulVec(b.albedo).Mul(1 / math32.Pi)

	return diffuse.Add(specular)
}

// Sample a half vector from the GGX distribution in local space.
func (b *GGXBSDF) sampleHalfVector(u types.Vec2) types.Vec3 {
	a := b.roughness * b.roughness
	phi := 2 * math32.Pi * u[0]
	cosTheta := math32.Sqrt((1 - u[1]) / (1 + (a*a-1)*u[1]))
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))
	return types.Vec3{sinTheta * math32.Cos(phi), sinTheta * math32.Sin(phi), cosTheta}
}

func (b *GGXBSDF) SampleF(wo types.Vec3, u types.Vec2) (scene.BSDFSample, bool) {
	v := wo.Normalize()
	if v.Dot(b.frame.N) <= 0 {
		return scene.BSDFSample{}, false
	}

	var wi types.Vec3
	if u[0] < b.specWeight {
		u[0] /= b.specWeight
		h := b.frame.FromLocal(b.sampleHalfVector(u)).Normalize()
		wi = reflect(v, h).Normalize()
	} else {
		u[0] = (u[0] - b.specWeight) / (1 - b.specWeight)
		wi = b.frame.FromLocal(sampler.CosineSampleHemisphere(u))
	}

	if wi.Dot(b.frame.N) <= 0 {
		return scene.BSDFSample{}, false
	}
	pdf := b.Pdf(wo, wi)
	if pdf <= 0 {
		return scene.BSDFSample{}, false
	}

	return scene.BSDFSample{
		Wi:  wi,
		F:   b.F(wo, wi),
		Pdf: pdf,
	}, true
}

func (b *GGXBSDF) Pdf(wo, wi types.Vec3) float32 {
	n := b.frame.N
	v := wo.Normalize()
	l := wi.Normalize()

	nDotL := l.Dot(n)
	if nDotL <= 0 || v.Dot(n) <= 0 {
		return 0
	}

	h := v.Add(l).Normalize()
	nDotH := math32.Max(n.Dot(h), 0)
	hDotV := math32.Max(h.Dot(v), 0)
	specPdf := b.distribution(nDotH) * nDotH / (4*hDotV + microfacetEpsilon)
	diffusePdf := sampler.CosineHemispherePdf(nDotL)

	return b.specWeight*specPdf + (1-b.specWeight)*diffusePdf
}
