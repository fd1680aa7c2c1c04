package material

import (
	"testing"

	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

func makeInteraction(n, wo types.Vec3) *scene.SurfaceInteraction {
	si := &scene.SurfaceInteraction{}
	si.N = n
	si.Wo = wo.Normalize()
	si.Shading.N = n
	return si
}

// Estimate the directional albedo of bsdf by uniformly sampling the sphere
// and by importance sampling the BSDF itself.
func estimateAlbedo(bsdf scene.BSDF, wo types.Vec3, samples int) (uniform, importance types.Vec3) {
	rng := sampler.NewPCG32()
	for i := 0; i < samples; i++ {
		u := types.Vec2{rng.Float32(), rng.Float32()}

		wi := sampler.UniformSampleSphere(u)
		f := bsdf.F(wo, wi)
		uniform = uniform.Add(f.Mul(math32.Abs(wi[2]) / sampler.UniformSpherePdf()))

		if s, ok := bsdf.SampleF(wo, u); ok {
			importance = importance.Add(s.F.Mul(math32.Abs(s.Wi[2]) / s.Pdf))
		}
	}
	inv := 1 / float32(samples)
	return uniform.Mul(inv), importance.Mul(inv)
}

func TestLambertianBSDF(t *testing.T) {
	mat := NewMatteColor(types.Vec3{0.5, 0.25, 1})
	si := makeInteraction(types.Vec3{0, 0, 1}, types.Vec3{0.2, 0.1, 1})
	mat.ComputeScatteringFunctions(si)
	bsdf := si.BSDF

	uniform, importance := estimateAlbedo(bsdf, si.Wo, 200000)
	exp := types.Vec3{0.5, 0.25, 1}
	if uniform.Sub(exp).Len() > 0.02 {
		t.Fatalf("expected uniform albedo estimate %v; got %v", exp, uniform)
	}
	if importance.Sub(exp).Len() > 1e-3 {
		t.Fatalf("expected importance sampled albedo %v; got %v", exp, importance)
	}

	s, ok := bsdf.SampleF(si.Wo, types.Vec2{0.3, 0.6})
	if !ok {
		t.Fatal("expected sample to succeed")
	}
	if pdf := bsdf.Pdf(si.Wo, s.Wi); math32.Abs(pdf-s.Pdf) > 1e-5 {
		t.Fatalf("expected Pdf() to match sampled pdf %f; got %f", s.Pdf, pdf)
	}
	if f := bsdf.F(si.Wo, types.Vec3{0, 0, -1}); !f.IsZero() {
		t.Fatalf("expected no transmission; got %v", f)
	}
}

func TestBSDFTwoSided(t *testing.T) {
	// Seen from below, the shading normal is flipped towards the viewer
	mat := NewMatteColor(types.Vec3{1, 1, 1})
	si := makeInteraction(types.Vec3{0, 0, 1}, types.Vec3{0, 0, -1})
	mat.ComputeScatteringFunctions(si)

	s, ok := si.BSDF.SampleF(si.Wo, types.Vec2{0.5, 0.5})
	if !ok {
		t.Fatal("expected sample to succeed")
	}
	if s.Wi[2] >= 0 {
		t.Fatalf("expected sampled direction below the surface; got %v", s.Wi)
	}
}

func TestGGXBSDF(t *testing.T) {
	type spec struct {
		albedo    types.Vec3
		metallic  float32
		roughness float32
	}
	specs := []spec{
		{types.Vec3{0.8, 0.8, 0.8}, 0, 0.5},
		{types.Vec3{0.9, 0.6, 0.3}, 1, 0.6},
		{types.Vec3{1, 1, 1}, 0.5, 0.8},
	}

	wo := types.Vec3{0.3, 0, 1}.Normalize()
	for index, s := range specs {
		mat := NewPBRColor(s.albedo, s.metallic, s.roughness)
		si := makeInteraction(types.Vec3{0, 0, 1}, wo)
		mat.ComputeScatteringFunctions(si)
		bsdf := si.BSDF

		uniform, importance := estimateAlbedo(bsdf, si.Wo, 400000)
		for c := 0; c < 3; c++ {
			if uniform[c] > 1.05 || importance[c] > 1.05 {
				t.Fatalf("[spec %d] expected energy conservation; got uniform %v, importance %v", index, uniform, importance)
			}
			if diff := math32.Abs(uniform[c] - importance[c]); diff > 0.05*math32.Max(uniform[c], 0.1) {
				t.Fatalf("[spec %d] expected uniform %v and importance %v estimates to agree", index, uniform, importance)
			}
		}

		rng := sampler.NewPCG32()
		for i := 0; i < 100; i++ {
			sample, ok := bsdf.SampleF(si.Wo, types.Vec2{rng.Float32(), rng.Float32()})
			if !ok {
				continue
			}
			if sample.Wi[2] <= 0 {
				t.Fatalf("[spec %d] expected sampled direction above the surface; got %v", index, sample.Wi)
			}
			if pdf := bsdf.Pdf(si.Wo, sample.Wi); math32.Abs(pdf-sample.Pdf) > 1e-4*math32.Max(1, pdf) {
				t.Fatalf("[spec %d] expected Pdf() %f to match sampled pdf %f", index, pdf, sample.Pdf)
			}
		}
	}
}

func TestMirrorBSDF(t *testing.T) {
	mat := NewMirrorColor(types.Vec3{0.9, 0.9, 0.9})
	si := makeInteraction(types.Vec3{0, 0, 1}, types.Vec3{1, 0, 1})
	mat.ComputeScatteringFunctions(si)

	s, ok := si.BSDF.SampleF(si.Wo, types.Vec2{0.1, 0.9})
	if !ok {
		t.Fatal("expected sample to succeed")
	}
	if !s.Delta {
		t.Fatal("expected mirror sample to be flagged as delta")
	}

	exp := types.Vec3{-1, 0, 1}.Normalize()
	if s.Wi.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected reflected direction %v; got %v", exp, s.Wi)
	}
	throughput := s.F.Mul(math32.Abs(s.Wi[2]) / s.Pdf)
	if throughput.Sub(types.Vec3{0.9, 0.9, 0.9}).Len() > 1e-5 {
		t.Fatalf("expected throughput to equal reflectance; got %v", throughput)
	}

	if f := si.BSDF.F(si.Wo, s.Wi); !f.IsZero() {
		t.Fatalf("expected F of a delta BSDF to be zero; got %v", f)
	}
	if pdf := si.BSDF.Pdf(si.Wo, s.Wi); pdf != 0 {
		t.Fatalf("expected Pdf of a delta BSDF to be zero; got %f", pdf)
	}
}
