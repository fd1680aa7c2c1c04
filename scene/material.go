package scene

import "github.com/aezaqiel/Silmaril/types"

// BSDFSample is the result of importance sampling a BSDF.
type BSDFSample struct {
	Wi  types.Vec3
	F   types.Vec3
	Pdf float32

	// Set for specular lobes whose pdf is a delta distribution.
	Delta bool
}

// A BSDF describes how light scatters at a surface point. All directions are
// in world space and point away from the surface.
type BSDF interface {
	F(wo, wi types.Vec3) types.Vec3
	SampleF(wo types.Vec3, u types.Vec2) (BSDFSample, bool)
	Pdf(wo, wi types.Vec3) float32
}

// A Material attaches a BSDF to a surface interaction.
type Material interface {
	ComputeScatteringFunctions(si *SurfaceInteraction)
}

// A Texture returns a color for a surface point.
type Texture interface {
	Evaluate(si *SurfaceInteraction) types.Vec3
}
