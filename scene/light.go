package scene

import "github.com/aezaqiel/Silmaril/types"

// LightSample describes incident illumination at a reference point.
type LightSample struct {
	// Unit direction from the reference point towards the light.
	Wi types.Vec3

	// Incident radiance.
	L types.Vec3

	// Solid angle pdf; 1 for delta lights.
	Pdf float32

	// Sampled point on the light.
	P types.Vec3

	// Distance between the reference point and P.
	Dist float32
}

// A Light is a source of illumination.
type Light interface {
	// Sample incident illumination at ref.
	SampleLi(ref Interaction, u types.Vec2) (LightSample, bool)

	// Solid angle pdf, measured at ref, of sampling the point lit on the
	// light. Always 0 for delta lights.
	PdfLi(ref Interaction, lit Interaction) float32

	// Radiance emitted from a point on the light along w.
	L(it Interaction, w types.Vec3) types.Vec3

	// True for lights described by a delta distribution (point lights).
	IsDelta() bool
}
