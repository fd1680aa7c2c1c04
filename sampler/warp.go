package sampler

import (
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Map a uniform sample to a point on the unit disk, preserving stratification.
func ConcentricSampleDisk(u types.Vec2) types.Vec2 {
	ox := 2*u[0] - 1
	oy := 2*u[1] - 1
	if ox == 0 && oy == 0 {
		return types.Vec2{}
	}

	var r, theta float32
	if math32.Abs(ox) > math32.Abs(oy) {
		r = ox
		theta = (math32.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = math32.Pi/2 - (math32.Pi/4)*(ox/oy)
	}
	return types.Vec2{r * math32.Cos(theta), r * math32.Sin(theta)}
}

// Sample a direction in the +z hemisphere with density cos(theta)/pi.
func CosineSampleHemisphere(u types.Vec2) types.Vec3 {
	d := ConcentricSampleDisk(u)
	z := math32.Sqrt(math32.Max(0, 1-d[0]*d[0]-d[1]*d[1]))
	return types.Vec3{d[0], d[1], z}
}

func CosineHemispherePdf(cosTheta float32) float32 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math32.Pi
}

// Uniformly sample a direction on the unit sphere.
func UniformSampleSphere(u types.Vec2) types.Vec3 {
	z := 1 - 2*u[0]
	r := math32.Sqrt(math32.Max(0, 1-z*z))
	phi := 2 * math32.Pi * u[1]
	return types.Vec3{r * math32.Cos(phi), r * math32.Sin(phi), z}
}

func UniformSpherePdf() float32 {
	return 1 / (4 * math32.Pi)
}

// Uniformly sample barycentric coordinates (b0, b1) of a triangle; the third
// coordinate is 1-b0-b1.
func UniformSampleTriangle(u types.Vec2) types.Vec2 {
	su0 := math32.Sqrt(u[0])
	return types.Vec2{1 - su0, u[1] * su0}
}
