package light

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
)

// Points seen at grazing angles below this cosine are not sampled.
const minCosTheta float32 = 1e-4

// DiffuseAreaLight emits constant radiance from the surface of a shape. It
// only emits on the side its normal points to unless TwoSided is set.
type DiffuseAreaLight struct {
	Lemit    types.Vec3
	TwoSided bool

	shape scene.Shape
}

func NewDiffuseArea(shape scene.Shape, lemit types.Vec3, twoSided bool) *DiffuseAreaLight {
	return &DiffuseAreaLight{
		Lemit:    lemit,
		TwoSided: twoSided,
		shape:    shape,
	}
}

// Get the emitting shape.
func (l *DiffuseAreaLight) Shape() scene.Shape {
	return l.shape
}

func (l *DiffuseAreaLight) SampleLi(ref scene.Interaction, u types.Vec2) (scene.LightSample, bool) {
	pShape, areaPdf := l.shape.Sample(u)
	if areaPdf <= 0 {
		return scene.LightSample{}, false
	}

	d := pShape.P.Sub(ref.P)
	dist2 := d.LenSq()
	if dist2 == 0 {
		return scene.LightSample{}, false
	}
	dist := d.Len()
	wi := d.Mul(1 / dist)

	cosTheta := pShape.N.AbsDot(wi)
	if cosTheta < minCosTheta {
		return scene.LightSample{}, false
	}

	return scene.LightSample{
		Wi:   wi,
		L:    l.L(pShape, wi.Neg()),
		Pdf:  areaPdf * dist2 / cosTheta,
		P:    pShape.P,
		Dist: dist,
	}, true
}

func (l *DiffuseAreaLight) PdfLi(ref scene.Interaction, lit scene.Interaction) float32 {
	d := lit.P.Sub(ref.P)
	dist2 := d.LenSq()
	area := l.shape.Area()
	if dist2 == 0 || area <= 0 {
		return 0
	}

	cosTheta := lit.N.AbsDot(d.Normalize())
	if cosTheta < minCosTheta {
		return 0
	}
	return dist2 / (area * cosTheta)
}

func (l *DiffuseAreaLight) L(it scene.Interaction, w types.Vec3) types.Vec3 {
	if l.TwoSided || it.N.Dot(w) > 0 {
		return l.Lemit
	}
	return types.Vec3{}
}

func (l *DiffuseAreaLight) IsDelta() bool {
	return false
}
