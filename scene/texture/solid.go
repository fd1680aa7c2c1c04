package texture

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
)

// A texture with the same value everywhere.
type SolidTexture struct {
	Value types.Vec3
}

func NewSolid(value types.Vec3) *SolidTexture {
	return &SolidTexture{Value: value}
}

// Create a solid texture whose channels all equal v.
func NewScalar(v float32) *SolidTexture {
	return &SolidTexture{Value: types.Splat(v)}
}

func (t *SolidTexture) Evaluate(*scene.SurfaceInteraction) types.Vec3 {
	return t.Value
}

// Create the placeholder used in place of textures that failed to load.
func Missing() *SolidTexture {
	return &SolidTexture{Value: MissingColor}
}
