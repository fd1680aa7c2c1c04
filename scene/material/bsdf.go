package material

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
)

// Build the shading frame for si. The shading normal is flipped towards the
// outgoing direction so that every surface scatters on both sides.
func shadingFrame(si *scene.SurfaceInteraction) types.Frame {
	return types.NewFrame(si.Shading.N.FaceForward(si.Wo))
}

// Mirror w about n.
func reflect(w, n types.Vec3) types.Vec3 {
	return n.Mul(2 * w.Dot(n)).Sub(w)
}

// Clamp a texture value to [0, 1].
func saturate(v types.Vec3) types.Vec3 {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		} else if v[i] > 1 {
			v[i] = 1
		}
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
