package film

import (
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Display gamma applied after tone mapping.
const displayGamma float32 = 2.2

// ACES filmic curve fit by Krzysztof Narkowicz. Output channels are clamped
// to [0, 1].
func ACES(x types.Vec3) types.Vec3 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)

	var out types.Vec3
	for i, v := range x {
		mapped := (v * (a*v + b)) / (v*(c*v+d) + e)
		out[i] = math32.Max(0, math32.Min(1, mapped))
	}
	return out
}

// Map a linear HDR color to an 8 bit display value per channel.
func ToDisplay(x types.Vec3) [3]uint8 {
	mapped := ACES(x)

	var out [3]uint8
	for i, v := range mapped {
		// NaN fails every comparison and ends up as 0
		encoded := math32.Pow(v, 1/displayGamma) * 255
		switch {
		case encoded >= 255:
			out[i] = 255
		case encoded > 0:
			out[i] = uint8(encoded)
		}
	}
	return out
}
