package texture

import "fmt"

// The pixel layout of a decoded image.
type Format uint32

const (
	Luminance8 Format = iota
	Luminance16
	Rgb8
	Rgba8
	Rgba16
)

func (f Format) String() string {
	switch f {
	case Luminance8:
		return "Luminance8"
	case Luminance16:
		return "Luminance16"
	case Rgb8:
		return "Rgb8"
	case Rgba8:
		return "Rgba8"
	case Rgba16:
		return "Rgba16"
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

// Returns true if the format stores a single channel.
func (f Format) IsLuminance() bool {
	return f == Luminance8 || f == Luminance16
}
