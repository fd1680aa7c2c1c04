package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aezaqiel/Silmaril/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*Resource) (*scene.Scene, error)
}

// Read a scene from a file or URL and build it. The camera projection is set
// up for a frame of frameW x frameH pixels.
func ReadScene(filename string, frameW, frameH uint32) (*scene.Scene, error) {
	var reader Reader
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		reader = newWavefrontReader(frameW, frameH)
	default:
		return nil, fmt.Errorf("reader: unsupported scene format %q", filepath.Ext(filename))
	}

	res, err := NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
