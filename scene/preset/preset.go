// Package preset provides built-in scenes that can be rendered without any
// scene files.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/light"
	"github.com/aezaqiel/Silmaril/scene/material"
	"github.com/aezaqiel/Silmaril/types"
)

var ErrUnknownPreset = errors.New("preset: unknown scene")

// A Preset builds a named scene for a given frame size.
type Preset struct {
	Name        string
	Description string

	build func(frameW, frameH uint32) (*scene.Scene, error)
}

var presets = map[string]Preset{
	"sphere": {
		Name:        "sphere",
		Description: "diffuse sphere lit by a point light under the sky",
		build:       buildSphere,
	},
	"cornell": {
		Name:        "cornell",
		Description: "cornell box with an area light, a mirror and a glossy sphere",
		build:       buildCornell,
	},
	"spheregrid": {
		Name:        "spheregrid",
		Description: "grid of PBR spheres sweeping roughness and metalness",
		build:       buildSphereGrid,
	},
}

// Get the list of presets sorted by name.
func List() []Preset {
	list := make([]Preset, 0, len(presets))
	for _, p := range presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Build the preset with the given name. The camera projection is set up for
// a frameW x frameH film.
func Build(name string, frameW, frameH uint32) (*scene.Scene, error) {
	p, exists := presets[name]
	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return p.build(frameW, frameH)
}

// Collects scene elements and stops at the first error.
type builder struct {
	sc  *scene.Scene
	err error
}

func newBuilder(cam scene.Camera) *builder {
	sc := scene.New()
	sc.SetCamera(cam)
	return &builder{sc: sc}
}

func (b *builder) material(mat scene.Material) scene.Material {
	if b.err == nil {
		b.err = b.sc.AddMaterial(mat)
	}
	return mat
}

func (b *builder) sphere(center types.Vec3, radius float32, mat scene.Material) {
	if b.err == nil {
		b.err = b.sc.AddPrimitive(scene.NewGeometricPrimitive(scene.NewSphere(center, radius), mat, nil))
	}
}

// Add a quad with corners in counter-clockwise order when seen from the side
// its normal points to. Emitters get one area light per triangle.
func (b *builder) quad(corners [4]types.Vec3, mat scene.Material, lemit types.Vec3) {
	if b.err != nil {
		return
	}

	var mesh *scene.TriangleMesh
	mesh, b.err = scene.NewTriangleMesh(corners[:], nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	if b.err != nil {
		return
	}
	for _, tri := range mesh.Triangles() {
		if b.err != nil {
			return
		}
		var emitter scene.Light
		if lemit.MaxComponent() > 0 {
			emitter = light.NewDiffuseArea(tri, lemit, false)
		}
		b.err = b.sc.AddPrimitive(scene.NewGeometricPrimitive(tri, mat, emitter))
	}
}

func (b *builder) light(l scene.Light) {
	if b.err == nil {
		b.err = b.sc.AddLight(l)
	}
}

func (b *builder) finish() (*scene.Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.sc.Build(); err != nil {
		return nil, err
	}
	return b.sc, nil
}

func buildSphere(frameW, frameH uint32) (*scene.Scene, error) {
	cam := scene.NewPerspectiveCamera(45, frameW, frameH)
	cam.SetView(types.Vec3{0, 0, 3}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0})

	b := newBuilder(cam)
	b.sphere(types.Vec3{0, 0, 0}, 1, b.material(material.NewMatteColor(types.Vec3{0.8, 0.8, 0.8})))
	b.light(light.NewPoint(types.Vec3{10, 10, 10}, types.Splat(500)))
	return b.finish()
}

func buildCornell(frameW, frameH uint32) (*scene.Scene, error) {
	cam := scene.NewPerspectiveCamera(40, frameW, frameH)
	cam.SetView(types.Vec3{0, 0, 3.8}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0})

	b := newBuilder(cam)
	white := b.material(material.NewMatteColor(types.Vec3{0.73, 0.73, 0.73}))
	red := b.material(material.NewMatteColor(types.Vec3{0.65, 0.05, 0.05}))
	green := b.material(material.NewMatteColor(types.Vec3{0.12, 0.45, 0.15}))
	mirror := b.material(material.NewMirrorColor(types.Vec3{0.9, 0.9, 0.9}))
	gold := b.material(material.NewPBRColor(types.Vec3{1, 0.78, 0.34}, 1, 0.3))

	var none types.Vec3
	b.quad([4]types.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, -1, -1}, {-1, -1, -1}}, white, none) // floor
	b.quad([4]types.Vec3{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {-1, 1, 1}}, white, none)     // ceiling
	b.quad([4]types.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}}, white, none) // back
	b.quad([4]types.Vec3{{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1}, {-1, 1, 1}}, red, none)   // left
	b.quad([4]types.Vec3{{1, -1, -1}, {1, -1, 1}, {1, 1, 1}, {1, 1, -1}}, green, none)     // right

	// Faces down, just below the ceiling
	b.quad([4]types.Vec3{{-0.25, 0.99, -0.25}, {0.25, 0.99, -0.25}, {0.25, 0.99, 0.25}, {-0.25, 0.99, 0.25}}, nil, types.Splat(17))

	b.sphere(types.Vec3{-0.45, -0.65, -0.35}, 0.35, mirror)
	b.sphere(types.Vec3{0.45, -0.65, 0.25}, 0.35, gold)
	return b.finish()
}

func buildSphereGrid(frameW, frameH uint32) (*scene.Scene, error) {
	const gridSize = 5

	cam := scene.NewPerspectiveCamera(35, frameW, frameH)
	cam.SetView(types.Vec3{0, 6, 11}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0})

	b := newBuilder(cam)
	ground := b.material(material.NewMatteColor(types.Vec3{0.5, 0.5, 0.5}))
	b.quad([4]types.Vec3{{-20, -0.5, 20}, {20, -0.5, 20}, {20, -0.5, -20}, {-20, -0.5, -20}}, ground, types.Vec3{})

	// Roughness increases along x and metalness along z
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			metallic := float32(row) / (gridSize - 1)
			roughness := max(float32(col)/(gridSize-1), 0.05)
			mat := b.material(material.NewPBRColor(types.Vec3{0.9, 0.2, 0.2}, metallic, roughness))
			b.sphere(types.Vec3{float32(col-gridSize/2) * 1.2, 0, float32(row-gridSize/2) * 1.2}, 0.5, mat)
		}
	}

	sun := scene.NewSphere(types.Vec3{-6, 10, 6}, 1.5)
	if b.err == nil {
		b.err = b.sc.AddPrimitive(scene.NewGeometricPrimitive(sun, nil, light.NewDiffuseArea(sun, types.Splat(30), false)))
	}
	b.light(light.NewPoint(types.Vec3{6, 8, 4}, types.Splat(150)))
	return b.finish()
}
