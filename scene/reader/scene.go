package reader

import (
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// The primitive struct represents a parsed triangle.
type primitive struct {
	vertices [3]types.Vec3
	normals  [3]types.Vec3
	uvs      [3]types.Vec2

	// Set if the face specified texture coordinates.
	hasUVs bool

	material int
}

func (p *primitive) bbox() scene.AABB {
	return scene.NewAABB(p.vertices[0], p.vertices[1]).ExtendPoint(p.vertices[2])
}

func (p *primitive) center() types.Vec3 {
	return p.vertices[0].Add(p.vertices[1]).Add(p.vertices[2]).Mul(1.0 / 3.0)
}

// A mesh is comprised of a list of primitives.
type mesh struct {
	name       string
	primitives []*primitive
}

func newMesh(name string) *mesh {
	return &mesh{
		name:       name,
		primitives: make([]*primitive, 0),
	}
}

func (m *mesh) bbox() scene.AABB {
	bbox := scene.EmptyAABB()
	for _, prim := range m.primitives {
		bbox = bbox.Merge(prim.bbox())
	}
	return bbox
}

// A mesh instance reuses the geometry of a mesh and combines it with a
// transformation matrix.
type meshInstance struct {
	mesh      int
	transform mgl32.Mat4
}

// Transform a point by the instance matrix.
func (inst *meshInstance) point(p types.Vec3) types.Vec3 {
	return types.Vec3(mgl32.TransformCoordinate(mgl32.Vec3(p), inst.transform))
}

// Get the world space bounds of the instanced mesh.
func (inst *meshInstance) bbox(m *mesh) scene.AABB {
	local := m.bbox()
	lo, hi := local.Min(), local.Max()

	bbox := scene.EmptyAABB()
	for corner := 0; corner < 8; corner++ {
		p := lo
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<axis) != 0 {
				p[axis] = hi[axis]
			}
		}
		bbox = bbox.ExtendPoint(inst.point(p))
	}
	return bbox
}

// Wavefront material properties. Scalars that were not specified are
// negative.
type wavefrontMaterial struct {
	name string

	// Diffuse/Albedo color.
	kd types.Vec3

	// Specular color.
	ks types.Vec3

	// Emissive color and scaler.
	ke       types.Vec3
	keScaler float32

	// Specular exponent, roughness and metalness.
	ns float32
	pr float32
	pm float32

	// Textures for modulating above parameters.
	kdTex string
	prTex string
	pmTex string

	// Textures are resolved relative to the library that defined the
	// material.
	relTo *Resource

	// True if this material is used by at least one primitive.
	used bool
}

func newWavefrontMaterial(name string, relTo *Resource) *wavefrontMaterial {
	return &wavefrontMaterial{
		name:     name,
		keScaler: 1,
		ns:       -1,
		pr:       -1,
		pm:       -1,
		relTo:    relTo,
	}
}

// Get the radiance emitted by surfaces using this material.
func (wf *wavefrontMaterial) emission() types.Vec3 {
	return wf.ke.Mul(wf.keScaler)
}

func (wf *wavefrontMaterial) isEmissive() bool {
	return wf.emission().MaxComponent() > 0
}

// Materials that specify any physically based parameter are rendered with
// the GGX model.
func (wf *wavefrontMaterial) isPBR() bool {
	return wf.pr >= 0 || wf.pm >= 0 || wf.ns > 0 || wf.prTex != "" || wf.pmTex != ""
}

// Get the GGX roughness; specular exponents are converted when no explicit
// roughness was given.
func (wf *wavefrontMaterial) roughness() float32 {
	switch {
	case wf.pr >= 0:
		return wf.pr
	case wf.ns > 0:
		return math32.Pow(2/(wf.ns+2), 0.25)
	}
	return 1
}

func (wf *wavefrontMaterial) metallic() float32 {
	return max(wf.pm, 0)
}

// Camera settings
type camera struct {
	fov  float32
	eye  types.Vec3
	look types.Vec3
	up   types.Vec3
}

type pointLight struct {
	position  types.Vec3
	intensity types.Vec3
}

// The parsed scene contains all the scene elements that were loaded by a
// reader before they are converted into renderable primitives.
type parsedScene struct {
	meshes        []*mesh
	meshInstances []*meshInstance
	materials     []*wavefrontMaterial
	pointLights   []pointLight
	camera        camera
}

func newParsedScene() *parsedScene {
	return &parsedScene{
		meshes:        make([]*mesh, 0),
		meshInstances: make([]*meshInstance, 0),
		materials:     make([]*wavefrontMaterial, 0),
		camera: camera{
			fov:  45.0,
			eye:  types.Vec3{0, 0, 0},
			look: types.Vec3{0, 0, -1},
			up:   types.Vec3{0, 1, 0},
		},
	}
}
