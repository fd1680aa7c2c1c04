package scene

import (
	"fmt"

	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

// Determinants smaller than this are treated as rays parallel to the
// triangle plane.
const triangleDetEpsilon float32 = 1e-10

// Default uv coordinates for meshes without texture coordinates.
var defaultTriangleUV = [3]types.Vec2{{0, 0}, {1, 0}, {1, 1}}

// A TriangleMesh stores shared vertex data. Triangles reference it by index.
type TriangleMesh struct {
	Positions []types.Vec3

	// Optional per-vertex attributes; either empty or len(Positions).
	Normals []types.Vec3
	UVs     []types.Vec2

	// Three vertex indices per triangle.
	Indices []uint32
}

// Create a new mesh and validate its index and attribute lists.
func NewTriangleMesh(positions []types.Vec3, normals []types.Vec3, uvs []types.Vec2, indices []uint32) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("scene: triangle mesh index count %d is not a multiple of 3", len(indices))
	}
	if len(normals) != 0 && len(normals) != len(positions) {
		return nil, fmt.Errorf("scene: triangle mesh has %d normals for %d positions", len(normals), len(positions))
	}
	if len(uvs) != 0 && len(uvs) != len(positions) {
		return nil, fmt.Errorf("scene: triangle mesh has %d uvs for %d positions", len(uvs), len(positions))
	}
	for _, index := range indices {
		if int(index) >= len(positions) {
			return nil, fmt.Errorf("scene: triangle mesh index %d out of bounds", index)
		}
	}

	return &TriangleMesh{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
	}, nil
}

// Get the number of triangles in the mesh.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Create a shape for each triangle in the mesh.
func (m *TriangleMesh) Triangles() []*Triangle {
	tris := make([]*Triangle, m.TriangleCount())
	for i := range tris {
		tris[i] = &Triangle{mesh: m, index: i}
	}
	return tris
}

// A Triangle references three vertices of a TriangleMesh.
type Triangle struct {
	mesh  *TriangleMesh
	index int
}

func (t *Triangle) vertexIndices() (uint32, uint32, uint32) {
	base := 3 * t.index
	return t.mesh.Indices[base], t.mesh.Indices[base+1], t.mesh.Indices[base+2]
}

func (t *Triangle) vertices() (types.Vec3, types.Vec3, types.Vec3) {
	i0, i1, i2 := t.vertexIndices()
	return t.mesh.Positions[i0], t.mesh.Positions[i1], t.mesh.Positions[i2]
}

func (t *Triangle) Bound() AABB {
	p0, p1, p2 := t.vertices()
	return NewAABB(p0, p1).ExtendPoint(p2)
}

func (t *Triangle) Area() float32 {
	p0, p1, p2 := t.vertices()
	return 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Len()
}

// Moller-Trumbore intersection. Returns the distance and the barycentric
// coordinates of vertices 1 and 2.
func (t *Triangle) intersect(ray types.Ray, tMax float32) (float32, float32, float32, bool) {
	p0, p1, p2 := t.vertices()
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if math32.Abs(det) < triangleDetEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(p0)
	b1 := tvec.Dot(pvec) * invDet
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	b2 := ray.Dir.Dot(qvec) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	tHit := e2.Dot(qvec) * invDet
	if tHit <= MinHitDistance || tHit >= tMax {
		return 0, 0, 0, false
	}
	return tHit, b1, b2, true
}

func (t *Triangle) Intersect(ray types.Ray, tMax float32) (float32, bool) {
	tHit, _, _, ok := t.intersect(ray, tMax)
	return tHit, ok
}

func (t *Triangle) FillSurfaceInteraction(ray types.Ray, tHit float32, si *SurfaceInteraction) {
	// Recover barycentrics; tMax is nudged so the original hit is accepted
	_, b1, b2, ok := t.intersect(ray, math32.Nextafter(tHit, math32.Inf(1)))
	if !ok {
		b1, b2 = 1.0/3.0, 1.0/3.0
	}
	b0 := 1 - b1 - b2

	i0, i1, i2 := t.vertexIndices()
	p0, p1, p2 := t.vertices()
	p := p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	uv := defaultTriangleUV
	if len(t.mesh.UVs) != 0 {
		uv = [3]types.Vec2{t.mesh.UVs[i0], t.mesh.UVs[i1], t.mesh.UVs[i2]}
	}

	// Partial derivative of p with respect to u
	duv02, duv12 := uv[0].Sub(uv[2]), uv[1].Sub(uv[2])
	dp02, dp12 := p0.Sub(p2), p1.Sub(p2)
	var dpdu types.Vec3
	if det := duv02[0]*duv12[1] - duv02[1]*duv12[0]; math32.Abs(det) < 1e-8 {
		dpdu, _ = types.CoordinateSystem(n)
	} else {
		dpdu = dp02.Mul(duv12[1]).Sub(dp12.Mul(duv02[1])).Mul(1 / det)
	}

	ns := n
	if len(t.mesh.Normals) != 0 {
		interp := t.mesh.Normals[i0].Mul(b0).Add(t.mesh.Normals[i1].Mul(b1)).Add(t.mesh.Normals[i2].Mul(b2))
		if interp.LenSq() > 0 {
			ns = interp.Normalize()
			n = n.FaceForward(ns)
		}
	}

	pAbsSum := types.Vec3{
		math32.Abs(b0*p0[0]) + math32.Abs(b1*p1[0]) + math32.Abs(b2*p2[0]),
		math32.Abs(b0*p0[1]) + math32.Abs(b1*p1[1]) + math32.Abs(b2*p2[1]),
		math32.Abs(b0*p0[2]) + math32.Abs(b1*p1[2]) + math32.Abs(b2*p2[2]),
	}

	si.P = p
	si.PError = pAbsSum.Mul(7 * 0x1p-24)
	si.N = n
	si.Wo = ray.Dir.Neg().Normalize()
	si.UV = uv[0].Mul(b0).Add(uv[1].Mul(b1)).Add(uv[2].Mul(b2))
	si.Dpdu = dpdu
	si.Shading = Shading{N: ns, Dpdu: dpdu}
}

func (t *Triangle) Sample(u types.Vec2) (Interaction, float32) {
	b := sampler.UniformSampleTriangle(u)
	p0, p1, p2 := t.vertices()
	p := p0.Mul(b[0]).Add(p1.Mul(b[1])).Add(p2.Mul(1 - b[0] - b[1]))
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	if len(t.mesh.Normals) != 0 {
		i0, i1, i2 := t.vertexIndices()
		ns := t.mesh.Normals[i0].Mul(b[0]).Add(t.mesh.Normals[i1].Mul(b[1])).Add(t.mesh.Normals[i2].Mul(1 - b[0] - b[1]))
		n = n.FaceForward(ns)
	}

	return Interaction{P: p, N: n}, 1 / t.Area()
}
