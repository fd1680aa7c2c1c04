package reader

import (
	"fmt"
	"time"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/light"
	"github.com/aezaqiel/Silmaril/scene/material"
	"github.com/aezaqiel/Silmaril/scene/texture"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex data for all triangles of an instance that share a material.
type meshBuilder struct {
	material int

	positions []types.Vec3
	normals   []types.Vec3
	uvs       []types.Vec2
	hasUVs    bool
}

func (b *meshBuilder) append(inst *meshInstance, normalMat mgl32.Mat4, prim *primitive) {
	for i := 0; i < 3; i++ {
		b.positions = append(b.positions, inst.point(prim.vertices[i]))
		n := types.Vec3(mgl32.TransformNormal(mgl32.Vec3(prim.normals[i]), normalMat))
		b.normals = append(b.normals, n.Normalize())
	}

	uvs := prim.uvs
	if !prim.hasUVs {
		uvs = [3]types.Vec2{{0, 0}, {1, 0}, {1, 1}}
	} else {
		b.hasUVs = true
	}
	b.uvs = append(b.uvs, uvs[:]...)
}

func (b *meshBuilder) build() (*scene.TriangleMesh, error) {
	indices := make([]uint32, len(b.positions))
	for i := range indices {
		indices[i] = uint32(i)
	}

	var uvs []types.Vec2
	if b.hasUVs {
		uvs = b.uvs
	}
	return scene.NewTriangleMesh(b.positions, b.normals, uvs, indices)
}

// Convert the parsed scene into renderable primitives and build the BVH.
func (r *wavefrontSceneReader) buildScene() (*scene.Scene, error) {
	start := time.Now()
	sc := scene.New()

	cam := scene.NewPerspectiveCamera(r.parsed.camera.fov, r.frameW, r.frameH)
	cam.SetView(r.parsed.camera.eye, r.parsed.camera.look, r.parsed.camera.up)
	sc.SetCamera(cam)

	textures := make(map[string]scene.Texture)
	materials := make([]scene.Material, len(r.parsed.materials))
	pruned := 0
	for index, wfMat := range r.parsed.materials {
		if !wfMat.used {
			r.logger.Infof("skipping unused material %q", wfMat.name)
			pruned++
			continue
		}

		mat := r.createMaterial(wfMat, textures)
		if mat == nil {
			continue
		}
		if err := sc.AddMaterial(mat); err != nil {
			return nil, err
		}
		materials[index] = mat
	}
	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}

	for _, inst := range r.parsed.meshInstances {
		m := r.parsed.meshes[inst.mesh]
		normalMat := inst.transform.Inv().Transpose()

		// Keep groups in first-use order so the output is deterministic
		groups := make([]*meshBuilder, 0)
		groupIndex := make(map[int]*meshBuilder)
		for _, prim := range m.primitives {
			group, exists := groupIndex[prim.material]
			if !exists {
				group = &meshBuilder{material: prim.material}
				groupIndex[prim.material] = group
				groups = append(groups, group)
			}
			group.append(inst, normalMat, prim)
		}

		for _, group := range groups {
			triMesh, err := group.build()
			if err != nil {
				return nil, fmt.Errorf("reader: mesh %q: %w", m.name, err)
			}

			wfMat := r.parsed.materials[group.material]
			for _, tri := range triMesh.Triangles() {
				var emitter scene.Light
				if wfMat.isEmissive() {
					emitter = light.NewDiffuseArea(tri, wfMat.emission(), false)
				}
				if err = sc.AddPrimitive(scene.NewGeometricPrimitive(tri, materials[group.material], emitter)); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, pl := range r.parsed.pointLights {
		if err := sc.AddLight(light.NewPoint(pl.position, pl.intensity)); err != nil {
			return nil, err
		}
	}

	if err := sc.Build(); err != nil {
		return nil, err
	}

	r.logger.Noticef(
		"built scene in %d ms: %d primitives, %d materials, %d lights",
		time.Since(start).Nanoseconds()/1e6, len(sc.Primitives), len(sc.Materials), len(sc.Lights),
	)
	return sc, nil
}

// Create the material for a wavefront material definition. Emitters without
// a diffuse color get no material.
func (r *wavefrontSceneReader) createMaterial(wfMat *wavefrontMaterial, textures map[string]scene.Texture) scene.Material {
	switch {
	case wfMat.isPBR():
		return material.NewPBR(
			r.texture(wfMat, wfMat.kdTex, texture.NewSolid(wfMat.kd), false, textures),
			r.texture(wfMat, wfMat.pmTex, texture.NewScalar(wfMat.metallic()), true, textures),
			r.texture(wfMat, wfMat.prTex, texture.NewScalar(wfMat.roughness()), true, textures),
		)
	case wfMat.ks.MaxComponent() > 0:
		return material.NewMirrorColor(wfMat.ks)
	case wfMat.isEmissive() && wfMat.kd.IsZero() && wfMat.kdTex == "":
		return nil
	}
	return material.NewMatte(r.texture(wfMat, wfMat.kdTex, texture.NewSolid(wfMat.kd), false, textures))
}

// Load a texture referenced by a material. Missing files are replaced by
// fallback.
func (r *wavefrontSceneReader) texture(wfMat *wavefrontMaterial, name string, fallback scene.Texture, linear bool, cache map[string]scene.Texture) scene.Texture {
	if name == "" {
		return fallback
	}

	res, err := NewResource(name, wfMat.relTo)
	if err != nil {
		r.logger.Warningf("material %q: ignoring missing texture %s: %v", wfMat.name, name, err)
		return fallback
	}
	defer res.Close()

	key := fmt.Sprintf("%s:%t", res.Path(), linear)
	if tex, exists := cache[key]; exists {
		return tex
	}

	tex, err := loadTexture(res, linear)
	if err != nil {
		r.logger.Warningf("material %q: %v", wfMat.name, err)
		// Make broken color maps stand out
		if !linear {
			return texture.Missing()
		}
		return fallback
	}
	r.logger.Infof("loaded %dx%d %s texture %s", tex.Width, tex.Height, tex.Format, res.Path())
	cache[key] = tex
	return tex
}
