package scene

import (
	"fmt"

	"github.com/aezaqiel/Silmaril/types"
	"github.com/go-gl/mathgl/mgl32"
)

// A Camera maps film positions (in pixel units) to primary rays.
type Camera interface {
	GenerateRay(pFilm types.Vec2) types.Ray
}

// Stores the ray directions at the four corners of the camera frustrum. Per
// pixel rays are generated by bilinear interpolation of the corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera with a vertical field of view.
type PerspectiveCamera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	ViewMat  mgl32.Mat4
	ProjMat  mgl32.Mat4
	Frustrum Frustrum

	filmW float32
	filmH float32
}

// Create a camera for a film of the given size.
func NewPerspectiveCamera(fov float32, filmW, filmH uint32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		ViewMat:  mgl32.Ident4(),
		ProjMat:  mgl32.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
	c.SetupProjection(filmW, filmH)
	return c
}

// Setup camera projection matrix.
func (c *PerspectiveCamera) SetupProjection(filmW, filmH uint32) {
	c.filmW = float32(filmW)
	c.filmH = float32(filmH)
	c.ProjMat = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.filmW/c.filmH, 1, 1000)
	c.Update()
}

// Position the camera and recalculate its matrices.
func (c *PerspectiveCamera) SetView(position, lookAt, up types.Vec3) {
	c.Position = position
	c.LookAt = lookAt
	c.Up = up
	c.Update()
}

// Rotate the view direction by the given yaw and pitch deltas (radians).
func (c *PerspectiveCamera) Rotate(yaw, pitch float32) {
	dir := mgl32.Vec3(c.LookAt.Sub(c.Position).Normalize())
	up := mgl32.Vec3(c.Up)
	pitchQuat := mgl32.QuatRotate(pitch, dir.Cross(up).Normalize())
	yawQuat := mgl32.QuatRotate(yaw, up)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()
	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(types.Vec3(dir))
	c.Update()
}

// Update camera matrices and frustrum corners.
func (c *PerspectiveCamera) Update() {
	c.ViewMat = mgl32.LookAtV(mgl32.Vec3(c.Position), mgl32.Vec3(c.LookAt), mgl32.Vec3(c.Up))
	c.updateFrustrum()
}

func (c *PerspectiveCamera) InvViewProjMat() mgl32.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat).Inv()
}

// Generate a ray vector for each corner of the camera frustrum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *PerspectiveCamera) updateFrustrum() {
	invProjViewMat := c.InvViewProjMat()
	corners := [4]mgl32.Vec4{
		{-1, 1, -1, 1},
		{1, 1, -1, 1},
		{-1, -1, -1, 1},
		{1, -1, -1, 1},
	}

	for i, clip := range corners {
		v := invProjViewMat.Mul4x1(clip)
		c.Frustrum[i] = types.Vec3(v.Vec3().Mul(1.0 / v[3])).Sub(c.Position)
	}
}

// Generate a primary ray through the film position pFilm. The film origin is
// the top-left corner and pixel (x, y) spans [x, x+1) x [y, y+1).
func (c *PerspectiveCamera) GenerateRay(pFilm types.Vec2) types.Ray {
	u := pFilm[0] / c.filmW
	v := pFilm[1] / c.filmH

	top := c.Frustrum[0].Lerp(c.Frustrum[1], u)
	bottom := c.Frustrum[2].Lerp(c.Frustrum[3], u)
	dir := top.Lerp(bottom, v).Normalize()

	return types.NewRay(c.Position, dir)
}
