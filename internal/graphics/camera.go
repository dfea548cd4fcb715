package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       45.0,
		NearPlane: 0.1,
		FarPlane:  100.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio; degenerate sizes keep the previous one
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		if c.AspectRatio == 0 {
			c.AspectRatio = 1
		}
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Orbit returns the point at angle t on the horizontal circle of the given radius
func Orbit(t, radius float64) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(t) * radius),
		0,
		float32(math.Sin(t) * radius),
	}
}

// OrbitView returns the eye position on the orbit raised by height, and the
// view matrix looking from it at target.
func OrbitView(t, radius float64, height float32, target mgl32.Vec3) (mgl32.Vec3, mgl32.Mat4) {
	eye := Orbit(t, radius).Add(mgl32.Vec3{0, height, 0})
	return eye, mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}
