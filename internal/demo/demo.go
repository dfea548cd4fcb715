// Package demo places the sample scene: a ground plane, three cones and four
// coloured boxes.
package demo

import (
	"log/slog"

	"glscene/internal/geometry"
	"glscene/internal/gpu"
	"glscene/internal/graphics"
	renderer "glscene/internal/graphics/renderer"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	GroundSize   = 20
	ConeSegments = 32
)

var (
	coneSpots = []mgl32.Vec3{
		{-4, 0, -3},
		{0, 0, -5},
		{4, 0, -3},
	}
	boxes = []struct {
		pos   mgl32.Vec3
		color mgl32.Vec3
	}{
		{mgl32.Vec3{-2, 1, 1}, mgl32.Vec3{0.9, 0.2, 0.2}},
		{mgl32.Vec3{2, 1, 1}, mgl32.Vec3{0.2, 0.8, 0.3}},
		{mgl32.Vec3{-2, 1, 4}, mgl32.Vec3{0.2, 0.4, 0.9}},
		{mgl32.Vec3{2, 1, 4}, mgl32.Vec3{0.95, 0.85, 0.2}},
	}
)

// Scene is the demo content added to a registry
type Scene struct {
	Ground uuid.UUID
	Cones  []uuid.UUID
	Boxes  []uuid.UUID
}

// Build uploads the shared meshes and adds the demo drawables to reg
func Build(dev gpu.Device, reg *scene.Registry, log *slog.Logger) (*Scene, error) {
	plane, err := graphics.Upload(dev, geometry.Plane(GroundSize), graphics.LayoutPosNormalUV, log)
	if err != nil {
		return nil, err
	}
	cone, err := graphics.Upload(dev, geometry.Cone(1, 2, ConeSegments), graphics.LayoutPosNormalUV, log)
	if err != nil {
		plane.Delete()
		return nil, err
	}
	cube, err := graphics.Upload(dev, geometry.Cube(1), graphics.LayoutPosNormalUV, log)
	if err != nil {
		plane.Delete()
		cone.Delete()
		return nil, err
	}

	s := &Scene{}
	s.Ground = reg.Add("ground", plane, scene.Identity(), scene.Material{Color: mgl32.Vec3{0.35, 0.35, 0.4}}).ID
	for _, p := range coneSpots {
		s.Cones = append(s.Cones, reg.Add("cone", cone, scene.At(p), scene.Material{}).ID)
	}
	for _, b := range boxes {
		s.Boxes = append(s.Boxes, reg.Add("box", cube, scene.At(b.pos), scene.Material{Color: b.color}).ID)
	}
	return s, nil
}

// Spin returns the rotation of a box at elapsed seconds t: t around X,
// then t/2 around Y.
func Spin(t float64) mgl32.Quat {
	ft := float32(t)
	return mgl32.QuatRotate(ft, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(ft/2, mgl32.Vec3{0, 1, 0}))
}

// Spinner rotates the boxes every frame
func (s *Scene) Spinner() renderer.UpdateFunc {
	return func(ctx renderer.RenderContext) {
		rot := Spin(ctx.Elapsed)
		for _, id := range s.Boxes {
			d, ok := ctx.Scene.Get(id)
			if !ok {
				continue
			}
			t := d.Transform
			t.Rotation = rot
			_ = ctx.Scene.SetTransform(id, t)
		}
	}
}
