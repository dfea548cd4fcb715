// Package geometry builds static vertex data for primitive shapes.
//
// Every builder returns a flat triangle list in the interleaved layout
// position(3) normal(3) uv(2), counter-clockwise front faces.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the number of floats in one interleaved vertex
const FloatsPerVertex = 8

// Vertex is one interleaved vertex
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Flatten writes vertices into a new interleaved float slice
func Flatten(vs []Vertex) []float32 {
	out := make([]float32, 0, len(vs)*FloatsPerVertex)
	for _, v := range vs {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// quad appends two triangles for the face a b c d (counter-clockwise)
func quad(dst []Vertex, a, b, c, d, n mgl32.Vec3) []Vertex {
	return append(dst,
		Vertex{a, n, mgl32.Vec2{0, 0}},
		Vertex{b, n, mgl32.Vec2{1, 0}},
		Vertex{c, n, mgl32.Vec2{1, 1}},
		Vertex{c, n, mgl32.Vec2{1, 1}},
		Vertex{d, n, mgl32.Vec2{0, 1}},
		Vertex{a, n, mgl32.Vec2{0, 0}},
	)
}

// Cube returns an axis-aligned cube with edge length size centred at the origin
func Cube(size float32) []float32 {
	h := size / 2
	p := func(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x * h, y * h, z * h} }

	vs := make([]Vertex, 0, 36)
	vs = quad(vs, p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1), mgl32.Vec3{0, 0, 1})
	vs = quad(vs, p(1, -1, 1), p(1, -1, -1), p(1, 1, -1), p(1, 1, 1), mgl32.Vec3{1, 0, 0})
	vs = quad(vs, p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1), p(-1, 1, -1), mgl32.Vec3{0, 1, 0})
	vs = quad(vs, p(1, -1, -1), p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1), mgl32.Vec3{0, 0, -1})
	vs = quad(vs, p(-1, -1, -1), p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1), mgl32.Vec3{-1, 0, 0})
	vs = quad(vs, p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1), p(-1, -1, 1), mgl32.Vec3{0, -1, 0})
	return Flatten(vs)
}

// Cone returns a cone standing on the XZ plane with its apex at +height.
// segments below 3 are raised to 3.
func Cone(radius, height float32, segments int) []float32 {
	if segments < 3 {
		segments = 3
	}
	apex := mgl32.Vec3{0, height, 0}
	centre := mgl32.Vec3{0, 0, 0}
	down := mgl32.Vec3{0, -1, 0}
	slope := radius / height

	rim := func(i int) (mgl32.Vec3, float32) {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return mgl32.Vec3{radius * float32(math.Cos(a)), 0, -radius * float32(math.Sin(a))}, float32(a)
	}
	sideNormal := func(a float32) mgl32.Vec3 {
		return mgl32.Vec3{float32(math.Cos(float64(a))), slope, -float32(math.Sin(float64(a)))}.Normalize()
	}

	vs := make([]Vertex, 0, segments*6)
	for i := 0; i < segments; i++ {
		p0, a0 := rim(i)
		p1, a1 := rim(i + 1)
		u0 := float32(i) / float32(segments)
		u1 := float32(i+1) / float32(segments)
		mid := (a0 + a1) / 2

		vs = append(vs,
			Vertex{p0, sideNormal(a0), mgl32.Vec2{u0, 0}},
			Vertex{p1, sideNormal(a1), mgl32.Vec2{u1, 0}},
			Vertex{apex, sideNormal(mid), mgl32.Vec2{(u0 + u1) / 2, 1}},
		)
		vs = append(vs,
			Vertex{centre, down, mgl32.Vec2{0.5, 0.5}},
			Vertex{p1, down, mgl32.Vec2{0.5 + p1[0]/(2*radius), 0.5 + p1[2]/(2*radius)}},
			Vertex{p0, down, mgl32.Vec2{0.5 + p0[0]/(2*radius), 0.5 + p0[2]/(2*radius)}},
		)
	}
	return Flatten(vs)
}

// Plane returns a square in the XZ plane facing +Y
func Plane(size float32) []float32 {
	h := size / 2
	vs := quad(nil,
		mgl32.Vec3{-h, 0, h}, mgl32.Vec3{h, 0, h}, mgl32.Vec3{h, 0, -h}, mgl32.Vec3{-h, 0, -h},
		mgl32.Vec3{0, 1, 0},
	)
	return Flatten(vs)
}

// Quad returns a full-screen quad in normalized device coordinates
func Quad() []float32 {
	vs := quad(nil,
		mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{-1, 1, 0},
		mgl32.Vec3{0, 0, 1},
	)
	return Flatten(vs)
}
