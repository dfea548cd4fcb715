// Package scene holds the ordered set of drawables rendered each frame.
package scene

import (
	"errors"
	"fmt"

	"glscene/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrNotFound is returned for ids that are not in the registry
var ErrNotFound = errors.New("drawable not found")

// DefaultColor is the material colour used when a drawable declares none
var DefaultColor = mgl32.Vec3{1.0, 0.5, 0.31}

// Material is the per-drawable surface description
type Material struct {
	Color mgl32.Vec3
}

// Transform is a translation, rotation and scale applied in T*R*S order
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns the transform that leaves geometry unchanged
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// At returns an unrotated, unscaled transform at p
func At(p mgl32.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Matrix composes the model matrix. A zero quaternion counts as identity and
// a zero scale as unit scale.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := t.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Drawable is one mesh instance with its own transform and material
type Drawable struct {
	ID        uuid.UUID
	Name      string
	Mesh      *graphics.Mesh
	Transform Transform
	Model     mgl32.Mat4
	Material  Material
}

// Registry keeps drawables in insertion order, which is also draw order.
// It is not safe for concurrent use; the render loop owns it.
type Registry struct {
	items []*Drawable
	index map[uuid.UUID]int
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[uuid.UUID]int)}
}

// Add appends a drawable. A zero material colour becomes DefaultColor.
func (r *Registry) Add(name string, mesh *graphics.Mesh, t Transform, mat Material) *Drawable {
	if mat.Color == (mgl32.Vec3{}) {
		mat.Color = DefaultColor
	}
	d := &Drawable{
		ID:        uuid.New(),
		Name:      name,
		Mesh:      mesh,
		Transform: t,
		Model:     t.Matrix(),
		Material:  mat,
	}
	r.index[d.ID] = len(r.items)
	r.items = append(r.items, d)
	return d
}

// Get returns the drawable with the given id
func (r *Registry) Get(id uuid.UUID) (*Drawable, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// Len returns the number of drawables
func (r *Registry) Len() int {
	return len(r.items)
}

// Each visits drawables in draw order
func (r *Registry) Each(fn func(d *Drawable)) {
	for _, d := range r.items {
		fn(d)
	}
}

// SetTransform replaces a drawable's transform and recomputes its model matrix
func (r *Registry) SetTransform(id uuid.UUID, t Transform) error {
	d, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.Transform = t
	d.Model = t.Matrix()
	return nil
}

// Remove drops a drawable without deleting its mesh, which may be shared
func (r *Registry) Remove(id uuid.UUID) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].ID] = j
	}
	return nil
}

// Dispose deletes every distinct mesh once and empties the registry
func (r *Registry) Dispose() {
	seen := make(map[*graphics.Mesh]bool)
	for _, d := range r.items {
		if d.Mesh == nil || seen[d.Mesh] {
			continue
		}
		seen[d.Mesh] = true
		d.Mesh.Delete()
	}
	r.items = nil
	r.index = make(map[uuid.UUID]int)
}
