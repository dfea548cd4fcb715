package graphics

import (
	"errors"
	"fmt"
	"math"

	"glscene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names recognised by Program.SetUniforms
const (
	UniformViewPos    = "uViewPos"
	UniformColor      = "uColor"
	UniformModel      = "mModel"
	UniformView       = "mView"
	UniformProjection = "mProjection"
	UniformModelView  = "mModelView"
	UniformTime       = "uTime"
	UniformTexture    = "uTexture"
	UniformMask       = "uMask"
	UniformLightPos   = "uLightPos"
	UniformLightColor = "uLightColor"
	UniformResolution = "uResolution"
)

// MaxTextureUnits bounds the texture unit indices accepted by UniformConfig
const MaxTextureUnits = 16

var uniformNames = []string{
	UniformViewPos,
	UniformColor,
	UniformModel,
	UniformView,
	UniformProjection,
	UniformModelView,
	UniformTime,
	UniformTexture,
	UniformMask,
	UniformLightPos,
	UniformLightColor,
	UniformResolution,
}

// ErrInvalidUniform is wrapped by every UniformConfig validation failure
var ErrInvalidUniform = errors.New("invalid uniform")

type uniformField uint16

const (
	fieldViewPos uniformField = 1 << iota
	fieldColor
	fieldModel
	fieldView
	fieldProjection
	fieldModelView
	fieldTime
	fieldTexture
	fieldMask
	fieldLightPos
	fieldLightColor
	fieldResolution
)

// UniformConfig is a sparse set of uniform values. The zero value sets
// nothing. Build it with the With* methods, which return a modified copy.
type UniformConfig struct {
	set uniformField

	viewPos    mgl32.Vec3
	color      mgl32.Vec3
	model      mgl32.Mat4
	view       mgl32.Mat4
	projection mgl32.Mat4
	modelView  mgl32.Mat4
	time       float32
	texture    int32
	mask       int32
	lightPos   mgl32.Vec3
	lightColor mgl32.Vec3
	resolution mgl32.Vec2
}

func (c UniformConfig) WithViewPos(v mgl32.Vec3) UniformConfig {
	c.viewPos, c.set = v, c.set|fieldViewPos
	return c
}

// WithColor sets the material colour; components must lie in [0,1]
func (c UniformConfig) WithColor(v mgl32.Vec3) UniformConfig {
	c.color, c.set = v, c.set|fieldColor
	return c
}

func (c UniformConfig) WithModel(m mgl32.Mat4) UniformConfig {
	c.model, c.set = m, c.set|fieldModel
	return c
}

func (c UniformConfig) WithView(m mgl32.Mat4) UniformConfig {
	c.view, c.set = m, c.set|fieldView
	return c
}

func (c UniformConfig) WithProjection(m mgl32.Mat4) UniformConfig {
	c.projection, c.set = m, c.set|fieldProjection
	return c
}

func (c UniformConfig) WithModelView(m mgl32.Mat4) UniformConfig {
	c.modelView, c.set = m, c.set|fieldModelView
	return c
}

// WithTime sets the elapsed time in seconds
func (c UniformConfig) WithTime(t float32) UniformConfig {
	c.time, c.set = t, c.set|fieldTime
	return c
}

// WithTexture binds the main sampler to a texture unit
func (c UniformConfig) WithTexture(unit int32) UniformConfig {
	c.texture, c.set = unit, c.set|fieldTexture
	return c
}

// WithMask binds the secondary sampler to a texture unit
func (c UniformConfig) WithMask(unit int32) UniformConfig {
	c.mask, c.set = unit, c.set|fieldMask
	return c
}

func (c UniformConfig) WithLightPos(v mgl32.Vec3) UniformConfig {
	c.lightPos, c.set = v, c.set|fieldLightPos
	return c
}

func (c UniformConfig) WithLightColor(v mgl32.Vec3) UniformConfig {
	c.lightColor, c.set = v, c.set|fieldLightColor
	return c
}

func (c UniformConfig) WithResolution(width, height float32) UniformConfig {
	c.resolution, c.set = mgl32.Vec2{width, height}, c.set|fieldResolution
	return c
}

// Empty reports whether no field is set
func (c UniformConfig) Empty() bool {
	return c.set == 0
}

// Validate checks every set field on its own and reports all failures
func (c UniformConfig) Validate() error {
	var errs []error
	check := func(name string, ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w %s: %s", ErrInvalidUniform, name, fmt.Sprintf(format, args...)))
		}
	}

	if c.set&fieldViewPos != 0 {
		check(UniformViewPos, finite(c.viewPos[:]...), "non-finite position %v", c.viewPos)
	}
	if c.set&fieldColor != 0 {
		check(UniformColor, unitRange(c.color[:]...), "colour %v outside [0,1]", c.color)
	}
	if c.set&fieldModel != 0 {
		check(UniformModel, finite(c.model[:]...), "non-finite matrix")
	}
	if c.set&fieldView != 0 {
		check(UniformView, finite(c.view[:]...), "non-finite matrix")
	}
	if c.set&fieldProjection != 0 {
		check(UniformProjection, finite(c.projection[:]...), "non-finite matrix")
	}
	if c.set&fieldModelView != 0 {
		check(UniformModelView, finite(c.modelView[:]...), "non-finite matrix")
	}
	if c.set&fieldTime != 0 {
		check(UniformTime, finite(c.time), "non-finite time %v", c.time)
	}
	if c.set&fieldTexture != 0 {
		check(UniformTexture, c.texture >= 0 && c.texture < MaxTextureUnits, "texture unit %d out of range", c.texture)
	}
	if c.set&fieldMask != 0 {
		check(UniformMask, c.mask >= 0 && c.mask < MaxTextureUnits, "texture unit %d out of range", c.mask)
	}
	if c.set&fieldLightPos != 0 {
		check(UniformLightPos, finite(c.lightPos[:]...), "non-finite position %v", c.lightPos)
	}
	if c.set&fieldLightColor != 0 {
		ok := finite(c.lightColor[:]...) && c.lightColor[0] >= 0 && c.lightColor[1] >= 0 && c.lightColor[2] >= 0
		check(UniformLightColor, ok, "negative or non-finite colour %v", c.lightColor)
	}
	if c.set&fieldResolution != 0 {
		ok := finite(c.resolution[:]...) && c.resolution[0] > 0 && c.resolution[1] > 0
		check(UniformResolution, ok, "resolution %v must be positive", c.resolution)
	}
	return errors.Join(errs...)
}

type uniformValue func(dev gpu.Device, loc int32)

func vec3Value(v mgl32.Vec3) uniformValue {
	return func(dev gpu.Device, loc int32) { dev.Uniform3f(loc, v[0], v[1], v[2]) }
}

func mat4Value(m mgl32.Mat4) uniformValue {
	return func(dev gpu.Device, loc int32) { dev.UniformMatrix4(loc, m) }
}

func intValue(i int32) uniformValue {
	return func(dev gpu.Device, loc int32) { dev.Uniform1i(loc, i) }
}

// each visits the set fields in a fixed order
func (c UniformConfig) each(fn func(name string, v uniformValue)) {
	if c.set&fieldViewPos != 0 {
		fn(UniformViewPos, vec3Value(c.viewPos))
	}
	if c.set&fieldColor != 0 {
		fn(UniformColor, vec3Value(c.color))
	}
	if c.set&fieldModel != 0 {
		fn(UniformModel, mat4Value(c.model))
	}
	if c.set&fieldView != 0 {
		fn(UniformView, mat4Value(c.view))
	}
	if c.set&fieldProjection != 0 {
		fn(UniformProjection, mat4Value(c.projection))
	}
	if c.set&fieldModelView != 0 {
		fn(UniformModelView, mat4Value(c.modelView))
	}
	if c.set&fieldTime != 0 {
		t := c.time
		fn(UniformTime, func(dev gpu.Device, loc int32) { dev.Uniform1f(loc, t) })
	}
	if c.set&fieldTexture != 0 {
		fn(UniformTexture, intValue(c.texture))
	}
	if c.set&fieldMask != 0 {
		fn(UniformMask, intValue(c.mask))
	}
	if c.set&fieldLightPos != 0 {
		fn(UniformLightPos, vec3Value(c.lightPos))
	}
	if c.set&fieldLightColor != 0 {
		fn(UniformLightColor, vec3Value(c.lightColor))
	}
	if c.set&fieldResolution != 0 {
		r := c.resolution
		fn(UniformResolution, func(dev gpu.Device, loc int32) { dev.Uniform2f(loc, r[0], r[1]) })
	}
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func unitRange(vs ...float32) bool {
	for _, v := range vs {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}
