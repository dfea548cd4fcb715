package graphics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestUniformConfigBuildersCopy(t *testing.T) {
	base := UniformConfig{}.WithTime(1)
	withColor := base.WithColor(mgl32.Vec3{0.5, 0.5, 0.5})

	assert.Zero(t, base.set&fieldColor, "builders return a copy")
	assert.NotZero(t, withColor.set&fieldColor)
	assert.NotZero(t, withColor.set&fieldTime)
	assert.True(t, UniformConfig{}.Empty())
	assert.False(t, base.Empty())
}

func TestUniformConfigValidate(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name  string
		cfg   UniformConfig
		field string
	}{
		{"colour above one", UniformConfig{}.WithColor(mgl32.Vec3{1.5, 0, 0}), UniformColor},
		{"colour negative", UniformConfig{}.WithColor(mgl32.Vec3{0, -0.1, 0}), UniformColor},
		{"nan time", UniformConfig{}.WithTime(nan), UniformTime},
		{"inf view pos", UniformConfig{}.WithViewPos(mgl32.Vec3{inf, 0, 0}), UniformViewPos},
		{"nan model", UniformConfig{}.WithModel(mgl32.Mat4{nan}), UniformModel},
		{"texture unit negative", UniformConfig{}.WithTexture(-1), UniformTexture},
		{"mask unit too large", UniformConfig{}.WithMask(MaxTextureUnits), UniformMask},
		{"negative light", UniformConfig{}.WithLightColor(mgl32.Vec3{-1, 1, 1}), UniformLightColor},
		{"zero resolution", UniformConfig{}.WithResolution(0, 600), UniformResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidUniform)
			assert.ErrorContains(t, err, tt.field)
		})
	}
}

func TestUniformConfigValidateReportsEveryField(t *testing.T) {
	cfg := UniformConfig{}.
		WithColor(mgl32.Vec3{3, 0, 0}).
		WithTexture(-2).
		WithTime(4)

	err := cfg.Validate()
	assert.ErrorContains(t, err, UniformColor)
	assert.ErrorContains(t, err, UniformTexture)
	assert.NotContains(t, err.Error(), UniformTime)
}

func TestUniformConfigValid(t *testing.T) {
	cfg := UniformConfig{}.
		WithViewPos(mgl32.Vec3{10, 0, 0}).
		WithColor(mgl32.Vec3{1, 0.5, 0.31}).
		WithModel(mgl32.Ident4()).
		WithView(mgl32.Ident4()).
		WithProjection(mgl32.Perspective(0.7, 1.5, 0.1, 100)).
		WithModelView(mgl32.Ident4()).
		WithTime(12.5).
		WithTexture(0).
		WithMask(1).
		WithLightPos(mgl32.Vec3{0, 5, 0}).
		WithLightColor(mgl32.Vec3{1, 1, 1}).
		WithResolution(900, 600)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, UniformConfig{}.Validate())
}
