package graphics

import (
	"testing"

	"glscene/internal/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferLifecycle(t *testing.T) {
	dev := gputest.NewRecorder()
	fb, err := NewFramebuffer(dev, 900, 600)
	require.NoError(t, err)
	assert.Equal(t, 900, fb.Color.Width)

	dev.Reset()
	fb.Bind()
	assert.Equal(t, []any{int32(0), int32(0), int32(900), int32(600)}, dev.Named("Viewport")[0].Args)
	fb.Unbind()
	assert.Equal(t, []any{uint32(0)}, dev.Named("BindFramebuffer")[1].Args)

	require.NoError(t, fb.Resize(0, -4))
	assert.Equal(t, 1, fb.Width)
	assert.Equal(t, 1, fb.Height)

	fb.Delete()
	assert.Zero(t, dev.LiveCount("framebuffer"))
	assert.Zero(t, dev.LiveCount("renderbuffer"))
	assert.Zero(t, dev.LiveCount("texture"))
}

func TestFramebufferIncomplete(t *testing.T) {
	dev := gputest.NewRecorder()
	dev.Incomplete = true

	_, err := NewFramebuffer(dev, 64, 64)
	assert.ErrorIs(t, err, ErrFramebufferIncomplete)
	assert.Zero(t, dev.LiveCount("framebuffer"))
}
