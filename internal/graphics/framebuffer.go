package graphics

import (
	"errors"
	"fmt"

	"glscene/internal/gpu"
)

// ErrFramebufferIncomplete is returned when the offscreen target cannot be used
var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// Framebuffer is an offscreen colour texture with a depth attachment
type Framebuffer struct {
	FBO    uint32
	RBO    uint32
	Color  *Texture
	Width  int
	Height int

	dev gpu.Device
}

// NewFramebuffer creates an offscreen target of the given size
func NewFramebuffer(dev gpu.Device, width, height int) (*Framebuffer, error) {
	f := &Framebuffer{dev: dev}
	f.FBO = dev.GenFramebuffer()
	f.RBO = dev.GenRenderbuffer()
	f.Color = &Texture{ID: dev.GenTexture(), dev: dev}
	if err := f.Resize(width, height); err != nil {
		f.Delete()
		return nil, err
	}
	return f, nil
}

// Resize reallocates the attachments. Sizes below 1 are raised to 1.
func (f *Framebuffer) Resize(width, height int) error {
	width, height = max(width, 1), max(height, 1)
	f.Width, f.Height = width, height
	f.Color.Width, f.Color.Height = width, height

	f.dev.BindFramebuffer(f.FBO)
	f.dev.BindTexture(f.Color.ID)
	f.dev.TexImage2D(int32(width), int32(height), nil, gpu.WrapClamp)
	f.dev.BindTexture(0)
	f.dev.FramebufferTexture(f.Color.ID)
	f.dev.DepthRenderbuffer(f.RBO, int32(width), int32(height))
	complete := f.dev.FramebufferComplete()
	f.dev.BindFramebuffer(0)

	if !complete {
		return fmt.Errorf("%w: %dx%d", ErrFramebufferIncomplete, width, height)
	}
	return nil
}

// Bind directs drawing into the framebuffer and sets the viewport to its size
func (f *Framebuffer) Bind() {
	f.dev.BindFramebuffer(f.FBO)
	f.dev.Viewport(0, 0, int32(f.Width), int32(f.Height))
}

// Unbind restores the default framebuffer
func (f *Framebuffer) Unbind() {
	f.dev.BindFramebuffer(0)
}

// Delete releases the framebuffer and its attachments
func (f *Framebuffer) Delete() {
	if f.Color != nil {
		f.Color.Delete()
	}
	if f.RBO != 0 {
		f.dev.DeleteRenderbuffer(f.RBO)
		f.RBO = 0
	}
	if f.FBO != 0 {
		f.dev.DeleteFramebuffer(f.FBO)
		f.FBO = 0
	}
}
