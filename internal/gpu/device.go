package gpu

import "github.com/go-gl/mathgl/mgl32"

// Stage identifies a shader stage
type Stage uint32

const (
	VertexStage Stage = iota + 1
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// ClearMask selects the buffers cleared by Device.Clear
type ClearMask uint8

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
)

// Capability is a toggleable pipeline state
type Capability uint8

const (
	DepthTest Capability = iota + 1
	CullFace
	Blend
)

// Wrap selects the texture coordinate wrap mode
type Wrap uint8

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// Device is the set of GPU calls the renderer issues. All methods must be
// called from the thread that owns the GL context.
type Device interface {
	// Shaders and programs
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string) (ok bool, log string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, log string)
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniforms
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	// Buffers and vertex arrays
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindArrayBuffer(vbo uint32)
	BufferData(data []float32)
	DeleteBuffer(vbo uint32)
	VertexAttrib(location uint32, size, stride, offset int32)

	// Textures and framebuffers
	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(tex uint32)
	TexImage2D(width, height int32, pixels []uint8, wrap Wrap)
	DeleteTexture(tex uint32)
	GenFramebuffer() uint32
	BindFramebuffer(fbo uint32)
	FramebufferTexture(tex uint32)
	GenRenderbuffer() uint32
	DepthRenderbuffer(rbo uint32, width, height int32)
	FramebufferComplete() bool
	DeleteFramebuffer(fbo uint32)
	DeleteRenderbuffer(rbo uint32)

	// Frame state
	Enable(c Capability)
	Disable(c Capability)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)
	DrawTriangles(first, count int32)
}
