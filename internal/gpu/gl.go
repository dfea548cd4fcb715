package gpu

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GL is the OpenGL 4.1 core device. gl.Init must have been called with a
// current context before any method is used.
type GL struct{}

// NewGL returns the OpenGL device
func NewGL() *GL {
	return &GL{}
}

var _ Device = (*GL)(nil)

func (GL) CreateShader(stage Stage) uint32 {
	switch stage {
	case FragmentStage:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	default:
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
}

func (GL) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (GL) CreateProgram() uint32 { return gl.CreateProgram() }

func (GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (GL) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GL) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (GL) Uniform2f(location int32, x, y float32) { gl.Uniform2f(location, x, y) }

func (GL) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (GL) GenBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return vbo
}

func (GL) BindArrayBuffer(vbo uint32) { gl.BindBuffer(gl.ARRAY_BUFFER, vbo) }

func (GL) BufferData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (GL) DeleteBuffer(vbo uint32) { gl.DeleteBuffers(1, &vbo) }

// VertexAttrib enables a float attribute; stride and offset are in bytes
func (GL) VertexAttrib(location uint32, size, stride, offset int32) {
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (GL) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (GL) ActiveTexture(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) }

func (GL) BindTexture(tex uint32) { gl.BindTexture(gl.TEXTURE_2D, tex) }

// TexImage2D allocates RGBA8 storage for the bound texture. A nil pixel
// slice allocates without uploading.
func (GL) TexImage2D(width, height int32, pixels []uint8, wrap Wrap) {
	mode := int32(gl.CLAMP_TO_EDGE)
	if wrap == WrapRepeat {
		mode = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (GL) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (GL) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (GL) BindFramebuffer(fbo uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (GL) FramebufferTexture(tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
}

func (GL) GenRenderbuffer() uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	return rbo
}

func (GL) DepthRenderbuffer(rbo uint32, width, height int32) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (GL) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (GL) DeleteFramebuffer(fbo uint32) { gl.DeleteFramebuffers(1, &fbo) }

func (GL) DeleteRenderbuffer(rbo uint32) { gl.DeleteRenderbuffers(1, &rbo) }

func (GL) Enable(c Capability) {
	if flag := glCapability(c); flag != 0 {
		gl.Enable(flag)
	}
}

func (GL) Disable(c Capability) {
	if flag := glCapability(c); flag != 0 {
		gl.Disable(flag)
	}
}

func glCapability(c Capability) uint32 {
	switch c {
	case DepthTest:
		return gl.DEPTH_TEST
	case CullFace:
		return gl.CULL_FACE
	case Blend:
		return gl.BLEND
	}
	return 0
}

func (GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (GL) DrawTriangles(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }
