// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"strings"

	"glscene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call
type Call struct {
	Name string
	Args []any
}

// Recorder implements gpu.Device without a GL context. Handles are handed
// out from a single counter starting at 1.
type Recorder struct {
	Calls []Call

	// CompileErrors maps a stage to the log returned when a shader of that
	// stage is compiled. Stages absent from the map compile successfully.
	CompileErrors map[gpu.Stage]string
	// FailSource makes any shader whose source contains it fail to compile.
	FailSource string
	// LinkError, when non-empty, fails every link with this log.
	LinkError string
	// Inactive lists uniform names reported with location -1.
	Inactive map[string]bool
	// Incomplete makes FramebufferComplete report false.
	Incomplete bool

	next      uint32
	stages    map[uint32]gpu.Stage
	locations map[string]int32

	// Live handles by kind, removed on delete.
	Live map[string]map[uint32]bool
}

var _ gpu.Device = (*Recorder)(nil)

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		stages:    make(map[uint32]gpu.Stage),
		locations: make(map[string]int32),
		Live:      make(map[string]map[uint32]bool),
	}
}

// Reset drops recorded calls but keeps handles and scripted failures
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Named returns the recorded calls with the given name, in order
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given name were recorded
func (r *Recorder) Count(name string) int {
	return len(r.Named(name))
}

// Names returns the recorded call names, in order
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Name
	}
	return out
}

// LiveCount returns the number of undeleted handles of a kind
// ("shader", "program", "vao", "buffer", "texture", "framebuffer", "renderbuffer").
func (r *Recorder) LiveCount(kind string) int {
	return len(r.Live[kind])
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	if r.Live[kind] == nil {
		r.Live[kind] = make(map[uint32]bool)
	}
	r.Live[kind][r.next] = true
	return r.next
}

func (r *Recorder) free(kind string, h uint32) {
	delete(r.Live[kind], h)
}

func (r *Recorder) CreateShader(stage gpu.Stage) uint32 {
	h := r.alloc("shader")
	r.stages[h] = stage
	r.record("CreateShader", stage)
	return h
}

func (r *Recorder) CompileShader(shader uint32, source string) (bool, string) {
	r.record("CompileShader", shader, source)
	if log, ok := r.CompileErrors[r.stages[shader]]; ok {
		return false, log
	}
	if r.FailSource != "" && strings.Contains(source, r.FailSource) {
		return false, "0:1(1): error: syntax error"
	}
	return true, ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.free("shader", shader)
	r.record("DeleteShader", shader)
}

func (r *Recorder) CreateProgram() uint32 {
	h := r.alloc("program")
	r.record("CreateProgram")
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) (bool, string) {
	r.record("LinkProgram", program)
	if r.LinkError != "" {
		return false, r.LinkError
	}
	return true, ""
}

func (r *Recorder) UseProgram(program uint32) { r.record("UseProgram", program) }

func (r *Recorder) DeleteProgram(program uint32) {
	r.free("program", program)
	r.record("DeleteProgram", program)
}

// UniformLocation hands out stable locations per name, or -1 for inactive names
func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record("UniformLocation", program, name)
	if r.Inactive[name] {
		return -1
	}
	loc, ok := r.locations[name]
	if !ok {
		loc = int32(len(r.locations))
		r.locations[name] = loc
	}
	return loc
}

func (r *Recorder) Uniform1i(location int32, v int32) { r.record("Uniform1i", location, v) }

func (r *Recorder) Uniform1f(location int32, v float32) { r.record("Uniform1f", location, v) }

func (r *Recorder) Uniform2f(location int32, x, y float32) {
	r.record("Uniform2f", location, x, y)
}

func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.record("Uniform3f", location, x, y, z)
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.record("UniformMatrix4", location, m)
}

func (r *Recorder) GenVertexArray() uint32 {
	h := r.alloc("vao")
	r.record("GenVertexArray")
	return h
}

func (r *Recorder) BindVertexArray(vao uint32) { r.record("BindVertexArray", vao) }

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.free("vao", vao)
	r.record("DeleteVertexArray", vao)
}

func (r *Recorder) GenBuffer() uint32 {
	h := r.alloc("buffer")
	r.record("GenBuffer")
	return h
}

func (r *Recorder) BindArrayBuffer(vbo uint32) { r.record("BindArrayBuffer", vbo) }

func (r *Recorder) BufferData(data []float32) {
	r.record("BufferData", len(data))
}

func (r *Recorder) DeleteBuffer(vbo uint32) {
	r.free("buffer", vbo)
	r.record("DeleteBuffer", vbo)
}

func (r *Recorder) VertexAttrib(location uint32, size, stride, offset int32) {
	r.record("VertexAttrib", location, size, stride, offset)
}

func (r *Recorder) GenTexture() uint32 {
	h := r.alloc("texture")
	r.record("GenTexture")
	return h
}

func (r *Recorder) ActiveTexture(unit uint32) { r.record("ActiveTexture", unit) }

func (r *Recorder) BindTexture(tex uint32) { r.record("BindTexture", tex) }

func (r *Recorder) TexImage2D(width, height int32, pixels []uint8, wrap gpu.Wrap) {
	r.record("TexImage2D", width, height, len(pixels), wrap)
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.free("texture", tex)
	r.record("DeleteTexture", tex)
}

func (r *Recorder) GenFramebuffer() uint32 {
	h := r.alloc("framebuffer")
	r.record("GenFramebuffer")
	return h
}

func (r *Recorder) BindFramebuffer(fbo uint32) { r.record("BindFramebuffer", fbo) }

func (r *Recorder) FramebufferTexture(tex uint32) { r.record("FramebufferTexture", tex) }

func (r *Recorder) GenRenderbuffer() uint32 {
	h := r.alloc("renderbuffer")
	r.record("GenRenderbuffer")
	return h
}

func (r *Recorder) DepthRenderbuffer(rbo uint32, width, height int32) {
	r.record("DepthRenderbuffer", rbo, width, height)
}

func (r *Recorder) FramebufferComplete() bool {
	r.record("FramebufferComplete")
	return !r.Incomplete
}

func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.free("framebuffer", fbo)
	r.record("DeleteFramebuffer", fbo)
}

func (r *Recorder) DeleteRenderbuffer(rbo uint32) {
	r.free("renderbuffer", rbo)
	r.record("DeleteRenderbuffer", rbo)
}

func (r *Recorder) Enable(c gpu.Capability) { r.record("Enable", c) }

func (r *Recorder) Disable(c gpu.Capability) { r.record("Disable", c) }

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask gpu.ClearMask) { r.record("Clear", mask) }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) DrawTriangles(first, count int32) {
	r.record("DrawTriangles", first, count)
}
