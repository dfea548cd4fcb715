package graphics

import (
	"errors"
	"fmt"
	"log/slog"

	"glscene/internal/geometry"
	"glscene/internal/gpu"
	"glscene/internal/logx"
)

// ErrVertexData is returned for vertex input that is not a float sequence
var ErrVertexData = errors.New("vertex data is not a float sequence")

// Attribute describes one float attribute inside an interleaved vertex.
// Size and Offset are counted in floats.
type Attribute struct {
	Location uint32
	Size     int32
	Offset   int32
}

// VertexLayout describes how a flat float sequence splits into vertices
type VertexLayout struct {
	FloatsPerVertex int
	Attributes      []Attribute
}

// LayoutPosNormalUV is the interleaved position(3) normal(3) uv(2) layout
var LayoutPosNormalUV = VertexLayout{
	FloatsPerVertex: geometry.FloatsPerVertex,
	Attributes: []Attribute{
		{Location: 0, Size: 3, Offset: 0},
		{Location: 1, Size: 3, Offset: 3},
		{Location: 2, Size: 2, Offset: 6},
	},
}

// Stride returns the vertex size in bytes
func (l VertexLayout) Stride() int32 {
	return int32(l.FloatsPerVertex * 4)
}

// Validate checks that every attribute fits inside a vertex
func (l VertexLayout) Validate() error {
	if l.FloatsPerVertex <= 0 {
		return fmt.Errorf("vertex layout: %d floats per vertex", l.FloatsPerVertex)
	}
	for _, a := range l.Attributes {
		if a.Size < 1 || a.Size > 4 || a.Offset < 0 || int(a.Offset+a.Size) > l.FloatsPerVertex {
			return fmt.Errorf("vertex layout: attribute %d (size %d, offset %d) does not fit %d floats",
				a.Location, a.Size, a.Offset, l.FloatsPerVertex)
		}
	}
	return nil
}

// Mesh is uploaded vertex data bound to a vertex array
type Mesh struct {
	VAO         uint32
	VBO         uint32
	VertexCount int32
	Layout      VertexLayout

	dev gpu.Device
}

// Upload copies vertices into a new buffer and describes its layout.
// A trailing partial vertex is ignored and reported to log (nil uses
// slog.Default).
func Upload(dev gpu.Device, vertices []float32, layout VertexLayout, log *slog.Logger) (*Mesh, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	count := len(vertices) / layout.FloatsPerVertex
	if rem := len(vertices) % layout.FloatsPerVertex; rem != 0 {
		logx.OrDefault(log).Warn("vertex data has a trailing partial vertex",
			"floats", len(vertices), "floatsPerVertex", layout.FloatsPerVertex, "ignored", rem)
	}

	m := &Mesh{VertexCount: int32(count), Layout: layout, dev: dev}
	if count == 0 {
		return m, nil
	}

	m.VAO = dev.GenVertexArray()
	dev.BindVertexArray(m.VAO)

	m.VBO = dev.GenBuffer()
	dev.BindArrayBuffer(m.VBO)
	dev.BufferData(vertices[:count*layout.FloatsPerVertex])

	stride := layout.Stride()
	for _, a := range layout.Attributes {
		dev.VertexAttrib(a.Location, a.Size, stride, a.Offset*4)
	}

	dev.BindVertexArray(0)
	return m, nil
}

// UploadAny converts array-like input with VertexData and uploads it. Input
// that cannot be converted yields an empty mesh that draws nothing.
func UploadAny(dev gpu.Device, data any, layout VertexLayout, log *slog.Logger) (*Mesh, error) {
	vertices, err := VertexData(data)
	if err != nil {
		logx.OrDefault(log).Error("falling back to an empty mesh", "error", err)
		vertices = nil
	}
	return Upload(dev, vertices, layout, log)
}

// VertexData flattens the supported array-like inputs into float32s
func VertexData(data any) ([]float32, error) {
	switch v := data.(type) {
	case []float32:
		return v, nil
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, nil
	case [][geometry.FloatsPerVertex]float32:
		out := make([]float32, 0, len(v)*geometry.FloatsPerVertex)
		for _, vert := range v {
			out = append(out, vert[:]...)
		}
		return out, nil
	case []geometry.Vertex:
		return geometry.Flatten(v), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrVertexData)
	default:
		return nil, fmt.Errorf("%w: %T", ErrVertexData, data)
	}
}

// Bind makes the mesh's vertex array current
func (m *Mesh) Bind() {
	m.dev.BindVertexArray(m.VAO)
}

// Draw issues a triangle-list draw of the whole mesh. Empty meshes draw nothing.
func (m *Mesh) Draw() {
	if m.VertexCount == 0 {
		return
	}
	m.dev.DrawTriangles(0, m.VertexCount)
}

// Delete releases the vertex array and buffer
func (m *Mesh) Delete() {
	if m.VAO != 0 {
		m.dev.DeleteVertexArray(m.VAO)
		m.VAO = 0
	}
	if m.VBO != 0 {
		m.dev.DeleteBuffer(m.VBO)
		m.VBO = 0
	}
}
