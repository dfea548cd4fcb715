package graphics

import (
	"fmt"
	"io/fs"

	"glscene/internal/gpu"
)

// CompileError reports a shader stage that failed to compile
type CompileError struct {
	Stage gpu.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// Program is a linked vertex+fragment program with its uniform locations
// resolved once at link time.
type Program struct {
	ID        uint32
	dev       gpu.Device
	locations map[string]int32
}

// Compile builds a program from vertex and fragment source. The returned
// error is a *CompileError or *LinkError.
func Compile(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	vertexShader, err := compileShader(dev, gpu.VertexStage, vertexSrc)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := compileShader(dev, gpu.FragmentStage, fragmentSrc)
	if err != nil {
		dev.DeleteShader(vertexShader)
		return nil, err
	}

	program := dev.CreateProgram()
	dev.AttachShader(program, vertexShader)
	dev.AttachShader(program, fragmentShader)
	ok, log := dev.LinkProgram(program)
	dev.DeleteShader(vertexShader)
	dev.DeleteShader(fragmentShader)
	if !ok {
		dev.DeleteProgram(program)
		return nil, &LinkError{Log: log}
	}

	p := &Program{
		ID:        program,
		dev:       dev,
		locations: make(map[string]int32, len(uniformNames)),
	}
	for _, name := range uniformNames {
		p.locations[name] = dev.UniformLocation(program, name)
	}
	return p, nil
}

// LoadProgram reads the two stage sources from fsys and compiles them
func LoadProgram(dev gpu.Device, fsys fs.FS, vertexPath, fragmentPath string) (*Program, error) {
	vertexSource, err := fs.ReadFile(fsys, vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := fs.ReadFile(fsys, fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	return Compile(dev, string(vertexSource), string(fragmentSource))
}

func compileShader(dev gpu.Device, stage gpu.Stage, source string) (uint32, error) {
	shader := dev.CreateShader(stage)
	if ok, log := dev.CompileShader(shader, source); !ok {
		dev.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// Use activates the program
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// Location returns the cached location of a recognised uniform, or -1 when
// the name is unknown or inactive in this program.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

// SetUniforms writes every field set in cfg to the program, which must be in
// use. Unset fields leave GPU state untouched. Nothing is written when cfg
// fails validation.
func (p *Program) SetUniforms(cfg UniformConfig) error {
	if cfg.Empty() {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.each(func(name string, v uniformValue) {
		loc := p.Location(name)
		if loc < 0 {
			return
		}
		v(p.dev, loc)
	})
	return nil
}

// Delete releases the program
func (p *Program) Delete() {
	if p.ID != 0 {
		p.dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}
