package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
)

var (
	ErrCompile = errors.New("shader compilation failed")
	ErrLink    = errors.New("program link failed")
)

// Translator rewrites shader source before compilation. Names maps the
// identifiers of the original source to their names in Code.
type Translator interface {
	Translate(stage graphics.ShaderStage, source string) (*Translation, error)
}

type Translation struct {
	Code  string
	Names map[string]string
}

// Shader is a single compiled stage.
type Shader struct {
	dev    graphics.Device
	stage  graphics.ShaderStage
	handle uint32
}

// NewShader creates an empty stage object.
func NewShader(dev graphics.Device, stage graphics.ShaderStage) (*Shader, error) {
	h, err := dev.CreateShader(stage)
	if err != nil {
		return nil, err
	}
	return &Shader{dev: dev, stage: stage, handle: h}, nil
}

func (s *Shader) Stage() graphics.ShaderStage { return s.stage }
func (s *Shader) Handle() uint32              { return s.handle }

// Compile compiles source into the stage.
func (s *Shader) Compile(source string) error {
	if err := s.dev.CompileShader(s.handle, source); err != nil {
		return fmt.Errorf("%w: %s shader: %v", ErrCompile, s.stage, err)
	}
	return nil
}

func (s *Shader) Destroy() {
	if s.handle != 0 {
		s.dev.DeleteShader(s.handle)
		s.handle = 0
	}
}

// Program is a linked shader program. Uniform locations are cached per name.
type Program struct {
	dev       graphics.Device
	handle    uint32
	names     map[string]string
	locations map[string]int32
}

// NewProgram creates an empty program object.
func NewProgram(dev graphics.Device) (*Program, error) {
	h, err := dev.CreateProgram()
	if err != nil {
		return nil, err
	}
	return &Program{
		dev:       dev,
		handle:    h,
		names:     make(map[string]string),
		locations: make(map[string]int32),
	}, nil
}

func (p *Program) Handle() uint32 { return p.handle }

// AddNames records identifier renames produced by a Translator.
func (p *Program) AddNames(names map[string]string) {
	for from, to := range names {
		p.names[from] = to
	}
}

// MappedName returns the name an identifier has in the compiled source.
func (p *Program) MappedName(name string) string {
	if mapped, ok := p.names[name]; ok {
		return mapped
	}
	return name
}

func (p *Program) Attach(s *Shader) {
	p.dev.AttachShader(p.handle, s.handle)
}

// BindFragDataLocation binds a fragment output to a color attachment slot.
// It only has an effect before Link.
func (p *Program) BindFragDataLocation(slot int, name string) {
	p.dev.BindFragDataLocation(p.handle, uint32(slot), p.MappedName(name))
}

func (p *Program) Link() error {
	if err := p.dev.LinkProgram(p.handle); err != nil {
		return fmt.Errorf("%w: %v", ErrLink, err)
	}
	clear(p.locations)
	return nil
}

func (p *Program) Validate() error {
	return p.dev.ValidateProgram(p.handle)
}

func (p *Program) Bind()   { p.dev.UseProgram(p.handle) }
func (p *Program) Unbind() { p.dev.UseProgram(0) }

func (p *Program) Destroy() {
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// UniformLocation returns the cached uniform location or fetches and caches it.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, p.MappedName(name))
	p.locations[name] = loc
	return loc
}

// The setters below act on the program currently in use and silently skip
// uniforms the linker optimized away.

func (p *Program) SetInt(name string, v int32) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.Uniform2f(loc, v)
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.Uniform3f(loc, v)
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.Uniform4f(loc, v)
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.UniformLocation(name); loc != -1 {
		p.dev.UniformMatrix4f(loc, m)
	}
}
