package renderer

import (
	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/uniform"
)

// BlendMode selects how a renderable's output combines with the target.
type BlendMode int

const (
	BlendReplace BlendMode = iota // blending disabled
	BlendAdd                      // SRC_ALPHA, ONE
	BlendMix                      // SRC_ALPHA, ONE_MINUS_SRC_ALPHA
)

func (b BlendMode) String() string {
	switch b {
	case BlendReplace:
		return "replace"
	case BlendAdd:
		return "add"
	case BlendMix:
		return "mix"
	}
	return "unknown"
}

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullNothing CullMode = iota
	CullFront
	CullBack
)

func (c CullMode) String() string {
	switch c {
	case CullNothing:
		return "none"
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	}
	return "unknown"
}

// Renderable is a drawable object registered with a Renderer. The Renderer
// never takes ownership of it.
type Renderable interface {
	GetVertexShaderCode() string
	// GetGeometryShaderCode returns "" when the renderable has no geometry stage.
	GetGeometryShaderCode() string
	GetFragmentShaderCode() string

	// UniformMap returns the renderable's own uniforms and samplers.
	UniformMap() *uniform.Map

	Bind()
	Render(p *shader.Program)
	Unbind()
}

// BaseRenderable supplies the optional parts of Renderable. Embed it and
// implement GetVertexShaderCode and Render.
type BaseRenderable struct {
	uniforms *uniform.Map
}

func NewBaseRenderable(dev graphics.Device) BaseRenderable {
	return BaseRenderable{uniforms: uniform.NewMap(dev)}
}

func (b *BaseRenderable) UniformMap() *uniform.Map      { return b.uniforms }
func (b *BaseRenderable) GetGeometryShaderCode() string { return "" }
func (b *BaseRenderable) GetFragmentShaderCode() string { return shader.DefaultFragmentShader }
func (b *BaseRenderable) Bind()                         {}
func (b *BaseRenderable) Unbind()                       {}
