package renderer

import (
	"fmt"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/shader"
)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// ScreenFillingSquare draws a quad covering the whole viewport with a
// caller-supplied fragment shader. Post-processing effects and compute
// passes are built on it.
type ScreenFillingSquare struct {
	BaseRenderable
	dev                graphics.Device
	quadVAO            uint32
	fragmentShaderCode string
}

var _ Renderable = (*ScreenFillingSquare)(nil)

func NewScreenFillingSquare(dev graphics.Device, fragmentShaderCode string) (*ScreenFillingSquare, error) {
	vao, err := dev.CreateVertexArray(quadVertices, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to create screen square: %w", err)
	}
	return &ScreenFillingSquare{
		BaseRenderable:     NewBaseRenderable(dev),
		dev:                dev,
		quadVAO:            vao,
		fragmentShaderCode: fragmentShaderCode,
	}, nil
}

func (s *ScreenFillingSquare) GetVertexShaderCode() string   { return shader.ScreenVertexShader }
func (s *ScreenFillingSquare) GetFragmentShaderCode() string { return s.fragmentShaderCode }

func (s *ScreenFillingSquare) Render(*shader.Program) {
	s.dev.BindVertexArray(s.quadVAO)
	s.dev.DrawArrays(graphics.Triangles, 0, len(quadVertices)/2)
	s.dev.BindVertexArray(0)
}

func (s *ScreenFillingSquare) Destroy() {
	if s.quadVAO != 0 {
		s.dev.DeleteVertexArray(s.quadVAO)
		s.quadVAO = 0
	}
}
