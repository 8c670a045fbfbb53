package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/texture"
)

// ComputeTextureInput is the full-screen pass of a ComputeTexture. Its
// inputs are sampler uniforms declared up front.
type ComputeTextureInput struct {
	*ScreenFillingSquare
	inputSizes map[string][2]int
}

func newComputeTextureInput(dev graphics.Device, inputNames []string, fragmentShaderCode string) (*ComputeTextureInput, error) {
	square, err := NewScreenFillingSquare(dev, fragmentShaderCode)
	if err != nil {
		return nil, err
	}
	in := &ComputeTextureInput{
		ScreenFillingSquare: square,
		inputSizes:          make(map[string][2]int, len(inputNames)),
	}
	for _, name := range inputNames {
		if err := in.UniformMap().DeclareTexture(name); err != nil {
			square.Destroy()
			return nil, err
		}
		in.inputSizes[name] = [2]int{}
	}
	return in, nil
}

// SetInput binds t to a declared input. Unknown names and nil or destroyed
// textures are ignored.
func (in *ComputeTextureInput) SetInput(t texture.Texture, name string) {
	if _, ok := in.inputSizes[name]; !ok {
		log.Printf("Warning: input texture '%s' cannot be found!", name)
		return
	}
	if !texture.Valid(t) {
		log.Printf("Warning: input texture '%s' is nil or destroyed!", name)
		return
	}
	in.inputSizes[name] = [2]int{t.Width(), t.Height()}
	if err := in.UniformMap().SetTexture(t, name); err != nil {
		log.Printf("Warning: unable to set input texture '%s': %v", name, err)
	}
}

// InputSize returns the size of the texture last bound to name.
func (in *ComputeTextureInput) InputSize(name string) (int, int, bool) {
	size, ok := in.inputSizes[name]
	return size[0], size[1], ok
}

// ComputeTexture runs a fragment shader over named input textures and writes
// the named outputs of the shader into output textures.
type ComputeTexture struct {
	input  *ComputeTextureInput
	output *Renderer
}

func NewComputeTexture(dev graphics.Device, inputNames, outputNames []string, fragmentShaderCode string, opts ...Option) (*ComputeTexture, error) {
	input, err := newComputeTextureInput(dev, inputNames, fragmentShaderCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute input: %w", err)
	}

	output := New(dev, opts...)
	for _, name := range outputNames {
		output.AddRenderTarget(name)
	}
	if err := output.AddRenderable(0, input, false, false, BlendReplace, CullNothing); err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create compute program: %w", err)
	}
	return &ComputeTexture{input: input, output: output}, nil
}

func (c *ComputeTexture) Input() *ComputeTextureInput { return c.input }
func (c *ComputeTexture) Output() *Renderer           { return c.output }

func (c *ComputeTexture) SetInput(t texture.Texture, name string) {
	c.input.SetInput(t, name)
}

func (c *ComputeTexture) SetOutput(t texture.Texture, name string) error {
	return c.output.SetTextureTarget(t, name)
}

// Compute renders the pass into the output textures.
func (c *ComputeTexture) Compute() {
	c.output.ClearTargets()
	c.output.Render()
}

func (c *ComputeTexture) Destroy() {
	c.output.Destroy()
	c.input.Destroy()
}
