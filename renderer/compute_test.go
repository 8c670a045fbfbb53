package renderer

import (
	"fmt"
	"testing"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blurShader = `#version 410 core
uniform sampler2D source;
uniform sampler2D weights;
out vec4 blurred;
void main() { blurred = vec4(0.0); }
`

func TestComputeTexture(t *testing.T) {
	dev := graphicstest.New()
	ct, err := NewComputeTexture(dev, []string{"source", "weights"}, []string{"blurred"}, blurShader)
	require.NoError(t, err)

	assert.Equal(t, 1, ct.Output().NumPrograms())
	assert.Equal(t, 2, ct.Input().UniformMap().NrTextures())
	assert.True(t, ct.Input().UniformMap().Locked())
	assert.Equal(t, int32(0), dev.Uniforms["source"])
	assert.Equal(t, int32(1), dev.Uniforms["weights"])

	src, _ := texture.New(dev, texture.Vec4, 32, 16, nil)
	dst, _ := texture.New(dev, texture.Vec4, 32, 16, nil)
	ct.SetInput(src, "source")
	ct.SetInput(src, "missing")
	require.NoError(t, ct.SetOutput(dst, "blurred"))

	w, h, ok := ct.Input().InputSize("source")
	assert.True(t, ok)
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
	_, _, ok = ct.Input().InputSize("missing")
	assert.False(t, ok)
	_, known := ct.Input().UniformMap().TextureUnit("missing")
	assert.False(t, known)

	dev.Reset()
	ct.Compute()
	assert.Equal(t, 1, dev.Count("Clear true true"))
	assert.Contains(t, dev.Calls, "Viewport 0 0 32 16")
	assert.Equal(t, 1, dev.Count("DrawArrays 4 0 6"))
	// weights has no texture yet and is skipped.
	assert.Equal(t, []string{fmt.Sprintf("BindTexture %d", src.Handle()), "BindTexture 0"}, dev.Filter("BindTexture "))

	ct.Destroy()
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Framebuffers)
	assert.Equal(t, 1, dev.Count("DeleteVertexArray"))
}

func TestComputeTextureIgnoresNilInputs(t *testing.T) {
	dev := graphicstest.New()
	ct, err := NewComputeTexture(dev, []string{"source", "weights"}, []string{"blurred"}, blurShader)
	require.NoError(t, err)
	defer ct.Destroy()

	src, _ := texture.New(dev, texture.Vec4, 32, 16, nil)
	ct.SetInput(src, "source")

	var missing *texture.Texture2D
	assert.NotPanics(t, func() { ct.SetInput(missing, "source") })
	assert.NotPanics(t, func() { ct.SetInput(nil, "weights") })

	w, h, _ := ct.Input().InputSize("source")
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
	_, h, _ = ct.Input().InputSize("weights")
	assert.Equal(t, 0, h)
}

func TestComputeTextureCompileError(t *testing.T) {
	dev := graphicstest.New()
	dev.FailCompile = "blurred"
	_, err := NewComputeTexture(dev, []string{"source"}, []string{"blurred"}, blurShader)
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Framebuffers)
}

func TestScreenFillingSquare(t *testing.T) {
	dev := graphicstest.New()
	sq, err := NewScreenFillingSquare(dev, shader.NormalsFragmentShader)
	require.NoError(t, err)

	assert.Equal(t, shader.ScreenVertexShader, sq.GetVertexShaderCode())
	assert.Equal(t, shader.NormalsFragmentShader, sq.GetFragmentShaderCode())
	assert.Empty(t, sq.GetGeometryShaderCode())

	dev.Reset()
	sq.Render(nil)
	assert.Equal(t, []string{
		fmt.Sprintf("BindVertexArray %d", sq.quadVAO),
		fmt.Sprintf("DrawArrays %d 0 6 (program 0)", graphics.Triangles),
		"BindVertexArray 0",
	}, dev.Calls)
}
