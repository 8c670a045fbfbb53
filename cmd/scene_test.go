package main

import (
	"testing"

	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/richinsley/tinydraw/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneFrame(t *testing.T) {
	dev := graphicstest.New()
	s, err := newScene(dev, 64, 32, "", "")
	require.NoError(t, err)

	// The floor and three spinner layers share two programs.
	assert.Equal(t, 4, s.world.NumRenderables())
	assert.Equal(t, 2, s.world.NumPrograms())
	assert.Equal(t, []string{"diffuse", "worldNormal"}, s.world.RenderTargetNames())

	for unit, name := range []string{"trailTexture", "edgeTexture", "worldNormalTexture"} {
		got, ok := s.screen.UniformMap().TextureUnit(name)
		assert.True(t, ok, name)
		assert.Equal(t, unit, got, name)
	}

	dev.Reset()
	s.render(0.5, 128, 64)
	assert.Equal(t, 2, s.world.ProgramSwitches())
	assert.Equal(t, 3, dev.Count("DrawArraysInstanced 4 0 6 64"))
	assert.Contains(t, dev.Calls, "Viewport 0 0 64 32")
	assert.Contains(t, dev.Calls, "Viewport 0 0 128 64")

	// The composite samples the trail written this frame.
	first := s.trails.Read()
	s.render(0.6, 128, 64)
	assert.NotSame(t, first, s.trails.Read())

	s.destroy()
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Framebuffers)
}

func TestSceneToggleNormals(t *testing.T) {
	dev := graphicstest.New()
	s, err := newScene(dev, 16, 16, "", "")
	require.NoError(t, err)
	defer s.destroy()

	s.toggleNormals()
	assert.True(t, s.showNormals)
	assert.Equal(t, 1, s.screen.NumRenderables())
	assert.Equal(t, 1, s.screen.NumPrograms())

	s.toggleNormals()
	assert.False(t, s.showNormals)
	assert.Equal(t, 1, s.screen.NumPrograms())
}

func TestSceneEffectOverride(t *testing.T) {
	dev := graphicstest.New()
	s, err := newScene(dev, 16, 16, "", shader.BlitFragmentShader)
	require.NoError(t, err)
	defer s.destroy()

	assert.Equal(t, shader.BlitFragmentShader, s.composite.GetFragmentShaderCode())
}

func TestSceneFailureReleasesResources(t *testing.T) {
	dev := graphicstest.New()
	dev.FailCompile = "out vec4 edges"
	_, err := newScene(dev, 16, 16, "", "")
	require.Error(t, err)

	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Framebuffers)
}

func TestCheckerImage(t *testing.T) {
	img := checkerImage(4, 2)
	assert.NotEqual(t, img.At(0, 0), img.At(2, 0))
	assert.Equal(t, img.At(0, 0), img.At(2, 2))
}
