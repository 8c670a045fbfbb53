package uniform

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUniformsInProgram(t *testing.T) {
	dev := graphicstest.New()
	p, err := shader.NewProgram(dev)
	require.NoError(t, err)

	m := NewMap(dev)
	m.SetInt("count", 3)
	m.SetFloat("time", 1.5)
	m.SetVec2("inverseScreenSize", mgl32.Vec2{0.5, 0.25})
	m.SetVec3("lightDirection", mgl32.Vec3{0, 1, 0})
	m.SetVec4("tint", mgl32.Vec4{1, 0, 0, 1})
	m.SetMat4("worldToScreen", mgl32.Ident4())
	m.SetFloat("time", 2.5)

	m.SetUniformsInProgram(p)
	assert.Equal(t, int32(3), dev.Uniforms["count"])
	assert.Equal(t, float32(2.5), dev.Uniforms["time"])
	assert.Equal(t, mgl32.Vec2{0.5, 0.25}, dev.Uniforms["inverseScreenSize"])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, dev.Uniforms["lightDirection"])
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, dev.Uniforms["tint"])
	assert.Equal(t, mgl32.Ident4(), dev.Uniforms["worldToScreen"])
	assert.Equal(t, 6, dev.Count("Uniform "))
}

func TestTextureUnitsAndLocking(t *testing.T) {
	dev := graphicstest.New()
	p, _ := shader.NewProgram(dev)
	a, _ := texture.New(dev, texture.RGBA8, 2, 2, nil)
	b, _ := texture.New(dev, texture.Float, 2, 2, nil)

	m := NewMap(dev)
	require.NoError(t, m.SetTexture(a, "diffuseTexture"))
	require.NoError(t, m.DeclareTexture("heightTexture"))
	require.NoError(t, m.DeclareTexture("diffuseTexture"))
	assert.Equal(t, 2, m.NrTextures())

	m.LockTextures()
	assert.ErrorIs(t, m.SetTexture(b, "normalTexture"), ErrTexturesLocked)
	assert.ErrorIs(t, m.DeclareTexture("normalTexture"), ErrTexturesLocked)
	require.NoError(t, m.SetTexture(b, "heightTexture"))
	assert.Equal(t, 2, m.NrTextures())

	unit, ok := m.TextureUnit("heightTexture")
	assert.True(t, ok)
	assert.Equal(t, 1, unit)

	m.SetUniformsAndTexturesInProgram(p, 3)
	assert.Equal(t, int32(3), dev.Uniforms["diffuseTexture"])
	assert.Equal(t, int32(4), dev.Uniforms["heightTexture"])
}

func TestBindTexturesAtOffset(t *testing.T) {
	dev := graphicstest.New()
	a, _ := texture.New(dev, texture.RGBA8, 2, 2, nil)

	m := NewMap(dev)
	require.NoError(t, m.DeclareTexture("unset"))
	require.NoError(t, m.SetTexture(a, "diffuseTexture"))
	dev.Reset()

	m.BindTextures(2)
	assert.Equal(t, []string{"ActiveTexture 3", fmt.Sprintf("BindTexture %d", a.Handle())}, dev.Calls)

	dev.Reset()
	m.UnbindTextures(2)
	assert.Equal(t, []string{"ActiveTexture 3", "BindTexture 0", "ActiveTexture 0"}, dev.Calls)
}
