package shader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderCompileError(t *testing.T) {
	dev := graphicstest.New()
	dev.FailCompile = "oops"

	s, err := NewShader(dev, graphics.FragmentStage)
	require.NoError(t, err)
	err = s.Compile("void main() { oops }")
	assert.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "fragment")

	s.Destroy()
	s.Destroy()
	assert.Equal(t, 1, dev.Count("DeleteShader"))
}

func TestProgramLinkError(t *testing.T) {
	dev := graphicstest.New()
	dev.FailLink = true
	p, err := NewProgram(dev)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Link(), ErrLink)
}

func TestUniformLocationsAreCached(t *testing.T) {
	dev := graphicstest.New()
	p, err := NewProgram(dev)
	require.NoError(t, err)

	p.SetFloat("time", 1)
	p.SetFloat("time", 2)
	p.SetVec3("position", mgl32.Vec3{1, 2, 3})
	assert.Equal(t, 2, dev.Count("UniformLocation"))
	assert.Equal(t, float32(2), dev.Uniforms["time"])

	require.NoError(t, p.Link())
	p.SetFloat("time", 3)
	assert.Equal(t, 3, dev.Count("UniformLocation"))
}

func TestMappedNames(t *testing.T) {
	dev := graphicstest.New()
	p, _ := NewProgram(dev)
	p.AddNames(map[string]string{"colour": "_ucolour"})

	assert.Equal(t, "_ucolour", p.MappedName("colour"))
	assert.Equal(t, "normal", p.MappedName("normal"))

	p.BindFragDataLocation(2, "colour")
	assert.Equal(t, uint32(2), dev.FragData[p.Handle()]["_ucolour"])
}
