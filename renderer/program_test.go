package renderer

import (
	"testing"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/richinsley/tinydraw/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSourcesIsContentAddressed(t *testing.T) {
	assert.Equal(t, hashSources("v", "", "f"), hashSources("v", "", "f"))
	assert.NotEqual(t, hashSources("v", "", "f"), hashSources("v", "", "g"))
	assert.NotEqual(t, hashSources("v", "g", "f"), hashSources("v", "", "f"))
	assert.NotEqual(t, hashSources("vertex x", "", "fragment x"), hashSources("vertex", " x", "fragment x"))
	assert.NotEqual(t, hashSources("ab", "", "c"), hashSources("a", "", "bc"))
}

func TestBoundProgramUsageSet(t *testing.T) {
	bp := newBoundProgram(graphicstest.New(), nil, "v", "", "f")

	bp.addRenderableIndex(1)
	bp.addRenderableIndex(2)
	assert.Equal(t, 2, bp.numRenderables())

	assert.Panics(t, func() { bp.addRenderableIndex(1) })
	assert.Equal(t, 2, bp.numRenderables())

	bp.freeRenderableIndex(9)
	assert.Equal(t, 2, bp.numRenderables())

	bp.freeRenderableIndex(1)
	bp.freeRenderableIndex(1)
	assert.Equal(t, 1, bp.numRenderables())
}

func TestBoundProgramRecompileDiscardsPrevious(t *testing.T) {
	dev := graphicstest.New()
	bp := newBoundProgram(dev, nil, "v", "g", "f")

	require.NoError(t, bp.compile())
	first := bp.program.Handle()
	require.Len(t, dev.Shaders, 3)

	require.NoError(t, bp.compile())
	assert.NotEqual(t, first, bp.program.Handle())
	assert.False(t, dev.Programs[first])
	assert.Len(t, dev.Shaders, 3)
	assert.Len(t, dev.Programs, 1)

	bp.destroy()
	assert.Empty(t, dev.Shaders)
	assert.Empty(t, dev.Programs)
}

func TestBoundProgramRequiresCompile(t *testing.T) {
	bp := newBoundProgram(graphicstest.New(), nil, "v", "", "f")
	assert.Panics(t, func() { bp.bind() })
	assert.Error(t, bp.validate())
}

type renamingTranslator struct {
	stages []graphics.ShaderStage
}

func (r *renamingTranslator) Translate(stage graphics.ShaderStage, source string) (*shader.Translation, error) {
	r.stages = append(r.stages, stage)
	return &shader.Translation{
		Code:  "translated " + source,
		Names: map[string]string{"colour": "_ucolour", "scale": "_uscale"},
	}, nil
}

func TestBoundProgramTranslatesStages(t *testing.T) {
	dev := graphicstest.New()
	tr := &renamingTranslator{}
	r := New(dev, WithTranslator(tr))
	r.AddRenderTarget("colour")

	rd := newTestRenderable(dev, "", "a", nil)
	rd.UniformMap().SetFloat("scale", 3)
	require.NoError(t, r.AddRenderable(1, rd, false, false, BlendReplace, CullNothing))

	assert.Equal(t, []graphics.ShaderStage{graphics.VertexStage, graphics.FragmentStage}, tr.stages)
	handle := r.shaderPrograms[r.renderables[1].shaderProgramHash].program.Handle()
	assert.Equal(t, map[string]uint32{"_ucolour": 0}, dev.FragData[handle])
	assert.Equal(t, float32(3), dev.Uniforms["_uscale"])
}
