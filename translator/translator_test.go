package translator

import (
	"testing"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/stretchr/testify/assert"
)

func TestStageName(t *testing.T) {
	name, err := stageName(graphics.VertexStage)
	assert.NoError(t, err)
	assert.Equal(t, "vertex", name)

	name, err = stageName(graphics.FragmentStage)
	assert.NoError(t, err)
	assert.Equal(t, "fragment", name)

	_, err = stageName(graphics.GeometryStage)
	assert.Error(t, err)
}

func TestIsES(t *testing.T) {
	assert.True(t, isES("#version 300 es\nprecision highp float;\n"))
	assert.True(t, isES("\n// effect\n#version 300 es\n"))
	assert.False(t, isES("#version 410 core\n"))
	assert.False(t, isES("void main() {}"))
	assert.False(t, isES(""))
}

func TestDesktopSourcePassesThrough(t *testing.T) {
	tr := &Translator{}
	out, err := tr.Translate(graphics.GeometryStage, "#version 410 core\n")
	assert.NoError(t, err)
	assert.Equal(t, "#version 410 core\n", out.Code)
	assert.Empty(t, out.Names)
}
