package texture

import (
	"testing"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTexture(t *testing.T) {
	dev := graphicstest.New()

	tex, err := New(dev, Vec4, 4, 2, make([]byte, 4*2*16))
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width())
	assert.Equal(t, 2, tex.Height())
	assert.Equal(t, Vec4, tex.Kind())
	assert.Equal(t, graphics.Texture2D, tex.Target())
	assert.True(t, dev.Textures[tex.Handle()])

	tex.Destroy()
	assert.Empty(t, dev.Textures)
}

func TestNewTextureRejectsBadInput(t *testing.T) {
	dev := graphicstest.New()

	_, err := New(dev, RGBA8, 0, 4, nil)
	assert.ErrorIs(t, err, ErrAllocation)

	_, err = New(dev, Float, 2, 2, make([]byte, 3))
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Empty(t, dev.Textures)
}

func TestPingPong(t *testing.T) {
	dev := graphicstest.New()
	p, err := NewPingPong(dev, Float, 8, 8)
	require.NoError(t, err)

	read, write := p.Read(), p.Write()
	assert.NotEqual(t, read.Handle(), write.Handle())

	p.Swap()
	assert.Same(t, write, p.Read())
	assert.Same(t, read, p.Write())

	p.Destroy()
	assert.Empty(t, dev.Textures)
}

func TestValid(t *testing.T) {
	dev := graphicstest.New()
	tex, err := New(dev, RGBA8, 2, 2, nil)
	require.NoError(t, err)
	assert.True(t, Valid(tex))

	var missing *Texture2D
	assert.False(t, Valid(missing))
	assert.False(t, Valid(nil))
	assert.Equal(t, 0, missing.Width())

	tex.Destroy()
	assert.False(t, Valid(tex))
}
