package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/tinydraw/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRowImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 255, 255})
	return img
}

func TestVFlip(t *testing.T) {
	img := twoRowImage()
	vflip(img)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(1, 1))
}

func TestToRGBAScales(t *testing.T) {
	img := twoRowImage()

	same := toRGBA(img, 0, 0)
	assert.Equal(t, img.Pix, same.Pix)

	scaled := toRGBA(img, 4, 6)
	assert.Equal(t, 4, scaled.Rect.Dx())
	assert.Equal(t, 6, scaled.Rect.Dy())
	assert.Len(t, scaled.Pix, 4*6*4)
}

func TestFromImage(t *testing.T) {
	dev := graphicstest.New()

	tex, err := FromImage(dev, twoRowImage(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, RGBA8, tex.Kind())
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 2, tex.Height())

	_, err = FromImage(dev, nil, 0, 0)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestLoadFile(t *testing.T) {
	dev := graphicstest.New()
	path := filepath.Join(t.TempDir(), "image.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, twoRowImage()))
	require.NoError(t, f.Close())

	tex, err := LoadFile(dev, path, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 8, tex.Height())

	_, err = LoadFile(dev, filepath.Join(t.TempDir(), "missing.png"), 0, 0)
	assert.Error(t, err)
}
