package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/richinsley/tinydraw/graphics"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// vflip flips src vertically in place. OpenGL expects the bottom row first.
func vflip(src *image.RGBA) {
	height := src.Bounds().Dy()
	rowSize := src.Bounds().Dx() * 4
	tmp := make([]byte, rowSize)
	for y := 0; y < height/2; y++ {
		top := src.Pix[y*src.Stride : y*src.Stride+rowSize]
		bottom := src.Pix[(height-1-y)*src.Stride : (height-1-y)*src.Stride+rowSize]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// toRGBA converts img to tightly packed RGBA, scaling it to width x height
// when both are positive and differ from the image size.
func toRGBA(img image.Image, width, height int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 || height <= 0 {
		width, height = b.Dx(), b.Dy()
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == b.Dx() && height == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}
	return rgba
}

// FromImage uploads img as an RGBA8 texture. width and height select the
// texture size; zero keeps the image size. The rows are flipped so that
// texture coordinate (0, 0) is the bottom left of the image.
func FromImage(dev graphics.Device, img image.Image, width, height int) (*Texture2D, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrAllocation)
	}
	rgba := toRGBA(img, width, height)
	vflip(rgba)
	return New(dev, RGBA8, rgba.Rect.Dx(), rgba.Rect.Dy(), rgba.Pix)
}

// LoadFile decodes a PNG, JPEG, BMP or WebP file and uploads it with
// FromImage.
func LoadFile(dev graphics.Device, path string, width, height int) (*Texture2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	t, err := FromImage(dev, img, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s image %s: %w", format, path, err)
	}
	return t, nil
}
