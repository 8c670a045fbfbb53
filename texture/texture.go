// Package texture provides the 2D texture kinds used as shader inputs and
// render targets.
package texture

import (
	"errors"
	"fmt"

	"github.com/richinsley/tinydraw/graphics"
)

var ErrAllocation = errors.New("texture allocation failed")

// Texture is anything that can be sampled or rendered into.
type Texture interface {
	Width() int
	Height() int
	// Handle returns the native texture name.
	Handle() uint32
	Target() graphics.TextureTarget
}

// Kind selects the storage of a Texture2D.
type Kind int

const (
	RGBA8 Kind = iota // 8-bit normalized color
	Float             // single 32-bit float channel
	Vec4              // four 32-bit float channels
	Depth             // 32-bit float depth
)

func (k Kind) String() string {
	switch k {
	case RGBA8:
		return "rgba8"
	case Float:
		return "float"
	case Vec4:
		return "vec4"
	case Depth:
		return "depth"
	}
	return "unknown"
}

func (k Kind) format() graphics.TextureFormat {
	switch k {
	case Float:
		return graphics.FormatR32F
	case Vec4:
		return graphics.FormatRGBA32F
	case Depth:
		return graphics.FormatDepth32F
	default:
		return graphics.FormatRGBA8
	}
}

// BytesPerPixel is the size of one texel of pixel data passed to New.
func (k Kind) BytesPerPixel() int {
	switch k {
	case Float, Depth:
		return 4
	case Vec4:
		return 16
	default:
		return 4
	}
}

// Texture2D is a GPU-resident 2D texture.
type Texture2D struct {
	dev    graphics.Device
	kind   Kind
	handle uint32
	width  int
	height int
}

var _ Texture = (*Texture2D)(nil)

// New allocates a texture of the given kind. pixels may be nil to leave the
// contents undefined, as for render targets.
func New(dev graphics.Device, kind Kind, width, height int, pixels []byte) (*Texture2D, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocation, width, height)
	}
	if pixels != nil && len(pixels) != width*height*kind.BytesPerPixel() {
		return nil, fmt.Errorf("%w: %s texture %dx%d needs %d bytes, got %d",
			ErrAllocation, kind, width, height, width*height*kind.BytesPerPixel(), len(pixels))
	}
	h, err := dev.CreateTexture2D(kind.format(), width, height, pixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	return &Texture2D{dev: dev, kind: kind, handle: h, width: width, height: height}, nil
}

func (t *Texture2D) Kind() Kind                     { return t.kind }
func (t *Texture2D) Target() graphics.TextureTarget { return graphics.Texture2D }

// Width, Height and Handle are zero for a nil texture.

func (t *Texture2D) Width() int {
	if t == nil {
		return 0
	}
	return t.width
}

func (t *Texture2D) Height() int {
	if t == nil {
		return 0
	}
	return t.height
}

func (t *Texture2D) Handle() uint32 {
	if t == nil {
		return 0
	}
	return t.handle
}

// Valid reports whether t refers to a live texture. Nil interfaces, nil
// pointers and destroyed textures are not valid.
func Valid(t Texture) bool {
	return t != nil && t.Handle() != 0
}

func (t *Texture2D) Destroy() {
	if t.handle != 0 {
		t.dev.DeleteTexture(t.handle)
		t.handle = 0
	}
}
