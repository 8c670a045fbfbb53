package renderer

import "errors"

var (
	ErrDuplicateRenderable   = errors.New("renderable index already in use")
	ErrUnknownRenderTarget   = errors.New("unknown render target")
	ErrFramebufferIncomplete = errors.New("framebuffer is incomplete")
	ErrValidation            = errors.New("program validation failed")
)
