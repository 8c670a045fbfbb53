package renderer

import (
	"fmt"
	"log"
	"slices"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/texture"
)

// AddRenderTarget declares a color output. Its attachment slot is its
// declaration order. Programs compiled afterwards bind the fragment output
// with the same name to that slot, so targets should be declared before
// renderables are added.
func (r *Renderer) AddRenderTarget(name string) {
	if slices.Contains(r.renderTargetNames, name) {
		log.Printf("Warning: render target '%s' has already been added!", name)
		return
	}
	r.renderTargetNames = append(r.renderTargetNames, name)
	r.renderTargetTextures = append(r.renderTargetTextures, nil)

	if maxBuffers := r.dev.MaxDrawBuffers(); len(r.renderTargetNames) > maxBuffers {
		log.Printf("Warning: %d render targets exceed the maximum of %d draw buffers!", len(r.renderTargetNames), maxBuffers)
	}
}

// RenderTargetSlot returns the attachment slot of a declared target.
func (r *Renderer) RenderTargetSlot(name string) (int, bool) {
	i := slices.Index(r.renderTargetNames, name)
	return i, i >= 0
}

// RenderTargetNames returns the declared targets in slot order.
func (r *Renderer) RenderTargetNames() []string {
	return slices.Clone(r.renderTargetNames)
}

// SetTextureTarget makes t the output of the target called name and adopts
// its size as the viewport. A nil or destroyed texture unbinds the target.
func (r *Renderer) SetTextureTarget(t texture.Texture, name string) error {
	i, ok := r.RenderTargetSlot(name)
	if !ok {
		log.Printf("Warning: render target '%s' does not exist!", name)
		return fmt.Errorf("%w: %s", ErrUnknownRenderTarget, name)
	}
	if !texture.Valid(t) {
		// Leaves the slot without an attachment.
		t = nil
	}
	r.renderTargetTextures[i] = t
	if t != nil {
		r.SetViewportSize(t.Width(), t.Height())
	}
	return r.UpdateRenderTargets()
}

// SetDepthTextureTarget makes t the depth attachment. A nil or destroyed
// texture removes it.
func (r *Renderer) SetDepthTextureTarget(t texture.Texture) error {
	if !texture.Valid(t) {
		t = nil
	}
	r.depthTargetTexture = t
	if t != nil {
		r.SetViewportSize(t.Width(), t.Height())
	}
	return r.UpdateRenderTargets()
}

// DrawBuffers returns the attachments written by the last UpdateRenderTargets.
func (r *Renderer) DrawBuffers() []graphics.Attachment {
	return slices.Clone(r.drawBuffers)
}

// UpdateRenderTargets attaches every target texture to the framebuffer,
// creating it on first use. Targets without a texture are detached and left
// out of the draw-buffer list but keep their slot.
func (r *Renderer) UpdateRenderTargets() error {
	if err := r.createFrameBuffer(); err != nil {
		return err
	}

	drawBuffers := make([]graphics.Attachment, 0, len(r.renderTargetTextures))

	r.dev.BindFramebuffer(r.frameBufferIndex)
	defer r.dev.BindFramebuffer(0)

	for i, t := range r.renderTargetTextures {
		if t == nil {
			r.dev.FramebufferTexture2D(graphics.ColorAttachment(i), 0)
			continue
		}
		r.dev.FramebufferTexture2D(graphics.ColorAttachment(i), t.Handle())
		drawBuffers = append(drawBuffers, graphics.ColorAttachment(i))
	}
	r.dev.DrawBuffers(drawBuffers)
	r.drawBuffers = drawBuffers

	var depth uint32
	if r.depthTargetTexture != nil {
		depth = r.depthTargetTexture.Handle()
	}
	r.dev.FramebufferTexture2D(graphics.DepthAttachment, depth)

	if r.opts.Debug {
		if err := r.dev.CheckFramebufferStatus(); err != nil {
			log.Printf("Warning: frame buffer %d is incomplete: %v", r.frameBufferIndex, err)
			return fmt.Errorf("%w: framebuffer %d: %v", ErrFramebufferIncomplete, r.frameBufferIndex, err)
		}
	}
	return nil
}

func (r *Renderer) createFrameBuffer() error {
	if r.frameBufferIndex != 0 {
		return nil
	}
	fbo, err := r.dev.CreateFramebuffer()
	if err != nil {
		return fmt.Errorf("failed to create framebuffer: %w", err)
	}
	r.frameBufferIndex = fbo
	return nil
}

func (r *Renderer) destroyFrameBuffer() {
	r.renderTargetNames = nil
	r.renderTargetTextures = nil
	r.depthTargetTexture = nil
	r.drawBuffers = nil

	if r.frameBufferIndex != 0 {
		r.dev.DeleteFramebuffer(r.frameBufferIndex)
	}
	r.frameBufferIndex = 0
}
