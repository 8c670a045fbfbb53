// Package renderer draws a set of Renderables into a framebuffer with
// multiple render targets, sharing compiled shader programs between
// renderables whose shader sources are identical.
package renderer

import (
	"fmt"
	"log"
	"slices"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/texture"
	"github.com/richinsley/tinydraw/uniform"
)

// boundRenderable is a registered renderable with its draw state.
type boundRenderable struct {
	renderable           Renderable
	shaderProgramHash    programHash
	readFromDepthTexture bool
	writeToDepthTexture  bool
	blendMode            BlendMode
	cullMode             CullMode
}

// Renderer owns a framebuffer, its render targets and the programs of every
// registered renderable. A Renderer must only be used from the thread owning
// the graphics context, and must not be copied.
type Renderer struct {
	dev  graphics.Device
	opts Options

	frameBufferIndex     uint32
	renderTargetNames    []string
	renderTargetTextures []texture.Texture
	depthTargetTexture   texture.Texture
	drawBuffers          []graphics.Attachment
	viewportWidth        int
	viewportHeight       int

	uniformMap *uniform.Map

	renderables       map[uint32]*boundRenderable
	renderableIndices []uint32 // ascending
	shaderPrograms    map[programHash]*boundProgram

	programSwitches int
}

// New returns a Renderer that draws to the default framebuffer until a
// render target texture is set.
func New(dev graphics.Device, opts ...Option) *Renderer {
	r := &Renderer{
		dev:            dev,
		uniformMap:     uniform.NewMap(dev),
		renderables:    make(map[uint32]*boundRenderable),
		shaderPrograms: make(map[programHash]*boundProgram),
	}
	for _, o := range opts {
		o(&r.opts)
	}
	return r
}

// UniformMap returns the uniforms shared by every renderable. Its samplers
// occupy the first texture units.
func (r *Renderer) UniformMap() *uniform.Map { return r.uniformMap }

// SetViewportSize sets the viewport used by Render. Non-positive sizes leave
// the current viewport untouched.
func (r *Renderer) SetViewportSize(width, height int) {
	r.viewportWidth, r.viewportHeight = width, height
}

// AddRenderable registers renderable under index, compiling its program
// unless a program with identical shader sources is already cached.
func (r *Renderer) AddRenderable(index uint32, renderable Renderable, readDepth, writeDepth bool, blendMode BlendMode, cullMode CullMode) error {
	if renderable == nil {
		return fmt.Errorf("renderable %d is nil", index)
	}
	if _, exists := r.renderables[index]; exists {
		log.Printf("A renderable with index %d has already been added to the renderer!", index)
		return fmt.Errorf("%w: %d", ErrDuplicateRenderable, index)
	}

	candidate := newBoundProgram(r.dev, r.opts.Translator,
		renderable.GetVertexShaderCode(), renderable.GetGeometryShaderCode(), renderable.GetFragmentShaderCode())

	// Freeze sampler units so texture uniforms keep their slots from now on.
	r.uniformMap.LockTextures()
	renderable.UniformMap().LockTextures()

	program, ok := r.shaderPrograms[candidate.hash]
	if !ok {
		if err := r.buildProgram(candidate, renderable); err != nil {
			candidate.destroy()
			return fmt.Errorf("renderable %d: %w", index, err)
		}
		program = candidate
		r.shaderPrograms[program.hash] = program
	}

	program.addRenderableIndex(index)
	r.renderables[index] = &boundRenderable{
		renderable:           renderable,
		shaderProgramHash:    program.hash,
		readFromDepthTexture: readDepth,
		writeToDepthTexture:  writeDepth,
		blendMode:            blendMode,
		cullMode:             cullMode,
	}
	pos, _ := slices.BinarySearch(r.renderableIndices, index)
	r.renderableIndices = slices.Insert(r.renderableIndices, pos, index)
	return nil
}

// buildProgram compiles and links bp against this renderer's render targets
// and uploads the initial uniforms.
func (r *Renderer) buildProgram(bp *boundProgram, renderable Renderable) error {
	if err := bp.compile(); err != nil {
		return err
	}

	for i, name := range r.renderTargetNames {
		if r.opts.Debug {
			log.Printf("Bound '%s' to colour number %d for program %d.", name, i, bp.program.Handle())
		}
		bp.bindRenderTarget(i, name)
	}

	if err := bp.link(); err != nil {
		return err
	}

	bp.bind()
	bp.setUniformsAndTextures(r.uniformMap, 0)
	bp.setUniformsAndTextures(renderable.UniformMap(), r.uniformMap.NrTextures())
	bp.unbind()

	if r.opts.Debug {
		if err := bp.validate(); err != nil {
			log.Printf("Unable to validate program: %v", err)
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

// FreeRenderable unregisters index and destroys its program when no other
// renderable uses it. It reports whether index was registered.
func (r *Renderer) FreeRenderable(index uint32) bool {
	br, ok := r.renderables[index]
	if !ok {
		log.Printf("Unable to find renderable with index %d!", index)
		return false
	}

	program, ok := r.shaderPrograms[br.shaderProgramHash]
	if !ok {
		panic(fmt.Sprintf("renderer: renderable %d refers to missing program %s", index, br.shaderProgramHash))
	}
	program.freeRenderableIndex(index)
	if program.numRenderables() == 0 {
		program.destroy()
		delete(r.shaderPrograms, program.hash)
	}

	delete(r.renderables, index)
	if pos, found := slices.BinarySearch(r.renderableIndices, index); found {
		r.renderableIndices = slices.Delete(r.renderableIndices, pos, pos+1)
	}
	return true
}

// NumRenderables returns the number of registered renderables.
func (r *Renderer) NumRenderables() int { return len(r.renderables) }

// NumPrograms returns the number of compiled programs in the cache.
func (r *Renderer) NumPrograms() int { return len(r.shaderPrograms) }

// ProgramSwitches returns how many times the last Render bound a program.
func (r *Renderer) ProgramSwitches() int { return r.programSwitches }

// ClearTargets clears color and depth of every render target.
func (r *Renderer) ClearTargets() {
	r.dev.BindFramebuffer(r.frameBufferIndex)
	r.dev.DepthMask(true)
	r.dev.Clear(true, true)
	r.dev.BindFramebuffer(0)
}

// Render draws every renderable in ascending index order. A program is only
// bound when it differs from the one used by the previous renderable, so
// renderables sharing shaders should be given consecutive indices.
func (r *Renderer) Render() {
	r.dev.BindFramebuffer(r.frameBufferIndex)
	if r.viewportWidth > 0 && r.viewportHeight > 0 {
		r.dev.Viewport(0, 0, r.viewportWidth, r.viewportHeight)
	}

	var (
		program  *boundProgram
		switches int
	)
	globalTextures := r.uniformMap.NrTextures()
	r.uniformMap.BindTextures(0)

	for _, index := range r.renderableIndices {
		br := r.renderables[index]
		r.applyDrawState(br)

		if program == nil || br.shaderProgramHash != program.hash {
			next, ok := r.shaderPrograms[br.shaderProgramHash]
			if !ok {
				panic(fmt.Sprintf("renderer: renderable %d refers to missing program %s", index, br.shaderProgramHash))
			}
			program = next
			switches++
			program.bind()
			program.setUniforms(r.uniformMap)
		}

		uniforms := br.renderable.UniformMap()
		program.setUniforms(uniforms)
		uniforms.BindTextures(globalTextures)
		br.renderable.Bind()
		br.renderable.Render(program.program)
		br.renderable.Unbind()
		uniforms.UnbindTextures(globalTextures)
	}

	r.dev.UseProgram(0)
	r.uniformMap.UnbindTextures(0)
	r.dev.BindFramebuffer(0)

	r.programSwitches = switches
	if r.opts.Debug {
		log.Printf("Switched shaders %d times for %d renderables.", switches, len(r.renderableIndices))
	}
}

func (r *Renderer) applyDrawState(br *boundRenderable) {
	if br.readFromDepthTexture {
		r.dev.Enable(graphics.DepthTest)
	} else {
		r.dev.Disable(graphics.DepthTest)
	}
	r.dev.DepthMask(br.writeToDepthTexture)

	switch br.blendMode {
	case BlendReplace:
		r.dev.Disable(graphics.Blend)
	case BlendAdd:
		r.dev.Enable(graphics.Blend)
		r.dev.BlendFunc(graphics.SrcAlpha, graphics.One)
	case BlendMix:
		r.dev.Enable(graphics.Blend)
		r.dev.BlendFunc(graphics.SrcAlpha, graphics.OneMinusSrcAlpha)
	}

	switch br.cullMode {
	case CullNothing:
		r.dev.Disable(graphics.CullFace)
	case CullFront:
		r.dev.Enable(graphics.CullFace)
		r.dev.CullFace(graphics.Front)
	case CullBack:
		r.dev.Enable(graphics.CullFace)
		r.dev.CullFace(graphics.Back)
	}
}

// Destroy releases every program and the framebuffer. Registered
// renderables are forgotten but not destroyed.
func (r *Renderer) Destroy() {
	for _, program := range r.shaderPrograms {
		program.destroy()
	}
	clear(r.shaderPrograms)
	clear(r.renderables)
	r.renderableIndices = nil
	r.destroyFrameBuffer()
}
