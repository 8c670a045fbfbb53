// Package graphicstest provides a recording graphics.Device for tests that
// run without a GPU.
package graphicstest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
)

// Device hands out sequential handles and records every command it receives.
type Device struct {
	// FailCompile makes CompileShader fail for sources containing it.
	FailCompile string
	FailLink    bool
	// FailValidate makes ValidateProgram fail.
	FailValidate bool
	// Incomplete makes CheckFramebufferStatus report an incomplete framebuffer.
	Incomplete bool
	// MaxBuffers is returned by MaxDrawBuffers; zero means 8.
	MaxBuffers int

	Calls []string

	// Live objects by handle.
	Shaders      map[uint32]graphics.ShaderStage
	Programs     map[uint32]bool
	Framebuffers map[uint32]bool
	Textures     map[uint32]bool

	// Attached maps a program to the shaders attached to it.
	Attached map[uint32][]uint32
	// FragData maps a program to its fragment output bindings.
	FragData map[uint32]map[string]uint32
	// Attachments of the bound framebuffer by attachment point.
	Attachments map[graphics.Attachment]uint32
	// LastDrawBuffers is the argument of the last DrawBuffers call.
	LastDrawBuffers []graphics.Attachment
	// Uniforms records the last value set per location name.
	Uniforms map[string]any

	next      uint32
	current   uint32
	locations map[int32]string
}

var _ graphics.Device = (*Device)(nil)

// New returns an empty device.
func New() *Device {
	return &Device{
		Shaders:      make(map[uint32]graphics.ShaderStage),
		Programs:     make(map[uint32]bool),
		Framebuffers: make(map[uint32]bool),
		Textures:     make(map[uint32]bool),
		Attached:     make(map[uint32][]uint32),
		FragData:     make(map[uint32]map[string]uint32),
		Attachments:  make(map[graphics.Attachment]uint32),
		Uniforms:     make(map[string]any),
		locations:    make(map[int32]string),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// Count returns how many recorded calls start with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls starting with prefix, in order.
func (d *Device) Filter(prefix string) []string {
	var out []string
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps live objects.
func (d *Device) Reset() {
	d.Calls = nil
}

func (d *Device) CreateShader(stage graphics.ShaderStage) (uint32, error) {
	h := d.handle()
	d.Shaders[h] = stage
	d.record("CreateShader %s %d", stage, h)
	return h, nil
}

func (d *Device) CompileShader(shader uint32, source string) error {
	d.record("CompileShader %d", shader)
	if d.FailCompile != "" && strings.Contains(source, d.FailCompile) {
		return errors.New("syntax error")
	}
	return nil
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader %d", shader)
	delete(d.Shaders, shader)
}

func (d *Device) CreateProgram() (uint32, error) {
	h := d.handle()
	d.Programs[h] = true
	d.record("CreateProgram %d", h)
	return h, nil
}

func (d *Device) AttachShader(program, shader uint32) {
	d.record("AttachShader %d %d", program, shader)
	d.Attached[program] = append(d.Attached[program], shader)
}

func (d *Device) BindFragDataLocation(program, slot uint32, name string) {
	d.record("BindFragDataLocation %d %d %s", program, slot, name)
	if d.FragData[program] == nil {
		d.FragData[program] = make(map[string]uint32)
	}
	d.FragData[program][name] = slot
}

func (d *Device) LinkProgram(program uint32) error {
	d.record("LinkProgram %d", program)
	if d.FailLink {
		return errors.New("link error")
	}
	return nil
}

func (d *Device) ValidateProgram(program uint32) error {
	d.record("ValidateProgram %d", program)
	if d.FailValidate {
		return errors.New("validation error")
	}
	return nil
}

func (d *Device) UseProgram(program uint32) {
	d.current = program
	d.record("UseProgram %d", program)
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram %d", program)
	delete(d.Programs, program)
	delete(d.Attached, program)
}

// UniformLocation hands out a new location for every (program, name) pair.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	loc := int32(d.handle())
	d.locations[loc] = name
	d.record("UniformLocation %d %s", program, name)
	return loc
}

func (d *Device) setUniform(location int32, v any) {
	name := d.locations[location]
	d.Uniforms[name] = v
	d.record("Uniform %s %v", name, v)
}

func (d *Device) Uniform1i(location int32, v int32)          { d.setUniform(location, v) }
func (d *Device) Uniform1f(location int32, v float32)        { d.setUniform(location, v) }
func (d *Device) Uniform2f(location int32, v mgl32.Vec2)     { d.setUniform(location, v) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3)     { d.setUniform(location, v) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4)     { d.setUniform(location, v) }
func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) { d.setUniform(location, m) }

func (d *Device) CreateTexture2D(format graphics.TextureFormat, width, height int, pixels []byte) (uint32, error) {
	h := d.handle()
	d.Textures[h] = true
	d.record("CreateTexture2D %d %dx%d", h, width, height)
	return h, nil
}

func (d *Device) DeleteTexture(texture uint32) {
	d.record("DeleteTexture %d", texture)
	delete(d.Textures, texture)
}

func (d *Device) ActiveTexture(unit int) { d.record("ActiveTexture %d", unit) }

func (d *Device) BindTexture(target graphics.TextureTarget, texture uint32) {
	d.record("BindTexture %d", texture)
}

func (d *Device) CreateFramebuffer() (uint32, error) {
	h := d.handle()
	d.Framebuffers[h] = true
	d.record("CreateFramebuffer %d", h)
	return h, nil
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	d.record("DeleteFramebuffer %d", fbo)
	delete(d.Framebuffers, fbo)
}

func (d *Device) BindFramebuffer(fbo uint32) { d.record("BindFramebuffer %d", fbo) }

func (d *Device) FramebufferTexture2D(attachment graphics.Attachment, texture uint32) {
	d.record("FramebufferTexture2D 0x%x %d", uint32(attachment), texture)
	d.Attachments[attachment] = texture
}

func (d *Device) DrawBuffers(attachments []graphics.Attachment) {
	d.LastDrawBuffers = append([]graphics.Attachment(nil), attachments...)
	d.record("DrawBuffers %v", attachments)
}

func (d *Device) CheckFramebufferStatus() error {
	d.record("CheckFramebufferStatus")
	if d.Incomplete {
		return errors.New("missing attachment")
	}
	return nil
}

func (d *Device) MaxDrawBuffers() int {
	if d.MaxBuffers == 0 {
		return 8
	}
	return d.MaxBuffers
}

func (d *Device) ReadPixels(x, y, width, height int) []byte {
	d.record("ReadPixels %d %d %d %d", x, y, width, height)
	return make([]byte, width*height*4)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport %d %d %d %d", x, y, width, height)
}

func (d *Device) Enable(c graphics.Capability)  { d.record("Enable 0x%x", uint32(c)) }
func (d *Device) Disable(c graphics.Capability) { d.record("Disable 0x%x", uint32(c)) }
func (d *Device) DepthMask(write bool)          { d.record("DepthMask %t", write) }

func (d *Device) BlendFunc(src, dst graphics.BlendFactor) {
	d.record("BlendFunc 0x%x 0x%x", uint32(src), uint32(dst))
}

func (d *Device) CullFace(face graphics.Face) { d.record("CullFace 0x%x", uint32(face)) }

func (d *Device) Clear(color, depth bool) { d.record("Clear %t %t", color, depth) }

func (d *Device) CreateVertexArray(vertices []float32, components int) (uint32, error) {
	h := d.handle()
	d.record("CreateVertexArray %d %d", h, len(vertices)/components)
	return h, nil
}

func (d *Device) DeleteVertexArray(vao uint32) { d.record("DeleteVertexArray %d", vao) }
func (d *Device) BindVertexArray(vao uint32)   { d.record("BindVertexArray %d", vao) }

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	d.record("DrawArrays %d %d %d (program %d)", uint32(mode), first, count, d.current)
}

func (d *Device) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int) {
	d.record("DrawArraysInstanced %d %d %d %d (program %d)", uint32(mode), first, count, instances, d.current)
}
