// Package gldevice implements graphics.Device on top of OpenGL 4.1 core.
package gldevice

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
)

var glInitOnce sync.Once

// Device issues commands to the OpenGL context current on the calling thread.
type Device struct {
	maxDrawBuffers int
}

var _ graphics.Device = (*Device)(nil)

// New loads the OpenGL bindings. The context must already be current.
func New() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	var maxDrawBuffers int32
	gl.GetIntegerv(gl.MAX_DRAW_BUFFERS, &maxDrawBuffers)
	return &Device{maxDrawBuffers: int(maxDrawBuffers)}, nil
}

func (d *Device) CreateShader(stage graphics.ShaderStage) (uint32, error) {
	shader := gl.CreateShader(uint32(stage))
	if shader == 0 {
		return 0, fmt.Errorf("failed to create %s shader", stage)
	}
	return shader, nil
}

func (d *Device) CompileShader(shader uint32, source string) error {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		return fmt.Errorf("%s", strings.TrimRight(logText, "\x00"))
	}
	return nil
}

func (d *Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (d *Device) CreateProgram() (uint32, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("failed to create program")
	}
	return program, nil
}

func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (d *Device) BindFragDataLocation(program, slot uint32, name string) {
	gl.BindFragDataLocation(program, slot, gl.Str(name+"\x00"))
}

func (d *Device) LinkProgram(program uint32) error {
	gl.LinkProgram(program)
	return programStatus(program, gl.LINK_STATUS)
}

func (d *Device) ValidateProgram(program uint32) error {
	gl.ValidateProgram(program)
	return programStatus(program, gl.VALIDATE_STATUS)
}

func programStatus(program, pname uint32) error {
	var status int32
	gl.GetProgramiv(program, pname, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return nil
}

func (d *Device) UseProgram(program uint32)    { gl.UseProgram(program) }
func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32)       { gl.Uniform1i(location, v) }
func (d *Device) Uniform1f(location int32, v float32)     { gl.Uniform1f(location, v) }
func (d *Device) Uniform2f(location int32, v mgl32.Vec2) { gl.Uniform2f(location, v[0], v[1]) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3) { gl.Uniform3f(location, v[0], v[1], v[2]) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// textureFormat maps a format to (internalFormat, format, type).
func textureFormat(f graphics.TextureFormat) (int32, uint32, uint32) {
	switch f {
	case graphics.FormatR32F:
		return gl.R32F, gl.RED, gl.FLOAT
	case graphics.FormatRGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	case graphics.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func (d *Device) CreateTexture2D(format graphics.TextureFormat, width, height int, pixels []byte) (uint32, error) {
	var texture uint32
	gl.GenTextures(1, &texture)
	if texture == 0 {
		return 0, fmt.Errorf("failed to generate texture")
	}

	internalFormat, pixelFormat, pixelType := textureFormat(format)
	var data = gl.Ptr(nil)
	if len(pixels) > 0 {
		data = gl.Ptr(pixels)
	}

	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, pixelFormat, pixelType, data)

	filter := int32(gl.LINEAR)
	if format == graphics.FormatDepth32F {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texture, nil
}

func (d *Device) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }
func (d *Device) ActiveTexture(unit int)       { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }

func (d *Device) BindTexture(target graphics.TextureTarget, texture uint32) {
	gl.BindTexture(uint32(target), texture)
}

func (d *Device) CreateFramebuffer() (uint32, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	if fbo == 0 {
		return 0, fmt.Errorf("failed to generate framebuffer")
	}
	return fbo, nil
}

func (d *Device) DeleteFramebuffer(fbo uint32) { gl.DeleteFramebuffers(1, &fbo) }
func (d *Device) BindFramebuffer(fbo uint32)   { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (d *Device) FramebufferTexture2D(attachment graphics.Attachment, texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, uint32(attachment), gl.TEXTURE_2D, texture, 0)
}

func (d *Device) DrawBuffers(attachments []graphics.Attachment) {
	if len(attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	buffers := make([]uint32, len(attachments))
	for i, a := range attachments {
		buffers[i] = uint32(a)
	}
	gl.DrawBuffers(int32(len(buffers)), &buffers[0])
}

func (d *Device) CheckFramebufferStatus() error {
	switch status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status {
	case gl.FRAMEBUFFER_COMPLETE:
		return nil
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return fmt.Errorf("incomplete attachment (0x%x)", status)
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return fmt.Errorf("missing attachment (0x%x)", status)
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return fmt.Errorf("unsupported (0x%x)", status)
	default:
		return fmt.Errorf("status 0x%x", status)
	}
}

func (d *Device) MaxDrawBuffers() int { return d.maxDrawBuffers }

// ReadPixels reads RGBA8 pixels from the bound read framebuffer.
func (d *Device) ReadPixels(x, y, width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Enable(c graphics.Capability)  { gl.Enable(uint32(c)) }
func (d *Device) Disable(c graphics.Capability) { gl.Disable(uint32(c)) }
func (d *Device) DepthMask(write bool)          { gl.DepthMask(write) }

func (d *Device) BlendFunc(src, dst graphics.BlendFactor) {
	gl.BlendFunc(uint32(src), uint32(dst))
}

func (d *Device) CullFace(face graphics.Face) { gl.CullFace(uint32(face)) }

func (d *Device) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

// CreateVertexArray uploads tightly packed vertices into attribute 0.
func (d *Device) CreateVertexArray(vertices []float32, components int) (uint32, error) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	if vao == 0 || vbo == 0 {
		return 0, fmt.Errorf("failed to generate vertex array")
	}
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, int32(components), gl.FLOAT, false, int32(components*4), gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, nil
}

func (d *Device) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }
func (d *Device) BindVertexArray(vao uint32)   { gl.BindVertexArray(vao) }

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (d *Device) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int) {
	gl.DrawArraysInstanced(uint32(mode), int32(first), int32(count), int32(instances))
}
