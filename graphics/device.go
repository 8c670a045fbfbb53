package graphics

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage identifies a programmable pipeline stage. Values match the GL enums.
type ShaderStage uint32

const (
	VertexStage   ShaderStage = 0x8B31
	GeometryStage ShaderStage = 0x8DD9
	FragmentStage ShaderStage = 0x8B30
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case GeometryStage:
		return "geometry"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Capability is a server-side GL capability toggled with Enable/Disable.
type Capability uint32

const (
	DepthTest Capability = 0x0B71
	Blend     Capability = 0x0BE2
	CullFace  Capability = 0x0B44
)

// BlendFactor is a source or destination blend factor.
type BlendFactor uint32

const (
	One              BlendFactor = 1
	SrcAlpha         BlendFactor = 0x0302
	OneMinusSrcAlpha BlendFactor = 0x0303
)

// Face selects polygon faces for culling.
type Face uint32

const (
	Front Face = 0x0404
	Back  Face = 0x0405
)

// TextureTarget is the bind point of a texture.
type TextureTarget uint32

const (
	Texture2D TextureTarget = 0x0DE1
)

// TextureFormat describes the internal storage of a 2D texture.
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatR32F
	FormatRGBA32F
	FormatDepth32F
)

// Attachment is a framebuffer attachment point.
type Attachment uint32

const (
	ColorAttachment0 Attachment = 0x8CE0
	DepthAttachment  Attachment = 0x8D00
)

// ColorAttachment returns the color attachment point for slot i.
func ColorAttachment(i int) Attachment {
	return ColorAttachment0 + Attachment(i)
}

// Primitive is the topology passed to draw calls.
type Primitive uint32

const (
	Points    Primitive = 0x0000
	Lines     Primitive = 0x0001
	Triangles Primitive = 0x0004
)

// Device is the subset of the graphics API the engine issues commands through.
// All methods must be called from the thread that owns the context.
type Device interface {
	// Shaders and programs.
	CreateShader(stage ShaderStage) (uint32, error)
	CompileShader(shader uint32, source string) error
	DeleteShader(shader uint32)
	CreateProgram() (uint32, error)
	AttachShader(program, shader uint32)
	BindFragDataLocation(program, slot uint32, name string)
	LinkProgram(program uint32) error
	ValidateProgram(program uint32) error
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniforms of the program currently in use.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix4f(location int32, m mgl32.Mat4)

	// Textures.
	CreateTexture2D(format TextureFormat, width, height int, pixels []byte) (uint32, error)
	DeleteTexture(texture uint32)
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, texture uint32)

	// Framebuffers.
	CreateFramebuffer() (uint32, error)
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)
	FramebufferTexture2D(attachment Attachment, texture uint32)
	DrawBuffers(attachments []Attachment)
	CheckFramebufferStatus() error
	MaxDrawBuffers() int
	ReadPixels(x, y, width, height int) []byte

	// Fixed-function state.
	Viewport(x, y, width, height int)
	Enable(c Capability)
	Disable(c Capability)
	DepthMask(write bool)
	BlendFunc(src, dst BlendFactor)
	CullFace(face Face)
	Clear(color, depth bool)

	// Geometry.
	CreateVertexArray(vertices []float32, components int) (uint32, error)
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	DrawArrays(mode Primitive, first, count int)
	DrawArraysInstanced(mode Primitive, first, count, instances int)
}
