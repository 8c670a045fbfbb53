// Package uniform holds named shader uniforms and sampler bindings and pushes
// them into compiled programs.
package uniform

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/texture"
)

// ErrTexturesLocked is returned when a new sampler is added after the texture
// unit assignment has been frozen.
var ErrTexturesLocked = errors.New("texture bindings are locked")

type value interface {
	apply(p *shader.Program, name string)
}

type intValue int32
type floatValue float32
type vec2Value mgl32.Vec2
type vec3Value mgl32.Vec3
type vec4Value mgl32.Vec4
type mat4Value mgl32.Mat4

func (v intValue) apply(p *shader.Program, name string)   { p.SetInt(name, int32(v)) }
func (v floatValue) apply(p *shader.Program, name string) { p.SetFloat(name, float32(v)) }
func (v vec2Value) apply(p *shader.Program, name string)  { p.SetVec2(name, mgl32.Vec2(v)) }
func (v vec3Value) apply(p *shader.Program, name string)  { p.SetVec3(name, mgl32.Vec3(v)) }
func (v vec4Value) apply(p *shader.Program, name string)  { p.SetVec4(name, mgl32.Vec4(v)) }
func (v mat4Value) apply(p *shader.Program, name string)  { p.SetMat4(name, mgl32.Mat4(v)) }

type sampler struct {
	name    string
	texture texture.Texture // nil while only declared
}

// Map is a set of named uniforms plus an ordered list of samplers. A sampler's
// texture unit is its position in the list plus the offset supplied by the
// caller.
type Map struct {
	dev      graphics.Device
	values   map[string]value
	samplers []sampler
	units    map[string]int
	locked   bool
}

func NewMap(dev graphics.Device) *Map {
	return &Map{
		dev:    dev,
		values: make(map[string]value),
		units:  make(map[string]int),
	}
}

func (m *Map) SetInt(name string, v int32)       { m.values[name] = intValue(v) }
func (m *Map) SetFloat(name string, v float32)   { m.values[name] = floatValue(v) }
func (m *Map) SetVec2(name string, v mgl32.Vec2) { m.values[name] = vec2Value(v) }
func (m *Map) SetVec3(name string, v mgl32.Vec3) { m.values[name] = vec3Value(v) }
func (m *Map) SetVec4(name string, v mgl32.Vec4) { m.values[name] = vec4Value(v) }
func (m *Map) SetMat4(name string, v mgl32.Mat4) { m.values[name] = mat4Value(v) }

// DeclareTexture reserves a texture unit for name without a texture.
func (m *Map) DeclareTexture(name string) error {
	if _, ok := m.units[name]; ok {
		return nil
	}
	if m.locked {
		return fmt.Errorf("%w: cannot declare sampler %q", ErrTexturesLocked, name)
	}
	m.units[name] = len(m.samplers)
	m.samplers = append(m.samplers, sampler{name: name})
	return nil
}

// SetTexture binds t to the sampler uniform name. Once locked, only samplers
// that already exist can be changed and they keep their unit.
func (m *Map) SetTexture(t texture.Texture, name string) error {
	if i, ok := m.units[name]; ok {
		m.samplers[i].texture = t
		return nil
	}
	if err := m.DeclareTexture(name); err != nil {
		log.Printf("Warning: %v", err)
		return err
	}
	m.samplers[m.units[name]].texture = t
	return nil
}

// TextureUnit returns the unit of name relative to the map's offset.
func (m *Map) TextureUnit(name string) (int, bool) {
	i, ok := m.units[name]
	return i, ok
}

// LockTextures freezes the texture unit assignment.
func (m *Map) LockTextures()   { m.locked = true }
func (m *Map) Locked() bool    { return m.locked }
func (m *Map) NrTextures() int { return len(m.samplers) }

func (m *Map) sortedNames() []string {
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetUniformsInProgram uploads the scalar, vector and matrix uniforms into p,
// which must be in use.
func (m *Map) SetUniformsInProgram(p *shader.Program) {
	for _, name := range m.sortedNames() {
		m.values[name].apply(p, name)
	}
}

// SetUniformsAndTexturesInProgram also points every sampler uniform at its
// texture unit, starting at textureOffset.
func (m *Map) SetUniformsAndTexturesInProgram(p *shader.Program, textureOffset int) {
	m.SetUniformsInProgram(p)
	for i, s := range m.samplers {
		p.SetInt(s.name, int32(textureOffset+i))
	}
}

// BindTextures binds every texture to its unit, starting at textureOffset.
func (m *Map) BindTextures(textureOffset int) {
	for i, s := range m.samplers {
		if s.texture == nil {
			continue
		}
		m.dev.ActiveTexture(textureOffset + i)
		m.dev.BindTexture(s.texture.Target(), s.texture.Handle())
	}
}

func (m *Map) UnbindTextures(textureOffset int) {
	for i, s := range m.samplers {
		if s.texture == nil {
			continue
		}
		m.dev.ActiveTexture(textureOffset + i)
		m.dev.BindTexture(s.texture.Target(), 0)
	}
	m.dev.ActiveTexture(0)
}
