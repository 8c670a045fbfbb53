package renderer

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/uniform"
)

// programHash identifies a program by the content of its shader sources.
type programHash [md5.Size]byte

func (h programHash) String() string { return fmt.Sprintf("%x", h[:4]) }

// hashSources length-prefixes every stage so that moving text between
// stages changes the hash.
func hashSources(vertex, geometry, fragment string) programHash {
	h := md5.New()
	var size [8]byte
	for _, src := range []string{vertex, geometry, fragment} {
		binary.LittleEndian.PutUint64(size[:], uint64(len(src)))
		h.Write(size[:])
		io.WriteString(h, src)
	}
	var sum programHash
	h.Sum(sum[:0])
	return sum
}

// boundProgram owns one compiled program and the set of renderable indices
// drawn with it.
type boundProgram struct {
	dev        graphics.Device
	translator shader.Translator
	hash       programHash

	vertexShaderCode   string
	geometryShaderCode string
	fragmentShaderCode string

	vertexShader   *shader.Shader
	geometryShader *shader.Shader
	fragmentShader *shader.Shader
	program        *shader.Program

	renderableIndices map[uint32]struct{}
}

func newBoundProgram(dev graphics.Device, translator shader.Translator, vertex, geometry, fragment string) *boundProgram {
	return &boundProgram{
		dev:                dev,
		translator:         translator,
		hash:               hashSources(vertex, geometry, fragment),
		vertexShaderCode:   vertex,
		geometryShaderCode: geometry,
		fragmentShaderCode: fragment,
		renderableIndices:  make(map[uint32]struct{}),
	}
}

// compile (re)creates the stages and the program object and attaches the
// stages. The geometry stage is omitted when its source is empty.
func (bp *boundProgram) compile() error {
	bp.destroy()

	var err error
	bp.program, err = shader.NewProgram(bp.dev)
	if err != nil {
		return err
	}

	bp.vertexShader, err = bp.compileStage(graphics.VertexStage, bp.vertexShaderCode)
	if err != nil {
		return err
	}
	if bp.geometryShaderCode != "" {
		bp.geometryShader, err = bp.compileStage(graphics.GeometryStage, bp.geometryShaderCode)
		if err != nil {
			return err
		}
	}
	bp.fragmentShader, err = bp.compileStage(graphics.FragmentStage, bp.fragmentShaderCode)
	if err != nil {
		return err
	}

	bp.program.Attach(bp.vertexShader)
	if bp.geometryShader != nil {
		bp.program.Attach(bp.geometryShader)
	}
	bp.program.Attach(bp.fragmentShader)
	return nil
}

func (bp *boundProgram) compileStage(stage graphics.ShaderStage, source string) (*shader.Shader, error) {
	if bp.translator != nil {
		t, err := bp.translator.Translate(stage, source)
		if err != nil {
			return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
		}
		source = t.Code
		bp.program.AddNames(t.Names)
	}
	s, err := shader.NewShader(bp.dev, stage)
	if err != nil {
		return nil, err
	}
	if err := s.Compile(source); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (bp *boundProgram) bindRenderTarget(slot int, name string) {
	bp.mustBeCompiled()
	bp.program.BindFragDataLocation(slot, name)
}

func (bp *boundProgram) link() error {
	bp.mustBeCompiled()
	return bp.program.Link()
}

func (bp *boundProgram) validate() error {
	if bp.program == nil {
		return fmt.Errorf("program %s has not been compiled", bp.hash)
	}
	return bp.program.Validate()
}

func (bp *boundProgram) bind()   { bp.mustBeCompiled(); bp.program.Bind() }
func (bp *boundProgram) unbind() { bp.mustBeCompiled(); bp.program.Unbind() }

func (bp *boundProgram) setUniforms(m *uniform.Map) {
	bp.mustBeCompiled()
	m.SetUniformsInProgram(bp.program)
}

func (bp *boundProgram) setUniformsAndTextures(m *uniform.Map, textureOffset int) {
	bp.mustBeCompiled()
	m.SetUniformsAndTexturesInProgram(bp.program, textureOffset)
}

func (bp *boundProgram) mustBeCompiled() {
	if bp.program == nil {
		panic(fmt.Sprintf("renderer: program %s used before compile", bp.hash))
	}
}

func (bp *boundProgram) addRenderableIndex(index uint32) {
	if _, ok := bp.renderableIndices[index]; ok {
		panic(fmt.Sprintf("renderer: renderable %d already uses program %s", index, bp.hash))
	}
	bp.renderableIndices[index] = struct{}{}
}

func (bp *boundProgram) freeRenderableIndex(index uint32) {
	delete(bp.renderableIndices, index)
}

func (bp *boundProgram) numRenderables() int {
	return len(bp.renderableIndices)
}

// destroy releases the program and every stage.
func (bp *boundProgram) destroy() {
	for _, s := range []*shader.Shader{bp.vertexShader, bp.geometryShader, bp.fragmentShader} {
		if s != nil {
			s.Destroy()
		}
	}
	if bp.program != nil {
		bp.program.Destroy()
	}
	bp.vertexShader, bp.geometryShader, bp.fragmentShader, bp.program = nil, nil, nil, nil
}
