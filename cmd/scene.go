package main

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/renderer"
	"github.com/richinsley/tinydraw/shader"
	"github.com/richinsley/tinydraw/texture"
)

const floorVertexShader = `#version 410 core
layout (location = 0) in vec2 in_vert;
uniform mat4 worldToScreen;
out vec3 worldPosition;
void main() {
    worldPosition = vec3(in_vert.x * 10.0, -2.0, in_vert.y * 10.0);
    gl_Position = worldToScreen * vec4(worldPosition, 1.0);
}
`

const floorFragmentShader = `#version 410 core
uniform sampler2D floorTexture;
in vec3 worldPosition;
out vec4 diffuse;
out vec4 worldNormal;
void main() {
    vec2 uv = worldPosition.xz / 20.0 + 0.5;
    diffuse = vec4(texture(floorTexture, uv).rgb, 1.0);
    worldNormal = vec4(0.0, 1.0, 0.0, 0.0);
}
`

const spinnerVertexShader = `#version 410 core
layout (location = 0) in vec2 in_vert;
uniform mat4 worldToScreen;
uniform float time;
uniform float layer;
out vec3 normalVarying;
out float shade;
void main() {
    float id = float(gl_InstanceID);
    float angle = time * (1.0 + layer * 0.5) + id * 0.7;
    vec3 centre = vec3(mod(id, 8.0) - 3.5, layer, floor(id / 8.0) - 3.5) * 1.5;
    vec3 right = vec3(cos(angle), 0.0, sin(angle));
    vec3 up = vec3(0.0, 1.0, 0.0);
    vec3 position = centre + 0.5 * (in_vert.x * right + in_vert.y * up);
    normalVarying = cross(right, up);
    shade = 0.6 + 0.4 * sin(id * 1.3);
    gl_Position = worldToScreen * vec4(position, 1.0);
}
`

const spinnerFragmentShader = `#version 410 core
uniform vec3 tint;
uniform float alpha;
in vec3 normalVarying;
in float shade;
out vec4 diffuse;
out vec4 worldNormal;
void main() {
    vec3 n = normalize(gl_FrontFacing ? normalVarying : -normalVarying);
    diffuse = vec4(tint * shade, alpha);
    worldNormal = vec4(n, 0.0);
}
`

const edgeFragmentShader = `#version 410 core
uniform sampler2D normalTexture;
uniform vec2 inverseSize;
in vec2 frag_uv;
out vec4 edges;
void main() {
    vec3 c = texture(normalTexture, frag_uv).xyz;
    float e = length(texture(normalTexture, frag_uv + vec2(inverseSize.x, 0.0)).xyz - c)
            + length(texture(normalTexture, frag_uv + vec2(0.0, inverseSize.y)).xyz - c);
    edges = vec4(vec3(clamp(e, 0.0, 1.0)), 1.0);
}
`

const trailFragmentShader = `#version 410 core
uniform sampler2D sceneTexture;
uniform sampler2D previousTexture;
uniform float decay;
in vec2 frag_uv;
out vec4 trail;
void main() {
    vec4 scene = texture(sceneTexture, frag_uv);
    vec4 previous = texture(previousTexture, frag_uv) * decay;
    trail = max(scene, previous);
}
`

const compositeFragmentShader = `#version 410 core
uniform sampler2D trailTexture;
uniform sampler2D edgeTexture;
in vec2 frag_uv;
out vec4 colour;
void main() {
    vec3 c = texture(trailTexture, frag_uv).rgb;
    float e = texture(edgeTexture, frag_uv).r;
    colour = vec4(c * (1.0 - 0.8 * e), 1.0);
}
`

const spinnersPerLayer = 64

// checkerImage is the floor image used when none is given.
func checkerImage(size, tiles int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	tile := size / tiles
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(80)
			if (x/tile+y/tile)%2 == 0 {
				v = 180
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// quadBatch draws instances of a unit quad with its own shaders.
type quadBatch struct {
	renderer.BaseRenderable
	dev       graphics.Device
	vao       uint32
	instances int
	vertex    string
	fragment  string
}

func newQuadBatch(dev graphics.Device, vertex, fragment string, instances int) (*quadBatch, error) {
	vao, err := dev.CreateVertexArray([]float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}, 2)
	if err != nil {
		return nil, err
	}
	return &quadBatch{
		BaseRenderable: renderer.NewBaseRenderable(dev),
		dev:            dev,
		vao:            vao,
		instances:      instances,
		vertex:         vertex,
		fragment:       fragment,
	}, nil
}

func (q *quadBatch) GetVertexShaderCode() string   { return q.vertex }
func (q *quadBatch) GetFragmentShaderCode() string { return q.fragment }
func (q *quadBatch) Bind()                         { q.dev.BindVertexArray(q.vao) }
func (q *quadBatch) Unbind()                       { q.dev.BindVertexArray(0) }

func (q *quadBatch) Render(*shader.Program) {
	if q.instances == 1 {
		q.dev.DrawArrays(graphics.Triangles, 0, 6)
		return
	}
	q.dev.DrawArraysInstanced(graphics.Triangles, 0, 6, q.instances)
}

func (q *quadBatch) Destroy() {
	if q.vao != 0 {
		q.dev.DeleteVertexArray(q.vao)
		q.vao = 0
	}
}

// scene is a deferred pipeline: a G-buffer pass, an edge pass over the
// normals, a feedback trail over the diffuse colour and a composite to the
// default framebuffer.
type scene struct {
	dev           graphics.Device
	width, height int

	world  *renderer.Renderer
	edges  *renderer.ComputeTexture
	trail  *renderer.ComputeTexture
	screen *renderer.Renderer

	diffuse, normals, depth *texture.Texture2D
	edgeTexture             *texture.Texture2D
	floorTexture            *texture.Texture2D
	trails                  *texture.PingPong

	camera camera

	batches      []*quadBatch
	composite    *renderer.ScreenFillingSquare
	normalsView  *renderer.ScreenFillingSquare
	showNormals  bool
	frameCounter int
}

func newScene(dev graphics.Device, width, height int, floorImage, effect string, opts ...renderer.Option) (_ *scene, err error) {
	s := &scene{dev: dev, width: width, height: height}
	s.camera.reset()
	defer func() {
		if err != nil {
			s.destroy()
		}
	}()

	if s.diffuse, err = texture.New(dev, texture.RGBA8, width, height, nil); err != nil {
		return nil, err
	}
	if s.normals, err = texture.New(dev, texture.Vec4, width, height, nil); err != nil {
		return nil, err
	}
	if s.depth, err = texture.New(dev, texture.Depth, width, height, nil); err != nil {
		return nil, err
	}
	if s.edgeTexture, err = texture.New(dev, texture.RGBA8, width, height, nil); err != nil {
		return nil, err
	}
	if s.trails, err = texture.NewPingPong(dev, texture.RGBA8, width, height); err != nil {
		return nil, err
	}
	if floorImage != "" {
		s.floorTexture, err = texture.LoadFile(dev, floorImage, 512, 512)
	} else {
		s.floorTexture, err = texture.FromImage(dev, checkerImage(256, 16), 0, 0)
	}
	if err != nil {
		return nil, err
	}

	if err = s.initWorld(opts...); err != nil {
		return nil, err
	}
	if err = s.initPostProcessing(opts...); err != nil {
		return nil, err
	}
	if err = s.initScreen(effect, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *scene) initWorld(opts ...renderer.Option) error {
	s.world = renderer.New(s.dev, opts...)
	s.world.AddRenderTarget("diffuse")
	s.world.AddRenderTarget("worldNormal")
	if err := s.world.SetTextureTarget(s.diffuse, "diffuse"); err != nil {
		return err
	}
	if err := s.world.SetTextureTarget(s.normals, "worldNormal"); err != nil {
		return err
	}
	if err := s.world.SetDepthTextureTarget(s.depth); err != nil {
		return err
	}
	s.world.UniformMap().SetFloat("time", 0)
	s.world.UniformMap().SetMat4("worldToScreen", mgl32.Ident4())

	floor, err := newQuadBatch(s.dev, floorVertexShader, floorFragmentShader, 1)
	if err != nil {
		return err
	}
	s.batches = append(s.batches, floor)
	if err := floor.UniformMap().SetTexture(s.floorTexture, "floorTexture"); err != nil {
		return err
	}
	if err := s.world.AddRenderable(0, floor, true, true, renderer.BlendReplace, renderer.CullNothing); err != nil {
		return err
	}

	// Three layers share one program. The top layer is translucent and does
	// not write depth.
	layers := []struct {
		tint  mgl32.Vec3
		alpha float32
		blend renderer.BlendMode
		write bool
	}{
		{mgl32.Vec3{0.9, 0.4, 0.2}, 1, renderer.BlendReplace, true},
		{mgl32.Vec3{0.2, 0.7, 0.9}, 1, renderer.BlendReplace, true},
		{mgl32.Vec3{1.0, 1.0, 0.6}, 0.5, renderer.BlendMix, false},
	}
	for i, l := range layers {
		b, err := newQuadBatch(s.dev, spinnerVertexShader, spinnerFragmentShader, spinnersPerLayer)
		if err != nil {
			return err
		}
		s.batches = append(s.batches, b)
		b.UniformMap().SetFloat("layer", float32(i))
		b.UniformMap().SetVec3("tint", l.tint)
		b.UniformMap().SetFloat("alpha", l.alpha)
		if err := s.world.AddRenderable(uint32(i+1), b, true, l.write, l.blend, renderer.CullNothing); err != nil {
			return err
		}
	}
	return nil
}

func (s *scene) initPostProcessing(opts ...renderer.Option) error {
	var err error
	s.edges, err = renderer.NewComputeTexture(s.dev, []string{"normalTexture"}, []string{"edges"}, edgeFragmentShader, opts...)
	if err != nil {
		return fmt.Errorf("edge pass: %w", err)
	}
	s.edges.SetInput(s.normals, "normalTexture")
	s.edges.Input().UniformMap().SetVec2("inverseSize", mgl32.Vec2{1 / float32(s.width), 1 / float32(s.height)})
	if err := s.edges.SetOutput(s.edgeTexture, "edges"); err != nil {
		return err
	}

	s.trail, err = renderer.NewComputeTexture(s.dev, []string{"sceneTexture", "previousTexture"}, []string{"trail"}, trailFragmentShader, opts...)
	if err != nil {
		return fmt.Errorf("trail pass: %w", err)
	}
	s.trail.SetInput(s.diffuse, "sceneTexture")
	s.trail.Input().UniformMap().SetFloat("decay", 0.92)
	return nil
}

func (s *scene) initScreen(effect string, opts ...renderer.Option) error {
	s.screen = renderer.New(s.dev, opts...)
	global := s.screen.UniformMap()
	samplers := []struct {
		name    string
		texture texture.Texture
	}{
		{"trailTexture", s.trails.Read()},
		{"edgeTexture", s.edgeTexture},
		{"worldNormalTexture", s.normals},
	}
	for _, sampler := range samplers {
		if err := global.SetTexture(sampler.texture, sampler.name); err != nil {
			return err
		}
	}

	fragment := compositeFragmentShader
	if effect != "" {
		fragment = effect
	}
	var err error
	if s.composite, err = renderer.NewScreenFillingSquare(s.dev, fragment); err != nil {
		return err
	}
	if s.normalsView, err = renderer.NewScreenFillingSquare(s.dev, shader.NormalsFragmentShader); err != nil {
		return err
	}
	return s.screen.AddRenderable(0, s.composite, false, false, renderer.BlendReplace, renderer.CullNothing)
}

// toggleNormals swaps the composite for the normal visualization.
func (s *scene) toggleNormals() {
	s.screen.FreeRenderable(0)
	next := s.composite
	if !s.showNormals {
		next = s.normalsView
	}
	if err := s.screen.AddRenderable(0, next, false, false, renderer.BlendReplace, renderer.CullNothing); err != nil {
		log.Printf("Warning: failed to switch screen effect: %v", err)
		return
	}
	s.showNormals = !s.showNormals
}

// render draws one frame at time t into the default framebuffer of the given
// size.
func (s *scene) render(t float64, fbWidth, fbHeight int) {
	aspect := float32(s.width) / float32(s.height)
	projection := mgl32.Perspective(mgl32.DegToRad(50), aspect, 0.1, 100)
	view := mgl32.LookAtV(s.camera.eye(), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	global := s.world.UniformMap()
	global.SetFloat("time", float32(t))
	global.SetMat4("worldToScreen", projection.Mul4(view))

	s.world.ClearTargets()
	s.world.Render()

	s.edges.Compute()

	s.trail.SetInput(s.trails.Read(), "previousTexture")
	if err := s.trail.SetOutput(s.trails.Write(), "trail"); err != nil {
		log.Printf("Warning: failed to attach trail output: %v", err)
	}
	s.trail.Compute()
	s.trails.Swap()

	screen := s.screen.UniformMap()
	if err := screen.SetTexture(s.trails.Read(), "trailTexture"); err != nil {
		log.Printf("Warning: %v", err)
	}
	screen.SetVec2("inverseScreenSize", mgl32.Vec2{1 / float32(fbWidth), 1 / float32(fbHeight)})
	s.screen.SetViewportSize(fbWidth, fbHeight)
	s.screen.ClearTargets()
	s.screen.Render()

	s.frameCounter++
	if s.frameCounter%600 == 0 {
		log.Printf("Frame %d: %d world programs, %d switches.", s.frameCounter, s.world.NumPrograms(), s.world.ProgramSwitches())
	}
}

func (s *scene) destroy() {
	for _, r := range []*renderer.Renderer{s.world, s.screen} {
		if r != nil {
			r.Destroy()
		}
	}
	for _, c := range []*renderer.ComputeTexture{s.edges, s.trail} {
		if c != nil {
			c.Destroy()
		}
	}
	for _, b := range s.batches {
		b.Destroy()
	}
	for _, q := range []*renderer.ScreenFillingSquare{s.composite, s.normalsView} {
		if q != nil {
			q.Destroy()
		}
	}
	for _, t := range []*texture.Texture2D{s.diffuse, s.normals, s.depth, s.edgeTexture, s.floorTexture} {
		if t != nil {
			t.Destroy()
		}
	}
	if s.trails != nil {
		s.trails.Destroy()
	}
}
