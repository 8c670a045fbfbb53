// Package glfwcontext provides the window and OpenGL context of the demo.
package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/tinydraw/graphics"
)

// Mouse is the pointer state in framebuffer pixels with the origin at the
// bottom left, matching gl_FragCoord.
type Mouse struct {
	X, Y float32
	Down bool
	// DragX and DragY are the movement since the previous call to Mouse
	// while the left button stayed down.
	DragX, DragY float32
	// Scroll is the vertical wheel movement since the previous call.
	Scroll float32
}

// Context is a GLFW window with an OpenGL 4.1 core context.
type Context struct {
	window *glfw.Window

	onKey  map[glfw.Key]func()
	last   Mouse
	scroll float64
}

var _ graphics.Context = (*Context)(nil)

// New opens a window of the given size. An invisible window still has a
// default framebuffer and is used when recording.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win, onKey: make(map[glfw.Key]func())}
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
		}
		if f, ok := c.onKey[key]; ok {
			f()
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		c.scroll += yoff
	})
	return c, nil
}

// OnKey runs f whenever key is pressed. Escape always closes the window.
func (c *Context) OnKey(key glfw.Key, f func()) {
	c.onKey[key] = f
}

// Mouse samples the pointer. Call it once per frame.
func (c *Context) Mouse() Mouse {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	scaleX, scaleY := 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}

	x, y := c.window.GetCursorPos()
	m := Mouse{
		X:      float32(x * scaleX),
		Y:      float32(fbHeight) - float32(y*scaleY),
		Down:   c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press,
		Scroll: float32(c.scroll),
	}
	if m.Down && c.last.Down {
		m.DragX, m.DragY = m.X-c.last.X, m.Y-c.last.Y
	}
	c.scroll = 0
	c.last = m
	return m
}

func (c *Context) MakeCurrent()                   { c.window.MakeContextCurrent() }
func (c *Context) Shutdown()                      { c.window.Destroy() }
func (c *Context) ShouldClose() bool              { return c.window.ShouldClose() }
func (c *Context) GetFramebufferSize() (int, int) { return c.window.GetFramebufferSize() }
func (c *Context) Time() float64                  { return glfw.GetTime() }

// EndFrame presents the frame and processes window events.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

// InitGraphics initializes GLFW on the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
