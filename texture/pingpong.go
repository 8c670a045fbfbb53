package texture

import (
	"fmt"

	"github.com/richinsley/tinydraw/graphics"
)

// PingPong manages two textures for passes that read the result of the
// previous iteration while writing the next one.
type PingPong struct {
	textures   [2]*Texture2D
	readIndex  int // texture holding the previous result
	writeIndex int // texture the current pass renders into
}

// NewPingPong allocates both textures with the same kind and size.
func NewPingPong(dev graphics.Device, kind Kind, width, height int) (*PingPong, error) {
	p := &PingPong{readIndex: 0, writeIndex: 1}
	for i := 0; i < 2; i++ {
		t, err := New(dev, kind, width, height, nil)
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("ping-pong texture %d: %w", i, err)
		}
		p.textures[i] = t
	}
	return p, nil
}

// Read returns the texture to sample from.
func (p *PingPong) Read() *Texture2D { return p.textures[p.readIndex] }

// Write returns the texture to render into.
func (p *PingPong) Write() *Texture2D { return p.textures[p.writeIndex] }

// Swap toggles the read/write roles. Call it after the write pass.
func (p *PingPong) Swap() {
	p.readIndex, p.writeIndex = p.writeIndex, p.readIndex
}

func (p *PingPong) Destroy() {
	for _, t := range p.textures {
		if t != nil {
			t.Destroy()
		}
	}
}
