package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetArgs(t *testing.T) {
	cfg := Config{Width: 640, Height: 360, FPS: 30, OutputFile: "out.mp4", Codec: "h264"}

	in, out := getArgs(cfg, "linux")
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "640x360", in["s"])
	assert.Equal(t, 30, in["r"])
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])
	assert.NotContains(t, out, "tag:v")

	cfg.Codec = "hevc"
	_, out = getArgs(cfg, "darwin")
	assert.Equal(t, "hevc_videotoolbox", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	cfg.OutputFile = "out.mkv"
	_, out = getArgs(cfg, "linux")
	assert.Equal(t, "libx265", out["c:v"])
	assert.NotContains(t, out, "tag:v")
}

func TestNewRejectsInvalidFormat(t *testing.T) {
	_, err := New(Config{Width: 0, Height: 10, FPS: 30})
	assert.Error(t, err)
	_, err = New(Config{Width: 10, Height: 10, FPS: 0})
	assert.Error(t, err)
}
