// Package record encodes rendered frames to a video file with ffmpeg.
package record

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one frame of tightly packed RGBA8 pixels, bottom row first as read
// back from OpenGL.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	Codec      string // "h264" or "hevc"
	FFMPEGPath string
}

// Recorder streams frames into an ffmpeg process. Send blocks while the
// encoder is behind by more than the channel capacity.
type Recorder struct {
	cfg    Config
	frames chan *Frame
	done   chan error
}

const queuedFrames = 3

// New starts the encoder.
func New(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid recording format %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	r := &Recorder{
		cfg:    cfg,
		frames: make(chan *Frame, queuedFrames),
		done:   make(chan error, 1),
	}
	go r.run()
	return r, nil
}

// getArgs returns the ffmpeg input and output arguments for cfg.
func getArgs(cfg Config, goos string) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		// OpenGL rows start at the bottom.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch goos {
	case "darwin":
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if cfg.Codec == "hevc" && strings.EqualFold(filepath.Ext(cfg.OutputFile), ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

func (r *Recorder) run() {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(r.cfg, runtime.GOOS)

	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(r.cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if r.cfg.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(r.cfg.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	frameSize := r.cfg.Width * r.cfg.Height * 4
	var writeErr error
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if len(frame.Pixels) != frameSize {
			writeErr = fmt.Errorf("frame %d has %d bytes, expected %d", frame.PTS, len(frame.Pixels), frameSize)
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to ffmpeg: %v", frame.PTS, err)
			writeErr = err
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		r.done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	r.done <- writeErr
}

// Send queues a frame for encoding.
func (r *Recorder) Send(frame *Frame) {
	r.frames <- frame
}

// Close flushes the queued frames and waits for ffmpeg to finish.
func (r *Recorder) Close() error {
	close(r.frames)
	return <-r.done
}
