package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/tinydraw/gldevice"
	"github.com/richinsley/tinydraw/glfwcontext"
	"github.com/richinsley/tinydraw/options"
	"github.com/richinsley/tinydraw/record"
	"github.com/richinsley/tinydraw/renderer"
	"github.com/richinsley/tinydraw/translator"
)

func runScene(opts *options.Options) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window is hidden.
	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, "tinydraw", !*opts.Record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	if err != nil {
		return err
	}

	rendererOpts := []renderer.Option{renderer.WithDebug(*opts.Debug)}
	if *opts.Translate {
		t, err := translator.New(context.Background())
		if err != nil {
			return err
		}
		rendererOpts = append(rendererOpts, renderer.WithTranslator(t))
	}

	var effect string
	if *opts.Effect != "" {
		data, err := os.ReadFile(*opts.Effect)
		if err != nil {
			return fmt.Errorf("failed to read effect: %w", err)
		}
		effect = string(data)
	}

	s, err := newScene(dev, *opts.Width, *opts.Height, *opts.Floor, effect, rendererOpts...)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	defer s.destroy()

	if *opts.Record {
		log.Println("Starting offscreen render loop...")
		if err := recordScene(ctx, dev, s, opts); err != nil {
			return err
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	log.Println("Starting interactive render loop...")
	ctx.OnKey(glfw.KeyN, s.toggleNormals)
	ctx.OnKey(glfw.KeyR, s.camera.reset)
	for !ctx.ShouldClose() {
		m := ctx.Mouse()
		s.camera.orbit(m.DragX, m.DragY)
		s.camera.zoom(m.Scroll)

		w, h := ctx.GetFramebufferSize()
		s.render(ctx.Time(), w, h)
		ctx.EndFrame()
	}
	return nil
}

func recordScene(ctx *glfwcontext.Context, dev *gldevice.Device, s *scene, opts *options.Options) error {
	width, height := ctx.GetFramebufferSize()
	rec, err := record.New(record.Config{
		Width:      width,
		Height:     height,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		Codec:      *opts.Codec,
		FFMPEGPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}

	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	for frame := 0; frame < totalFrames; frame++ {
		s.render(float64(frame)/float64(*opts.FPS), width, height)
		rec.Send(&record.Frame{
			Pixels: dev.ReadPixels(0, 0, width, height),
			PTS:    int64(frame),
		})
		ctx.EndFrame()

		if (frame+1)%*opts.FPS == 0 {
			log.Printf("Rendered %d/%d frames", frame+1, totalFrames)
		}
	}
	return rec.Close()
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("tinydraw deferred renderer demo")
		flag.PrintDefaults()
		return
	}

	if err := options.Apply(flag.CommandLine, opts); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if err := runScene(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
