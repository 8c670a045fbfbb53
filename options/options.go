package options

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options configures the tinydraw demo. Fields are pointers so they can be
// bound directly to command-line flags.
type Options struct {
	Config     *string
	Help       *bool
	Width      *int
	Height     *int
	Debug      *bool   // validate programs and framebuffers, log program switches
	Floor      *string // image file for the floor texture
	Effect     *string // fragment shader file for the final screen pass
	Translate  *bool   // translate GLSL ES 3.00 shaders to desktop GLSL
	Record     *bool   // render hidden and encode frames instead of presenting
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
}

// Register defines the flags of every option on fs.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		Config:     fs.String("config", "", "YAML file with option defaults"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		Debug:      fs.Bool("debug", false, "Validate programs and framebuffers"),
		Floor:      fs.String("floor", "", "Image file (PNG, JPEG, BMP or WebP) for the floor texture"),
		Effect:     fs.String("effect", "", "Fragment shader file for the final screen pass"),
		Translate:  fs.Bool("translate", false, "Translate GLSL ES 3.00 shaders to desktop GLSL"),
		Record:     fs.Bool("record", false, "Enable recording mode"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording (h264 or hevc)"),
	}
}

// fileOptions mirrors Options for YAML decoding; absent keys stay nil.
type fileOptions struct {
	Width      *int     `yaml:"width"`
	Height     *int     `yaml:"height"`
	Debug      *bool    `yaml:"debug"`
	Floor      *string  `yaml:"floor"`
	Effect     *string  `yaml:"effect"`
	Translate  *bool    `yaml:"translate"`
	Record     *bool    `yaml:"record"`
	Duration   *float64 `yaml:"duration"`
	FPS        *int     `yaml:"fps"`
	OutputFile *string  `yaml:"output"`
	FFMPEGPath *string  `yaml:"ffmpeg"`
	Codec      *string  `yaml:"codec"`
}

// LoadFile overlays the values present in the YAML file at path onto opts.
// Flags given explicitly on the command line should be applied afterwards.
func LoadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return Load(data, opts)
}

// Apply loads the YAML file named by -config, if any. Flags set explicitly on
// fs keep their command-line values.
func Apply(fs *flag.FlagSet, opts *Options) error {
	if opts.Config == nil || *opts.Config == "" {
		return nil
	}

	// Load writes through the pointers bound to fs, so the explicit values
	// must be captured first.
	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := LoadFile(*opts.Config, opts); err != nil {
		return err
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("failed to reapply flag %s: %w", name, err)
		}
	}
	return nil
}

// Load overlays the values present in YAML data onto opts.
func Load(data []byte, opts *Options) error {
	var f fileOptions
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	overlay(&opts.Width, f.Width)
	overlay(&opts.Height, f.Height)
	overlay(&opts.Debug, f.Debug)
	overlay(&opts.Floor, f.Floor)
	overlay(&opts.Effect, f.Effect)
	overlay(&opts.Translate, f.Translate)
	overlay(&opts.Record, f.Record)
	overlay(&opts.Duration, f.Duration)
	overlay(&opts.FPS, f.FPS)
	overlay(&opts.OutputFile, f.OutputFile)
	overlay(&opts.FFMPEGPath, f.FFMPEGPath)
	overlay(&opts.Codec, f.Codec)
	return nil
}

func overlay[T any](dst **T, src *T) {
	if src == nil {
		return
	}
	if *dst == nil {
		*dst = new(T)
	}
	**dst = *src
}

// Validate checks the values that cannot be enforced by flag types.
func (o *Options) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", *o.Width, *o.Height)
	}
	if *o.Record {
		if *o.FPS <= 0 {
			return fmt.Errorf("invalid frame rate %d", *o.FPS)
		}
		if *o.Duration <= 0 {
			return fmt.Errorf("invalid duration %g", *o.Duration)
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			return fmt.Errorf("unsupported codec %q", *o.Codec)
		}
	}
	return nil
}
