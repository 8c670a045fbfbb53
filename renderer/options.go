package renderer

import "github.com/richinsley/tinydraw/shader"

// Options configures a Renderer.
type Options struct {
	// Debug enables program validation after linking, the framebuffer
	// completeness check and verbose logging.
	Debug bool
	// Translator, when set, rewrites every shader stage before compilation.
	Translator shader.Translator
}

type Option func(*Options)

func WithDebug(debug bool) Option {
	return func(o *Options) { o.Debug = debug }
}

func WithTranslator(t shader.Translator) Option {
	return func(o *Options) { o.Translator = t }
}
