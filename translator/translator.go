// Package translator converts GLSL ES 3.00 (WebGL2) shaders to desktop GLSL
// 3.30 so renderables written for the web can be drawn with the desktop
// device.
package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/tinydraw/graphics"
	"github.com/richinsley/tinydraw/shader"
)

var (
	sharedOnce       sync.Once
	sharedTranslator *gst.ShaderTranslator
	sharedErr        error
)

// Translator implements shader.Translator.
type Translator struct {
	translator *gst.ShaderTranslator
}

var _ shader.Translator = (*Translator)(nil)

// New returns a Translator backed by the process-wide translator instance,
// which is expensive to start.
func New(ctx context.Context) (*Translator, error) {
	sharedOnce.Do(func() {
		sharedTranslator, sharedErr = gst.NewShaderTranslator(ctx)
	})
	if sharedErr != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", sharedErr)
	}
	return &Translator{translator: sharedTranslator}, nil
}

func stageName(stage graphics.ShaderStage) (string, error) {
	switch stage {
	case graphics.VertexStage:
		return "vertex", nil
	case graphics.FragmentStage:
		return "fragment", nil
	}
	return "", fmt.Errorf("%s shaders cannot be translated from GLSL ES", stage)
}

// isES reports whether source declares GLSL ES 3.00.
func isES(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		return len(fields) == 3 && fields[0] == "#version" && fields[1] == "300" && fields[2] == "es"
	}
	return false
}

// Translate rewrites GLSL ES 3.00 sources. Desktop sources are returned
// unchanged so they can be mixed with translated ones in one renderer.
func (t *Translator) Translate(stage graphics.ShaderStage, source string) (*shader.Translation, error) {
	if !isES(source) {
		return &shader.Translation{Code: source}, nil
	}
	name, err := stageName(stage)
	if err != nil {
		return nil, err
	}
	result, err := t.translator.TranslateShader(source, name, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", name, err)
	}

	names := make(map[string]string, len(result.Variables))
	for original, v := range result.Variables {
		names[original] = v.MappedName
	}
	return &shader.Translation{Code: result.Code, Names: names}, nil
}
