package template

import (
	"io"
)

// TemplateRenderer is the seam output renderers draw through. Names are
// template paths relative to the engine's file system.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
