// Package caseform interprets server-authored layout trees: it keeps the
// field values of a screen, runs the actions declared on controls and
// renders the result as HTML, JSON or terminal prompts.
package caseform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-caseform/internal/loader"
	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/renderers/html"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/session"
)

// RenderOptions aliases render.RenderOptions for callers that only need
// the top-level helpers.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// NewSession exposes the session constructor from the top-level module.
func NewSession(options ...session.Option) *session.Session {
	return session.New(options...)
}

// RenderHTML loads the tree at source, evaluates it against its own values
// and renders an HTML document. It is the simplest entry point for callers
// that just want markup.
func RenderHTML(ctx context.Context, source schema.Source, opts RenderOptions, loaderOptions ...schema.LoaderOption) ([]byte, error) {
	doc, err := NewLoader(loaderOptions...).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	view, err := doc.View()
	if err != nil {
		return nil, err
	}
	s := session.New()
	s.Load(&session.Screen{View: view})

	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, s.Render(ctx), opts)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
