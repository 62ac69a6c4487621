// Package html renders an evaluated page as an HTML form using pongo2
// templates. Nodes are drawn bottom-up: each template receives its children
// already rendered.
package html

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-caseform/pkg/render"
	rendertemplate "github.com/goliatone/go-caseform/pkg/render/template"
	"github.com/goliatone/go-caseform/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	controls         *Registry
	lang             string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// carry the same paths as the embedded bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithControls replaces the control registry.
func WithControls(registry *Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.controls = registry
		}
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang = strings.TrimSpace(lang); lang != "" {
			cfg.lang = lang
		}
	}
}

// WithInlineStyles embeds the default stylesheet in full documents.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	controls     *Registry
	lang         string
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), lang: "en"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.controls == nil {
		cfg.controls = NewDefaultRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:    templates,
		controls:     cfg.controls,
		lang:         cfg.lang,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws page. With options.Partial only the form element is written.
func (r *Renderer) Render(ctx context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	body, err := r.nodes(ctx, page.Nodes)
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	data := map[string]any{
		"page":          page,
		"body":          strings.Join(body, "\n"),
		"partial":       options.Partial,
		"form_action":   options.Action,
		"method":        method,
		"stylesheets":   options.Stylesheets,
		"hidden_fields": render.SortedHiddenFields(options.HiddenFields),
		"lang":          r.lang,
	}
	if r.inlineStyles {
		data["inline_css"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) nodes(ctx context.Context, nodes []render.Node) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for i := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := r.node(ctx, &nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, markup)
	}
	return out, nil
}

func (r *Renderer) node(ctx context.Context, node *render.Node) (string, error) {
	switch node.Kind {
	case render.NodeView:
		children, err := r.nodes(ctx, node.Children)
		if err != nil {
			return "", err
		}
		return r.draw("view", map[string]any{"node": node, "children": children})
	case render.NodeLayout:
		return r.layout(ctx, node)
	case render.NodeGrid:
		return r.grid(ctx, node)
	case render.NodeParagraph:
		return r.draw("paragraph", map[string]any{"node": node})
	case render.NodeCaption:
		return r.draw("caption", map[string]any{"node": node})
	case render.NodeField:
		return r.field(node.Field)
	default:
		return r.draw("unsupported", map[string]any{"node": node})
	}
}

func (r *Renderer) layout(ctx context.Context, node *render.Node) (string, error) {
	children, err := r.nodes(ctx, node.Children)
	if err != nil {
		return "", err
	}
	cells := make([]map[string]any, len(children))
	for i, markup := range children {
		cell := map[string]any{"html": markup}
		if i < len(node.Widths) && node.Widths[i] > 0 {
			cell["width"] = node.Widths[i]
		}
		cells[i] = cell
	}
	return r.draw("layout", map[string]any{"node": node, "cells": cells})
}

func (r *Renderer) grid(ctx context.Context, node *render.Node) (string, error) {
	grid := node.Grid
	if grid == nil {
		return "", nil
	}
	header, err := r.nodes(ctx, grid.Header)
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		cells, err := r.nodes(ctx, row)
		if err != nil {
			return "", err
		}
		rows = append(rows, cells)
	}
	return r.draw("grid", map[string]any{
		"node":   node,
		"grid":   grid,
		"header": header,
		"rows":   rows,
	})
}

func (r *Renderer) field(field *render.FieldState) (string, error) {
	if field == nil {
		return "", nil
	}
	name := ControlName(field)
	fn, ok := r.controls.Lookup(name)
	if !ok {
		return "", fmt.Errorf("html renderer: control %q not registered for field %q", name, field.FieldID)
	}

	id := elementID(field)
	trigger := field.Reference
	if trigger == "" {
		trigger = field.FieldID
	}
	var control bytes.Buffer
	err := fn(&control, field, ControlData{
		Template: r.templates,
		ID:       id,
		Name:     field.Reference,
		Trigger:  trigger,
		Options:  controlOptions(field),
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render control %q for field %q: %w", name, field.FieldID, err)
	}

	label := field.Label
	if name == ControlLabel {
		label = ""
	}
	return r.draw("field", map[string]any{
		"field":        field,
		"control":      name,
		"control_html": control.String(),
		"id":           id,
		"label":        label,
		"tooltip":      field.Tooltip,
	})
}

func (r *Renderer) draw(name string, data map[string]any) (string, error) {
	out, err := r.templates.RenderTemplate("templates/"+name+".tmpl", data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return out, nil
}
