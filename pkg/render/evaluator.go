package render

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
	"github.com/goliatone/go-caseform/pkg/validation"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFormatter sets the display formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(e *Evaluator) {
		if f != nil {
			e.formatter = f
		}
	}
}

// WithResolver sets the option list resolver used by dropdowns, radio
// buttons and autocompletes.
func WithResolver(r *datasource.Resolver) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithErrors seeds the validation error map.
func WithErrors(m validation.Mapping) Option {
	return func(e *Evaluator) {
		e.errors = m
	}
}

// WithLoading reports the per-reference loading flag of grids.
func WithLoading(fn func(reference string) bool) Option {
	return func(e *Evaluator) {
		e.loading = fn
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Evaluator walks a view and describes every visible node against the live
// store and validation errors. Compiled handlers are cached per field until
// Reset is called.
type Evaluator struct {
	values    *store.Store
	formatter *format.Formatter
	resolver  *datasource.Resolver
	errors    validation.Mapping
	loading   func(string) bool
	logger    *slog.Logger

	handlers map[*schema.Field]actions.Handler
}

// NewEvaluator builds an evaluator reading from values.
func NewEvaluator(values *store.Store, opts ...Option) *Evaluator {
	if values == nil {
		values = store.New(nil)
	}
	e := &Evaluator{
		values:    values,
		formatter: format.New(),
		resolver:  datasource.NewResolver(),
		loading:   func(string) bool { return false },
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers:  make(map[*schema.Field]actions.Handler),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// SetStore points the evaluator at a new live store.
func (e *Evaluator) SetStore(values *store.Store) {
	if values != nil {
		e.values = values
	}
}

// SetErrors replaces the validation error map.
func (e *Evaluator) SetErrors(m validation.Mapping) {
	e.errors = m
}

// Reset drops compiled handlers, for example after a new tree arrives.
func (e *Evaluator) Reset() {
	e.handlers = make(map[*schema.Field]actions.Handler)
}

// Handler returns the compiled pipeline for field, compiling it once.
func (e *Evaluator) Handler(field *schema.Field) actions.Handler {
	if field == nil {
		return actions.Handler{}
	}
	if h, ok := e.handlers[field]; ok {
		return h
	}
	h := actions.Compile(field)
	e.handlers[field] = h
	return h
}

// Evaluate describes the visible children of view in order. An invisible
// view yields nothing.
func (e *Evaluator) Evaluate(ctx context.Context, view *schema.View) []Node {
	node := e.EvaluateView(ctx, view)
	if node == nil {
		return nil
	}
	return node.Children
}

// EvaluateView describes view, or returns nil when it is hidden.
func (e *Evaluator) EvaluateView(ctx context.Context, view *schema.View) *Node {
	if view == nil || schema.Hidden(view.Visible) {
		return nil
	}
	return &Node{
		Kind:     NodeView,
		ID:       view.ViewID,
		Name:     view.Name,
		Children: e.groups(ctx, view.Groups, true),
	}
}

// EvaluateGroup dispatches on the populated member of g.
func (e *Evaluator) EvaluateGroup(ctx context.Context, g schema.Group) *Node {
	return e.group(ctx, g, true)
}

func (e *Evaluator) groups(ctx context.Context, groups []schema.Group, showLabel bool) []Node {
	out := make([]Node, 0, len(groups))
	for _, g := range groups {
		if node := e.group(ctx, g, showLabel); node != nil {
			out = append(out, *node)
		}
	}
	return out
}

func (e *Evaluator) group(ctx context.Context, g schema.Group, showLabel bool) *Node {
	switch g.Kind() {
	case schema.GroupKindView:
		return e.EvaluateView(ctx, g.View)
	case schema.GroupKindLayout:
		return e.EvaluateLayout(ctx, g.Layout)
	case schema.GroupKindParagraph:
		return e.paragraph(g.Paragraph)
	case schema.GroupKindCaption:
		return e.caption(g.Caption)
	case schema.GroupKindField:
		return e.EvaluateField(ctx, g.Field, showLabel)
	default:
		return nil
	}
}

// EvaluateLayout describes layout according to its group format, or returns
// nil when it is hidden.
func (e *Evaluator) EvaluateLayout(ctx context.Context, layout *schema.Layout) *Node {
	if layout == nil || schema.Hidden(layout.Visible) {
		return nil
	}
	node := &Node{
		Kind:        NodeLayout,
		Title:       layout.Title,
		GroupFormat: layout.GroupFormat,
		Class:       containerClass(layout.ContainerFormat),
	}

	switch layout.GroupFormat {
	case schema.FormatInlineDouble:
		node.Arrangement = ArrangeColumns
		node.Columns = 2
		node.Children = e.groups(ctx, layout.Groups, true)
		node.Widths = repeatWidth(8, len(node.Children))
	case schema.FormatInlineTriple:
		node.Arrangement = ArrangeColumns
		node.Columns = 3
		node.Children = e.groups(ctx, layout.Groups, true)
	case schema.FormatInline7030, schema.FormatInline3070:
		widths := []int{11, 5}
		if layout.GroupFormat == schema.FormatInline3070 {
			widths = []int{5, 11}
		}
		node.Arrangement = ArrangeColumns
		node.Columns = 2
		node.Children = e.groups(ctx, layout.Groups, true)
		node.Widths = splitWidths(widths, len(node.Children))
	case schema.FormatStacked:
		node.Arrangement = ArrangeStacked
		node.Children = e.groups(ctx, layout.Groups, true)
	case schema.FormatGrid:
		node.Kind = NodeGrid
		node.Arrangement = ArrangeGrid
		node.Grid = e.grid(ctx, layout)
	case schema.FormatDynamic:
		node.Arrangement = ArrangeDynamic
		for _, row := range layout.Rows {
			node.Children = append(node.Children, e.groups(ctx, row.Groups, true)...)
		}
	case schema.FormatInlineMiddle:
		node.Arrangement = ArrangeInline
		node.Children = e.groups(ctx, layout.Groups, true)
		node.Columns = len(node.Children)
	default:
		switch {
		case layout.Groups != nil:
			node.Arrangement = ArrangeFlat
			node.Children = e.groups(ctx, layout.Groups, true)
		case layout.View != nil:
			node.Arrangement = ArrangeView
			if view := e.EvaluateView(ctx, layout.View); view != nil {
				node.Children = []Node{*view}
			}
		default:
			e.logger.Debug("layout has nothing to arrange", "groupFormat", layout.GroupFormat)
			return nil
		}
	}
	return node
}

func (e *Evaluator) grid(ctx context.Context, layout *schema.Layout) *GridState {
	refType := schema.NormalizeReferenceType(layout.ReferenceType)
	grid := &GridState{
		Reference:     layout.Reference,
		ReferenceType: refType,
		Loading:       e.loading(layout.Reference),
	}
	if layout.Header != nil {
		grid.Header = e.groups(ctx, layout.Header.Groups, true)
		grid.FooterSpan = len(layout.Header.Groups)
	}
	if refType == schema.ReferencePageGroup {
		grid.FooterSpan++
	}
	for _, row := range layout.Rows {
		grid.Rows = append(grid.Rows, e.groups(ctx, row.Groups, false))
	}
	if refType == schema.ReferencePageGroup {
		grid.CanDelete = len(layout.Rows) > 0
	} else {
		grid.CanDelete = len(layout.Rows) > 1
	}
	return grid
}

func (e *Evaluator) paragraph(p *schema.Paragraph) *Node {
	if p == nil || p.Visible == nil || !*p.Visible {
		return nil
	}
	return &Node{
		Kind: NodeParagraph,
		ID:   p.ParagraphID,
		Text: format.Sanitize(p.Value),
		HTML: format.SanitizeMarkup(p.Value),
	}
}

func (e *Evaluator) caption(c *schema.Caption) *Node {
	if c == nil || schema.Hidden(c.Visible) {
		return nil
	}
	return &Node{
		Kind: NodeCaption,
		ID:   c.CaptionFor,
		Text: format.Sanitize(c.Value),
	}
}

func containerClass(containerFormat string) string {
	switch strings.ToUpper(containerFormat) {
	case schema.ContainerWarnings:
		return "layout-warning"
	case schema.ContainerError:
		return "layout-error"
	default:
		return ""
	}
}

func repeatWidth(width, n int) []int {
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = width
	}
	return out
}

// splitWidths assigns widths to the first children; extra children get no
// fixed width.
func splitWidths(widths []int, n int) []int {
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	copy(out, widths)
	return out
}
