package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/schema"
)

// TextRenderer prints an evaluated page as an indented plain text summary,
// the non-interactive counterpart of Runner.
type TextRenderer struct {
	Theme Theme
}

var _ render.Renderer = TextRenderer{}

func (TextRenderer) Name() string { return "text" }

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (t TextRenderer) Render(ctx context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	if page.Title != "" {
		fmt.Fprintf(&b, "== %s ==\n", page.Title)
	}
	for _, msg := range page.FormErrors {
		fmt.Fprintf(&b, "%s%s\n", t.Theme.ErrorPrefix, msg)
	}
	for i := range page.Nodes {
		t.node(&b, &page.Nodes[i], 0)
	}
	if len(page.Actions) > 0 {
		fmt.Fprintf(&b, "[%s]\n", strings.Join(page.Actions, "] ["))
	}
	return []byte(b.String()), nil
}

func (t TextRenderer) node(b *strings.Builder, node *render.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node.Kind {
	case render.NodeView, render.NodeLayout:
		next := depth
		if node.Title != "" {
			fmt.Fprintf(b, "%s-- %s --\n", indent, node.Title)
			next++
		}
		for i := range node.Children {
			t.node(b, &node.Children[i], next)
		}
	case render.NodeGrid:
		if node.Grid == nil {
			return
		}
		fmt.Fprintf(b, "%s%s:\n", indent, node.Grid.Reference)
		for i, row := range node.Grid.Rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if cell.Field != nil {
					cells = append(cells, cell.Field.FormattedValue)
				}
			}
			fmt.Fprintf(b, "%s  %d. %s\n", indent, i+1, strings.Join(cells, " | "))
		}
	case render.NodeParagraph, render.NodeCaption:
		if text := strings.TrimSpace(node.Text); text != "" {
			fmt.Fprintf(b, "%s%s\n", indent, text)
		}
	case render.NodeField:
		t.field(b, node.Field, indent)
	default:
		fmt.Fprintf(b, "%s%s%s\n", indent, t.Theme.ErrorPrefix, node.Diagnostic)
	}
}

func (t TextRenderer) field(b *strings.Builder, st *render.FieldState, indent string) {
	if st == nil {
		return
	}
	switch st.FieldType {
	case schema.ControlCheckbox:
		mark := " "
		if st.Checked {
			mark = "x"
		}
		fmt.Fprintf(b, "%s[%s] %s\n", indent, mark, st.ControlLabel)
	case schema.ControlButton, schema.ControlLink, schema.ControlIcon:
		fmt.Fprintf(b, "%s<%s>\n", indent, clickTitle(st))
	case schema.ControlLabel:
		fmt.Fprintf(b, "%s%s\n", indent, st.FormattedValue)
	default:
		fmt.Fprintf(b, "%s%s: %s\n", indent, fieldTitle(st), st.FormattedValue)
	}
	if st.Error {
		fmt.Fprintf(b, "%s  %s%s\n", indent, t.Theme.ErrorPrefix, st.ErrorMessage)
	}
}
