package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer writes the evaluated page as indented JSON. It is what the
// CLI emits for tooling that draws screens itself.
type JSONRenderer struct{}

type jsonDocument struct {
	Page
	Action       string            `json:"action,omitempty"`
	Method       string            `json:"method,omitempty"`
	HiddenFields map[string]string `json:"hiddenFields,omitempty"`
}

func (JSONRenderer) Name() string { return "json" }

func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(_ context.Context, page Page, options RenderOptions) ([]byte, error) {
	doc := jsonDocument{
		Page:         page,
		Action:       options.Action,
		Method:       options.Method,
		HiddenFields: MergeHiddenFields(options.HiddenFields),
	}
	if doc.Nodes == nil {
		doc.Nodes = []Node{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return append(out, '\n'), nil
}
