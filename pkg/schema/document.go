package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document wraps a raw payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates the inputs and copies raw.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// View decodes the payload as a view.
func (d Document) View() (*View, error) {
	view, err := DecodeView(d.raw)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", d.Location(), err)
	}
	return view, nil
}

// envelope accepts either a bare view or the wrappers the case API returns
// around one (assignment actions carry "view", pages carry "page").
type envelope struct {
	View *View `json:"view" yaml:"view"`
	Page *View `json:"page" yaml:"page"`
}

// DecodeView reads a view from JSON or YAML. JSON is tried first when the
// payload opens with a brace.
func DecodeView(data []byte) (*View, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}

	var (
		view View
		env  envelope
	)
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if err := json.Unmarshal(trimmed, &view); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		if err := yaml.Unmarshal(trimmed, &view); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	switch {
	case env.View != nil:
		return env.View, nil
	case env.Page != nil:
		return env.Page, nil
	default:
		return &view, nil
	}
}
