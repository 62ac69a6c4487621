package render

import (
	"context"
)

// Page is everything an output renderer needs to draw one screen.
type Page struct {
	Title  string `json:"title,omitempty"`
	ViewID string `json:"viewID,omitempty"`
	// Harness is set when the screen is a page such as New or Confirm.
	Harness    string   `json:"harness,omitempty"`
	Nodes      []Node   `json:"nodes"`
	FormErrors []string `json:"formErrors,omitempty"`
	// Actions are the form level buttons offered on the screen.
	Actions []string `json:"actions,omitempty"`
}

// Renderer converts an evaluated page into bytes (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}
