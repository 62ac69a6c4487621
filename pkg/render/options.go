package render

// RenderOptions carry per-request settings that do not belong to the
// evaluated page.
type RenderOptions struct {
	// Action is the URL the rendered form posts to.
	Action string
	// Method defaults to POST.
	Method string
	// Stylesheets are linked from the document head when the renderer
	// produces a full document.
	Stylesheets []string
	// Partial renders only the form body without a document wrapper.
	Partial bool
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
}
