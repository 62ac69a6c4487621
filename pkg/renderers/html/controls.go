package html

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-caseform/pkg/render"
	rendertemplate "github.com/goliatone/go-caseform/pkg/render/template"
	"github.com/goliatone/go-caseform/pkg/schema"
)

// Control names used by the default registry.
const (
	ControlInput        = "input"
	ControlTextarea     = "textarea"
	ControlSelect       = "select"
	ControlRadio        = "radio"
	ControlCheckbox     = "checkbox"
	ControlAutocomplete = "autocomplete"
	ControlDate         = "date"
	ControlButton       = "button"
	ControlLabel        = "label"
	ControlLink         = "link"
	ControlIcon         = "icon"
	ControlReadOnly     = "readonly"
)

const controlTemplatePrefix = "templates/controls/"

// ControlRenderer writes the markup of one control into buf.
type ControlRenderer func(buf *bytes.Buffer, field *render.FieldState, data ControlData) error

// ControlData carries what a control renderer needs besides the field.
type ControlData struct {
	Template rendertemplate.TemplateRenderer
	// ID is the element id; Name is the posted input name.
	ID      string
	Name    string
	Trigger string
	Options []map[string]any
}

// Registry maps control names to renderers. Callers can replace the
// defaults to restyle a control.
type Registry struct {
	mu       sync.RWMutex
	controls map[string]ControlRenderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{controls: make(map[string]ControlRenderer)}
}

// NewDefaultRegistry returns a registry with a template per control.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, name := range []string{
		ControlInput, ControlTextarea, ControlSelect, ControlRadio,
		ControlCheckbox, ControlAutocomplete, ControlDate, ControlButton,
		ControlLabel, ControlLink, ControlIcon, ControlReadOnly,
	} {
		registry.MustRegister(name, templateControl(controlTemplatePrefix+name+".tmpl"))
	}
	return registry
}

// Clone returns a copy that can be changed without touching r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := NewRegistry()
	for name, fn := range r.controls {
		cloned.controls[name] = fn
	}
	return cloned
}

// Register associates fn with name, replacing any existing entry.
func (r *Registry) Register(name string, fn ControlRenderer) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("html: control name is required")
	}
	if fn == nil {
		return fmt.Errorf("html: renderer for %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls[name] = fn
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, fn ControlRenderer) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup fetches the renderer for name.
func (r *Registry) Lookup(name string) (ControlRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.controls[normalize(name)]
	return fn, ok
}

// Names returns the registered control names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.controls))
	for name := range r.controls {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func templateControl(templateName string) ControlRenderer {
	return func(buf *bytes.Buffer, field *render.FieldState, data ControlData) error {
		if data.Template == nil {
			return fmt.Errorf("html: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"field":   field,
			"id":      data.ID,
			"name":    data.Name,
			"trigger": data.Trigger,
			"options": data.Options,
		})
		if err != nil {
			return fmt.Errorf("html: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// ControlName picks the registry entry that draws field. Read-only value
// controls share one read-only renderer.
func ControlName(field *render.FieldState) string {
	if field == nil {
		return ""
	}
	switch field.FieldType {
	case schema.ControlCheckbox:
		return ControlCheckbox
	case schema.ControlButton:
		return ControlButton
	case schema.ControlLabel:
		return ControlLabel
	case schema.ControlLink:
		return ControlLink
	case schema.ControlIcon:
		return ControlIcon
	case schema.ControlDisplayText, schema.ControlSubscript:
		return ControlReadOnly
	}
	if field.ReadOnly {
		return ControlReadOnly
	}
	switch field.FieldType {
	case schema.ControlRadioButtons:
		return ControlRadio
	case schema.ControlAutoComplete:
		return ControlAutocomplete
	case schema.ControlDropdown:
		return ControlSelect
	case schema.ControlTextArea:
		return ControlTextarea
	case schema.ControlDateTime:
		return ControlDate
	default:
		return ControlInput
	}
}

// controlOptions turns the field options into template rows. The posted
// value is what the control stores on selection.
func controlOptions(field *render.FieldState) []map[string]any {
	if len(field.Options) == 0 {
		return nil
	}
	current := field.FormattedValue
	out := make([]map[string]any, 0, len(field.Options))
	for _, opt := range field.Options {
		value := field.Selection(opt)
		label := opt.Value
		if label == "" {
			label = opt.Key
		}
		out = append(out, map[string]any{
			"value":    value,
			"label":    label,
			"selected": value != "" && value == current,
		})
	}
	return out
}

// elementID derives a stable id from the field reference so repeated grid
// rows get distinct ids.
func elementID(field *render.FieldState) string {
	source := field.Reference
	if source == "" {
		source = field.FieldID
	}
	var b strings.Builder
	b.WriteString("cf")
	dash := false
	for _, r := range source {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if !ok {
			dash = true
			continue
		}
		if dash || b.Len() == 2 {
			b.WriteByte('-')
			dash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
