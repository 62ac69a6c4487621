package render

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
)

// EvaluateField describes field. Hidden fields and hidden controls yield
// nil; unknown control types yield an unsupported node with a diagnostic.
func (e *Evaluator) EvaluateField(ctx context.Context, field *schema.Field, showLabel bool) *Node {
	if field == nil || schema.Hidden(field.Visible) || field.Control.Type == schema.ControlHidden {
		return nil
	}

	value := e.fieldValue(field)
	st := &FieldState{
		FieldID:     field.FieldID,
		Name:        field.Name,
		Reference:   field.Reference,
		TestID:      field.TestID,
		FieldType:   field.Control.Type,
		Label:       fieldLabel(field, showLabel),
		Value:       value,
		ServerValue: field.Value,
		Required:    field.Required,
		ReadOnly:    field.ReadOnly,
		Disabled:    field.Disabled,
		MaxLength:   field.MaxLength,
		ShowLabel:   field.ShowLabel,
		Tooltip:     tooltip(field),
		Mode:        field.Mode(0),
		Handler:     e.Handler(field),
	}
	st.Error, st.ErrorMessage = e.errorState(field, value)

	switch field.Control.Type {
	case schema.ControlCheckbox:
		e.checkbox(field, st)
	case schema.ControlRadioButtons:
		e.radio(ctx, field, st)
	case schema.ControlAutoComplete:
		e.autocomplete(ctx, field, st)
	case schema.ControlDropdown:
		e.dropdown(ctx, field, st)
	case schema.ControlEmail, schema.ControlPhone, schema.ControlInteger,
		schema.ControlURL, schema.ControlCurrency, schema.ControlTextInput:
		e.textInput(field, st)
	case schema.ControlTextArea:
		if st.ReadOnly {
			e.readOnlyText(nil, format.Stringify(field.Value), st)
		} else {
			st.Placeholder = st.Label
			st.FormattedValue = format.Stringify(value)
		}
	case schema.ControlDisplayText:
		display := e.formatter.Format(field.Value, field, 1)
		if field.Type == schema.PropertyDateTime {
			display = e.formatter.RelativeTime(format.Stringify(field.Value))
		}
		e.readOnlyText(field, display, st)
	case schema.ControlDateTime:
		e.dateTime(field, value, st)
	case schema.ControlButton:
		e.button(field, st)
	case schema.ControlLabel:
		st.FormattedValue = st.Label
	case schema.ControlLink:
		e.link(field, st)
	case schema.ControlIcon:
		e.icon(field, st)
	case schema.ControlSubscript:
		e.readOnlyText(nil, format.Stringify(field.Value), st)
	default:
		return &Node{
			Kind:       NodeUnsupported,
			ID:         field.FieldID,
			Field:      st,
			Diagnostic: Diagnostic(field.Control.Type),
		}
	}

	return &Node{Kind: NodeField, ID: field.FieldID, Field: st}
}

// Diagnostic is the placeholder text for a control type with no renderer.
// A close match among known types is suggested.
func Diagnostic(controlType string) string {
	msg := fmt.Sprintf("FormElement for '%s' is undefined.", controlType)
	if suggestion := suggestControl(controlType); suggestion != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", suggestion)
	}
	return msg
}

func suggestControl(controlType string) string {
	if controlType == "" {
		return ""
	}
	best, bestDist := "", 4
	lowered := strings.ToLower(controlType)
	for _, known := range schema.ControlTypes {
		dist := levenshtein.ComputeDistance(lowered, strings.ToLower(known))
		if dist < bestDist {
			best, bestDist = known, dist
		}
	}
	return best
}

// fieldValue reads the live store, falling back to the server value and then
// to the empty string.
func (e *Evaluator) fieldValue(field *schema.Field) any {
	if v, ok := e.values.Get(field.Reference); ok && v != nil {
		return v
	}
	if falsy(field.Value) {
		return ""
	}
	return store.Normalize(field.Value)
}

// errorState reports a mapped validation error for the field's reference,
// else the server message while the value still equals the server value.
func (e *Evaluator) errorState(field *schema.Field, value any) (bool, string) {
	if msg, ok := e.errors.Lookup(store.ExpandPath(field.Reference)); ok {
		return true, msg
	}
	if field.ValidationMessages != "" && sameValue(value, field.Value) {
		return true, field.ValidationMessages
	}
	return false, ""
}

func (e *Evaluator) checkbox(field *schema.Field, st *FieldState) {
	st.Checked = truthy(st.Value)
	st.Value = st.Checked
	st.ControlLabel = field.Control.Label.String()
	st.CaptionPosition = field.Mode(0).CaptionPosition
	if st.ReadOnly {
		st.FormattedValue = "no"
		if st.Checked {
			st.FormattedValue = "yes"
		}
	}
}

func (e *Evaluator) radio(ctx context.Context, field *schema.Field, st *FieldState) {
	if st.ReadOnly {
		e.readOnlyText(nil, format.Stringify(field.Value), st)
		return
	}
	st.Label = field.Label
	st.Disabled = field.Disabled || field.ReadOnly
	st.Options = e.resolver.Options(ctx, field.Mode(0))
	st.FormattedValue = format.Stringify(st.Value)
}

func (e *Evaluator) autocomplete(ctx context.Context, field *schema.Field, st *FieldState) {
	if st.ReadOnly {
		e.readOnlyText(nil, format.Stringify(field.Value), st)
		return
	}
	mode := field.Mode(0)
	st.ListSource = mode.ListSource
	st.Placeholder = st.Label
	st.FormattedValue = format.Stringify(st.Value)
	if mode.ListSource == schema.SourceDataPage {
		return
	}
	suggestions, err := e.resolver.Suggestions(ctx, mode)
	if err != nil {
		e.logger.Warn("autocomplete suggestions", "field", field.FieldID, "error", err)
		return
	}
	for _, s := range suggestions {
		st.Options = append(st.Options, schema.Option{Key: s.Title, Value: s.Description})
	}
}

func (e *Evaluator) dropdown(ctx context.Context, field *schema.Field, st *FieldState) {
	if st.ReadOnly {
		e.readOnlyText(nil, format.Stringify(field.Value), st)
		return
	}
	mode := field.Mode(0)
	st.Placeholder = st.Label
	if !mode.Placeholder.IsZero() {
		st.Placeholder = format.Stringify(actions.ResolveProperty(e.values, mode.Placeholder, nil))
	}
	st.ListSource = mode.ListSource
	st.Options = e.resolver.Options(ctx, mode)
	st.FormattedValue = format.Stringify(st.Value)
}

func (e *Evaluator) textInput(field *schema.Field, st *FieldState) {
	if st.ReadOnly {
		e.readOnlyText(field, format.Stringify(field.Value), st)
		return
	}
	st.InputType = InputType(field)
	st.Placeholder = st.Label
	if st.InputType == InputTel {
		st.Pattern = PhonePattern
		st.Placeholder = PhonePlaceholder
	}
	st.FormattedValue = format.Sanitize(format.Stringify(st.Value))
	st.Value = st.FormattedValue
}

func (e *Evaluator) dateTime(field *schema.Field, value any, st *FieldState) {
	if st.ReadOnly {
		e.readOnlyText(field, e.formatter.Format(field.Value, field, 1), st)
		return
	}
	raw := format.Stringify(value)
	date, ok := format.ParseDate(raw)
	if !ok {
		date = e.formatter.CurrentTime()
	}
	st.Date = &date
	st.FormattedValue = date.Format("2006-01-02")
	st.StoreDateTime = strings.Contains(strings.ToLower(field.Mode(1).FormatType), format.TypeDateTime)
}

func (e *Evaluator) button(field *schema.Field, st *FieldState) {
	st.ControlLabel = field.Control.Label.String()
	st.Disabled = field.ReadOnly || field.Disabled
	st.ButtonFormat = buttonFormat(field)
	st.FiresOnClick = true
	if !field.ShowLabel {
		st.Label = ""
	}
}

func (e *Evaluator) link(field *schema.Field, st *FieldState) {
	mode := field.Mode(0)
	st.Href = format.Stringify(actions.ResolveProperty(e.values, mode.LinkData, nil))
	st.LinkFormat = linkFormat(field)
	st.LinkImage = mode.LinkImage
	st.LinkPosition = mode.LinkImagePosition
	if style := field.Mode(1).LinkStyle; style != "" {
		words := strings.Fields(style)
		st.LinkIcon = words[len(words)-1]
	}
	st.ControlLabel = format.Stringify(actions.ResolveProperty(e.values, field.Control.Label, nil))
	st.FiresOnClick = st.Href == ""
}

func (e *Evaluator) icon(field *schema.Field, st *FieldState) {
	mode := field.Mode(0)
	icon := &Icon{Source: mode.IconSource}
	switch mode.IconSource {
	case schema.IconStandard:
		icon.Name = mode.IconStandard
		icon.Alt = "Standard icon"
	case schema.IconImage:
		icon.URL = mode.IconImage
		icon.Alt = "Icon from file"
	case schema.IconExternal:
		icon.URL = mode.IconURL
		icon.Alt = "Icon from external URL"
	case schema.IconProperty:
		icon.URL = format.Stringify(actions.ResolveProperty(e.values, mode.IconProperty, nil))
		icon.Alt = "Icon from property"
	case schema.IconStyleClass:
		icon.Name = StyleClassIcon(mode.IconStyle)
		icon.Alt = "Icon from styleclass"
	default:
		icon.Alt = "Icon with undefined source"
	}
	st.Icon = icon
	st.FiresOnClick = true
}

// readOnlyText fills the display of a read-only control. With a field whose
// read-only mode declares email, tel or url the display becomes a link;
// otherwise the field value is formatted with the read-only mode.
func (e *Evaluator) readOnlyText(field *schema.Field, display string, st *FieldState) {
	if field != nil && len(field.Control.Modes) > 1 {
		switch field.Control.Modes[1].FormatType {
		case format.TypeEmail:
			st.Href = "mailto:" + display
		case format.TypeTel:
			st.Href = "tel:" + display
		case format.TypeURL:
			st.Href = display
			if !strings.HasPrefix(display, "http") {
				st.Href = "http://" + display
			}
		default:
			display = e.formatter.Format(field.Value, field, 1)
		}
	}
	st.ReadOnly = true
	st.FormattedValue = display
}

// InputType picks the input type of a text-like control from its control
// type or the editable mode's format type.
func InputType(field *schema.Field) string {
	if field == nil || len(field.Control.Modes) == 0 {
		return InputText
	}
	formatType := field.Control.Modes[0].FormatType
	switch kind := field.Control.Type; {
	case kind == schema.ControlEmail || formatType == format.TypeEmail:
		return InputEmail
	case kind == schema.ControlPhone || formatType == format.TypeTel:
		return InputTel
	case kind == schema.ControlURL || formatType == format.TypeURL:
		return InputURL
	case kind == schema.ControlInteger || kind == schema.ControlCurrency || formatType == format.TypeNumber:
		return InputNumber
	default:
		return InputText
	}
}

// StyleClassIcon translates "pi pi-" style classes into icon names.
func StyleClassIcon(style string) string {
	if !strings.Contains(style, "pi") {
		return style
	}
	lowered := strings.ToLower(style)
	for {
		i := strings.Index(lowered, "pi pi-")
		if i < 0 {
			break
		}
		style = style[:i] + style[i+len("pi pi-"):]
		lowered = lowered[:i] + lowered[i+len("pi pi-"):]
	}
	return strings.ReplaceAll(style, "-", "_")
}

func fieldLabel(field *schema.Field, showLabel bool) string {
	if !showLabel {
		return ""
	}
	if field.Label == "" && field.LabelReserveSpace {
		return " "
	}
	return field.Label
}

func tooltip(field *schema.Field) string {
	if len(field.Control.Modes) <= 1 {
		return ""
	}
	switch field.Control.Type {
	case schema.ControlButton, schema.ControlLink, schema.ControlIcon:
		return field.Control.Modes[1].Tooltip
	default:
		return field.Control.Modes[0].Tooltip
	}
}

func buttonFormat(field *schema.Field) string {
	if len(field.Control.Modes) <= 1 {
		return ""
	}
	switch strings.ToUpper(field.Control.Modes[1].ControlFormat) {
	case "STRONG":
		return ButtonPrimary
	case "LIGHT":
		return ButtonBasic
	case "RED":
		return ButtonRed
	default:
		return ""
	}
}

func linkFormat(field *schema.Field) string {
	if len(field.Control.Modes) <= 1 {
		return ""
	}
	switch strings.ToUpper(field.Control.Modes[1].ControlFormat) {
	case "STRONG":
		return LinkBolder
	case "LIGHT":
		return LinkLighter
	case "RED":
		return LinkRed
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	default:
		return false
	}
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(store.Normalize(a), store.Normalize(b))
}
