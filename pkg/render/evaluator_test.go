package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
	"github.com/goliatone/go-caseform/pkg/validation"
)

func fieldGroup(f *schema.Field) schema.Group {
	return schema.Group{Field: f}
}

func evalField(t *testing.T, e *Evaluator, f *schema.Field) *FieldState {
	t.Helper()
	node := e.EvaluateField(context.Background(), f, true)
	if node == nil || node.Field == nil {
		t.Fatalf("expected field node for %s", f.FieldID)
	}
	return node.Field
}

func TestErrorTieBreak(t *testing.T) {
	field := &schema.Field{
		FieldID:            "Age",
		Reference:          "Customer.Age",
		Value:              "abc",
		ValidationMessages: "Must be a number",
		Control:            schema.Control{Type: schema.ControlTextInput},
	}
	view := &schema.View{Groups: []schema.Group{fieldGroup(field)}}
	values := store.InitFromSchema(view)
	e := NewEvaluator(values)

	if st := evalField(t, e, field); !st.Error || st.ErrorMessage != "Must be a number" {
		t.Fatalf("stale server error should show while value is unchanged: %+v", st)
	}

	values.Set("Customer.Age", "42")
	if st := evalField(t, e, field); st.Error {
		t.Fatalf("error should clear once the value diverges")
	}

	values.Set("Customer.Age", "abc")
	if st := evalField(t, e, field); !st.Error {
		t.Fatalf("error should return when the value matches the server value again")
	}

	values.Set("Customer.Age", "42")
	e.SetErrors(validation.MapMessages([]validation.Message{{Path: ".Customer.Age", ValidationMessage: "Too young"}}))
	st := evalField(t, e, field)
	if !st.Error || st.ErrorMessage != "Too young" {
		t.Fatalf("mapped error should always apply, got %+v", st)
	}
}

func TestVisibilityAndHidden(t *testing.T) {
	view := &schema.View{Groups: []schema.Group{
		fieldGroup(&schema.Field{FieldID: "A", Reference: "A", Control: schema.Control{Type: schema.ControlTextInput}}),
		fieldGroup(&schema.Field{FieldID: "B", Reference: "B", Visible: schema.Bool(false), Control: schema.Control{Type: schema.ControlTextInput}}),
		fieldGroup(&schema.Field{FieldID: "C", Reference: "C", Control: schema.Control{Type: schema.ControlHidden}}),
		{View: &schema.View{ViewID: "Nested", Visible: schema.Bool(false)}},
		{Layout: &schema.Layout{GroupFormat: schema.FormatStacked, Visible: schema.Bool(false)}},
		{Paragraph: &schema.Paragraph{Value: "no visible flag"}},
		{Paragraph: &schema.Paragraph{Value: "<b>Hi</b><script>x()</script>", Visible: schema.Bool(true)}},
	}}
	nodes := NewEvaluator(store.InitFromSchema(view)).Evaluate(context.Background(), view)

	var kinds []NodeKind
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	if diff := cmp.Diff([]NodeKind{NodeField, NodeParagraph}, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if nodes[1].Text != "Hi" || nodes[1].HTML != "<b>Hi</b>" {
		t.Fatalf("paragraph not sanitised: %+v", nodes[1])
	}

	if got := NewEvaluator(nil).Evaluate(context.Background(), &schema.View{Visible: schema.Bool(false)}); got != nil {
		t.Fatalf("invisible view should evaluate to nothing, got %v", got)
	}
}

func TestLayoutArrangements(t *testing.T) {
	two := []schema.Group{
		{Caption: &schema.Caption{Value: "left"}},
		{Caption: &schema.Caption{Value: "right"}},
	}
	cases := []struct {
		format  string
		arrange Arrangement
		widths  []int
		columns int
	}{
		{schema.FormatInlineDouble, ArrangeColumns, []int{8, 8}, 2},
		{schema.FormatInlineTriple, ArrangeColumns, nil, 3},
		{schema.FormatInline7030, ArrangeColumns, []int{11, 5}, 2},
		{schema.FormatInline3070, ArrangeColumns, []int{5, 11}, 2},
		{schema.FormatStacked, ArrangeStacked, nil, 0},
		{schema.FormatInlineMiddle, ArrangeInline, nil, 2},
		{"Something new", ArrangeFlat, nil, 0},
	}
	e := NewEvaluator(nil)
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			node := e.EvaluateLayout(context.Background(), &schema.Layout{GroupFormat: tc.format, Groups: two})
			if node == nil {
				t.Fatal("expected a layout node")
			}
			if node.Arrangement != tc.arrange || node.Columns != tc.columns {
				t.Fatalf("arrangement = %s/%d, want %s/%d", node.Arrangement, node.Columns, tc.arrange, tc.columns)
			}
			if diff := cmp.Diff(tc.widths, node.Widths); diff != "" {
				t.Fatalf("widths mismatch (-want +got):\n%s", diff)
			}
			if len(node.Children) != 2 {
				t.Fatalf("expected 2 children, got %d", len(node.Children))
			}
		})
	}
}

func TestLayoutTitleClassAndDynamic(t *testing.T) {
	e := NewEvaluator(nil)
	node := e.EvaluateLayout(context.Background(), &schema.Layout{
		GroupFormat:     schema.FormatDynamic,
		Title:           "Details",
		ContainerFormat: "warnings",
		Rows: []schema.Row{
			{Groups: []schema.Group{{Caption: &schema.Caption{Value: "a"}}}},
			{Groups: []schema.Group{{Caption: &schema.Caption{Value: "b"}}, {Caption: &schema.Caption{Value: "c"}}}},
		},
	})
	if node.Title != "Details" || node.Class != "layout-warning" {
		t.Fatalf("title/class = %q/%q", node.Title, node.Class)
	}
	var texts []string
	for _, child := range node.Children {
		texts = append(texts, child.Text)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, texts); diff != "" {
		t.Fatalf("dynamic rows not flattened (-want +got):\n%s", diff)
	}

	nested := e.EvaluateLayout(context.Background(), &schema.Layout{View: &schema.View{ViewID: "Inner"}, ContainerFormat: "ERROR"})
	if nested.Arrangement != ArrangeView || nested.Class != "layout-error" || nested.Children[0].ID != "Inner" {
		t.Fatalf("nested view layout unexpected: %+v", nested)
	}
	if empty := e.EvaluateLayout(context.Background(), &schema.Layout{}); empty != nil {
		t.Fatalf("layout with nothing to arrange should be nil")
	}
}

func TestGridLayout(t *testing.T) {
	cell := func(ref, value string) schema.Row {
		return schema.Row{Groups: []schema.Group{fieldGroup(&schema.Field{
			FieldID: "Name", Reference: ref, Label: "Name", Value: value,
			Control: schema.Control{Type: schema.ControlTextInput},
		})}}
	}
	layout := &schema.Layout{
		GroupFormat:   schema.FormatGrid,
		Reference:     "Items",
		ReferenceType: "List",
		Header:        &schema.Row{Groups: []schema.Group{{Caption: &schema.Caption{Value: "Name"}}}},
		Rows:          []schema.Row{cell("Items(1).Name", "a"), cell("Items(2).Name", "b")},
	}
	e := NewEvaluator(nil, WithLoading(func(ref string) bool { return ref == "Items" }))
	node := e.EvaluateLayout(context.Background(), layout)
	if node.Kind != NodeGrid || node.Grid == nil {
		t.Fatalf("expected grid node, got %+v", node)
	}
	grid := node.Grid
	if grid.ReferenceType != schema.ReferencePageList || !grid.Loading || !grid.CanDelete || grid.FooterSpan != 1 {
		t.Fatalf("unexpected grid state: %+v", grid)
	}
	if len(grid.Rows) != 2 || grid.Rows[1][0].Field.Value != "b" {
		t.Fatalf("rows not evaluated: %+v", grid.Rows)
	}
	if grid.Rows[0][0].Field.Label != "" {
		t.Fatalf("grid cells hide labels, got %q", grid.Rows[0][0].Field.Label)
	}

	layout.Rows = layout.Rows[:1]
	layout.ReferenceType = schema.ReferencePageGroup
	grid = e.EvaluateLayout(context.Background(), layout).Grid
	if !grid.CanDelete || grid.FooterSpan != 2 {
		t.Fatalf("page group grid: %+v", grid)
	}
	layout.ReferenceType = schema.ReferencePageList
	if grid = e.EvaluateLayout(context.Background(), layout).Grid; grid.CanDelete {
		t.Fatalf("a single page list row cannot be deleted")
	}
}

func TestUnknownControlDiagnostic(t *testing.T) {
	node := NewEvaluator(nil).EvaluateField(context.Background(), &schema.Field{
		FieldID: "X", Control: schema.Control{Type: "pxTextInpt"},
	}, true)
	if node.Kind != NodeUnsupported {
		t.Fatalf("kind = %s", node.Kind)
	}
	want := "FormElement for 'pxTextInpt' is undefined. Did you mean 'pxTextInput'?"
	if node.Diagnostic != want {
		t.Fatalf("diagnostic = %q", node.Diagnostic)
	}
	if got := Diagnostic("pxSomethingElseEntirely"); strings.Contains(got, "Did you mean") {
		t.Fatalf("far names should not get a suggestion: %q", got)
	}
}

func TestCheckbox(t *testing.T) {
	field := &schema.Field{
		FieldID: "Agree", Reference: "Agree", Value: "true",
		Control: schema.Control{Type: schema.ControlCheckbox, Label: schema.Text("I agree"), Modes: []schema.Mode{{CaptionPosition: "left"}}},
	}
	values := store.New(nil)
	e := NewEvaluator(values)

	st := evalField(t, e, field)
	if !st.Checked || st.Value != true || st.CaptionPosition != "left" || st.ControlLabel != "I agree" {
		t.Fatalf("unexpected checkbox: %+v", st)
	}

	values.Set("Agree", false)
	if st := evalField(t, e, field); st.Checked {
		t.Fatalf("store value should win over the server value")
	}

	field.ReadOnly = true
	values.Set("Agree", true)
	if st := evalField(t, e, field); st.FormattedValue != "yes" {
		t.Fatalf("read-only checkbox = %q", st.FormattedValue)
	}
}

func TestTextInputs(t *testing.T) {
	e := NewEvaluator(nil)

	phone := evalField(t, e, &schema.Field{
		FieldID: "Phone", Reference: "Phone", Label: "Phone", Value: "<b>555</b>",
		Control: schema.Control{Type: schema.ControlPhone, Modes: []schema.Mode{{}}},
	})
	if phone.InputType != InputTel || phone.Pattern != PhonePattern || phone.Placeholder != PhonePlaceholder {
		t.Fatalf("phone input: %+v", phone)
	}
	if phone.Value != "555" {
		t.Fatalf("value should be sanitised, got %v", phone.Value)
	}

	amount := evalField(t, e, &schema.Field{
		FieldID: "Amount", Reference: "Amount", Label: "Amount",
		Control: schema.Control{Type: schema.ControlTextInput, Modes: []schema.Mode{{FormatType: "number"}}},
	})
	if amount.InputType != InputNumber || amount.Placeholder != "Amount" {
		t.Fatalf("number input: %+v", amount)
	}

	email := evalField(t, e, &schema.Field{
		FieldID: "Email", Reference: "Email", Value: "a@b.com", ReadOnly: true,
		Control: schema.Control{Type: schema.ControlEmail, Modes: []schema.Mode{{}, {FormatType: "email"}}},
	})
	if email.Href != "mailto:a@b.com" || email.FormattedValue != "a@b.com" {
		t.Fatalf("read-only email: %+v", email)
	}

	site := evalField(t, e, &schema.Field{
		FieldID: "Site", Reference: "Site", Value: "example.com", ReadOnly: true,
		Control: schema.Control{Type: schema.ControlURL, Modes: []schema.Mode{{}, {FormatType: "url"}}},
	})
	if site.Href != "http://example.com" {
		t.Fatalf("read-only url href = %q", site.Href)
	}

	total := evalField(t, e, &schema.Field{
		FieldID: "Total", Reference: "Total", Value: "12", ReadOnly: true,
		Control: schema.Control{Type: schema.ControlTextInput, Modes: []schema.Mode{{}, {FormatType: "text", AutoPrepend: "#"}}},
	})
	if total.FormattedValue != "#12" {
		t.Fatalf("read-only text should use mode 1 formatting, got %q", total.FormattedValue)
	}
}

func TestLabelRules(t *testing.T) {
	e := NewEvaluator(nil)
	reserved := &schema.Field{FieldID: "R", Reference: "R", LabelReserveSpace: true, Control: schema.Control{Type: schema.ControlTextInput}}
	if st := evalField(t, e, reserved); st.Label != " " {
		t.Fatalf("reserved label = %q", st.Label)
	}
	labelled := &schema.Field{FieldID: "L", Reference: "L", Label: "Name", Control: schema.Control{Type: schema.ControlTextInput}}
	if node := e.EvaluateField(context.Background(), labelled, false); node.Field.Label != "" {
		t.Fatalf("label should be hidden when showLabel is false")
	}
}

func TestDropdownFromPageList(t *testing.T) {
	values := store.New(map[string]any{"Hint": "Choose a color"})
	resolver := datasource.NewResolver(datasource.WithCaseContent(map[string]any{
		"Colors": []any{map[string]any{"Code": "R", "Name": "Red"}},
	}))
	e := NewEvaluator(values, WithResolver(resolver))
	st := evalField(t, e, &schema.Field{
		FieldID: "Color", Reference: "Color", Label: "Color",
		Control: schema.Control{Type: schema.ControlDropdown, Modes: []schema.Mode{{
			ListSource: schema.SourcePageList, ClipboardPageID: "Colors", ClipboardValue: "Code", ClipboardPrompt: "Name",
			Placeholder: schema.Text(".Hint"),
		}}},
	})
	if diff := cmp.Diff([]schema.Option{{Key: "R", Value: "Red"}}, st.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if st.Placeholder != "Choose a color" {
		t.Fatalf("placeholder = %q", st.Placeholder)
	}
	if st.Selection(st.Options[0]) != "Red" {
		t.Fatalf("dropdowns store the option text")
	}
}

func TestDateTimeFallsBackToNow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(nil, WithFormatter(format.New(format.WithClock(func() time.Time { return now }))))

	field := &schema.Field{
		FieldID: "Due", Reference: "Due", Value: "not a date",
		Control: schema.Control{Type: schema.ControlDateTime, Modes: []schema.Mode{{}, {FormatType: "datetime"}}},
	}
	st := evalField(t, e, field)
	if st.Date == nil || !st.Date.Equal(now) || st.FormattedValue != "2024-03-01" || !st.StoreDateTime {
		t.Fatalf("unexpected date state: %+v", st)
	}

	field.Value = "20240115"
	if st := evalField(t, e, field); st.FormattedValue != "2024-01-15" {
		t.Fatalf("stored date not parsed: %q", st.FormattedValue)
	}
}

func TestButtonLinkIcon(t *testing.T) {
	values := store.New(map[string]any{"Docs": "https://docs.example.com"})
	e := NewEvaluator(values)

	button := evalField(t, e, &schema.Field{
		FieldID: "Go", ReadOnly: true,
		Control: schema.Control{Type: schema.ControlButton, Label: schema.Text("Go"), Modes: []schema.Mode{{}, {ControlFormat: "strong", Tooltip: "Run it"}}},
	})
	if button.ButtonFormat != ButtonPrimary || !button.Disabled || button.Tooltip != "Run it" || button.ControlLabel != "Go" {
		t.Fatalf("button: %+v", button)
	}

	link := evalField(t, e, &schema.Field{
		FieldID: "Help",
		Control: schema.Control{Type: schema.ControlLink, Label: schema.Text(`"Read the docs"`), Modes: []schema.Mode{
			{LinkData: schema.Text(".Docs"), LinkImagePosition: "left"},
			{ControlFormat: "LIGHT", LinkStyle: "pxLink external"},
		}},
	})
	want := FieldState{Href: "https://docs.example.com", LinkFormat: LinkLighter, LinkIcon: "external", LinkPosition: "left", ControlLabel: "Read the docs"}
	got := FieldState{Href: link.Href, LinkFormat: link.LinkFormat, LinkIcon: link.LinkIcon, LinkPosition: link.LinkPosition, ControlLabel: link.ControlLabel}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("link mismatch (-want +got):\n%s", diff)
	}
	if link.FiresOnClick {
		t.Fatalf("links with a target do not fire their handler")
	}

	icon := evalField(t, e, &schema.Field{
		FieldID: "Star",
		Control: schema.Control{Type: schema.ControlIcon, Modes: []schema.Mode{{IconSource: schema.IconStyleClass, IconStyle: "pi pi-arrow-up"}}},
	})
	if icon.Icon == nil || icon.Icon.Name != "arrow_up" {
		t.Fatalf("icon: %+v", icon.Icon)
	}
}

func TestHandlerCompiledOnce(t *testing.T) {
	field := &schema.Field{
		FieldID: "F", Reference: "F",
		Control: schema.Control{Type: schema.ControlTextInput, ActionSets: []schema.ActionSet{{
			Events:  []schema.Event{{Event: schema.EventChange}},
			Actions: []schema.Action{{Action: schema.ActionRefresh}},
		}}},
	}
	e := NewEvaluator(nil)
	st := evalField(t, e, field)
	if diff := cmp.Diff([]actions.StepKind{actions.StepRefresh}, st.Handler.Kinds()); diff != "" {
		t.Fatalf("handler mismatch (-want +got):\n%s", diff)
	}

	field.Control.ActionSets = nil
	if e.Handler(field).Empty() {
		t.Fatalf("handler should stay cached until Reset")
	}
	e.Reset()
	if !e.Handler(field).Empty() {
		t.Fatalf("Reset should drop cached handlers")
	}
}
