package html

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/store"
	"github.com/goliatone/go-caseform/pkg/testsupport"
	"github.com/goliatone/go-caseform/pkg/validation"
)

func evaluatePage(t *testing.T, fixture string, values map[string]any, opts ...render.Option) render.Page {
	t.Helper()
	view := testsupport.MustView(t, fixture)
	live := store.InitFromSchema(view)
	for path, value := range values {
		live.Set(path, value)
	}
	nodes := render.NewEvaluator(live, opts...).Evaluate(context.Background(), view)
	return render.Page{Title: view.Name, ViewID: view.ViewID, Nodes: nodes}
}

func mustRender(t *testing.T, page render.Page, options render.RenderOptions) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), page, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestRenderClaimDocument(t *testing.T) {
	page := evaluatePage(t, "claim.json", nil)
	page.Actions = []string{"cancel", "save", "submit"}

	out := mustRender(t, page, render.RenderOptions{
		Action:       "/claims/C-1",
		Stylesheets:  []string{"/static/caseform.css"},
		HiddenFields: render.MergeHiddenFields(nil, render.ETagField("v1")),
	})

	assertContains(t, out,
		"<!DOCTYPE html>",
		`<link rel="stylesheet" href="/static/caseform.css">`,
		`<form class="cf-form" method="post" action="/claims/C-1" data-view="CollectClaim">`,
		`<input type="hidden" name="etag" value="v1">`,
		`<label for="cf-Claimant-FirstName">First name<span class="cf-required-mark">*</span></label>`,
		`id="cf-Claimant-FirstName" name="Claimant.FirstName" value="Ada"`,
		`style="width:50.00%"`,
		`pattern="[0-9]{3}-[0-9]{3}-[0-9]{4}"`,
		`<span id="cf-Amount" class="cf-readonly">`,
		`<input type="checkbox" id="cf-Agree" name="Agree" value="true"> I confirm the details</label>`,
		`data-reference="Items"`,
		`<span class="cf-caption">Item</span>`,
		`id="cf-Items-1-Name" name="Items(1).Name" value="Laptop"`,
		`name="_grid_add" value="Items"`,
		`<b>support</b>`,
		`<button type="submit" name="_action" value="submit" class="cf-button cf-action-submit">Submit</button>`,
	)
	if strings.Contains(out, "_grid_remove") {
		t.Errorf("single row list should not offer delete")
	}
	if strings.Contains(out, "Secret") {
		t.Errorf("hidden control rendered")
	}
}

func TestRenderErrorsAndPartial(t *testing.T) {
	mapping := validation.MapMessages(testsupport.MustMessages(t, "messages.json"))
	page := evaluatePage(t, "claim.json", nil, render.WithErrors(mapping))
	page.FormErrors = mapping.Form

	out := mustRender(t, page, render.RenderOptions{Partial: true, Method: "PUT"})

	if strings.Contains(out, "<!DOCTYPE") || strings.Contains(out, "<body>") {
		t.Fatalf("partial render wrapped in a document")
	}
	assertContains(t, out,
		`<form class="cf-form" method="put"`,
		`<li>Review the highlighted fields</li>`,
		`cf-has-error`,
		`<p class="cf-error" role="alert">Enter a first name</p>`,
	)
}

func TestRenderSelectAndDate(t *testing.T) {
	page := evaluatePage(t, "claim.yaml", map[string]any{"Color": "Green"})
	out := mustRender(t, page, render.RenderOptions{})

	assertContains(t, out,
		`<option value="Red">Red</option>`,
		`<option value="Green" selected>Green</option>`,
		`<input type="date" id="cf-Due" name="Due" value="2024-01-15" data-store="datetime">`,
	)
}

func TestRenderUnsupportedControl(t *testing.T) {
	page := render.Page{Nodes: []render.Node{{
		Kind:       render.NodeUnsupported,
		Diagnostic: render.Diagnostic("pxSlider"),
	}}}
	out := mustRender(t, page, render.RenderOptions{Partial: true})
	assertContains(t, out, `<div class="cf-unsupported" role="note">FormElement for &#39;pxSlider&#39; is undefined.`)
}

func TestCustomControlRenderer(t *testing.T) {
	controls := NewDefaultRegistry().Clone()
	controls.MustRegister(ControlInput, func(buf *bytes.Buffer, field *render.FieldState, data ControlData) error {
		buf.WriteString(`<x-input ref="` + data.Name + `"></x-input>`)
		return nil
	})
	r, err := New(WithControls(controls), WithInlineStyles(true), WithLang("fr"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := evaluatePage(t, "claim.json", nil)
	out, err := r.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`<html lang="fr">`,
		`.cf-form {`,
		`<x-input ref="Claimant.FirstName"></x-input>`,
	)
	if _, ok := NewDefaultRegistry().Lookup("INPUT"); !ok {
		t.Fatalf("lookup should be case insensitive")
	}
}

func TestRenderHonoursContext(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := render.Page{Nodes: []render.Node{{Kind: render.NodeCaption, Text: "x"}}}
	if _, err := r.Render(ctx, page, render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestRegisterInRegistry(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	reg := render.NewRegistry()
	reg.MustRegister(r)
	reg.MustRegister(render.JSONRenderer{})
	got, err := reg.Get(Name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got.ContentType())
	}
}
