package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/session"
	"github.com/goliatone/go-caseform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", ErrAborted
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type stubBackend struct {
	refreshes []map[string]any
	submitted []map[string]any
	saved     int
}

func (b *stubBackend) Refresh(_ context.Context, _ session.AssignmentRef, content map[string]any) (*session.Screen, error) {
	b.refreshes = append(b.refreshes, content)
	return nil, nil
}

func (b *stubBackend) FieldsForAction(context.Context, string, string) (*session.Screen, error) {
	return nil, nil
}

func (b *stubBackend) PerformAction(_ context.Context, _ session.AssignmentRef, content map[string]any) (*session.Result, error) {
	b.submitted = append(b.submitted, content)
	return &session.Result{}, nil
}

func (b *stubBackend) UpdateCase(context.Context, string, map[string]any, string) (*session.Result, error) {
	b.saved++
	return &session.Result{ETag: "v2"}, nil
}

func (b *stubBackend) CreateCase(context.Context, string, map[string]any) (*session.Result, error) {
	return &session.Result{}, nil
}

var assignment = session.AssignmentRef{CaseID: "C-1", AssignmentID: "A-1", ActionID: "Collect"}

func TestRunWalksClaimAndSubmits(t *testing.T) {
	backend := &stubBackend{}
	s := session.New(session.WithBackend(backend), session.WithAssignment(assignment))
	s.Load(&session.Screen{View: testsupport.MustView(t, "claim.json")})

	driver := &stubDriver{
		inputs:    []string{"Grace", "555-123-4567", "Mouse"},
		confirm:   []bool{true, false},
		selectIdx: []int{2},
	}
	result, err := NewRunner(WithPromptDriver(driver), WithMaxRounds(1)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result == nil {
		t.Fatalf("expected submit result")
	}

	wantPrompts := []string{
		"First name *",
		"Phone",
		"I confirm the details",
		"ItemName",
		"Add an item to Items?",
		"What next?",
	}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if len(backend.refreshes) != 1 {
		t.Fatalf("expected one refresh from the checkbox handler, got %d", len(backend.refreshes))
	}
	if len(backend.submitted) != 1 {
		t.Fatalf("expected one submit, got %d", len(backend.submitted))
	}
	content := backend.submitted[0]
	claimant, _ := content["Claimant"].(map[string]any)
	if claimant["FirstName"] != "Grace" || claimant["Phone"] != "555-123-4567" {
		t.Fatalf("claimant not submitted: %v", content["Claimant"])
	}
	if content["Agree"] != true {
		t.Fatalf("checkbox answer not submitted: %v", content)
	}
	refresh := backend.refreshes[0]
	if refresh["Status"] != "Confirmed" || refresh["Agree"] != true {
		t.Fatalf("checkbox handler should send its setValue with the refresh: %v", refresh)
	}
	if got := s.Store().Value("Items(1).Name"); got != "Mouse" {
		t.Fatalf("grid row value = %v", got)
	}
	if !containsLine(driver.infoMessages, "-- Claimant --") {
		t.Fatalf("layout title not printed: %v", driver.infoMessages)
	}
}

func TestRunDropdownAndDate(t *testing.T) {
	s := session.New()
	s.Load(&session.Screen{View: testsupport.MustView(t, "claim.yaml")})

	driver := &stubDriver{
		inputs:    []string{"2024-02-09"},
		selectIdx: []int{1},
	}
	if _, err := NewRunner(WithPromptDriver(driver)).Run(context.Background(), s); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.Store().Value("Color"); got != "Green" {
		t.Fatalf("dropdown stored %v, want option text", got)
	}
	if got := s.Store().Value("Due"); got != "20240209T000000.000" {
		t.Fatalf("date stored %v", got)
	}
	if !containsLine(driver.infoMessages, "Nothing left to do on this screen.") {
		t.Fatalf("expected completion message: %v", driver.infoMessages)
	}
}

func TestRunSaveThenCancel(t *testing.T) {
	backend := &stubBackend{}
	s := session.New(session.WithBackend(backend), session.WithAssignment(assignment))
	field := &schema.Field{FieldID: "Note", Reference: "Note", Label: "Note", Control: schema.Control{Type: schema.ControlTextInput}}
	s.Load(&session.Screen{View: &schema.View{ViewID: "V", Groups: []schema.Group{{Field: field}}}})

	driver := &stubDriver{
		inputs:    []string{"hello", "hello"},
		selectIdx: []int{1, 0},
	}
	result, err := NewRunner(WithPromptDriver(driver), WithMaxRounds(3)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != nil {
		t.Fatalf("cancel should not return a result: %+v", result)
	}
	if backend.saved != 1 || s.ETag() != "v2" {
		t.Fatalf("save not performed: saved=%d etag=%q", backend.saved, s.ETag())
	}
	if !s.Closed() {
		t.Fatalf("cancel should close the session")
	}
}

func TestRunAborts(t *testing.T) {
	s := session.New(session.WithAssignment(assignment))
	s.Load(&session.Screen{View: testsupport.MustView(t, "claim.json")})

	_, err := NewRunner(WithPromptDriver(&stubDriver{})).Run(context.Background(), s)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := NewRunner(WithPromptDriver(&stubDriver{})).Run(context.Background(), nil); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   fieldRules
		value   string
		wantErr bool
	}{
		{name: "optional blank", rules: fieldRules{}, value: " "},
		{name: "required blank", rules: fieldRules{required: true}, value: "", wantErr: true},
		{name: "number", rules: fieldRules{number: true}, value: "12.5"},
		{name: "not a number", rules: fieldRules{number: true}, value: "twelve", wantErr: true},
		{name: "too long", rules: fieldRules{maxLength: 3}, value: "abcd", wantErr: true},
		{name: "phone", rules: fieldRules{pattern: phonePattern}, value: "555-123-4567"},
		{name: "bad phone", rules: fieldRules{pattern: phonePattern}, value: "5551234567", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestPrompter(t *testing.T) {
	p := NewPrompter(&stubDriver{inputs: []string{" Home ", "  "}})
	ctx := context.Background()

	answer, ok, err := p.Prompt(ctx, "Please enter a name for the group.", "")
	if err != nil || !ok || answer != "Home" {
		t.Fatalf("Prompt = %q, %v, %v", answer, ok, err)
	}
	if _, ok, err := p.Prompt(ctx, "again", ""); ok || err != nil {
		t.Fatalf("blank answer should cancel: %v %v", ok, err)
	}
	if _, ok, err := p.Prompt(ctx, "aborted", ""); ok || err != nil {
		t.Fatalf("abort should cancel: %v %v", ok, err)
	}
}

func TestTextRenderer(t *testing.T) {
	s := session.New(session.WithAssignment(assignment))
	s.Load(&session.Screen{View: testsupport.MustView(t, "claim.json")})
	s.SetValidationMessages(testsupport.MustMessages(t, "messages.json"))

	out, err := TextRenderer{Theme: DefaultTheme}.Render(context.Background(), s.Render(context.Background()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"== Collect claim ==",
		"! Review the highlighted fields",
		"-- Claimant --",
		"  First name *: Ada",
		"    ! Enter a first name",
		"[ ] I confirm the details",
		"Items:",
		"  1. Laptop",
		"[cancel] [save] [submit]",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q:\n%s", want, text)
		}
	}
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}
