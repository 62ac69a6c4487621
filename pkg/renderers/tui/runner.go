// Package tui drives a session from the terminal: every editable control on
// the screen becomes a prompt, and the form actions are offered at the end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/session"
)

const (
	choiceReview = "Review form"
	choiceTyped  = "Keep typed value"
)

var actionLabels = map[string]string{
	session.ActionSubmit: "Submit",
	session.ActionSave:   "Save",
	session.ActionCancel: "Cancel",
	session.ActionCreate: "Create case",
}

// Runner walks a session screen with a PromptDriver.
type Runner struct {
	driver    PromptDriver
	theme     Theme
	maxRounds int
	logger    *slog.Logger
}

// NewRunner constructs a runner with defaults (survey driver, no round
// limit).
func NewRunner(options ...Option) *Runner {
	r := &Runner{
		theme:  DefaultTheme,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Driver returns the prompt driver, for wiring a Prompter to the same
// terminal.
func (r *Runner) Driver() PromptDriver {
	return r.driver
}

// Run prompts for the screen until it is submitted, cancelled or a case is
// created. Backend failures are printed and the screen is walked again.
func (r *Runner) Run(ctx context.Context, s *session.Session) (*session.Result, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if s == nil {
		return nil, ErrNoSession
	}

	for round := 0; r.maxRounds == 0 || round < r.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := s.Render(ctx)
		if page.Title != "" {
			r.info(ctx, "== "+page.Title+" ==")
		}
		for _, msg := range page.FormErrors {
			r.fail(ctx, msg)
		}
		if err := r.walk(ctx, s, page.Nodes); err != nil {
			return nil, err
		}

		done, result, err := r.finish(ctx, s, page)
		if err != nil {
			if errors.Is(err, ErrAborted) || ctx.Err() != nil {
				return nil, err
			}
			r.fail(ctx, err.Error())
			continue
		}
		if done {
			return result, nil
		}
	}
	return nil, ErrTooManyRounds
}

func (r *Runner) walk(ctx context.Context, s *session.Session, nodes []render.Node) error {
	for i := range nodes {
		if err := r.node(ctx, s, &nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) node(ctx context.Context, s *session.Session, node *render.Node) error {
	switch node.Kind {
	case render.NodeView, render.NodeLayout:
		if node.Title != "" {
			r.info(ctx, "-- "+node.Title+" --")
		}
		return r.walk(ctx, s, node.Children)
	case render.NodeGrid:
		return r.grid(ctx, s, node)
	case render.NodeParagraph, render.NodeCaption:
		if text := strings.TrimSpace(node.Text); text != "" {
			r.info(ctx, text)
		}
		return nil
	case render.NodeField:
		return r.field(ctx, s, node.Field)
	default:
		r.fail(ctx, node.Diagnostic)
		return nil
	}
}

func (r *Runner) grid(ctx context.Context, s *session.Session, node *render.Node) error {
	grid := node.Grid
	if grid == nil {
		return nil
	}
	for i, row := range grid.Rows {
		r.info(ctx, fmt.Sprintf("%s #%d", grid.Reference, i+1))
		if err := r.walk(ctx, s, row); err != nil {
			return err
		}
	}

	add, err := r.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Add an item to %s?", grid.Reference)})
	if err != nil {
		return err
	}
	if add {
		r.report(ctx, s.AddRow(ctx, grid.Reference, grid.ReferenceType))
		return nil
	}
	if !grid.CanDelete {
		return nil
	}
	remove, err := r.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Delete an item from %s?", grid.Reference)})
	if err != nil {
		return err
	}
	if remove {
		r.report(ctx, s.RemoveRow(ctx, grid.Reference, grid.ReferenceType))
	}
	return nil
}

func (r *Runner) field(ctx context.Context, s *session.Session, st *render.FieldState) error {
	if st == nil {
		return nil
	}
	if st.Error {
		r.fail(ctx, fmt.Sprintf("%s: %s", fieldTitle(st), st.ErrorMessage))
	}

	switch st.FieldType {
	case schema.ControlButton, schema.ControlIcon:
		return r.click(ctx, s, st)
	case schema.ControlLink:
		if st.Href != "" {
			r.info(ctx, fmt.Sprintf("%s: %s", fieldTitle(st), st.Href))
			return nil
		}
		return r.click(ctx, s, st)
	case schema.ControlLabel:
		r.info(ctx, st.FormattedValue)
		return nil
	}
	if st.ReadOnly || st.Disabled {
		r.info(ctx, fmt.Sprintf("%s: %s", fieldTitle(st), st.FormattedValue))
		return nil
	}

	field, ok := s.FieldByReference(st.Reference)
	if !ok {
		r.logger.Debug("field not on the current screen", "reference", st.Reference)
		return nil
	}

	switch st.FieldType {
	case schema.ControlCheckbox:
		return r.checkbox(ctx, s, field, st)
	case schema.ControlDropdown, schema.ControlRadioButtons:
		return r.choice(ctx, s, field, st)
	case schema.ControlAutoComplete:
		return r.autocomplete(ctx, s, field, st)
	case schema.ControlDateTime:
		return r.date(ctx, s, field, st)
	case schema.ControlTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: fieldTitle(st), Default: st.FormattedValue, Help: st.Tooltip})
		if err != nil {
			return err
		}
		return r.change(ctx, s, field, st, answer)
	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   fieldTitle(st),
			Default:   st.FormattedValue,
			Help:      st.Tooltip,
			Validator: rulesFor(st).validate,
		})
		if err != nil {
			return err
		}
		return r.change(ctx, s, field, st, answer)
	}
}

func (r *Runner) checkbox(ctx context.Context, s *session.Session, field *schema.Field, st *render.FieldState) error {
	message := st.ControlLabel
	if message == "" {
		message = fieldTitle(st)
	}
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: st.Checked, Help: st.Tooltip})
	if err != nil {
		return err
	}
	if answer == st.Checked {
		return nil
	}
	s.Change(field.Reference, answer)
	r.report(ctx, s.Trigger(ctx, field, schema.EventChange))
	return nil
}

func (r *Runner) choice(ctx context.Context, s *session.Session, field *schema.Field, st *render.FieldState) error {
	if len(st.Options) == 0 {
		answer, err := r.driver.Input(ctx, InputConfig{Message: fieldTitle(st), Default: st.FormattedValue, Help: st.Tooltip})
		if err != nil {
			return err
		}
		return r.change(ctx, s, field, st, answer)
	}
	labels := make([]string, len(st.Options))
	current := -1
	for i, opt := range st.Options {
		labels[i] = optionLabel(opt)
		if st.Selection(opt) == st.FormattedValue {
			current = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: fieldTitle(st), Options: labels, DefaultIndex: current, Help: st.Tooltip})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(st.Options) {
		return nil
	}
	return r.change(ctx, s, field, st, st.Selection(st.Options[idx]))
}

func (r *Runner) autocomplete(ctx context.Context, s *session.Session, field *schema.Field, st *render.FieldState) error {
	query, err := r.driver.Input(ctx, InputConfig{Message: fieldTitle(st), Default: st.FormattedValue, Help: "Type to search"})
	if err != nil {
		return err
	}
	search := s.Autocomplete(field)
	defer search.Close()

	matches := search.Lookup(ctx, query)
	if len(matches) == 0 {
		return r.change(ctx, s, field, st, query)
	}
	labels := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		label := m.Title
		if m.Description != "" && m.Description != m.Title {
			label += " (" + m.Description + ")"
		}
		labels = append(labels, label)
	}
	labels = append(labels, choiceTyped)
	idx, err := r.driver.Select(ctx, SelectConfig{Message: fieldTitle(st), Options: labels})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(matches) {
		return r.change(ctx, s, field, st, matches[idx].Title)
	}
	return r.change(ctx, s, field, st, query)
}

func (r *Runner) date(ctx context.Context, s *session.Session, field *schema.Field, st *render.FieldState) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: fieldTitle(st) + " (YYYY-MM-DD)",
		Default: st.FormattedValue,
		Validator: func(v string) error {
			if _, err := time.Parse("2006-01-02", strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("expected a date as YYYY-MM-DD")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) == st.FormattedValue {
		return nil
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(answer))
	if err != nil {
		r.fail(ctx, err.Error())
		return nil
	}
	s.ChangeDate(field, date)
	r.report(ctx, s.Trigger(ctx, field, schema.EventChange))
	return nil
}

func (r *Runner) click(ctx context.Context, s *session.Session, st *render.FieldState) error {
	if st.Disabled || !st.HasHandler() {
		return nil
	}
	run, err := r.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Run %q?", clickTitle(st)), Help: st.Tooltip})
	if err != nil || !run {
		return err
	}
	r.report(ctx, s.TriggerField(ctx, st.FieldID, schema.EventClick))
	return nil
}

// change stores answer when it differs from the displayed value and runs
// the change and blur handlers.
func (r *Runner) change(ctx context.Context, s *session.Session, field *schema.Field, st *render.FieldState, answer string) error {
	if answer == st.FormattedValue {
		return nil
	}
	s.Change(field.Reference, answer)
	for _, event := range []string{schema.EventChange, schema.EventBlur} {
		if err := s.Trigger(ctx, field, event); err != nil {
			r.report(ctx, err)
			break
		}
	}
	return nil
}

func (r *Runner) finish(ctx context.Context, s *session.Session, page render.Page) (bool, *session.Result, error) {
	if len(page.Actions) == 0 {
		r.info(ctx, "Nothing left to do on this screen.")
		return true, nil, nil
	}
	options := make([]string, 0, len(page.Actions)+1)
	for _, action := range page.Actions {
		label, ok := actionLabels[action]
		if !ok {
			label = action
		}
		options = append(options, label)
	}
	options = append(options, choiceReview)

	idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: options, DefaultIndex: len(options) - 2})
	if err != nil {
		return false, nil, err
	}
	if idx < 0 || idx >= len(page.Actions) {
		return false, nil, nil
	}

	switch page.Actions[idx] {
	case session.ActionSubmit:
		ref := s.Assignment()
		result, err := s.Submit(ctx)
		if err != nil {
			return false, nil, err
		}
		if result.Screen != nil {
			return false, result, nil
		}
		if result.NextAssignmentID != "" && result.NextAssignmentID == ref.AssignmentID && result.NextActionID != "" {
			return false, result, s.PerformAction(ctx, result.NextActionID)
		}
		return true, result, nil
	case session.ActionSave:
		result, err := s.Save(ctx)
		if err != nil {
			return false, nil, err
		}
		r.info(ctx, "Saved.")
		return false, result, nil
	case session.ActionCancel:
		return true, nil, s.Cancel(ctx)
	case session.ActionCreate:
		result, err := s.CreateCase(ctx)
		if err != nil {
			return false, nil, err
		}
		return true, result, nil
	default:
		return false, nil, nil
	}
}

func (r *Runner) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.logger.Error("interaction failed", "error", err)
	r.fail(ctx, err.Error())
}

func (r *Runner) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) fail(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func fieldTitle(st *render.FieldState) string {
	title := strings.TrimSpace(st.Label)
	if title == "" {
		title = st.Placeholder
	}
	if title == "" {
		title = st.FieldID
	}
	if st.Required {
		title += " *"
	}
	return title
}

func clickTitle(st *render.FieldState) string {
	if st.ControlLabel != "" {
		return st.ControlLabel
	}
	if st.Icon != nil && st.Icon.Name != "" {
		return st.Icon.Name
	}
	return st.FieldID
}

func optionLabel(opt schema.Option) string {
	if opt.Value != "" {
		return opt.Value
	}
	return opt.Key
}

// fieldRules are the checks a typed answer must pass.
type fieldRules struct {
	required  bool
	number    bool
	maxLength int
	pattern   *regexp.Regexp
}

var phonePattern = regexp.MustCompile("^" + render.PhonePattern + "$")

func rulesFor(st *render.FieldState) fieldRules {
	rules := fieldRules{
		required:  st.Required,
		number:    st.InputType == render.InputNumber,
		maxLength: st.MaxLength,
	}
	if st.InputType == render.InputTel {
		rules.pattern = phonePattern
	}
	return rules
}

func (r fieldRules) validate(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if r.required {
			return errors.New("value is required")
		}
		return nil
	}
	if r.maxLength > 0 && len([]rune(value)) > r.maxLength {
		return fmt.Errorf("at most %d characters", r.maxLength)
	}
	if r.number {
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return errors.New("expected a number")
		}
	}
	if r.pattern != nil && !r.pattern.MatchString(trimmed) {
		return fmt.Errorf("expected the format %s", render.PhonePlaceholder)
	}
	return nil
}
