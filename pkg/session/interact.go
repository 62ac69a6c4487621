package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
	"github.com/goliatone/go-caseform/pkg/validation"
)

var _ actions.Host = (*Session)(nil)

// Change writes a user edit to the store.
func (s *Session) Change(reference string, value any) {
	s.values.Set(reference, value)
}

// ChangeDate stores a picked date in storage format. Fields whose read-only
// mode is a datetime format get the midnight time suffix.
func (s *Session) ChangeDate(field *schema.Field, date time.Time) {
	dateTime := strings.Contains(strings.ToLower(field.Mode(1).FormatType), format.TypeDateTime)
	s.values.Set(field.Reference, format.StoredDate(date, dateTime))
}

// Trigger runs the compiled handler of field for event. Fields with no
// matching handler are a no-op.
func (s *Session) Trigger(ctx context.Context, field *schema.Field, event string) error {
	if s.closed {
		return ErrClosed
	}
	h := s.evaluator.Handler(field)
	if h.Empty() || !h.Handles(event) {
		return nil
	}
	return s.executor.Run(ctx, s, h)
}

// TriggerField is Trigger addressed by field id.
func (s *Session) TriggerField(ctx context.Context, fieldID, event string) error {
	field, ok := s.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	return s.Trigger(ctx, field, event)
}

// Refresh implements actions.Host: it posts req.Payload for the current
// assignment action and applies the returned screen.
func (s *Session) Refresh(ctx context.Context, req actions.RefreshRequest) error {
	return s.refresh(ctx, req.Reference, req.Payload)
}

// PerformAction implements actions.Host: it switches the assignment to
// actionName and loads that action's fields.
func (s *Session) PerformAction(ctx context.Context, actionName string) error {
	if s.backend == nil {
		return ErrNoBackend
	}
	if s.ref.AssignmentID == "" {
		return ErrNoAssignment
	}
	s.ref.ActionID = actionName
	screen, err := s.backend.FieldsForAction(ctx, s.ref.AssignmentID, actionName)
	if err != nil {
		return s.fail("fields for action", err)
	}
	s.Apply(screen)
	return nil
}

// refresh holds the loading flag of reference for the duration of the call
// and clears it whatever the outcome. Without an open assignment, as on a
// New page, there is nothing to refresh and the call is skipped.
func (s *Session) refresh(ctx context.Context, reference string, payload map[string]any) error {
	if s.ref.AssignmentID == "" {
		s.logger.Debug("refresh skipped without an assignment", "reference", reference)
		return nil
	}
	if s.backend == nil {
		return ErrNoBackend
	}
	if reference != "" {
		s.setLoading(reference, true)
		defer s.setLoading(reference, false)
	}
	screen, err := s.backend.Refresh(ctx, s.ref, payload)
	if err != nil {
		return s.fail("refresh", err)
	}
	s.Apply(screen)
	return nil
}

// AddRow appends to the page list at reference, or prompts for a key and
// inserts an empty entry into a page group, then refreshes.
func (s *Session) AddRow(ctx context.Context, reference, referenceType string) error {
	return s.mutateRepeat(ctx, reference, referenceType, false)
}

// RemoveRow pops the last page list row when more than one remains, or
// prompts for a page group key and removes it, then refreshes.
func (s *Session) RemoveRow(ctx context.Context, reference, referenceType string) error {
	return s.mutateRepeat(ctx, reference, referenceType, true)
}

func (s *Session) mutateRepeat(ctx context.Context, reference, referenceType string, remove bool) error {
	if s.closed {
		return ErrClosed
	}
	payload := s.values.PostContent()
	target, err := store.RepeatFromReference(reference, referenceType, payload)
	if err != nil {
		return fmt.Errorf("session: grid %s: %w", reference, err)
	}

	switch rows := target.(type) {
	case []any:
		if remove {
			if len(rows) > 1 {
				rows = rows[:len(rows)-1]
			}
		} else {
			rows = append(rows, store.BlankRow(rows))
		}
		if err := store.AddEntry(store.ExpandPath(reference), rows, payload); err != nil {
			return fmt.Errorf("session: grid %s: %w", reference, err)
		}
	case map[string]any:
		if s.prompter == nil {
			return ErrNoPrompter
		}
		message := "Please enter a name for the group."
		if remove {
			message = "Please enter the name of the group to be deleted."
		}
		key, ok, err := s.prompter.Prompt(ctx, message, "")
		if err != nil {
			return fmt.Errorf("session: prompt: %w", err)
		}
		if !ok {
			return nil
		}
		if remove {
			delete(rows, key)
		} else {
			rows[key] = map[string]any{}
		}
	}
	return s.refresh(ctx, reference, payload)
}

// Submit performs the current assignment action with the store's content.
// When the next assignment is this one, the session moves to the returned
// action.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	if s.backend == nil {
		return nil, ErrNoBackend
	}
	if s.ref.AssignmentID == "" {
		return nil, ErrNoAssignment
	}
	result, err := s.backend.PerformAction(ctx, s.ref, s.values.PostContent())
	if err != nil {
		return nil, s.fail("submit", err)
	}
	s.ClearErrors()
	if result == nil {
		return &Result{}, nil
	}
	if result.NextAssignmentID != "" && result.NextAssignmentID == s.ref.AssignmentID {
		s.ref.ActionID = result.NextActionID
	}
	if result.Screen != nil {
		s.Apply(result.Screen)
	}
	return result, nil
}

// Save updates the case without closing the assignment.
func (s *Session) Save(ctx context.Context) (*Result, error) {
	if s.backend == nil {
		return nil, ErrNoBackend
	}
	result, err := s.backend.UpdateCase(ctx, s.ref.CaseID, s.values.PostContent(), s.etag)
	if err != nil {
		return nil, s.fail("save", err)
	}
	if result == nil {
		return &Result{}, nil
	}
	if result.ETag != "" {
		s.etag = result.ETag
	}
	return result, nil
}

// Cancel clears the errors and closes the session.
func (s *Session) Cancel(ctx context.Context) error {
	s.ClearErrors()
	return s.Close(ctx)
}

// CreateCase creates a case of the configured type from a New page.
func (s *Session) CreateCase(ctx context.Context) (*Result, error) {
	if s.backend == nil {
		return nil, ErrNoBackend
	}
	result, err := s.backend.CreateCase(ctx, s.caseTypeID, s.values.PostContent())
	if err != nil {
		return nil, s.fail("create case", err)
	}
	if result == nil {
		return &Result{}, nil
	}
	if result.CaseID != "" {
		s.ref.CaseID = result.CaseID
	}
	if result.NextAssignmentID != "" {
		s.ref.AssignmentID = result.NextAssignmentID
	}
	if result.ETag != "" {
		s.etag = result.ETag
	}
	return result, nil
}

// validationCarrier is implemented by backend errors that bring server
// validation messages.
type validationCarrier interface {
	ValidationMessages() []validation.Message
}

// fail records validation messages carried by err and wraps it.
func (s *Session) fail(op string, err error) error {
	var carrier validationCarrier
	if errors.As(err, &carrier) {
		if msgs := carrier.ValidationMessages(); len(msgs) > 0 {
			s.SetValidationMessages(msgs)
		}
	}
	s.logger.Warn("backend call failed", "op", op, "error", err)
	return fmt.Errorf("session: %s: %w", op, err)
}
