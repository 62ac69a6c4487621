package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/validation"
)

// Screen is one server response that carries a layout tree.
type Screen struct {
	View *schema.View
	// Harness names the page (New, Confirm) when View is a page rather than
	// an assignment view.
	Harness  string
	Messages []validation.Message
	// Content is the case content used by page list option sources.
	Content map[string]any
	ETag    string
}

// AssignmentRef addresses the assignment action a session is working on.
type AssignmentRef struct {
	CaseID       string
	AssignmentID string
	ActionID     string
}

// Result is the outcome of a submit, save or create call.
type Result struct {
	CaseID           string
	NextAssignmentID string
	NextActionID     string
	NextPageID       string
	ETag             string
	// Screen is set when the server answered with a new layout.
	Screen *Screen
}

// Backend is the case/assignment API a session talks to.
type Backend interface {
	Refresh(ctx context.Context, ref AssignmentRef, content map[string]any) (*Screen, error)
	FieldsForAction(ctx context.Context, assignmentID, actionID string) (*Screen, error)
	PerformAction(ctx context.Context, ref AssignmentRef, content map[string]any) (*Result, error)
	UpdateCase(ctx context.Context, caseID string, content map[string]any, etag string) (*Result, error)
	CreateCase(ctx context.Context, caseTypeID string, content map[string]any) (*Result, error)
}

// Prompter asks the operator for a free text answer. ok is false when the
// prompt was cancelled.
type Prompter interface {
	Prompt(ctx context.Context, message, defaultValue string) (answer string, ok bool, err error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, message, defaultValue string) (string, bool, error)

// Prompt implements Prompter.
func (fn PrompterFunc) Prompt(ctx context.Context, message, defaultValue string) (string, bool, error) {
	return fn(ctx, message, defaultValue)
}

// Persister keeps the flat values of a case between sessions.
type Persister interface {
	Load(caseID string) (map[string]any, bool)
	Save(caseID string, values map[string]any)
}

// MemoryPersister is an in-process Persister.
type MemoryPersister struct {
	mu    sync.Mutex
	cases map[string]map[string]any
}

// NewMemoryPersister returns an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{cases: make(map[string]map[string]any)}
}

// Load returns the saved values of caseID.
func (p *MemoryPersister) Load(caseID string) (map[string]any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	values, ok := p.cases[caseID]
	return values, ok
}

// Save stores values under caseID.
func (p *MemoryPersister) Save(caseID string, values map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cases[caseID] = values
}
