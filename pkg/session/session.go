package session

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
	"github.com/goliatone/go-caseform/pkg/validation"
)

// Form level actions offered by Render.
const (
	ActionSubmit = "submit"
	ActionSave   = "save"
	ActionCancel = "cancel"
	ActionCreate = "create"
)

// Session interprets one screen: it owns the value store, the validation
// error map, per-grid loading flags and the current assignment action.
// A Session is not safe for concurrent use; callers serialise interactions.
type Session struct {
	backend    Backend
	prompter   Prompter
	persister  Persister
	executor   *actions.Executor
	formatter  *format.Formatter
	source     datasource.Source
	resolver   *datasource.Resolver
	evaluator  *render.Evaluator
	logger     *slog.Logger
	debounce   time.Duration
	caseTypeID string

	ref     AssignmentRef
	etag    string
	view    *schema.View
	harness string
	content map[string]any
	values  *store.Store
	errors  validation.Mapping
	loading map[string]bool
	closed  bool
}

// New builds an empty session. Call Load with the first screen.
func New(opts ...Option) *Session {
	s := &Session{
		persister: NewMemoryPersister(),
		executor:  actions.NewExecutor(),
		formatter: format.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce:  datasource.DefaultDebounce,
		values:    store.New(nil),
		loading:   make(map[string]bool),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	resolverOpts := []datasource.ResolverOption{
		datasource.WithParamResolver(func(token schema.Token) string {
			return format.Stringify(actions.ResolveProperty(s.values, token, nil))
		}),
	}
	if s.source != nil {
		resolverOpts = append(resolverOpts, datasource.WithSource(s.source))
	}
	s.resolver = datasource.NewResolver(resolverOpts...)
	s.evaluator = render.NewEvaluator(s.values,
		render.WithFormatter(s.formatter),
		render.WithResolver(s.resolver),
		render.WithLoading(s.Loading),
		render.WithLogger(s.logger),
	)
	return s
}

// Load installs the first screen. Values persisted for the case win over
// the values carried by the tree.
func (s *Session) Load(screen *Screen) {
	if screen == nil {
		return
	}
	s.install(screen)
	if saved, ok := s.persister.Load(s.ref.CaseID); ok && len(saved) > 0 {
		s.setStore(store.New(saved))
		return
	}
	s.setStore(store.InitFromSchema(s.view))
}

// Apply installs a screen returned by the server. A changed view is merged
// into the store so values outside the new tree survive, except grid rows,
// which are rebuilt from the new tree; a newly arrived page replaces the
// store.
func (s *Session) Apply(screen *Screen) {
	if screen == nil {
		return
	}
	newPage := screen.Harness != "" && s.harness == ""
	changed := screen.View != nil && !reflect.DeepEqual(screen.View, s.view)
	s.install(screen)

	switch {
	case newPage:
		s.setStore(store.InitFromSchema(s.view))
	case changed:
		for _, ref := range schema.RepeatReferences(s.view) {
			s.values.DeleteUnder(ref)
		}
		s.values.Merge(store.InitFromSchema(s.view))
	}
}

// ForceRefresh installs screen and rebuilds the store from it, dropping any
// local edits.
func (s *Session) ForceRefresh(screen *Screen) {
	if screen == nil {
		return
	}
	s.install(screen)
	s.setStore(store.InitFromSchema(s.view))
}

func (s *Session) install(screen *Screen) {
	if screen.View != nil && screen.View != s.view {
		s.view = screen.View
		s.evaluator.Reset()
	}
	s.harness = screen.Harness
	if screen.Content != nil {
		s.content = screen.Content
		s.resolver.SetCaseContent(screen.Content)
	}
	if screen.ETag != "" {
		s.etag = screen.ETag
	}
	if screen.Messages != nil {
		s.SetValidationMessages(screen.Messages)
	}
}

func (s *Session) setStore(values *store.Store) {
	s.values = values
	s.evaluator.SetStore(values)
}

// SetValidationMessages rebuilds the error map.
func (s *Session) SetValidationMessages(messages []validation.Message) {
	s.errors = validation.MapMessages(messages)
	s.evaluator.SetErrors(s.errors)
}

// ClearErrors drops every validation error.
func (s *Session) ClearErrors() {
	s.errors = validation.Mapping{}
	s.evaluator.SetErrors(s.errors)
}

// Render evaluates the current tree.
func (s *Session) Render(ctx context.Context) render.Page {
	page := render.Page{
		Harness:    s.harness,
		FormErrors: append([]string(nil), s.errors.Form...),
		Actions:    s.formActions(),
	}
	if s.view != nil {
		page.Title = s.view.Name
		page.ViewID = s.view.ViewID
		page.Nodes = s.evaluator.Evaluate(ctx, s.view)
	}
	return page
}

func (s *Session) formActions() []string {
	switch s.harness {
	case schema.PageNew:
		return []string{ActionCreate}
	case schema.PageConfirm:
		return nil
	}
	if s.ref.AssignmentID == "" {
		return nil
	}
	return []string{ActionCancel, ActionSave, ActionSubmit}
}

// Store returns the live value store.
func (s *Session) Store() *store.Store { return s.values }

// View returns the current tree.
func (s *Session) View() *schema.View { return s.view }

// Harness returns the page name, empty for assignment views.
func (s *Session) Harness() string { return s.harness }

// Errors returns the validation error map.
func (s *Session) Errors() validation.Mapping { return s.errors }

// Assignment returns the current assignment action.
func (s *Session) Assignment() AssignmentRef { return s.ref }

// ETag returns the case etag used by Save.
func (s *Session) ETag() string { return s.etag }

// Content returns the case content.
func (s *Session) Content() map[string]any { return s.content }

// Closed reports whether Close has run.
func (s *Session) Closed() bool { return s.closed }

// Executor returns the pipeline executor, for registering scripts.
func (s *Session) Executor() *actions.Executor { return s.executor }

// Evaluator returns the node evaluator bound to the live store.
func (s *Session) Evaluator() *render.Evaluator { return s.evaluator }

// Loading reports whether a grid call for reference is in flight.
func (s *Session) Loading(reference string) bool {
	return s.loading[store.ExpandPath(reference)]
}

func (s *Session) setLoading(reference string, on bool) {
	key := store.ExpandPath(reference)
	if on {
		s.loading[key] = true
		return
	}
	delete(s.loading, key)
}

// Field finds a visible or hidden field on the current tree by id.
func (s *Session) Field(fieldID string) (*schema.Field, bool) {
	var found *schema.Field
	schema.Walk(s.view, func(f *schema.Field) bool {
		if f.FieldID == fieldID {
			found = f
			return false
		}
		return true
	})
	return found, found != nil
}

// FieldByReference finds the field bound to reference. Repeated grid rows
// share field ids but not references.
func (s *Session) FieldByReference(reference string) (*schema.Field, bool) {
	want := store.ExpandPath(reference)
	var found *schema.Field
	schema.Walk(s.view, func(f *schema.Field) bool {
		if f.Reference != "" && store.ExpandPath(f.Reference) == want {
			found = f
			return false
		}
		return true
	})
	return found, found != nil
}

// Autocomplete builds a debounced search over the suggestions of field.
// Parameters are read from the store when Autocomplete is called; later
// edits need a new Autocomplete.
func (s *Session) Autocomplete(field *schema.Field) *datasource.Autocomplete {
	return datasource.NewAutocomplete(s.resolver.Loader(field.Mode(0)), datasource.WithDebounce(s.debounce))
}

// Close persists the values for the case and closes the session.
func (s *Session) Close(context.Context) error {
	if s.closed {
		return nil
	}
	s.persister.Save(s.ref.CaseID, s.values.Snapshot())
	s.closed = true
	s.logger.Debug("session closed", "case", s.ref.CaseID)
	return nil
}
