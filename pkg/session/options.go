package session

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
)

// Option customises a Session.
type Option func(*Session)

// WithBackend sets the case/assignment API.
func WithBackend(backend Backend) Option {
	return func(s *Session) {
		s.backend = backend
	}
}

// WithAssignment opens the session on an assignment action.
func WithAssignment(ref AssignmentRef) Option {
	return func(s *Session) {
		s.ref = ref
	}
}

// WithCaseType sets the case type CreateCase creates.
func WithCaseType(caseTypeID string) Option {
	return func(s *Session) {
		s.caseTypeID = caseTypeID
	}
}

// WithPrompter sets the prompter used for page group keys.
func WithPrompter(p Prompter) Option {
	return func(s *Session) {
		s.prompter = p
	}
}

// WithPersister sets where values are kept between sessions.
func WithPersister(p Persister) Option {
	return func(s *Session) {
		if p != nil {
			s.persister = p
		}
	}
}

// WithExecutor sets the pipeline executor, for example one carrying a
// script registry and a window opener.
func WithExecutor(e *actions.Executor) Option {
	return func(s *Session) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithFormatter sets the display formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(s *Session) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithDataSource sets the source data page options are fetched from.
func WithDataSource(source datasource.Source) Option {
	return func(s *Session) {
		s.source = source
	}
}

// WithDebounce sets the autocomplete search debounce window.
func WithDebounce(delay time.Duration) Option {
	return func(s *Session) {
		if delay > 0 {
			s.debounce = delay
		}
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
