package datasource

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// DefaultDebounce is the quiet period before a search runs.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs only the last function triggered within its window.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer builds a Debouncer. Non positive delays use DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SuggestionLoader produces the full suggestion list for a control.
type SuggestionLoader func(ctx context.Context) ([]Suggestion, error)

// AutocompleteOption configures an Autocomplete.
type AutocompleteOption func(*Autocomplete)

// WithDebounce overrides the debounce window.
func WithDebounce(delay time.Duration) AutocompleteOption {
	return func(a *Autocomplete) {
		a.debouncer = NewDebouncer(delay)
	}
}

// Autocomplete filters a lazily loaded suggestion list as the user types.
// The list is loaded once; a load failure becomes a single suggestion
// carrying the error text.
type Autocomplete struct {
	load      SuggestionLoader
	debouncer *Debouncer

	mu     sync.Mutex
	loaded bool
	source []Suggestion
}

// NewAutocomplete builds an Autocomplete over load.
func NewAutocomplete(load SuggestionLoader, opts ...AutocompleteOption) *Autocomplete {
	a := &Autocomplete{load: load, debouncer: NewDebouncer(DefaultDebounce)}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Search debounces query and delivers the matches of the last query in the
// window. Deliver runs on a timer goroutine.
func (a *Autocomplete) Search(ctx context.Context, query string, deliver func([]Suggestion)) {
	a.debouncer.Trigger(func() {
		if ctx.Err() != nil {
			return
		}
		deliver(a.Lookup(ctx, query))
	})
}

// Lookup filters immediately without debouncing.
func (a *Autocomplete) Lookup(ctx context.Context, query string) []Suggestion {
	return Filter(a.suggestions(ctx), query)
}

// Close cancels any pending search.
func (a *Autocomplete) Close() {
	a.debouncer.Stop()
}

func (a *Autocomplete) suggestions(ctx context.Context) []Suggestion {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return a.source
	}
	if a.load == nil {
		a.loaded = true
		return nil
	}
	source, err := a.load(ctx)
	if err != nil {
		msg := err.Error()
		source = []Suggestion{{Title: msg, Description: msg}}
	}
	a.source = source
	a.loaded = true
	return source
}

// Filter keeps suggestions whose title contains query, ignoring case, in
// source order. An empty query matches nothing.
func Filter(source []Suggestion, query string) []Suggestion {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	return lo.Filter(source, func(s Suggestion, _ int) bool {
		return strings.Contains(strings.ToLower(s.Title), needle)
	})
}
