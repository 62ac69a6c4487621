package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
)

// Suggestion is an autocomplete entry. Title is matched and stored;
// Description is shown alongside.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSource sets the data page source.
func WithSource(source Source) ResolverOption {
	return func(r *Resolver) {
		r.source = source
	}
}

// WithCaseContent sets the case content clipboard page lists are read from.
func WithCaseContent(content map[string]any) ResolverOption {
	return func(r *Resolver) {
		r.content = content
	}
}

// WithParamResolver sets how data page parameter tokens become strings.
func WithParamResolver(fn func(schema.Token) string) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.param = fn
		}
	}
}

// Resolver materialises option lists for dropdowns, radio buttons and
// autocompletes from a local list, a clipboard page list or a data page.
type Resolver struct {
	source  Source
	content map[string]any
	param   func(schema.Token) string
}

// NewResolver builds a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{param: literalParam}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// SetCaseContent replaces the case content, for example after a refresh.
func (r *Resolver) SetCaseContent(content map[string]any) {
	r.content = content
}

// Options returns the options for mode. Fetch failures come back as a
// single option carrying the error text.
func (r *Resolver) Options(ctx context.Context, mode schema.Mode) []schema.Option {
	switch mode.ListSource {
	case schema.SourceDataPage:
		records, err := r.fetch(ctx, mode)
		if err != nil {
			return ErrorOptions(err)
		}
		return Options(records, mode.DataPageValue, mode.DataPagePrompt)
	case schema.SourcePageList:
		return Options(r.clipboard(mode), mode.ClipboardValue, mode.ClipboardPrompt)
	default:
		return append([]schema.Option(nil), mode.Options...)
	}
}

// Suggestions returns autocomplete entries for mode.
func (r *Resolver) Suggestions(ctx context.Context, mode schema.Mode) ([]Suggestion, error) {
	switch mode.ListSource {
	case schema.SourceDataPage:
		records, err := r.fetch(ctx, mode)
		if err != nil {
			return nil, err
		}
		return suggestionsFrom(records, mode.DataPageValue, mode.DataPagePrompt), nil
	case schema.SourcePageList:
		return suggestionsFrom(r.clipboard(mode), mode.ClipboardValue, mode.ClipboardPrompt), nil
	case schema.SourceLocalList, "":
		return lo.Map(mode.Options, func(o schema.Option, _ int) Suggestion {
			return Suggestion{Title: o.Value, Description: o.Key}
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, mode.ListSource)
	}
}

// Loader binds the suggestions of mode for an Autocomplete. Data page
// parameters and clipboard rows are captured on the calling goroutine, so
// the returned loader never reads live session state and may run on a
// timer goroutine.
func (r *Resolver) Loader(mode schema.Mode) SuggestionLoader {
	if mode.ListSource != schema.SourceDataPage {
		suggestions, err := r.Suggestions(context.Background(), mode)
		return func(context.Context) ([]Suggestion, error) {
			return suggestions, err
		}
	}
	source, params := r.source, r.params(mode)
	return func(ctx context.Context) ([]Suggestion, error) {
		records, err := fetchFrom(ctx, source, mode, params)
		if err != nil {
			return nil, err
		}
		return suggestionsFrom(records, mode.DataPageValue, mode.DataPagePrompt), nil
	}
}

func (r *Resolver) fetch(ctx context.Context, mode schema.Mode) ([]Record, error) {
	return fetchFrom(ctx, r.source, mode, r.params(mode))
}

func (r *Resolver) params(mode schema.Mode) map[string]string {
	params := make(map[string]string, len(mode.DataPageParams))
	for _, p := range mode.DataPageParams {
		params[p.Name] = r.param(p.Value)
	}
	return params
}

func fetchFrom(ctx context.Context, source Source, mode schema.Mode, params map[string]string) ([]Record, error) {
	if source == nil {
		return nil, fmt.Errorf("datasource: no source configured for %s", mode.DataPageID)
	}
	return source.Fetch(ctx, mode.DataPageID, params)
}

func (r *Resolver) clipboard(mode schema.Mode) []Record {
	if mode.ClipboardPageID == "" || mode.ClipboardValue == "" || mode.ClipboardPrompt == "" {
		return nil
	}
	page, _ := r.content[strings.TrimPrefix(mode.ClipboardPageID, ".")].([]any)
	return lo.FilterMap(page, func(item any, _ int) (Record, bool) {
		m, ok := item.(map[string]any)
		return Record(m), ok
	})
}

func suggestionsFrom(records []Record, valueProp, promptProp string) []Suggestion {
	valueProp = strings.TrimPrefix(valueProp, ".")
	promptProp = strings.TrimPrefix(promptProp, ".")
	return lo.FilterMap(records, func(r Record, _ int) (Suggestion, bool) {
		title := format.Stringify(r[valueProp])
		return Suggestion{Title: title, Description: format.Stringify(r[promptProp])}, title != ""
	})
}

func literalParam(token schema.Token) string {
	return strings.ReplaceAll(token.String(), `"`, "")
}
