package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
)

// ErrUnsupportedSource is returned for list sources the resolver cannot
// serve.
var ErrUnsupportedSource = errors.New("datasource: unsupported list source")

// Record is one result row of a data page.
type Record map[string]any

// Source fetches data page results.
type Source interface {
	Fetch(ctx context.Context, pageID string, params map[string]string) ([]Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, pageID string, params map[string]string) ([]Record, error)

func (fn SourceFunc) Fetch(ctx context.Context, pageID string, params map[string]string) ([]Record, error) {
	return fn(ctx, pageID, params)
}

// Options maps records to options using the declared value and prompt
// properties. Leading dots are ignored and records without a value are
// skipped.
func Options(records []Record, valueProp, promptProp string) []schema.Option {
	valueProp = strings.TrimPrefix(valueProp, ".")
	promptProp = strings.TrimPrefix(promptProp, ".")
	return lo.FilterMap(records, func(r Record, _ int) (schema.Option, bool) {
		key := format.Stringify(r[valueProp])
		if key == "" {
			return schema.Option{}, false
		}
		prompt := format.Stringify(r[promptProp])
		if prompt == "" {
			prompt = key
		}
		return schema.Option{Key: key, Value: prompt}, true
	})
}

// ErrorOptions surfaces a fetch failure as a single option.
func ErrorOptions(err error) []schema.Option {
	msg := err.Error()
	return []schema.Option{{Key: msg, Value: msg}}
}

// Cached memoises a Source per page id and parameters.
type Cached struct {
	source Source

	mu      sync.Mutex
	results map[string][]Record
}

// NewCached wraps source with a result cache.
func NewCached(source Source) *Cached {
	return &Cached{source: source, results: make(map[string][]Record)}
}

func (c *Cached) Fetch(ctx context.Context, pageID string, params map[string]string) ([]Record, error) {
	if c == nil || c.source == nil {
		return nil, fmt.Errorf("datasource: source is nil")
	}
	key := cacheKey(pageID, params)

	c.mu.Lock()
	if cached, ok := c.results[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	records, err := c.source.Fetch(ctx, pageID, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results[key] = records
	c.mu.Unlock()
	return records, nil
}

// Invalidate drops every cached result.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.results = make(map[string][]Record)
	c.mu.Unlock()
}

func cacheKey(pageID string, params map[string]string) string {
	keys := lo.Keys(params)
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(pageID)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}
	return b.String()
}
