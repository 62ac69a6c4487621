package store

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// Store is the flat value store for one screen, keyed by absolute property
// references. It is not safe for concurrent use; one session owns it.
type Store struct {
	values map[string]any
}

// New seeds a store with a copy of values.
func New(values map[string]any) *Store {
	return &Store{values: cloneValues(values)}
}

// InitFromSchema collects every field reference and server value reachable
// from view, including nested views, layouts and grid rows. Missing values
// default to the empty string.
func InitFromSchema(view *schema.View) *Store {
	s := &Store{values: make(map[string]any)}
	if view != nil {
		collectView(view, s.values)
	}
	return s
}

// Get reads an expanded path.
func (s *Store) Get(path string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	v, ok := s.values[ExpandPath(path)]
	return v, ok
}

// Value is Get without the presence flag.
func (s *Store) Value(path string) any {
	v, _ := s.Get(path)
	return v
}

// Set overwrites a single path. Sibling entries are untouched.
func (s *Store) Set(path string, value any) {
	if s == nil {
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[ExpandPath(path)] = Normalize(value)
}

// Delete removes a path.
func (s *Store) Delete(path string) {
	if s == nil {
		return
	}
	delete(s.values, ExpandPath(path))
}

// DeleteUnder removes every entry addressed through the collection at
// reference: its rows, their properties and the collection itself.
func (s *Store) DeleteUnder(reference string) {
	if s == nil {
		return
	}
	root := ExpandPath(reference)
	for key := range s.values {
		if key == root || strings.HasPrefix(key, root+"(") || strings.HasPrefix(key, root+".") {
			delete(s.values, key)
		}
	}
}

// Merge copies every entry of other over s.
func (s *Store) Merge(other *Store) {
	if s == nil || other == nil {
		return
	}
	if s.values == nil {
		s.values = make(map[string]any, len(other.values))
	}
	for k, v := range other.values {
		s.values[k] = deepCopy(v)
	}
}

// Len reports the number of entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the stored paths in sorted order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a deep copy of the flat values.
func (s *Store) Snapshot() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return cloneValues(s.values)
}

// PostContent replays every entry through AddEntry into a fresh nested graph
// suitable as a request body. Entries that cannot be addressed are skipped.
func (s *Store) PostContent() map[string]any {
	out := make(map[string]any)
	for _, key := range s.Keys() {
		if err := AddEntry(key, deepCopy(s.values[key]), out); err != nil {
			slog.Default().Debug("store: skipping unaddressable entry", "path", key, "error", err)
		}
	}
	return out
}

// Normalize folds integer kinds into float64 so values decoded from YAML and
// JSON compare equal.
func Normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func collectView(view *schema.View, dest map[string]any) {
	if view == nil {
		return
	}
	collectGroups(view.Groups, dest)
}

func collectGroups(groups []schema.Group, dest map[string]any) {
	for _, group := range groups {
		switch group.Kind() {
		case schema.GroupKindView:
			collectView(group.View, dest)
		case schema.GroupKindLayout:
			collectLayout(group.Layout, dest)
		case schema.GroupKindField:
			collectField(group.Field, dest)
		}
	}
}

func collectLayout(layout *schema.Layout, dest map[string]any) {
	if layout == nil {
		return
	}
	collectGroups(layout.Groups, dest)
	for _, row := range layout.Rows {
		collectGroups(row.Groups, dest)
	}
	collectView(layout.View, dest)
}

func collectField(field *schema.Field, dest map[string]any) {
	if field == nil || field.Reference == "" {
		return
	}
	value := field.Value
	if value == nil {
		value = ""
	}
	dest[ExpandPath(field.Reference)] = Normalize(value)
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[ExpandPath(k)] = deepCopy(Normalize(v))
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
