package render

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// ErrUnknownRenderer is returned when no renderer answers to a name.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry stores output renderers by name. The CLI picks one with its
// -renderer flag; the preview server negotiates one from the request.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds renderer under its Name. The first registration becomes
// the fallback for Default and Negotiate.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.sortedLocked(), ", "))
	}
	return renderer, nil
}

// Default returns the renderer registered under name, or the first one
// registered when name is empty.
func (r *Registry) Default(name string) (Renderer, error) {
	if name != "" {
		return r.Get(name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("%w: none registered", ErrUnknownRenderer)
	}
	return r.renderers[r.order[0]], nil
}

// Negotiate picks a renderer for an HTTP request. An explicit name wins;
// otherwise the media types of accept are matched, in order, against each
// renderer's ContentType. Wildcards and unmatched headers fall back to
// Default.
func (r *Registry) Negotiate(name, accept string) (Renderer, error) {
	if name != "" || strings.TrimSpace(accept) == "" {
		return r.Default(name)
	}
	r.mu.RLock()
	for _, part := range strings.Split(accept, ",") {
		want, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || strings.Contains(want, "*") {
			continue
		}
		for _, candidate := range r.order {
			renderer := r.renderers[candidate]
			have, _, err := mime.ParseMediaType(renderer.ContentType())
			if err == nil && have == want {
				r.mu.RUnlock()
				return renderer, nil
			}
		}
	}
	r.mu.RUnlock()
	return r.Default("")
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

func (r *Registry) sortedLocked() []string {
	names := lo.Keys(r.renderers)
	slices.Sort(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}
