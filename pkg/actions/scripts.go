package actions

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ScriptFunc is a host function callable from runScript. Arguments arrive
// already formatted: strings quoted, numbers and booleans bare, and missing
// values as null.
type ScriptFunc func(ctx context.Context, args []string) error

// ScriptRegistry maps function names to host functions.
type ScriptRegistry struct {
	mu    sync.RWMutex
	funcs map[string]ScriptFunc
}

// NewScriptRegistry creates an empty registry.
func NewScriptRegistry() *ScriptRegistry {
	return &ScriptRegistry{funcs: make(map[string]ScriptFunc)}
}

// Register adds fn under name. Duplicate names return an error.
func (r *ScriptRegistry) Register(name string, fn ScriptFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return fmt.Errorf("actions: script name and function required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = make(map[string]ScriptFunc)
	}
	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("actions: script %q already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister panics on registration failure.
func (r *ScriptRegistry) MustRegister(name string, fn ScriptFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Names returns the registered names sorted.
func (r *ScriptRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call looks up name and invokes it. Unknown names fail with
// ErrScriptNotFound; existence is only checked here.
func (r *ScriptRegistry) Call(ctx context.Context, name string, args []string) error {
	var fn ScriptFunc
	if r != nil {
		r.mu.RLock()
		fn = r.funcs[name]
		r.mu.RUnlock()
	}
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, Invocation(name, args))
	}
	return fn(ctx, args)
}

// FormatArgument renders a resolved parameter for a script call.
func FormatArgument(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

// Invocation renders a call as name(arg, ...) for logs and errors.
func Invocation(name string, args []string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}
