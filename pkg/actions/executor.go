package actions

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
)

// RefreshRequest is what a refresh step hands to the host: the payload
// built from the live store with any absorbed setValue pairs applied.
type RefreshRequest struct {
	FieldID    string
	Reference  string
	RefreshFor string
	Payload    map[string]any
}

// Host is the screen the pipeline acts on. Store must return the live store
// on every call; steps never cache it.
type Host interface {
	Store() *store.Store
	Refresh(ctx context.Context, req RefreshRequest) error
	PerformAction(ctx context.Context, actionName string) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithScripts sets the registry runScript resolves names against.
func WithScripts(registry *ScriptRegistry) Option {
	return func(e *Executor) {
		e.scripts = registry
	}
}

// WithWindowOpener sets the opener used by openURL.
func WithWindowOpener(opener WindowOpener) Option {
	return func(e *Executor) {
		e.opener = opener
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Executor runs compiled handlers step by step.
type Executor struct {
	scripts *ScriptRegistry
	opener  WindowOpener
	logger  *slog.Logger
}

// NewExecutor builds an Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		scripts: NewScriptRegistry(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Scripts exposes the registry so hosts can register functions.
func (e *Executor) Scripts() *ScriptRegistry {
	return e.scripts
}

// Run executes h's steps strictly in order. Each step completes before the
// next starts and the first failure stops the pipeline.
func (e *Executor) Run(ctx context.Context, host Host, h Handler) error {
	if h.Empty() {
		return nil
	}
	if host == nil {
		return ErrNoHost
	}

	logger := e.logger.With("interaction", uuid.NewString(), "field", h.FieldID)
	logger.Debug("pipeline start", "steps", h.Kinds())

	for i, step := range h.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runStep(ctx, host, h, step); err != nil {
			logger.Error("pipeline step failed", "index", i, "kind", step.Kind, "error", err)
			return fmt.Errorf("actions: %s step %d: %w", step.Kind, i, err)
		}
		logger.Debug("pipeline step done", "index", i, "kind", step.Kind)
	}
	return nil
}

func (e *Executor) runStep(ctx context.Context, host Host, h Handler, step Step) error {
	switch step.Kind {
	case StepSetValue:
		return applySetValue(host.Store(), step.Process)
	case StepRefresh:
		return e.refresh(ctx, host, h, step)
	case StepPerformAction:
		if step.Process == nil || step.Process.ActionName == "" {
			return fmt.Errorf("performAction has no action name")
		}
		return host.PerformAction(ctx, step.Process.ActionName)
	case StepRunScript:
		return e.runScript(ctx, host.Store(), step.Process)
	case StepOpenURL:
		return e.openURL(ctx, host.Store(), step.Process)
	default:
		e.logger.Warn("unsupported step", "kind", step.Kind)
		return nil
	}
}

func applySetValue(values *store.Store, process *schema.ActionProcess) error {
	if process == nil {
		return nil
	}
	for _, pair := range process.SetValuePairs {
		if pair.Name == "" {
			continue
		}
		value := resolvePair(values, pair)
		if value == nil {
			value = ""
		}
		values.Set(store.ExpandPath(pair.Name), value)
	}
	return nil
}

func (e *Executor) refresh(ctx context.Context, host Host, h Handler, step Step) error {
	values := host.Store()
	payload := values.PostContent()
	if step.SetValue != nil {
		for _, pair := range step.SetValue.SetValuePairs {
			if pair.Name == "" {
				continue
			}
			value := resolvePair(values, pair)
			if value == nil {
				value = ""
			}
			if err := store.AddEntry(store.ExpandPath(pair.Name), value, payload); err != nil {
				return err
			}
		}
	}
	if step.RefreshFor != "" {
		payload["refreshFor"] = step.RefreshFor
	}
	return host.Refresh(ctx, RefreshRequest{
		FieldID:    h.FieldID,
		Reference:  h.Reference,
		RefreshFor: step.RefreshFor,
		Payload:    payload,
	})
}

func (e *Executor) runScript(ctx context.Context, values *store.Store, process *schema.ActionProcess) error {
	if process == nil || process.FunctionName == "" {
		return fmt.Errorf("runScript has no function name")
	}
	args := make([]string, 0, len(process.FunctionParameters))
	for _, param := range process.FunctionParameters {
		args = append(args, FormatArgument(resolvePair(values, param)))
	}
	e.logger.Debug("run script", "call", Invocation(process.FunctionName, args))
	return e.scripts.Call(ctx, process.FunctionName, args)
}

func (e *Executor) openURL(ctx context.Context, values *store.Store, process *schema.ActionProcess) error {
	if e.opener == nil {
		return ErrNoOpener
	}
	target, err := BuildURL(values, process)
	if err != nil {
		return err
	}
	return e.opener.Open(ctx, target, process.WindowName, process.WindowOptions)
}
