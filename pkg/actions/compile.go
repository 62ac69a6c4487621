package actions

import (
	"slices"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// StepKind identifies what a pipeline step does.
type StepKind string

const (
	StepSetValue      StepKind = "setValue"
	StepRefresh       StepKind = "refresh"
	StepPerformAction StepKind = "performAction"
	StepRunScript     StepKind = "runScript"
	StepOpenURL       StepKind = "openURL"
)

// Step is one scheduled action. A refresh step carries the setValue process
// it absorbed in SetValue so those pairs land in the outgoing payload.
type Step struct {
	Kind       StepKind
	Action     string
	Process    *schema.ActionProcess
	SetValue   *schema.ActionProcess
	RefreshFor string
}

// Handler is the composed, ordered pipeline for one field.
type Handler struct {
	FieldID   string
	Reference string
	Events    []string
	Steps     []Step
}

// Empty reports whether the handler has nothing to run.
func (h Handler) Empty() bool {
	return len(h.Steps) == 0
}

// Handles reports whether event fires the handler. An empty event matches
// any handler.
func (h Handler) Handles(event string) bool {
	if event == "" || len(h.Events) == 0 {
		return true
	}
	return slices.Contains(h.Events, event)
}

// Kinds lists the step kinds in execution order.
func (h Handler) Kinds() []StepKind {
	out := make([]StepKind, 0, len(h.Steps))
	for _, step := range h.Steps {
		out = append(out, step.Kind)
	}
	return out
}

type declared struct {
	action schema.Action
	tag    string
}

// Compile scans field's action sets in order and builds its pipeline:
//   - with both a refresh-class action and a setValue, the setValue is folded
//     into the refresh step instead of running on its own;
//   - only the first refresh-class action is kept;
//   - performAction, runScript and openURL run once per declaration.
func Compile(field *schema.Field) Handler {
	if field == nil {
		return Handler{}
	}
	h := Handler{FieldID: field.FieldID, Reference: field.Reference}

	var list []declared
	for _, set := range field.Control.ActionSets {
		matched := false
		for _, action := range set.Actions {
			tag := schema.CanonicalAction(action.Action)
			if !supported(tag) {
				continue
			}
			list = append(list, declared{action: action, tag: tag})
			matched = true
		}
		if !matched {
			continue
		}
		for _, ev := range set.Events {
			if ev.Event != "" && !slices.Contains(h.Events, ev.Event) {
				h.Events = append(h.Events, ev.Event)
			}
		}
	}

	merged := mergedSetValue(list)
	hasRefresh := false
	for _, item := range list {
		switch item.tag {
		case schema.ActionSetValue:
			if merged == nil {
				h.Steps = append(h.Steps, Step{Kind: StepSetValue, Action: item.action.Action, Process: item.action.ActionProcess})
			}
		case schema.ActionPostValue, schema.ActionRefresh:
			if hasRefresh {
				continue
			}
			hasRefresh = true
			h.Steps = append(h.Steps, Step{
				Kind:       StepRefresh,
				Action:     item.action.Action,
				Process:    item.action.ActionProcess,
				SetValue:   merged,
				RefreshFor: item.action.RefreshFor,
			})
		case schema.ActionPerformAction:
			h.Steps = append(h.Steps, Step{Kind: StepPerformAction, Action: item.action.Action, Process: item.action.ActionProcess})
		case schema.ActionRunScript:
			h.Steps = append(h.Steps, Step{Kind: StepRunScript, Action: item.action.Action, Process: item.action.ActionProcess})
		case schema.ActionOpenURL:
			h.Steps = append(h.Steps, Step{Kind: StepOpenURL, Action: item.action.Action, Process: item.action.ActionProcess})
		}
	}
	return h
}

// mergedSetValue returns the process of the last setValue when a
// refresh-class action is also declared.
func mergedSetValue(list []declared) *schema.ActionProcess {
	var (
		refresh  bool
		setValue bool
		process  *schema.ActionProcess
	)
	for _, item := range list {
		switch item.tag {
		case schema.ActionSetValue:
			setValue = true
			process = item.action.ActionProcess
		case schema.ActionPostValue, schema.ActionRefresh:
			refresh = true
		}
	}
	if !refresh || !setValue {
		return nil
	}
	if process == nil {
		process = &schema.ActionProcess{}
	}
	return process
}

func supported(tag string) bool {
	switch tag {
	case schema.ActionSetValue, schema.ActionPostValue, schema.ActionRefresh,
		schema.ActionPerformAction, schema.ActionRunScript, schema.ActionOpenURL:
		return true
	default:
		return false
	}
}
