package validation

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// Issue is a structural problem found in a layout tree.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Lint walks view and reports groups that do not wrap exactly one child,
// unknown control and layout tags, unbound fields and grids without a
// reference. The interpreter tolerates all of these; lint makes them visible.
func Lint(view *schema.View) []Issue {
	l := &linter{}
	if view != nil {
		l.view(view, "view")
	}
	return l.issues
}

type linter struct {
	issues []Issue
}

func (l *linter) add(location, format string, args ...any) {
	l.issues = append(l.issues, Issue{Location: location, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) view(view *schema.View, loc string) {
	l.groups(view.Groups, loc+".groups")
}

func (l *linter) groups(groups []schema.Group, loc string) {
	for i, group := range groups {
		at := fmt.Sprintf("%s[%d]", loc, i)
		switch n := group.Members(); {
		case n == 0:
			l.add(at, "group has no member")
			continue
		case n > 1:
			l.add(at, "group has %d members, %s wins", n, group.Kind())
		}
		switch group.Kind() {
		case schema.GroupKindView:
			l.view(group.View, at+".view")
		case schema.GroupKindLayout:
			l.layout(group.Layout, at+".layout")
		case schema.GroupKindField:
			l.field(group.Field, at+".field")
		}
	}
}

func (l *linter) layout(layout *schema.Layout, loc string) {
	if layout.GroupFormat != "" && !slices.Contains(schema.GroupFormats, layout.GroupFormat) {
		l.add(loc, "unknown group format %q", layout.GroupFormat)
	}
	if layout.GroupFormat == schema.FormatGrid {
		if layout.Reference == "" {
			l.add(loc, "grid has no reference")
		}
		switch schema.NormalizeReferenceType(layout.ReferenceType) {
		case schema.ReferencePageList, schema.ReferencePageGroup:
		default:
			l.add(loc, "grid reference type %q is not PageList or PageGroup", layout.ReferenceType)
		}
	}
	l.groups(layout.Groups, loc+".groups")
	for i, row := range layout.Rows {
		l.groups(row.Groups, fmt.Sprintf("%s.rows[%d].groups", loc, i))
	}
	if layout.View != nil {
		l.view(layout.View, loc+".view")
	}
}

func (l *linter) field(field *schema.Field, loc string) {
	kind := field.Control.Type
	if !slices.Contains(schema.ControlTypes, kind) {
		l.add(loc, "unknown control type %q", kind)
	}
	if field.Reference == "" && !bindless(kind) {
		l.add(loc, "field %q has no reference", field.FieldID)
	}
	for i, set := range field.Control.ActionSets {
		for j, action := range set.Actions {
			if action.ActionProcess == nil && needsProcess(schema.CanonicalAction(action.Action)) {
				l.add(fmt.Sprintf("%s.control.actionSets[%d].actions[%d]", loc, i, j), "action %q has no actionProcess", action.Action)
			}
		}
	}
}

func bindless(kind string) bool {
	switch kind {
	case schema.ControlButton, schema.ControlLabel, schema.ControlLink, schema.ControlIcon:
		return true
	default:
		return false
	}
}

func needsProcess(action string) bool {
	switch action {
	case schema.ActionSetValue, schema.ActionPerformAction, schema.ActionRunScript, schema.ActionOpenURL:
		return true
	default:
		return false
	}
}
