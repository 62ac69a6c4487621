package render

import (
	"fmt"
	"sort"
	"strings"
)

// Hidden input names used when a rendered form posts back to a session.
const (
	HiddenCaseID       = "caseID"
	HiddenAssignmentID = "assignmentID"
	HiddenActionID     = "actionID"
	HiddenETag         = "etag"
)

// HiddenField is a hidden form input emitted next to the evaluated nodes.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries a request forgery token under the caller's input name,
// for example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// ETagField carries the case etag so a save can send it back as If-Match.
func ETagField(etag string) HiddenField {
	return Hidden(HiddenETag, etag)
}

// AssignmentFields identify the assignment and action a form belongs to.
// Empty ids are skipped.
func AssignmentFields(caseID, assignmentID, actionID string) []HiddenField {
	var out []HiddenField
	for _, f := range []HiddenField{
		Hidden(HiddenCaseID, caseID),
		Hidden(HiddenAssignmentID, assignmentID),
		Hidden(HiddenActionID, actionID),
	} {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns fields ordered by name for stable output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if len(clean) == 0 {
		return nil
	}
	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}
