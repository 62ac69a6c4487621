package store

import (
	"fmt"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// AddEntry writes value into target at path, creating intermediate maps and
// slices as needed. List subscripts are 1-based.
func AddEntry(path string, value any, target map[string]any) error {
	if target == nil {
		return fmt.Errorf("store: target map is nil")
	}
	segments, err := parsePath(path)
	if err != nil {
		return err
	}

	current := target
	for i, seg := range segments {
		last := i == len(segments)-1
		switch seg.kind {
		case segmentProperty:
			if last {
				current[seg.name] = value
				return nil
			}
			child, ok := current[seg.name].(map[string]any)
			if !ok {
				child = make(map[string]any)
				current[seg.name] = child
			}
			current = child

		case segmentListItem:
			list, _ := current[seg.name].([]any)
			if len(list) < seg.index {
				list = append(list, make([]any, seg.index-len(list))...)
			}
			current[seg.name] = list
			if last {
				list[seg.index-1] = value
				return nil
			}
			child, ok := list[seg.index-1].(map[string]any)
			if !ok {
				child = make(map[string]any)
				list[seg.index-1] = child
			}
			current = child

		case segmentGroupItem:
			group, ok := current[seg.name].(map[string]any)
			if !ok {
				group = make(map[string]any)
				current[seg.name] = group
			}
			if last {
				group[seg.key] = value
				return nil
			}
			child, ok := group[seg.key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				group[seg.key] = child
			}
			current = child
		}
	}
	return nil
}

// Lookup reads path from a nested payload graph.
func Lookup(path string, source map[string]any) (any, bool) {
	segments, err := parsePath(path)
	if err != nil || source == nil {
		return nil, false
	}

	var current any = source
	for _, seg := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[seg.name]
		if !ok {
			return nil, false
		}
		switch seg.kind {
		case segmentListItem:
			list, ok := next.([]any)
			if !ok || seg.index > len(list) {
				return nil, false
			}
			next = list[seg.index-1]
		case segmentGroupItem:
			group, ok := next.(map[string]any)
			if !ok {
				return nil, false
			}
			if next, ok = group[seg.key]; !ok {
				return nil, false
			}
		}
		current = next
	}
	return current, true
}

// RepeatFromReference returns the collection backing a grid inside content,
// creating an empty one when absent. Page lists yield []any and page groups
// map[string]any.
func RepeatFromReference(reference, referenceType string, content map[string]any) (any, error) {
	ref := ExpandPath(reference)
	existing, ok := Lookup(ref, content)

	switch schema.NormalizeReferenceType(referenceType) {
	case schema.ReferencePageGroup:
		if group, isGroup := existing.(map[string]any); ok && isGroup {
			return group, nil
		}
		group := make(map[string]any)
		return group, AddEntry(ref, group, content)
	default:
		if list, isList := existing.([]any); ok && isList {
			return list, nil
		}
		list := []any{}
		return list, AddEntry(ref, list, content)
	}
}

// BlankRow derives an empty row shaped like the last entry of rows, with
// every leaf cleared.
func BlankRow(rows []any) any {
	if len(rows) == 0 {
		return map[string]any{}
	}
	return blank(rows[len(rows)-1])
}

func blank(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = blank(v)
		}
		return out
	case []any:
		if len(typed) == 0 {
			return []any{}
		}
		return []any{blank(typed[0])}
	default:
		return ""
	}
}
