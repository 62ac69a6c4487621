package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandPath turns a relative reference such as ".Customer.Name" into an
// absolute one by stripping a single leading dot.
func ExpandPath(path string) string {
	return strings.TrimPrefix(path, ".")
}

type segmentKind int

const (
	segmentProperty segmentKind = iota
	segmentListItem
	segmentGroupItem
)

// segment is one dotted part of a reference. Name(3) addresses the third
// element of a page list and Name(key) an entry of a page group.
type segment struct {
	name  string
	kind  segmentKind
	index int
	key   string
}

func (s segment) String() string {
	switch s.kind {
	case segmentListItem:
		return fmt.Sprintf("%s(%d)", s.name, s.index)
	case segmentGroupItem:
		return fmt.Sprintf("%s(%s)", s.name, s.key)
	default:
		return s.name
	}
}

func parsePath(path string) ([]segment, error) {
	path = ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return nil, fmt.Errorf("store: empty path")
	}

	parts := splitPath(path)
	out := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("store: path %q: %w", path, err)
		}
		out = append(out, seg)
	}
	return out, nil
}

// splitPath splits on dots that are not inside parentheses so group keys may
// contain dots.
func splitPath(path string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range path {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				parts = append(parts, path[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, path[start:])
}

func parseSegment(part string) (segment, error) {
	if part == "" {
		return segment{}, fmt.Errorf("empty segment")
	}
	open := strings.IndexByte(part, '(')
	if open < 0 {
		return segment{name: part, kind: segmentProperty}, nil
	}
	if !strings.HasSuffix(part, ")") || open == 0 {
		return segment{}, fmt.Errorf("malformed segment %q", part)
	}
	name := part[:open]
	inner := part[open+1 : len(part)-1]
	if inner == "" {
		return segment{}, fmt.Errorf("empty subscript in %q", part)
	}
	if idx, err := strconv.Atoi(inner); err == nil {
		if idx < 1 {
			return segment{}, fmt.Errorf("list index must be 1-based in %q", part)
		}
		return segment{name: name, kind: segmentListItem, index: idx}, nil
	}
	return segment{name: name, kind: segmentGroupItem, key: inner}, nil
}
