package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-caseform/pkg/store"
)

// Message is a server validation message addressed to a property path.
type Message struct {
	Path              string `json:"Path,omitempty" yaml:"Path,omitempty"`
	ValidationMessage string `json:"ValidationMessage" yaml:"ValidationMessage"`
}

// Mapping splits validation messages into per-field messages keyed by
// expanded reference and messages that address the whole form.
type Mapping struct {
	Fields map[string]string
	Form   []string
}

// Lookup returns the message for reference, expanding it first.
func (m Mapping) Lookup(reference string) (string, bool) {
	if len(m.Fields) == 0 {
		return "", false
	}
	msg, ok := m.Fields[store.ExpandPath(reference)]
	return msg, ok
}

// Empty reports whether the mapping carries no messages.
func (m Mapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// Paths returns the field paths in sorted order.
func (m Mapping) Paths() []string {
	paths := make([]string, 0, len(m.Fields))
	for p := range m.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MapMessages rebuilds the error map from a server message list. Messages
// for the same path are joined; messages without a path become form level.
func MapMessages(messages []Message) Mapping {
	mapping := Mapping{}
	grouped := make(map[string][]string)
	var order []string

	for _, msg := range messages {
		path := store.ExpandPath(strings.TrimSpace(msg.Path))
		if path == "" {
			mapping.Form = append(mapping.Form, msg.ValidationMessage)
			continue
		}
		if _, seen := grouped[path]; !seen {
			order = append(order, path)
		}
		grouped[path] = append(grouped[path], msg.ValidationMessage)
	}

	for _, path := range order {
		normalized := normalizeMessages(grouped[path])
		if len(normalized) == 0 {
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string]string, len(order))
		}
		mapping.Fields[path] = strings.Join(normalized, "; ")
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

type errorEnvelope struct {
	Errors []struct {
		ID                 string    `json:"ID" yaml:"ID"`
		Message            string    `json:"message" yaml:"message"`
		ValidationMessages []Message `json:"ValidationMessages" yaml:"ValidationMessages"`
	} `json:"errors" yaml:"errors"`
	ValidationMessages []Message `json:"ValidationMessages" yaml:"ValidationMessages"`
}

// DecodeMessages parses a message list from JSON or YAML. It accepts a bare
// array, an object with ValidationMessages, or a server error envelope.
func DecodeMessages(data []byte) ([]Message, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	var list []Message
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil {
		return envelope.messages(), nil
	}
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	if err := yaml.Unmarshal(data, &envelope); err == nil {
		return envelope.messages(), nil
	}
	return nil, fmt.Errorf("validation: invalid JSON or YAML message list")
}

func (e errorEnvelope) messages() []Message {
	out := append([]Message(nil), e.ValidationMessages...)
	for _, item := range e.Errors {
		out = append(out, item.ValidationMessages...)
		if len(item.ValidationMessages) == 0 && item.Message != "" {
			out = append(out, Message{ValidationMessage: item.Message})
		}
	}
	return out
}
