package schema

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Token is a property token as sent by the server: a quoted literal such as
// "\"Yes\"", a property reference such as ".Customer.Name", a boolean or a
// number.
type Token struct {
	Text     string
	Bool     bool
	IsBool   bool
	Number   float64
	IsNumber bool
}

// Text builds a string token.
func Text(s string) Token {
	return Token{Text: s}
}

// BoolToken builds a boolean token.
func BoolToken(b bool) Token {
	return Token{Bool: b, IsBool: true}
}

// NumberToken builds a numeric token.
func NumberToken(n float64) Token {
	return Token{Number: n, IsNumber: true}
}

// IsZero reports whether the token carries nothing.
func (t Token) IsZero() bool {
	return !t.IsBool && !t.IsNumber && t.Text == ""
}

// String renders the token as text; booleans become "true" or "false" and
// numbers their shortest decimal form.
func (t Token) String() string {
	switch {
	case t.IsBool:
		return strconv.FormatBool(t.Bool)
	case t.IsNumber:
		return strconv.FormatFloat(t.Number, 'f', -1, 64)
	}
	return t.Text
}

func (t *Token) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*t = Token{}
	case bytes.Equal(trimmed, []byte("true")):
		*t = BoolToken(true)
	case bytes.Equal(trimmed, []byte("false")):
		*t = BoolToken(false)
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		if n, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
			*t = NumberToken(n)
			return nil
		}
		*t = Text(string(trimmed))
	}
	return nil
}

func (t Token) MarshalJSON() ([]byte, error) {
	switch {
	case t.IsBool:
		return json.Marshal(t.Bool)
	case t.IsNumber:
		return json.Marshal(t.Number)
	}
	return json.Marshal(t.Text)
}

func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"schema: token must be a scalar at line " + strconv.Itoa(node.Line)}}
	}
	if node.Tag == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*t = BoolToken(b)
		return nil
	}
	switch node.Tag {
	case "!!null":
		*t = Token{}
		return nil
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*t = NumberToken(n)
		return nil
	}
	*t = Text(node.Value)
	return nil
}

func (t Token) MarshalYAML() (any, error) {
	switch {
	case t.IsBool:
		return t.Bool, nil
	case t.IsNumber:
		return t.Number, nil
	}
	return t.Text, nil
}
