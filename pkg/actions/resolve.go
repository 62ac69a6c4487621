package actions

import (
	"strings"

	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
)

// ResolveProperty turns a property token into a value:
//   - booleans and numbers pass through;
//   - a token starting with a double quote is a literal, quotes stripped;
//   - anything else is looked up in the store. A blank result yields the
//     fallback's last saved value (or nil) when a fallback is given, and the
//     token text itself otherwise.
//
// The literal-token fallback is kept for compatibility; it hides misspelt
// references rather than reporting them.
func ResolveProperty(values *store.Store, token schema.Token, fallback *schema.ValueReference) any {
	if token.IsBool {
		return token.Bool
	}
	if token.IsNumber {
		return token.Number
	}
	text := token.Text
	if strings.HasPrefix(text, `"`) {
		return strings.ReplaceAll(text, `"`, "")
	}

	value := values.Value(store.ExpandPath(text))
	if !blank(value) {
		return value
	}
	if fallback != nil {
		if fallback.LastSavedValue != "" {
			return fallback.LastSavedValue
		}
		return nil
	}
	if text == "" {
		return nil
	}
	return text
}

// resolvePair resolves the source of a setValue pair or a script/query
// parameter.
func resolvePair(values *store.Store, pair schema.ValuePair) any {
	if ref := pair.ValueReference; ref != nil && ref.Reference != "" {
		return ResolveProperty(values, schema.Text(ref.Reference), ref)
	}
	if ref := pair.ValueReference; ref != nil && pair.Value.IsZero() {
		if ref.LastSavedValue != "" {
			return ref.LastSavedValue
		}
		return nil
	}
	return ResolveProperty(values, pair.Value, nil)
}

func blank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
