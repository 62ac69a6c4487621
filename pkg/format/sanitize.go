package format

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from server supplied text and decodes entities so
// the result is plain text.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// SanitizeMarkup keeps safe formatting markup in authored rich text, such as
// paragraphs, and drops scripts, handlers and unsafe links.
func SanitizeMarkup(raw string) string {
	if raw == "" {
		return ""
	}
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.UGCPolicy()
	})
	return markupPolicy.Sanitize(raw)
}
