package actions

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
)

// WindowOpener opens url in a named window. Browsers, terminals and tests
// provide their own implementation.
type WindowOpener interface {
	Open(ctx context.Context, url, name, options string) error
}

// WindowOpenerFunc adapts a function to WindowOpener.
type WindowOpenerFunc func(ctx context.Context, url, name, options string) error

func (fn WindowOpenerFunc) Open(ctx context.Context, url, name, options string) error {
	return fn(ctx, url, name, options)
}

// BuildURL resolves the target of an openUrlInWindow process: the literal
// URL, else the referenced property, else the last saved value. A missing
// scheme defaults to http and resolved query parameters are appended in
// declaration order.
func BuildURL(values *store.Store, process *schema.ActionProcess) (string, error) {
	if process == nil {
		return "", fmt.Errorf("actions: openURL has no actionProcess")
	}

	var target string
	if domain := process.AlternateDomain; domain != nil {
		target = domain.URL
		if target == "" && domain.URLReference != nil {
			target = format.Stringify(ResolveProperty(values, schema.Text(domain.URLReference.Reference), domain.URLReference))
		}
		if target == "" && domain.URLReference != nil {
			target = domain.URLReference.LastSavedValue
		}
	}
	target = strings.TrimSpace(strings.ReplaceAll(target, `"`, ""))
	if target == "" {
		return "", fmt.Errorf("actions: openURL has no target")
	}
	if !strings.HasPrefix(target, "http") {
		target = "http://" + target
	}

	var query []string
	for _, param := range process.QueryParams {
		value := strings.ReplaceAll(format.Stringify(resolvePair(values, param)), `"`, "")
		name := strings.ReplaceAll(param.Name, `"`, "")
		query = append(query, url.QueryEscape(name)+"="+url.QueryEscape(value))
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + strings.Join(query, "&")
	}
	return target, nil
}
