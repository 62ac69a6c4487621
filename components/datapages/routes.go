package datapages

import (
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MountPath returns the route prefix for the component under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers GET and HEAD {mount}/{pageID} on r and returns
// the mount path.
func RegisterRoutes(r chi.Router, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(r, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the handler using a pre-built Options
// value.
func RegisterRoutesWithOptions(r chi.Router, basePath string, opts Options) (string, error) {
	if r == nil {
		return "", fmt.Errorf("datapages: missing router")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	mount := mountPath(basePath, opts.RoutePath)
	h := HandlerWithOptions(opts)
	pattern := strings.TrimRight(mount, "/") + "/{" + PageIDParam + "}"
	r.Get(pattern, h.ServeHTTP)
	r.Head(pattern, h.ServeHTTP)
	return mount, nil
}

// NewRouter returns a standalone router serving the component under
// basePath, with panic recovery.
func NewRouter(basePath string, fns ...OptionFn) (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if _, err := RegisterRoutes(r, basePath, fns...); err != nil {
		return nil, err
	}
	return r, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
