package datapages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Component bundles the data page handler with its configuration and
// routing helpers.
type Component struct {
	opts Options
}

func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

func (c *Component) RegisterRoutes(r chi.Router, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(r, basePath)
	}
	return RegisterRoutesWithOptions(r, basePath, c.opts)
}
