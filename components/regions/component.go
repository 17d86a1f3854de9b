package regions

import "net/http"

// Component wraps the region handlers, their configuration and routing
// helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts.normalized()
}

// Handler returns a net/http handler for set.
func (c *Component) Handler(set Set) http.Handler {
	if c == nil {
		return Handler(set)
	}
	return HandlerWithOptions(set, c.opts)
}

// List returns the configured regions for set.
func (c *Component) List(set Set) ([]Region, error) {
	if c == nil {
		return Regions(set)
	}
	return c.opts.regions(set)
}

// RegisterRoutes registers the component handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
