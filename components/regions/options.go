package regions

import "net/http"

// EmptySearchMode selects what an empty query returns.
type EmptySearchMode string

const (
	// EmptySearchNone returns no regions.
	EmptySearchNone EmptySearchMode = "none"
	// EmptySearchTop returns the first regions of the list, up to the limit.
	EmptySearchTop EmptySearchMode = "top"
)

const (
	defaultRoutePath = "/api/regions"
	defaultLimit     = 300
)

// GuardFunc authorizes a lookup. A StatusError picks the response code;
// other errors answer 403.
type GuardFunc func(r *http.Request) error

// Options configure the handlers and routes.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Countries and States replace the embedded lists when non-nil.
	Countries []Region
	States    []Region
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RoutePath:       defaultRoutePath,
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    defaultLimit,
		MaxLimit:        defaultLimit,
		EmptySearchMode: EmptySearchTop,
	}
}

// NewOptions applies fns over the defaults. Zero values fall back to the
// defaults and the region lists are copied.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts.normalized()
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.RoutePath == "" {
		o.RoutePath = def.RoutePath
	}
	if o.SearchParam == "" {
		o.SearchParam = def.SearchParam
	}
	if o.LimitParam == "" {
		o.LimitParam = def.LimitParam
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = def.DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = def.MaxLimit
	}
	if o.EmptySearchMode == "" {
		o.EmptySearchMode = def.EmptySearchMode
	}
	o.Countries = cloneRegions(o.Countries)
	o.States = cloneRegions(o.States)
	return o
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithCountries replaces the embedded country list.
func WithCountries(list []Region) OptionFn {
	return func(o *Options) { o.Countries = cloneRegions(list) }
}

// WithStates replaces the embedded state list.
func WithStates(list []Region) OptionFn {
	return func(o *Options) { o.States = cloneRegions(list) }
}

func (o Options) regions(set Set) ([]Region, error) {
	switch {
	case set == SetCountries && o.Countries != nil:
		return o.Countries, nil
	case set == SetStates && o.States != nil:
		return o.States, nil
	}
	return Regions(set)
}

// clampLimit maps a requested limit into [0, MaxLimit]; zero asks for the
// default.
func clampLimit(limit int, opts Options) int {
	switch {
	case limit < 0:
		return 0
	case limit == 0:
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 {
		return min(limit, opts.MaxLimit)
	}
	return limit
}

func cloneRegions(list []Region) []Region {
	if list == nil {
		return nil
	}
	return append([]Region{}, list...)
}
