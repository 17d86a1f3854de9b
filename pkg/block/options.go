package block

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-formblock/pkg/formstate"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/renderers/jsonstate"
	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/slug"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// Renderer names registered by default.
const (
	RendererHTML = "vanilla"
	RendererJSON = "json"
)

// DefaultMaxBodyBytes caps JSON submission bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Layout wraps a rendered fragment into a full document.
type Layout interface {
	RenderPage(ctx context.Context, w io.Writer, title string, body template.HTML) error
}

// HiddenFieldsFunc returns extra hidden fields for a request, e.g. a CSRF
// token.
type HiddenFieldsFunc func(r *http.Request) []render.HiddenField

// LocaleFunc picks the locale of a request.
type LocaleFunc func(r *http.Request) string

// Option configures a Component.
type Option func(*config)

type config struct {
	renderers    *render.Registry
	fallback     string
	slugs        slug.Formatter
	richtext     *richtext.Renderer
	logger       *slog.Logger
	sessionOpts  []submit.Option
	stateOpts    []formstate.Option
	messages     render.Messages
	translator   render.Translator
	locale       LocaleFunc
	hidden       HiddenFieldsFunc
	layout       Layout
	maxBodyBytes int64
}

// WithRenderers replaces the renderer registry. It must contain the
// fallback renderer.
func WithRenderers(registry *render.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.renderers = registry
		}
	}
}

// WithDefaultRenderer selects the renderer used when the Accept header names
// none of the registered content types.
func WithDefaultRenderer(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.fallback = name
		}
	}
}

// WithSlugFormatter sets the formatter resolving reference redirects.
func WithSlugFormatter(formatter slug.Formatter) Option {
	return func(cfg *config) {
		if formatter != nil {
			cfg.slugs = formatter
		}
	}
}

// WithRichText overrides the rich text renderer.
func WithRichText(renderer *richtext.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.richtext = renderer
		}
	}
}

// WithLogger sets the logger shared with submission sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSessionOptions forwards options to every submission session.
func WithSessionOptions(opts ...submit.Option) Option {
	return func(cfg *config) {
		cfg.sessionOpts = append(cfg.sessionOpts, opts...)
	}
}

// WithFormStateOptions forwards options to the validator.
func WithFormStateOptions(opts ...formstate.Option) Option {
	return func(cfg *config) {
		cfg.stateOpts = append(cfg.stateOpts, opts...)
	}
}

// WithMessages overrides the status texts. Empty entries keep defaults.
func WithMessages(messages render.Messages) Option {
	return func(cfg *config) {
		cfg.messages = messages.WithDefaults()
	}
}

// WithTranslator localizes status texts, labels and placeholders per
// request locale.
func WithTranslator(t render.Translator, locale LocaleFunc) Option {
	return func(cfg *config) {
		cfg.translator = t
		if locale != nil {
			cfg.locale = locale
		}
	}
}

// WithHiddenFields adds per request hidden fields to rendered forms.
func WithHiddenFields(fn HiddenFieldsFunc) Option {
	return func(cfg *config) {
		cfg.hidden = fn
	}
}

// WithLayout wraps full page HTML responses of the standalone handler.
func WithLayout(layout Layout) Option {
	return func(cfg *config) {
		cfg.layout = layout
	}
}

// WithMaxBodyBytes caps JSON submission bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(cfg *config) {
		if limit > 0 {
			cfg.maxBodyBytes = limit
		}
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		fallback:     RendererHTML,
		slugs:        slug.New(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages:     render.DefaultMessages(),
		locale:       acceptLanguage,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.richtext == nil {
		cfg.richtext = richtext.New()
	}
	if cfg.renderers == nil {
		registry, err := DefaultRenderers()
		if err != nil {
			return nil, err
		}
		cfg.renderers = registry
	}
	if !cfg.renderers.Has(cfg.fallback) {
		return nil, &UnknownRendererError{Name: cfg.fallback}
	}
	return cfg, nil
}

// DefaultRenderers returns a registry holding the vanilla HTML and the JSON
// state renderers.
func DefaultRenderers(opts ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(opts...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonstate.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

// acceptLanguage returns the first language tag of the request.
func acceptLanguage(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}
