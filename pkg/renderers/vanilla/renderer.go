package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goliatone/go-formblock/pkg/fields"
	"github.com/goliatone/go-formblock/pkg/render"
	rendertemplate "github.com/goliatone/go-formblock/pkg/render/template"
	gotemplate "github.com/goliatone/go-formblock/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formblock/pkg/submit"
)

const blockTemplate = "templates/block.tmpl"

// Cell spans of the block column at each breakpoint.
const (
	CellCols  = 7
	CellColsM = 4
	CellColsS = 8
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateFuncs    map[string]any
	registry         *fields.Registry
	classes          Classes
	loadingDelay     time.Duration
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. Templates
// missing from it are still served from the embedded bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs registers template helpers with the default engine.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithFieldRegistry sets the registry used to render field controls.
func WithFieldRegistry(registry *fields.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithClasses overrides chrome class names.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithLoadingDelay sets the delay the browser runtime waits before showing
// the loading message.
func WithLoadingDelay(delay time.Duration) Option {
	return func(cfg *config) {
		if delay >= 0 {
			cfg.loadingDelay = delay
		}
	}
}

// Renderer renders a form block to HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	fields       *fieldRenderer
	loadingDelay time.Duration
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{loadingDelay: submit.DefaultLoadingDelay}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithSetName("formblock-vanilla"),
			gotemplate.WithTemplateFunc(cfg.templateFuncs),
		}
		if cfg.templateFS != nil {
			engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(TemplatesFS()))

		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = fields.NewDefaultRegistry()
	}

	return &Renderer{
		templates: renderer,
		fields: &fieldRenderer{
			templates: renderer,
			registry:  registry,
			classes:   cfg.classes.withDefaults(),
		},
		loadingDelay: cfg.loadingDelay,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the block. Views built without RenderContent contain no rich
// text.
func (r *Renderer) Render(_ context.Context, view render.BlockView) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var fieldsMarkup []fieldMarkup
	if view.View.ShowForm {
		var err error
		fieldsMarkup, err = r.fields.renderAll(view)
		if err != nil {
			return nil, err
		}
	}

	result, err := r.templates.RenderTemplate(blockTemplate, map[string]any{
		"view":         view,
		"fields":       fieldsMarkup,
		"classes":      r.fields.classes,
		"state":        stateName(view.State),
		"blockID":      blockID(view),
		"submitLabel":  view.SubmitLabel(),
		"loadingDelay": int(r.loadingDelay / time.Millisecond),
		"cell": map[string]any{
			"cols":  CellCols,
			"colsM": CellColsM,
			"colsS": CellColsS,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Stylesheet returns the embedded default stylesheet.
func Stylesheet() string {
	return defaultStylesheet()
}

func stateName(state submit.UIState) string {
	switch {
	case state.Submitted:
		return "submitted"
	case state.Loading:
		return "loading"
	case state.Error != nil:
		return "error"
	default:
		return "idle"
	}
}

func blockID(view render.BlockView) string {
	id := controlID("block " + view.Block.Form.ID)
	if view.Index >= 0 {
		id = fmt.Sprintf("%s-%d", id, view.Index)
	}
	return id
}
