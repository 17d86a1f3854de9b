package block

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-formblock/pkg/formstate"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/submit"
)

var (
	// ErrNotHydrated is returned when a block carries only a form id.
	ErrNotHydrated = errors.New("block: form block is not hydrated")
	// ErrNoTransport is returned when no submission transport is set.
	ErrNoTransport = errors.New("block: submission transport is nil")
)

// UnknownRendererError reports a renderer name missing from the registry.
type UnknownRendererError struct {
	Name string
}

func (e *UnknownRendererError) Error() string {
	return fmt.Sprintf("block: renderer %q is not registered", e.Name)
}

// StatusError carries the HTTP status a handler should answer with.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e StatusError) Unwrap() error { return e.Err }

// Result is the outcome of one POST.
type Result struct {
	State submit.UIState
	// Redirect is the resolved navigation target after a successful
	// redirect-type submission.
	Redirect string
	// Values are the submitted values keyed by field name, used to refill the
	// form.
	Values map[string]any
	// Errors holds local validation messages. When non-empty nothing was
	// sent.
	Errors map[string]string
	// Hidden echoes the hidden fields posted with the form.
	Hidden map[string]string
}

// Valid reports whether local validation passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Component binds one form block to its renderers and transport.
type Component struct {
	cfg       *config
	block     model.FormBlock
	transport submit.Transport
	index     int
}

// New builds a component for a hydrated block. Index is the block position
// in its page layout, or -1 for a standalone mount.
func New(block model.FormBlock, transport submit.Transport, opts ...Option) (*Component, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newComponent(cfg, block, transport, -1)
}

func newComponent(cfg *config, block model.FormBlock, transport submit.Transport, index int) (*Component, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	if !block.Hydrated() {
		return nil, fmt.Errorf("%w: %s", ErrNotHydrated, block.FormID)
	}
	form, err := model.Prepare(block.Form, model.WithSubmitButtonLabel(cfg.messages.Submit))
	if err != nil {
		return nil, fmt.Errorf("block: form %s: %w", block.Form.ID, err)
	}
	block.Form = form
	block.FormID = form.ID
	return &Component{cfg: cfg, block: block, transport: transport, index: index}, nil
}

// Group builds components sharing one configuration, avoiding a template
// parse per block.
type Group struct {
	cfg       *config
	transport submit.Transport
}

// NewGroup prepares a shared configuration.
func NewGroup(transport submit.Transport, opts ...Option) (*Group, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Group{cfg: cfg, transport: transport}, nil
}

// Component builds the component of block at layout index idx.
func (g *Group) Component(block model.FormBlock, idx int) (*Component, error) {
	return newComponent(g.cfg, block, g.transport, idx)
}

// Layout returns the configured layout, if any.
func (g *Group) Layout() Layout {
	return g.cfg.layout
}

// Block returns the prepared block.
func (c *Component) Block() model.FormBlock {
	return c.block
}

// Index returns the layout position, or -1.
func (c *Component) Index() int {
	return c.index
}

// View builds the render view of result for r. The request selects locale
// and extra hidden fields and may be nil.
func (c *Component) View(r *http.Request, result Result, extra ...render.ViewOption) (render.BlockView, error) {
	block := c.block
	messages := c.cfg.messages
	locale := ""
	if r != nil {
		locale = c.cfg.locale(r)
	}
	if c.cfg.translator != nil {
		messages = render.LocalizeMessages(locale, c.cfg.translator, nil).WithDefaults()
		block.Form = render.LocalizeForm(block.Form, locale, c.cfg.translator)
	}

	var hidden []render.HiddenField
	if r != nil && c.cfg.hidden != nil {
		hidden = c.cfg.hidden(r)
	}
	opts := []render.ViewOption{
		render.WithIndex(c.index),
		render.WithValues(result.Values),
		render.WithErrors(result.Errors),
		render.WithHidden(hidden...),
		render.WithLocale(locale),
		render.WithMessages(messages),
	}
	if r != nil {
		opts = append(opts, render.WithAction(r.URL.RequestURI()))
	}
	opts = append(opts, extra...)

	view := render.NewBlockView(block, result.State, opts...)
	if err := view.RenderContent(c.cfg.richtext); err != nil {
		return render.BlockView{}, err
	}
	return view, nil
}

// Render writes the block in state using the default renderer.
func (c *Component) Render(ctx context.Context, w io.Writer, state submit.UIState, extra ...render.ViewOption) error {
	renderer, err := c.cfg.renderers.Get(c.cfg.fallback)
	if err != nil {
		return err
	}
	view, err := c.View(nil, Result{State: state}, extra...)
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, view)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RenderHTML writes result with the default renderer. The request selects
// locale, hidden fields and the form action, as in View.
func (c *Component) RenderHTML(ctx context.Context, w io.Writer, r *http.Request, result Result) error {
	renderer, err := c.cfg.renderers.Get(c.cfg.fallback)
	if err != nil {
		return err
	}
	view, err := c.View(r, result)
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, view)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RenderResult renders result with the renderer negotiated from r's Accept
// header and returns the bytes and their content type.
func (c *Component) RenderResult(ctx context.Context, r *http.Request, result Result, extra ...render.ViewOption) ([]byte, string, error) {
	renderer, err := c.cfg.renderers.Negotiate(r.Header.Get("Accept"), c.cfg.fallback)
	if err != nil {
		return nil, "", err
	}
	view, err := c.View(r, result, extra...)
	if err != nil {
		return nil, "", err
	}
	out, err := renderer.Render(ctx, view)
	if err != nil {
		return nil, "", err
	}
	return out, renderer.ContentType(), nil
}

// WantsFragment reports whether the negotiated renderer is not the HTML
// fallback, so the response must not be wrapped in a page layout.
func (c *Component) WantsFragment(r *http.Request) bool {
	renderer, err := c.cfg.renderers.Negotiate(r.Header.Get("Accept"), c.cfg.fallback)
	return err != nil || renderer.Name() != c.cfg.fallback
}

// Submit parses r, validates it and, when valid, sends it through a fresh
// submission session. Malformed bodies return a StatusError.
func (c *Component) Submit(ctx context.Context, r *http.Request) (Result, error) {
	validator := formstate.New(c.block.Form, c.cfg.stateOpts...)
	collected, hidden, err := c.collect(r, validator)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Values: collected.ValueMap(),
		Hidden: hidden,
	}
	if !collected.Valid() {
		result.Errors = collected.Errors
		return result, nil
	}

	opts := []submit.Option{
		submit.WithSlugFormatter(c.cfg.slugs),
		submit.WithLogger(c.cfg.logger),
		submit.WithMessages(submit.Messages{
			Generic:             c.cfg.messages.Generic,
			InternalServerError: c.cfg.messages.InternalServerError,
		}),
	}
	opts = append(opts, c.cfg.sessionOpts...)
	session := submit.NewSession(c.block.Form, c.transport, opts...)

	state, err := session.Submit(ctx, collected.Payload())
	if err != nil {
		return Result{}, err
	}
	result.State = state
	result.Redirect = state.Redirect
	return result, nil
}

func (c *Component) collect(r *http.Request, validator *formstate.State) (formstate.Result, map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var values map[string]any
		decoder := json.NewDecoder(io.LimitReader(r.Body, c.cfg.maxBodyBytes))
		if err := decoder.Decode(&values); err != nil {
			return formstate.Result{}, nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("block: decode json body: %w", err)}
		}
		hidden := map[string]string{}
		for name, value := range values {
			if strings.HasPrefix(name, "_") {
				hidden[name] = fmt.Sprint(value)
			}
		}
		return validator.CollectJSON(values), hidden, nil
	}

	if err := r.ParseForm(); err != nil {
		return formstate.Result{}, nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("block: parse form: %w", err)}
	}
	hidden := map[string]string{}
	for name := range r.PostForm {
		if strings.HasPrefix(name, "_") {
			hidden[name] = r.PostForm.Get(name)
		}
	}
	return validator.Collect(r.PostForm), hidden, nil
}
