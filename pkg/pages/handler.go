package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	rendertemplate "github.com/goliatone/go-formblock/pkg/render/template"
	gotemplate "github.com/goliatone/go-formblock/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/shell"
	"github.com/goliatone/go-formblock/pkg/slug"
)

// Loader fetches pages with their form blocks hydrated.
type Loader interface {
	Page(ctx context.Context, slug string) (model.Page, error)
}

// SlugFunc extracts the page slug from a request.
type SlugFunc func(r *http.Request) string

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRichText overrides the renderer of content blocks.
func WithRichText(renderer *richtext.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.richtext = renderer
		}
	}
}

// WithSlugFunc overrides how the slug is read from the request. The default
// uses the request path with surrounding slashes removed.
func WithSlugFunc(fn SlugFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.slugOf = fn
		}
	}
}

// Handler serves pages by slug. The empty slug serves the home page.
type Handler struct {
	pages     Loader
	shell     *shell.Shell
	forms     *block.Group
	richtext  *richtext.Renderer
	templates rendertemplate.TemplateRenderer
	slugOf    SlugFunc
	logger    *slog.Logger
}

// New builds a page handler. Form blocks are prepared through forms.
func New(pages Loader, sh *shell.Shell, forms *block.Group, opts ...Option) (*Handler, error) {
	if pages == nil {
		return nil, errors.New("pages: loader is nil")
	}
	if sh == nil {
		return nil, errors.New("pages: shell is nil")
	}
	if forms == nil {
		return nil, errors.New("pages: form group is nil")
	}
	h := &Handler{
		pages:  pages,
		shell:  sh,
		forms:  forms,
		slugOf: pathSlug,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.richtext == nil {
		h.richtext = richtext.New()
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(embeddedTemplates),
		gotemplate.WithExtension(".tmpl"),
		gotemplate.WithSetName("formblock-pages"),
	)
	if err != nil {
		return nil, fmt.Errorf("pages: configure templates: %w", err)
	}
	h.templates = engine
	return h, nil
}

// ServeHTTP renders the page on GET and HEAD. POST submits the form block
// named by the _block field (or query parameter for JSON bodies) and answers
// like the standalone block handler, except that HTML outcomes other than a
// redirect re-render the whole page.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	pageSlug := h.slugOf(r)
	page, err := h.pages.Page(r.Context(), pageSlug)
	if err != nil {
		h.fail(w, r, pageSlug, err)
		return
	}

	view := View{
		Page:      page,
		Request:   r,
		Active:    -1,
		forms:     h.forms,
		richtext:  h.richtext,
		templates: h.templates,
		logger:    h.logger,
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		idx, component, err := h.target(r, page)
		if err != nil {
			h.fail(w, r, pageSlug, err)
			return
		}
		result, err := component.Submit(r.Context(), r)
		if err != nil {
			h.fail(w, r, pageSlug, err)
			return
		}
		if result.Redirect != "" || component.WantsFragment(r) {
			component.WriteResult(w, r, result)
			return
		}
		view.Active = idx
		view.Result = result
		if !result.Valid() {
			status = http.StatusUnprocessableEntity
		}
	}

	props, err := h.shell.InitialProps(r.Context())
	if err != nil {
		h.fail(w, r, pageSlug, err)
		return
	}
	props[shell.PropTitle] = page.Title
	props[PropPage] = page

	var buf bytes.Buffer
	if err := h.shell.Render(r.Context(), &buf, view, props); err != nil {
		h.fail(w, r, pageSlug, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) target(r *http.Request, page model.Page) (int, *block.Component, error) {
	raw := strings.TrimSpace(r.FormValue(render.BlockFieldName))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get(render.BlockFieldName))
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return -1, nil, block.StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("pages: invalid %s field %q", render.BlockFieldName, raw)}
	}
	formBlock, ok := content.FormBlocks(page)[idx]
	if !ok {
		return -1, nil, block.StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("pages: no form block at %d", idx)}
	}
	component, err := h.forms.Component(formBlock, idx)
	if err != nil {
		return -1, nil, err
	}
	return idx, component, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, pageSlug string, err error) {
	code := http.StatusInternalServerError
	var statusErr block.StatusError
	switch {
	case errors.Is(err, content.ErrNotFound):
		code = http.StatusNotFound
	case errors.As(err, &statusErr) && statusErr.Code != 0:
		code = statusErr.Code
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	level := slog.LevelError
	if code < http.StatusInternalServerError {
		level = slog.LevelInfo
	}
	h.logger.Log(r.Context(), level, "page request failed",
		slog.String("slug", pageSlug),
		slog.String("method", r.Method),
		slog.Int("status", code),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(code), code)
}

func pathSlug(r *http.Request) string {
	s := slug.Normalize(r.URL.Path)
	if s == "" {
		return slug.DefaultHomeSlug
	}
	return s
}
