package block

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
)

// Handler serves the component: GET and HEAD render the idle form, POST
// submits it. A successful redirect answers 303 See Other unless the client
// negotiated JSON, which receives the target in the state instead.
func (c *Component) Handler() http.Handler {
	return http.HandlerFunc(c.serve)
}

func (c *Component) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		c.respond(w, r, Result{}, http.StatusOK)
	case http.MethodPost:
		result, err := c.Submit(r.Context(), r)
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		c.WriteResult(w, r, result)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// WriteResult answers a POST with result: a 303 for redirects, 422 when
// local validation failed and 200 otherwise.
func (c *Component) WriteResult(w http.ResponseWriter, r *http.Request, result Result) {
	if result.Redirect != "" && !c.WantsFragment(r) {
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}
	status := http.StatusOK
	if !result.Valid() {
		status = http.StatusUnprocessableEntity
	}
	c.respond(w, r, result, status)
}

func (c *Component) respond(w http.ResponseWriter, r *http.Request, result Result, status int) {
	out, contentType, err := c.RenderResult(r.Context(), r, result)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if c.cfg.layout != nil && !c.WantsFragment(r) {
		var buf bytes.Buffer
		if err := c.cfg.layout.RenderPage(r.Context(), &buf, c.block.Form.Title, template.HTML(out)); err != nil {
			c.writeError(w, r, err)
			return
		}
		out = buf.Bytes()
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}

func (c *Component) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var statusErr StatusError
	if errors.As(err, &statusErr) && statusErr.Code != 0 {
		code = statusErr.Code
	}
	level := slog.LevelError
	if code < http.StatusInternalServerError {
		level = slog.LevelInfo
	}
	c.cfg.logger.Log(r.Context(), level, "form block request failed",
		slog.String("form", c.block.Form.ID),
		slog.String("method", r.Method),
		slog.Int("status", code),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(code), code)
}
