package block

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// RoutePath is the default mount point of standalone forms.
const RoutePath = "/forms"

// Mux is the subset of a router RegisterRoutes needs. Both http.ServeMux and
// chi routers satisfy it.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Forms serves standalone form blocks addressed by form id.
type Forms struct {
	group  *Group
	forms  content.FormLoader
	prefix string
}

// NewForms loads forms through loader and submits through transport.
func NewForms(loader content.FormLoader, transport submit.Transport, opts ...Option) (*Forms, error) {
	if loader == nil {
		return nil, errors.New("block: form loader is nil")
	}
	group, err := NewGroup(transport, opts...)
	if err != nil {
		return nil, err
	}
	return &Forms{group: group, forms: loader, prefix: RoutePath}, nil
}

func (f *Forms) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		id = strings.TrimPrefix(r.URL.Path, f.prefix+"/")
	}
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	block, err := content.HydrateBlock(r.Context(), f.forms, model.FormBlock{BlockType: model.BlockTypeForm, FormID: id})
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		f.group.cfg.logger.Error("load form failed", "form", id, "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	component, err := f.group.Component(block, -1)
	if err != nil {
		f.group.cfg.logger.Error("prepare form failed", "form", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	component.Handler().ServeHTTP(w, r)
}

// MountPath returns the pattern standalone forms are served under.
func MountPath(basePath string) string {
	return joinPath(basePath, RoutePath) + "/{id}"
}

// RegisterRoutes mounts standalone forms at <basePath>/forms/{id}.
func RegisterRoutes(mux Mux, basePath string, loader content.FormLoader, transport submit.Transport, opts ...Option) ([]string, error) {
	if mux == nil {
		return nil, errors.New("block: mux is nil")
	}
	forms, err := NewForms(loader, transport, opts...)
	if err != nil {
		return nil, err
	}
	forms.prefix = joinPath(basePath, RoutePath)
	pattern := MountPath(basePath)
	mux.Handle(pattern, forms)
	return []string{pattern}, nil
}

func joinPath(basePath, route string) string {
	base := strings.Trim(strings.TrimSpace(basePath), "/")
	route = strings.Trim(route, "/")
	if base == "" {
		return "/" + route
	}
	return "/" + base + "/" + route
}
