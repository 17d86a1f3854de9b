package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.BlockView) ([]byte, error) {
	return []byte(s.name), nil
}

func newRegistry(t *testing.T) *render.Registry {
	t.Helper()
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(stubRenderer{name: "json", contentType: "application/json"})
	return registry
}

func TestRegistryRegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	registry := newRegistry(t)

	if err := registry.Register(stubRenderer{name: "json", contentType: "application/json"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryNegotiate(t *testing.T) {
	registry := newRegistry(t)

	cases := []struct {
		accept string
		want   string
	}{
		{accept: "", want: "vanilla"},
		{accept: "*/*", want: "vanilla"},
		{accept: "application/json", want: "json"},
		{accept: "text/html,application/xhtml+xml", want: "vanilla"},
		{accept: "application/json, text/html", want: "json"},
		{accept: "application/json;q=0.9, text/html", want: "vanilla"},
		{accept: "text/html;q=0, application/json;q=0.5", want: "json"},
		{accept: "application/*", want: "json"},
		{accept: "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", want: "vanilla"},
		{accept: "image/png", want: "vanilla"},
		{accept: "not a media type", want: "vanilla"},
	}
	for _, tc := range cases {
		renderer, err := registry.Negotiate(tc.accept, "vanilla")
		if err != nil {
			t.Fatalf("negotiate %q: %v", tc.accept, err)
		}
		if renderer.Name() != tc.want {
			t.Fatalf("negotiate %q = %q, want %q", tc.accept, renderer.Name(), tc.want)
		}
	}

	if _, err := registry.Negotiate("", "missing"); err == nil {
		t.Fatalf("expected error for unknown fallback")
	}
}
