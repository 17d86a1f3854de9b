package template_test

import (
	"embed"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formblock/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formblock/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	testsupport.AssertGolden(t, filepath.Join("testdata", "hello.golden"), result)
	if written != result {
		t.Fatalf("writer got %q, returned %q", written, result)
	}
}

func TestEngineGlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngineTemplateFuncs(t *testing.T) {
	shout := pongo2.FilterFunction(func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String()) + "!"), nil
	})
	engine := newEngine(t, gotemplate.WithTemplateFunc(map[string]any{
		"shout": shout,
		"greet": func(name string) string { return "hi " + name },
	}))

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want || written != want {
		t.Fatalf("filter output mismatch\nwant: %q\n got: %q (writer %q)", want, result, written)
	}

	got, err := engine.RenderString(`{{ greet(name) }}`, map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "hi Grace" {
		t.Fatalf("unexpected global func output %q", got)
	}
}

func TestEngineRejectsNonFuncHelpers(t *testing.T) {
	files, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	_, err = gotemplate.New(gotemplate.WithFS(files), gotemplate.WithTemplateFunc(map[string]any{"answer": 42}))
	if err == nil {
		t.Fatalf("expected error for non function helper")
	}
}

func TestEngineStructData(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}
	engine := newEngine(t)
	got, err := engine.RenderTemplate("hello.tpl", person{Name: "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden")); got != want {
		t.Fatalf("struct data mismatch\nwant: %q\n got: %q", want, got)
	}
	if _, err := engine.RenderTemplate("hello", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non object data")
	}
}

func TestEngineDefaultFilters(t *testing.T) {
	engine := newEngine(t)

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("field-id", map[string]any{
			"name":  "email address",
			"label": " Email ",
		}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "field-id.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngineRenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString(`{{ errors|field_error:"email" }}`, map[string]any{
		"errors": map[string]string{"email": "Please enter a valid email address."},
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "Please enter a valid email address." {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestAttrID(t *testing.T) {
	cases := map[string]string{
		"email":          "fb-email",
		" First Name ":   "fb-first-name",
		"a..b":           "fb-a-b",
		"trailing!":      "fb-trailing",
		"":               "",
		"already-dashed": "fb-already-dashed",
	}
	for input, want := range cases {
		if got := gotemplate.AttrID(input); got != want {
			t.Fatalf("AttrID(%q) = %q, want %q", input, got, want)
		}
	}
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
