package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formblock/pkg/render/template"
)

const (
	defaultExtension = ".tpl"
	defaultSetName   = "formblock"
)

var errNilEngine = errors.New("gotemplate: engine is nil")

// Option configures New.
type Option func(*options)

type options struct {
	dir       string
	bundles   []fs.FS
	extension string
	setName   string
	funcs     map[string]any
}

// WithBaseDir loads templates from a directory on disk. It is searched
// before any bundle added with WithFS.
func WithBaseDir(dir string) Option {
	return func(o *options) { o.dir = strings.TrimSpace(dir) }
}

// WithFS adds a template bundle. Bundles are searched in the order added.
func WithFS(files fs.FS) Option {
	return func(o *options) {
		if files != nil {
			o.bundles = append(o.bundles, files)
		}
	}
}

// WithExtension sets the extension appended to template names.
func WithExtension(ext string) Option {
	return func(o *options) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		o.extension = "." + strings.TrimPrefix(ext, ".")
	}
}

// WithSetName names the pongo2 template set.
func WithSetName(name string) Option {
	return func(o *options) {
		if name = strings.TrimSpace(name); name != "" {
			o.setName = name
		}
	}
}

// WithTemplateFunc exposes helpers to templates. pongo2.FilterFunction values
// become filters; other functions become globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(o *options) {
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				if o.funcs == nil {
					o.funcs = map[string]any{}
				}
				o.funcs[name] = fn
			}
		}
	}
}

// Engine is a pongo2 template set with a parse cache.
type Engine struct {
	set       *pongo2.TemplateSet
	extension string

	mu     sync.RWMutex
	parsed map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine. At least one of WithBaseDir or WithFS is required.
func New(opts ...Option) (*Engine, error) {
	o := options{extension: defaultExtension, setName: defaultSetName}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.dir == "" && len(o.bundles) == 0 {
		return nil, errors.New("gotemplate: a template dir or fs.FS is required")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(o.bundles)+1)
	if o.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(o.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: template dir %s: %w", o.dir, err)
		}
		loaders = append(loaders, local)
	}
	for _, bundle := range o.bundles {
		loaders = append(loaders, pongo2.NewFSLoader(bundle))
	}

	registerDefaultFilters()
	e := &Engine{
		set:       pongo2.NewSet(o.setName, loaders...),
		extension: o.extension,
		parsed:    map[string]*pongo2.Template{},
	}
	e.set.Globals = pongo2.Context{}
	for name, fn := range o.funcs {
		if err := e.addFunc(name, fn); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RenderTemplate executes the template at name.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}
	if !strings.HasSuffix(name, e.extension) {
		name += e.extension
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString parses content and executes it. Inline templates are not
// cached.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline template", data, out)
}

// GlobalContext merges data into the set globals.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errNilEngine
	}
	ctx, err := contextOf(data)
	if err != nil {
		return fmt.Errorf("gotemplate: global context: %w", err)
	}
	e.mu.Lock()
	e.set.Globals.Update(ctx)
	e.mu.Unlock()
	return nil
}

func (e *Engine) addFunc(name string, fn any) error {
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if reflect.TypeOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("gotemplate: template func %q is a %T", name, fn)
	}
	e.set.Globals[name] = fn
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %s: %w", name, err)
	}
	e.parsed[name] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := contextOf(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %s data: %w", label, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", label, err)
	}

	for _, w := range out {
		if w != nil {
			if _, err := w.Write(buf.Bytes()); err != nil {
				return "", err
			}
		}
	}
	return buf.String(), nil
}

// contextOf turns data into a pongo2 context. Maps keep their scalar values;
// structs go through JSON so templates read them by json tag.
func contextOf(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	var fields map[string]any
	switch v := data.(type) {
	case pongo2.Context:
		fields = v
	case map[string]any:
		fields = v
	default:
		decoded, err := viaJSON(v)
		if err != nil {
			return nil, err
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template data must be an object, got %T", data)
		}
		fields = m
	}

	ctx := make(pongo2.Context, len(fields))
	for key, value := range fields {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		plain, err := plainValue(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		ctx[key] = plain
	}
	return ctx, nil
}

func plainValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			plain, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = plain
		}
		return out, nil
	case pongo2.Context:
		return plainValue(map[string]any(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			plain, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = plain
		}
		return out, nil
	}
	if reflect.TypeOf(value).Kind() == reflect.Func {
		return value, nil
	}
	decoded, err := viaJSON(value)
	if err != nil {
		return nil, err
	}
	return plainValue(decoded)
}

func viaJSON(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
