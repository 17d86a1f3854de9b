package fields

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-formblock/pkg/model"
	rendertemplate "github.com/goliatone/go-formblock/pkg/render/template"
)

// Renderer writes the control markup for one field into buf.
type Renderer func(buf *bytes.Buffer, field model.Field, data Data) error

// Data carries per-render state and helpers for field renderers.
type Data struct {
	Template rendertemplate.TemplateRenderer
	// Value is the submitted or default value to prefill.
	Value any
	// Error is the first validation error for the field, if any.
	Error string
	// Message is the sanitized HTML of a message field.
	Message string
	Config  map[string]any
}

// Descriptor binds a field kind to its renderer.
type Descriptor struct {
	Kind     model.FieldKind
	Renderer Renderer
}

// Registry maps field kinds to descriptors. It is built once at startup and
// handed to renderers; there is no package level instance.
type Registry struct {
	mu    sync.RWMutex
	kinds map[model.FieldKind]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{kinds: make(map[model.FieldKind]Descriptor)}
}

// NewDefaultRegistry returns a registry holding the built-in renderer for
// every known kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, kind := range model.Kinds() {
		if descriptor, ok := defaultDescriptor(kind); ok {
			registry.MustRegister(kind, descriptor)
		}
	}
	return registry
}

// Clone returns a copy of the registry so callers can override kinds without
// affecting the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for kind, descriptor := range r.kinds {
		cloned.kinds[kind] = descriptor
	}
	return cloned
}

// Register associates a descriptor with kind, replacing any existing entry.
func (r *Registry) Register(kind model.FieldKind, descriptor Descriptor) error {
	if !kind.Valid() {
		return fmt.Errorf("fields: unknown field kind %q", kind)
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("fields: renderer for %q is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Kind = kind
	r.kinds[kind] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(kind model.FieldKind, descriptor Descriptor) {
	if err := r.Register(kind, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor for kind. Unknown kinds report false,
// which renderers treat as "render nothing".
func (r *Registry) Descriptor(kind model.FieldKind) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.kinds[kind]
	return descriptor, ok
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []model.FieldKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]model.FieldKind, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Render writes the markup for field. It reports false without writing when
// the kind has no descriptor.
func (r *Registry) Render(buf *bytes.Buffer, field model.Field, data Data) (bool, error) {
	descriptor, ok := r.Descriptor(field.Kind)
	if !ok {
		return false, nil
	}
	if err := descriptor.Renderer(buf, field, data); err != nil {
		return true, fmt.Errorf("fields: render %s field %q: %w", field.Kind, field.Name, err)
	}
	return true, nil
}
