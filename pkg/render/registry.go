package render

import (
	"fmt"
	"mime"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Registry holds renderers by name and negotiates one per request from the
// Accept header.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// Register adds renderer under its Name. Names are unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for init time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := append([]string(nil), r.order...)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Negotiate picks the renderer for an Accept header. Ranges are tried by
// quality, then header order; q=0 excludes a range. The fallback renderer
// answers empty headers, */* and ties on a media type. Nothing acceptable
// also selects the fallback.
func (r *Registry) Negotiate(accept, fallback string) (Renderer, error) {
	preferred, err := r.Get(fallback)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	candidates := make([]Renderer, 0, len(r.order))
	candidates = append(candidates, preferred)
	for _, name := range r.order {
		if name != fallback {
			candidates = append(candidates, r.byName[name])
		}
	}
	r.mu.RUnlock()

	for _, want := range parseAccept(accept) {
		for _, renderer := range candidates {
			mediaType, _, err := mime.ParseMediaType(renderer.ContentType())
			if err == nil && want.matches(mediaType) {
				return renderer, nil
			}
		}
	}
	return preferred, nil
}

type acceptRange struct {
	mediaType string
	q         float64
}

func (a acceptRange) matches(mediaType string) bool {
	switch {
	case a.mediaType == "*/*":
		return true
	case strings.HasSuffix(a.mediaType, "/*"):
		return strings.HasPrefix(mediaType, strings.TrimSuffix(a.mediaType, "*"))
	default:
		return a.mediaType == mediaType
	}
}

func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if q, err = strconv.ParseFloat(raw, 64); err != nil {
				continue
			}
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, acceptRange{mediaType: mediaType, q: q})
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].q > ranges[j].q })
	return ranges
}
