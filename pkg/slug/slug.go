package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-formblock/pkg/model"
)

// Defaults for the page collection and the slug served at "/".
const (
	DefaultPageCollection = "pages"
	DefaultHomeSlug       = "home"
)

// ErrUnresolved is returned when a reference carries neither a slug nor an
// id that a resolver could expand.
var ErrUnresolved = errors.New("slug: reference cannot be resolved")

// Formatter turns a content reference into a navigable URL path.
type Formatter interface {
	Format(ctx context.Context, ref model.Reference) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(ctx context.Context, ref model.Reference) (string, error)

func (f FormatterFunc) Format(ctx context.Context, ref model.Reference) (string, error) {
	return f(ctx, ref)
}

// Option configures Default.
type Option func(*Default)

// WithHomeSlug sets the slug that maps to "/".
func WithHomeSlug(slug string) Option {
	return func(d *Default) {
		d.homeSlug = Normalize(slug)
	}
}

// WithPageCollection sets the collection whose documents live at the root.
func WithPageCollection(name string) Option {
	return func(d *Default) {
		d.pageCollection = strings.TrimSpace(name)
	}
}

// Default formats populated references. Pages map to "/<slug>" and other
// collections to "/<collection>/<slug>".
type Default struct {
	homeSlug       string
	pageCollection string
}

// New returns the default formatter.
func New(opts ...Option) *Default {
	d := &Default{homeSlug: DefaultHomeSlug, pageCollection: DefaultPageCollection}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Format implements Formatter.
func (d *Default) Format(_ context.Context, ref model.Reference) (string, error) {
	if !ref.Value.Populated() {
		return "", ErrUnresolved
	}
	return d.Path(ref.RelationTo, ref.Value.Slug), nil
}

// Path builds the URL path for slug within collection.
func (d *Default) Path(collection, slug string) string {
	slug = Normalize(slug)
	collection = strings.TrimSpace(collection)
	if collection == "" || collection == d.pageCollection {
		if slug == "" || slug == d.homeSlug {
			return "/"
		}
		return "/" + slug
	}
	if slug == "" {
		return "/" + collection
	}
	return "/" + collection + "/" + slug
}

// Normalize lowercases slug, turns spaces into dashes and drops characters
// outside letters, digits, "-", "_" and "/". Surrounding slashes are removed.
func Normalize(slug string) string {
	slug = strings.TrimSpace(slug)
	var b strings.Builder
	b.Grow(len(slug))
	for _, r := range slug {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-', r == '_', r == '/':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Trim(b.String(), "/")
}

// DocumentResolver expands an unpopulated reference id into its document.
type DocumentResolver interface {
	Document(ctx context.Context, collection, id string) (model.ReferenceValue, error)
}

// Resolving expands id-only references through a resolver before formatting.
type Resolving struct {
	resolver DocumentResolver
	next     Formatter
}

// NewResolving wraps next so references carrying only an id are looked up
// first. A nil next uses the default formatter.
func NewResolving(resolver DocumentResolver, next Formatter) *Resolving {
	if next == nil {
		next = New()
	}
	return &Resolving{resolver: resolver, next: next}
}

// Format implements Formatter.
func (r *Resolving) Format(ctx context.Context, ref model.Reference) (string, error) {
	if !ref.Value.Populated() && r.resolver != nil && strings.TrimSpace(ref.Value.ID) != "" {
		doc, err := r.resolver.Document(ctx, ref.RelationTo, ref.Value.ID)
		if err != nil {
			return "", fmt.Errorf("slug: resolve %s/%s: %w", ref.RelationTo, ref.Value.ID, err)
		}
		ref.Value = doc
	}
	return r.next.Format(ctx, ref)
}
