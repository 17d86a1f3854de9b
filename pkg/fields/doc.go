// Package fields maps CMS field kinds to the renderers that produce their
// HTML controls. A Registry is constructed explicitly and injected into the
// HTML renderer; kinds without a descriptor render nothing.
package fields
