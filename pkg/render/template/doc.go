// Package template defines the renderer-agnostic template interface used by
// the HTML renderers and the application shell.
package template
