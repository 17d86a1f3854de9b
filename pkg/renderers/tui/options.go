package tui

import (
	"io"

	"github.com/goliatone/go-formblock/pkg/formstate"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// OutputFormat controls how Render serializes a block view.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human-friendly text outline.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the collected values as a JSON object.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the Render serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOutput sets where the survey driver prints info lines. It has no
// effect when a custom driver is supplied.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		r.out = out
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithTransport sets the transport Run submits through.
func WithTransport(transport submit.Transport) Option {
	return func(r *Renderer) {
		r.transport = transport
	}
}

// WithSessionOptions forwards options to every submission session.
func WithSessionOptions(opts ...submit.Option) Option {
	return func(r *Renderer) {
		r.sessionOpts = append(r.sessionOpts, opts...)
	}
}

// WithFormStateOptions forwards options to the field validator.
func WithFormStateOptions(opts ...formstate.Option) Option {
	return func(r *Renderer) {
		r.stateOpts = append(r.stateOpts, opts...)
	}
}

// WithMessages overrides the printed status texts.
func WithMessages(messages render.Messages) Option {
	return func(r *Renderer) {
		r.messages = messages.WithDefaults()
	}
}

// WithPrefill seeds prompt defaults by field name.
func WithPrefill(values map[string]any) Option {
	return func(r *Renderer) {
		r.prefill = values
	}
}
