package jsonstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// Payload is the JSON document returned to script clients after a POST.
type Payload struct {
	Loading          bool               `json:"loading"`
	Submitted        bool               `json:"submitted"`
	Error            *submit.ErrorState `json:"error,omitempty"`
	Redirect         string             `json:"redirect,omitempty"`
	FieldErrors      map[string]string  `json:"fieldErrors,omitempty"`
	FormErrors       []string           `json:"formErrors,omitempty"`
	ConfirmationHTML string             `json:"confirmationHtml,omitempty"`
	View             submit.View        `json:"view"`
}

// Renderer emits the block state as JSON.
type Renderer struct {
	indent bool
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent() Option {
	return func(r *Renderer) {
		r.indent = true
	}
}

// New returns a JSON renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render encodes the state of view.
func (r *Renderer) Render(_ context.Context, view render.BlockView) ([]byte, error) {
	payload := NewPayload(view)
	var (
		out []byte
		err error
	)
	if r.indent {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: encode: %w", err)
	}
	return out, nil
}

// NewPayload projects view onto the client payload.
func NewPayload(view render.BlockView) Payload {
	return Payload{
		Loading:          view.State.Loading,
		Submitted:        view.State.Submitted,
		Error:            view.State.Error,
		Redirect:         view.State.Redirect,
		FieldErrors:      view.Errors,
		FormErrors:       view.FormErrors,
		ConfirmationHTML: string(view.ConfirmationHTML),
		View:             view.View,
	}
}
