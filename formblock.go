// Package formblock renders CMS form blocks, validates their input and sends
// submissions to the CMS. The subpackages hold the pieces; this package keeps
// the common entry points in one place.
package formblock

import (
	"bytes"
	"context"

	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// Component aliases block.Component for callers mounting a single block.
type Component = block.Component

// Option aliases block.Option.
type Option = block.Option

// Transport aliases submit.Transport. *cms.Client satisfies it.
type Transport = submit.Transport

// NewComponent binds a hydrated form block to transport.
func NewComponent(formBlock model.FormBlock, transport Transport, options ...Option) (*Component, error) {
	return block.New(formBlock, transport, options...)
}

// NewBlock hydrates the form formID from forms into a block. The intro is
// left disabled.
func NewBlock(ctx context.Context, forms content.FormLoader, formID string) (model.FormBlock, error) {
	return content.HydrateBlock(ctx, forms, model.FormBlock{FormID: formID})
}

// GenerateHTML loads formID, prepares it and renders its idle state with the
// default HTML renderer. It is the simplest entry point for callers that just
// want markup.
func GenerateHTML(ctx context.Context, forms content.FormLoader, formID string, transport Transport, options ...Option) ([]byte, error) {
	formBlock, err := NewBlock(ctx, forms, formID)
	if err != nil {
		return nil, err
	}
	component, err := NewComponent(formBlock, transport, options...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf, submit.UIState{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
