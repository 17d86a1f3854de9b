package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// ErrNotFound reports missing content of any kind.
var ErrNotFound = errors.New("content: not found")

// Store is the read side of the CMS used to build pages.
type Store interface {
	Page(ctx context.Context, slug string) (model.Page, error)
	Form(ctx context.Context, id string) (model.FormDefinition, error)
	MainMenu(ctx context.Context) (model.MainMenu, error)
	Document(ctx context.Context, collection, id string) (model.ReferenceValue, error)
}

// FormLoader is the subset of Store needed to hydrate form blocks.
type FormLoader interface {
	Form(ctx context.Context, id string) (model.FormDefinition, error)
}

// HydrateBlock loads the form of a block that only references it by id.
// Hydrated blocks are returned unchanged.
func HydrateBlock(ctx context.Context, forms FormLoader, block model.FormBlock) (model.FormBlock, error) {
	if block.Hydrated() {
		return block, nil
	}
	id := strings.TrimSpace(block.FormID)
	if id == "" {
		return block, fmt.Errorf("content: form block %q has no form", block.BlockName)
	}
	form, err := forms.Form(ctx, id)
	if err != nil {
		return block, fmt.Errorf("content: hydrate form %s: %w", id, err)
	}
	block.Form = form
	block.FormID = form.ID
	return block, nil
}

// HydratePage hydrates every form block of page. The page is copied; its
// layout is not shared with the input.
func HydratePage(ctx context.Context, forms FormLoader, page model.Page) (model.Page, error) {
	layout := make([]model.Block, len(page.Layout))
	copy(layout, page.Layout)
	for idx, block := range layout {
		if block.Form == nil {
			continue
		}
		hydrated, err := HydrateBlock(ctx, forms, *block.Form)
		if err != nil {
			return page, fmt.Errorf("content: page %s block %d: %w", page.Slug, idx, err)
		}
		layout[idx].Form = &hydrated
	}
	page.Layout = layout
	return page, nil
}

// FormBlocks returns the form blocks of page keyed by layout index.
func FormBlocks(page model.Page) map[int]model.FormBlock {
	out := map[int]model.FormBlock{}
	for idx, block := range page.Layout {
		if block.Form != nil {
			out[idx] = *block.Form
		}
	}
	return out
}
