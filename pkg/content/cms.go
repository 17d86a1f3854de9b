package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/model"
)

// CMSStore reads content from the CMS REST API.
type CMSStore struct {
	client *cms.Client
}

// NewCMSStore wraps client.
func NewCMSStore(client *cms.Client) *CMSStore {
	return &CMSStore{client: client}
}

// Page fetches the page by slug with its form blocks hydrated.
func (s *CMSStore) Page(ctx context.Context, slug string) (model.Page, error) {
	page, err := s.client.PageBySlug(ctx, slug)
	if err != nil {
		return model.Page{}, mapError("page "+slug, err)
	}
	return HydratePage(ctx, s, page)
}

// Form fetches a form definition.
func (s *CMSStore) Form(ctx context.Context, id string) (model.FormDefinition, error) {
	form, err := s.client.Form(ctx, id)
	if err != nil {
		return model.FormDefinition{}, mapError("form "+id, err)
	}
	return form, nil
}

// MainMenu fetches the main-menu global.
func (s *CMSStore) MainMenu(ctx context.Context) (model.MainMenu, error) {
	menu, err := s.client.MainMenu(ctx)
	if err != nil {
		return model.MainMenu{}, mapError("main menu", err)
	}
	return menu, nil
}

// Document fetches any document, used to resolve unpopulated references.
func (s *CMSStore) Document(ctx context.Context, collection, id string) (model.ReferenceValue, error) {
	doc, err := s.client.Document(ctx, collection, id)
	if err != nil {
		return model.ReferenceValue{}, mapError(collection+"/"+id, err)
	}
	return doc, nil
}

func mapError(what string, err error) error {
	var statusErr *cms.StatusError
	if errors.As(err, &statusErr) && statusErr.NotFound() {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, what, err)
	}
	return fmt.Errorf("content: %s: %w", what, err)
}
