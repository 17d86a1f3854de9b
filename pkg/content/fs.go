package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/slug"
)

// Directory names read by LoadFS.
const (
	PagesDir   = "pages"
	FormsDir   = "forms"
	GlobalsDir = "globals"

	mainMenuName = "main-menu"
)

// FSStore serves content loaded from a directory tree. It is immutable after
// LoadFS returns.
type FSStore struct {
	pages     map[string]model.Page
	pagesByID map[string]model.Page
	forms     map[string]model.FormDefinition
	menu      *model.MainMenu
}

// LoadFS parses pages/*, forms/* and globals/main-menu.* from fsys. Files
// ending in .json are decoded as JSON; .yaml and .yml as YAML. Other files
// are ignored. When fsys is nil the returned store is empty.
func LoadFS(fsys fs.FS) (*FSStore, error) {
	store := &FSStore{
		pages:     map[string]model.Page{},
		pagesByID: map[string]model.Page{},
		forms:     map[string]model.FormDefinition{},
	}
	if fsys == nil {
		return store, nil
	}

	if err := walkContent(fsys, FormsDir, func(file string, data []byte) error {
		var form model.FormDefinition
		if err := decodeFile(file, data, &form); err != nil {
			return err
		}
		if strings.TrimSpace(form.ID) == "" {
			form.ID = stem(file)
		}
		if _, exists := store.forms[form.ID]; exists {
			return fmt.Errorf("content: duplicate form %q (file %s)", form.ID, file)
		}
		store.forms[form.ID] = form
		return nil
	}); err != nil {
		return nil, err
	}

	if err := walkContent(fsys, PagesDir, func(file string, data []byte) error {
		var page model.Page
		if err := decodeFile(file, data, &page); err != nil {
			return err
		}
		if strings.TrimSpace(page.Slug) == "" {
			page.Slug = stem(file)
		}
		key := pageKey(page.Slug)
		if _, exists := store.pages[key]; exists {
			return fmt.Errorf("content: duplicate page slug %q (file %s)", page.Slug, file)
		}
		if strings.TrimSpace(page.ID) == "" {
			page.ID = key
		}
		store.pages[key] = page
		store.pagesByID[page.ID] = page
		return nil
	}); err != nil {
		return nil, err
	}

	if err := walkContent(fsys, GlobalsDir, func(file string, data []byte) error {
		if stem(file) != mainMenuName {
			return nil
		}
		if store.menu != nil {
			return fmt.Errorf("content: duplicate main menu (file %s)", file)
		}
		var menu model.MainMenu
		if err := decodeFile(file, data, &menu); err != nil {
			return err
		}
		store.menu = &menu
		return nil
	}); err != nil {
		return nil, err
	}

	return store, nil
}

// Page returns the page by slug with its form blocks hydrated.
func (s *FSStore) Page(ctx context.Context, pageSlug string) (model.Page, error) {
	page, ok := s.pages[pageKey(pageSlug)]
	if !ok {
		return model.Page{}, fmt.Errorf("%w: page %s", ErrNotFound, pageSlug)
	}
	return HydratePage(ctx, s, page)
}

// Form returns a form definition by id.
func (s *FSStore) Form(_ context.Context, id string) (model.FormDefinition, error) {
	form, ok := s.forms[strings.TrimSpace(id)]
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("%w: form %s", ErrNotFound, id)
	}
	return form, nil
}

// MainMenu returns the main-menu global.
func (s *FSStore) MainMenu(context.Context) (model.MainMenu, error) {
	if s.menu == nil {
		return model.MainMenu{}, fmt.Errorf("%w: main menu", ErrNotFound)
	}
	return *s.menu, nil
}

// Document resolves page references by id. Forms resolve to their id and
// title. Other collections are not stored.
func (s *FSStore) Document(_ context.Context, collection, id string) (model.ReferenceValue, error) {
	switch collection {
	case slug.DefaultPageCollection:
		if page, ok := s.pagesByID[id]; ok {
			return model.ReferenceValue{ID: page.ID, Slug: page.Slug, Title: page.Title}, nil
		}
	case FormsDir:
		if form, ok := s.forms[id]; ok {
			return model.ReferenceValue{ID: form.ID, Title: form.Title}, nil
		}
	}
	return model.ReferenceValue{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
}

// FormIDs lists the loaded form ids in sorted order.
func (s *FSStore) FormIDs() []string {
	out := make([]string, 0, len(s.forms))
	for id := range s.forms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Slugs lists the loaded page slugs in sorted order.
func (s *FSStore) Slugs() []string {
	out := make([]string, 0, len(s.pages))
	for _, page := range s.pages {
		out = append(out, page.Slug)
	}
	sort.Strings(out)
	return out
}

func walkContent(fsys fs.FS, dir string, visit func(file string, data []byte) error) error {
	if _, err := fs.Stat(fsys, dir); err != nil {
		return nil
	}
	return fs.WalkDir(fsys, dir, func(file string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isContentFile(file) {
			return nil
		}
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", file, err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return fmt.Errorf("content: file %s is empty", file)
		}
		return visit(file, data)
	})
}

func decodeFile(file string, data []byte, target any) error {
	var err error
	if strings.EqualFold(path.Ext(file), ".json") {
		err = json.Unmarshal(data, target)
	} else {
		err = yaml.Unmarshal(data, target)
	}
	if err != nil {
		return fmt.Errorf("content: parse %s: %w", file, err)
	}
	return nil
}

func isContentFile(file string) bool {
	switch strings.ToLower(path.Ext(file)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func stem(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}

func pageKey(pageSlug string) string {
	key := slug.Normalize(pageSlug)
	if key == "" {
		return slug.DefaultHomeSlug
	}
	return key
}
