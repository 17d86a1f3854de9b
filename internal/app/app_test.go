package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formblock/internal/config"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/testsupport"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenPrefersContentDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "forms"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "forms", "contact.yaml"), []byte("id: contact\nfields: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fake := testsupport.NewFakeCMS(t)

	a, err := Open(config.Config{CMSURL: fake.URL, ContentDir: dir}, discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if a.Client == nil {
		t.Fatalf("expected CMS client for submissions")
	}
	if _, ok := a.Store.(*content.FSStore); !ok {
		t.Fatalf("expected file store, got %T", a.Store)
	}
	if _, err := a.Store.Form(context.Background(), "contact"); err != nil {
		t.Fatalf("form: %v", err)
	}
}

func TestOpenUsesCMSStore(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	a, err := Open(config.Config{CMSURL: fake.URL}, discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := a.Store.(*content.CMSStore); !ok {
		t.Fatalf("expected CMS store, got %T", a.Store)
	}
	if _, err := a.Store.Form(context.Background(), "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRequiresSource(t *testing.T) {
	if _, err := Open(config.Config{}, discard()); err == nil {
		t.Fatalf("expected error without content source")
	}
}

func TestThemeSelector(t *testing.T) {
	selector, err := ThemeSelector(config.Config{})
	if err != nil {
		t.Fatalf("default selector: %v", err)
	}
	selection, err := selector.Select("", "")
	if err != nil || selection.Theme != "formblock" {
		t.Fatalf("unexpected default selection %+v, %v", selection, err)
	}

	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte("name: acme\ntokens:\n  brand: red\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	selector, err = ThemeSelector(config.Config{ThemeFile: path})
	if err != nil {
		t.Fatalf("file selector: %v", err)
	}
	selection, err = selector.Select("", "")
	if err != nil || selection.Theme != "acme" {
		t.Fatalf("unexpected file selection %+v, %v", selection, err)
	}
}

func TestMainMenuToleratesMissingGlobal(t *testing.T) {
	a, err := Open(config.Config{ContentDir: t.TempDir()}, discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	menu, err := a.MainMenu(context.Background())
	if err != nil {
		t.Fatalf("main menu: %v", err)
	}
	if len(menu.NavItems) != 0 {
		t.Fatalf("expected empty menu, got %+v", menu)
	}
}
