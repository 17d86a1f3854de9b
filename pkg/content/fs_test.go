package content_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/model"
)

const homePage = `
id: "1"
title: Home
slug: home
layout:
  - blockType: content
    content: "# Welcome"
  - blockType: formBlock
    enableIntro: true
    introContent: Get in touch
    form: contact
`

const contactForm = `{
  "id": "contact",
  "title": "Contact",
  "fields": [
    {"blockType": "text", "name": "name", "label": "Name", "required": true},
    {"blockType": "email", "name": "email", "label": "Email"}
  ],
  "confirmationType": "message",
  "confirmationMessage": "Thanks!"
}`

const mainMenu = `
navItems:
  - link:
      type: custom
      label: Docs
      url: https://example.com/docs
  - link:
      type: reference
      label: About
      reference:
        relationTo: pages
        value: "2"
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"pages/home.yaml":        {Data: []byte(homePage)},
		"pages/about.yml":        {Data: []byte("id: \"2\"\ntitle: About Us\nlayout: []\n")},
		"forms/contact.json":     {Data: []byte(contactForm)},
		"forms/README.md":        {Data: []byte("ignored")},
		"globals/main-menu.yaml": {Data: []byte(mainMenu)},
		"globals/footer.yaml":    {Data: []byte("navItems: []\n")},
	}
}

func TestLoadFS_PageHydratesFormBlocks(t *testing.T) {
	store, err := content.LoadFS(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	page, err := store.Page(context.Background(), "/")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Title != "Home" || len(page.Layout) != 2 {
		t.Fatalf("unexpected page %#v", page)
	}
	if page.Layout[0].Content == nil || page.Layout[0].Content.Content.Markdown != "# Welcome" {
		t.Fatalf("expected content block, got %#v", page.Layout[0])
	}
	block := page.Layout[1].Form
	if block == nil || !block.Hydrated() {
		t.Fatalf("expected hydrated form block, got %#v", page.Layout[1])
	}
	if !block.EnableIntro || block.IntroContent.PlainText() != "Get in touch" {
		t.Fatalf("unexpected intro %#v", block)
	}
	names := []string{}
	for _, field := range block.Form.InputFields() {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"name", "email"}, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_SlugDefaultsToFileName(t *testing.T) {
	store, err := content.LoadFS(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	page, err := store.Page(context.Background(), "about")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Slug != "about" {
		t.Fatalf("expected slug from file name, got %q", page.Slug)
	}
	if diff := cmp.Diff([]string{"about", "home"}, store.Slugs()); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"contact"}, store.FormIDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_MainMenuAndDocuments(t *testing.T) {
	store, err := content.LoadFS(testFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	menu, err := store.MainMenu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu.NavItems) != 2 || menu.NavItems[1].Link.Reference.Value.ID != "2" {
		t.Fatalf("unexpected menu %#v", menu)
	}

	doc, err := store.Document(context.Background(), "pages", "2")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	want := model.ReferenceValue{ID: "2", Slug: "about", Title: "About Us"}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_NotFound(t *testing.T) {
	store, err := content.LoadFS(fstest.MapFS{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Page(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("page: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Form(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("form: expected ErrNotFound, got %v", err)
	}
	if _, err := store.MainMenu(ctx); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("menu: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Document(ctx, "media", "1"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("document: expected ErrNotFound, got %v", err)
	}
}

func TestLoadFS_UnknownFormFailsHydration(t *testing.T) {
	store, err := content.LoadFS(fstest.MapFS{
		"pages/home.yaml": {Data: []byte(homePage)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.Page(context.Background(), "home"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected hydration ErrNotFound, got %v", err)
	}
}

func TestLoadFS_RejectsDuplicatesAndBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"duplicate form": {
			"forms/a.json": {Data: []byte(`{"id":"contact","fields":[]}`)},
			"forms/b.yaml": {Data: []byte("id: contact\nfields: []\n")},
		},
		"empty file": {
			"pages/home.yaml": {Data: []byte("  \n")},
		},
		"invalid yaml": {
			"pages/home.yaml": {Data: []byte("layout: [\n")},
		},
	}
	for name, fsys := range cases {
		if _, err := content.LoadFS(fsys); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
