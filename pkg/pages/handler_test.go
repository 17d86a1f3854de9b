package pages_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/pages"
	"github.com/goliatone/go-formblock/pkg/renderers/jsonstate"
	"github.com/goliatone/go-formblock/pkg/shell"
	"github.com/goliatone/go-formblock/pkg/slug"
	"github.com/goliatone/go-formblock/pkg/testsupport"
)

const homePage = `
id: "1"
title: Home
slug: home
layout:
  - blockType: content
    content: Hello there
  - blockType: formBlock
    form: contact
`

const thanksPage = `
id: "2"
title: Thanks
slug: thanks
layout:
  - blockType: formBlock
    form: newsletter
`

const contactForm = `
id: contact
title: Contact
fields:
  - blockType: text
    name: name
    label: Name
    required: true
confirmationType: message
confirmationMessage: Thanks for writing!
`

const newsletterForm = `
id: newsletter
title: Newsletter
fields:
  - blockType: email
    name: email
    label: Email
    required: true
confirmationType: redirect
redirect:
  type: reference
  reference:
    relationTo: pages
    value: "1"
`

const mainMenu = `
navItems:
  - link:
      type: reference
      label: Thanks
      reference:
        relationTo: pages
        value: "2"
`

type fixture struct {
	handler http.Handler
	cms     *testsupport.FakeCMS
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := content.LoadFS(fstest.MapFS{
		"pages/home.yaml":        {Data: []byte(homePage)},
		"pages/thanks.yaml":      {Data: []byte(thanksPage)},
		"forms/contact.yaml":     {Data: []byte(contactForm)},
		"forms/newsletter.yaml":  {Data: []byte(newsletterForm)},
		"globals/main-menu.yaml": {Data: []byte(mainMenu)},
	})
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	fake := testsupport.NewFakeCMS(t)
	client, err := cms.New(fake.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	formatter := slug.NewResolving(store, nil)

	sh, err := shell.New(shell.WithMenu(store), shell.WithSlugFormatter(formatter), shell.WithSiteName("Acme"))
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	group, err := block.NewGroup(client, block.WithSlugFormatter(formatter))
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	handler, err := pages.New(store, sh, group)
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	return fixture{handler: handler, cms: fake}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func postBlock(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q:\n%s", want, body)
		}
	}
}

func TestGetRendersHomeInShell(t *testing.T) {
	f := newFixture(t)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertContains(t, rec.Body.String(),
		"<title>Home | Acme</title>",
		`<a href="/thanks">Thanks</a>`,
		`data-page="home"`,
		"<p>Hello there</p>",
		`data-formblock="contact"`,
		`name="_block" value="1"`,
		`action="/"`,
	)
}

func TestGetUnknownPageIsNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPostSubmitsAddressedBlock(t *testing.T) {
	f := newFixture(t)
	rec := f.do(postBlock("/", url.Values{"_block": {"1"}, "name": {"Ada"}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	subs := f.cms.Submissions()
	if len(subs) != 1 || subs[0].Form != "contact" {
		t.Fatalf("unexpected submissions %#v", subs)
	}
	body := rec.Body.String()
	assertContains(t, body, "<p>Hello there</p>", "Thanks for writing!", "<title>Home | Acme</title>")
	if strings.Contains(body, "<form") {
		t.Fatalf("submitted block must not render its form:\n%s", body)
	}
}

func TestPostInvalidRerendersPageWithErrors(t *testing.T) {
	f := newFixture(t)
	rec := f.do(postBlock("/", url.Values{"_block": {"1"}}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(f.cms.Submissions()) != 0 {
		t.Fatalf("invalid values must not be submitted")
	}
	assertContains(t, rec.Body.String(), "This field is required.", "<p>Hello there</p>")
}

func TestPostRedirectResolvesReference(t *testing.T) {
	f := newFixture(t)
	rec := f.do(postBlock("/thanks", url.Values{"_block": {"0"}, "email": {"ada@example.com"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to home, got %q", loc)
	}
}

func TestPostJSONClientReceivesBlockState(t *testing.T) {
	f := newFixture(t)
	req := postBlock("/", url.Values{"_block": {"1"}, "name": {"Ada"}})
	req.Header.Set("Accept", "application/json")
	rec := f.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload jsonstate.Payload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Submitted || !strings.Contains(payload.ConfirmationHTML, "Thanks for writing!") {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestPostRejectsUnknownBlock(t *testing.T) {
	f := newFixture(t)
	for _, idx := range []string{"0", "7", "x", ""} {
		rec := f.do(postBlock("/", url.Values{"_block": {idx}, "name": {"Ada"}}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("block %q: expected 400, got %d", idx, rec.Code)
		}
	}
	if len(f.cms.Submissions()) != 0 {
		t.Fatalf("nothing should be submitted")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.do(httptest.NewRequest(http.MethodPut, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
