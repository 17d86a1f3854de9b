package cms_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/testsupport"
)

func newClient(t *testing.T, baseURL string, opts ...cms.Option) *cms.Client {
	t.Helper()
	client, err := cms.New(baseURL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://cms.local", "http://", "::"} {
		if _, err := cms.New(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSubmitForm_PostsPayload(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	client := newClient(t, fake.URL+"/")

	payload := model.SubmissionPayload{
		{Field: "name", Value: "Ada"},
		{Field: "subscribe", Value: true},
	}
	resp, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "contact", SubmissionData: payload})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || resp.Failed() {
		t.Fatalf("unexpected response: %#v", resp)
	}

	subs := fake.Submissions()
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].Form != "contact" {
		t.Fatalf("unexpected form id %q", subs[0].Form)
	}
	if subs[0].ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", subs[0].ContentType)
	}
	if _, err := uuid.Parse(subs[0].RequestID); err != nil {
		t.Fatalf("expected uuid request id, got %q", subs[0].RequestID)
	}
	if diff := cmp.Diff(payload, subs[0].SubmissionData); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitForm_ErrorResponse(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	fake.Respond(http.StatusUnprocessableEntity, map[string]any{
		"errors": []map[string]any{
			{"message": "Email invalid", "data": []map[string]string{{"field": "email", "message": "Must be an email"}}},
			{"message": "Second"},
		},
	})
	client := newClient(t, fake.URL)

	resp, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "contact"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.Failed() || resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected failed 422 response, got %#v", resp)
	}
	if got := resp.FirstMessage(); got != "Email invalid" {
		t.Fatalf("unexpected first message %q", got)
	}
	if diff := cmp.Diff(map[string]string{"email": "Must be an email"}, resp.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if subs := fake.Submissions(); len(subs) != 1 || subs[0].SubmissionData == nil {
		t.Fatalf("expected empty submission data array, got %#v", subs)
	}
}

func TestSubmitForm_BodyStatusNumberOrString(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	client := newClient(t, fake.URL)

	fake.Respond(http.StatusBadRequest, `{"status": 418, "errors": []}`)
	resp, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "f"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Status != "418" {
		t.Fatalf("expected status 418, got %q", resp.Status)
	}

	fake.Respond(http.StatusBadRequest, `{"status": "Bad"}`)
	resp, err = client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "f"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Status != "Bad" {
		t.Fatalf("expected status Bad, got %q", resp.Status)
	}
}

func TestSubmitForm_ToleratesLooseErrorShapes(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantFailed bool
		wantStatus cms.Status
		wantFirst  string
		wantFields map[string]string
	}{
		{
			name:       "data object with field only",
			status:     http.StatusUnprocessableEntity,
			body:       `{"errors":[{"message":"Email invalid","data":{"field":"email"}}]}`,
			wantFailed: true,
			wantFirst:  "Email invalid",
		},
		{
			name:       "data object wrapping errors",
			status:     http.StatusBadRequest,
			body:       `{"errors":[{"name":"ValidationError","message":"The following field is invalid: email","data":{"collection":"form-submissions","errors":[{"field":"email","message":"Must be an email"}]}}]}`,
			wantFailed: true,
			wantFirst:  "The following field is invalid: email",
			wantFields: map[string]string{"email": "Must be an email"},
		},
		{
			name:       "data of unexpected type",
			status:     http.StatusBadRequest,
			body:       `{"errors":[{"message":"Rejected","data":"nope"}]}`,
			wantFailed: true,
			wantFirst:  "Rejected",
		},
		{
			name:       "boolean status",
			status:     http.StatusBadRequest,
			body:       `{"status":true,"errors":[{"message":"Rejected"}]}`,
			wantFailed: true,
			wantFirst:  "Rejected",
		},
		{
			name:       "error entry that is not an object",
			status:     http.StatusInternalServerError,
			body:       `{"status":503,"errors":["boom"]}`,
			wantFailed: true,
			wantStatus: "503",
		},
		{
			name:       "errors member that is not a list",
			status:     http.StatusBadRequest,
			body:       `{"errors":{"message":"Rejected"}}`,
			wantFailed: true,
		},
		{
			name:   "string body on success",
			status: http.StatusCreated,
			body:   `"ok"`,
		},
		{
			name:   "array body on success",
			status: http.StatusCreated,
			body:   `[]`,
		},
		{
			name:   "null body on success",
			status: http.StatusOK,
			body:   `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testsupport.NewFakeCMS(t)
			fake.Respond(tt.status, tt.body)
			client := newClient(t, fake.URL)

			resp, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "contact"})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status code %d, got %d", tt.status, resp.StatusCode)
			}
			if resp.Failed() != tt.wantFailed {
				t.Fatalf("expected failed=%v, got %#v", tt.wantFailed, resp)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected body status %q, got %q", tt.wantStatus, resp.Status)
			}
			if got := resp.FirstMessage(); got != tt.wantFirst {
				t.Fatalf("expected first message %q, got %q", tt.wantFirst, got)
			}
			if diff := cmp.Diff(tt.wantFields, resp.FieldErrors()); diff != "" {
				t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFirstMessage_UsesFirstEntryOnly(t *testing.T) {
	resp := cms.SubmissionResponse{
		StatusCode: http.StatusBadRequest,
		Errors:     []cms.ErrorDetail{{Message: ""}, {Message: "second"}},
	}
	if got := resp.FirstMessage(); got != "" {
		t.Fatalf("expected blank first message, got %q", got)
	}
	if got := (cms.SubmissionResponse{}).FirstMessage(); got != "" {
		t.Fatalf("expected blank message without errors, got %q", got)
	}
}

func TestSubmitForm_EmptyBodyIsError(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	fake.Respond(http.StatusCreated, "")
	client := newClient(t, fake.URL)

	if _, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "f"}); err == nil {
		t.Fatalf("expected error for empty body")
	}
}

func TestSubmitForm_UndecodableBodyIsError(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	fake.Respond(http.StatusBadGateway, "<html>bad gateway</html>")
	client := newClient(t, fake.URL)

	if _, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "f"}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSubmitForm_TimeoutIsError(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	fake.Hold()
	client := newClient(t, fake.URL, cms.WithTimeout(50*time.Millisecond))

	_, err := client.SubmitForm(context.Background(), cms.SubmissionRequest{Form: "f"})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestReads(t *testing.T) {
	fake := testsupport.NewFakeCMS(t)
	fake.Forms["contact"] = model.FormDefinition{ID: "contact", Title: "Contact"}
	fake.Pages["about"] = model.Page{ID: "p1", Slug: "about", Title: "About"}
	fake.Docs["pages/p9"] = map[string]any{"id": "p9", "slug": "contact-success"}
	fake.Menu = &model.MainMenu{NavItems: []model.NavItem{{Link: model.Link{Type: model.RedirectCustom, Label: "Home", URL: "/"}}}}

	client := newClient(t, fake.URL,
		cms.WithUserAgent("formblock-test"),
		cms.WithRequestIDFunc(func(context.Context) string { return "req-1" }),
	)
	ctx := context.Background()

	form, err := client.Form(ctx, "contact")
	if err != nil || form.Title != "Contact" {
		t.Fatalf("form: %#v %v", form, err)
	}
	page, err := client.PageBySlug(ctx, "about")
	if err != nil || page.ID != "p1" {
		t.Fatalf("page: %#v %v", page, err)
	}
	doc, err := client.Document(ctx, "pages", "p9")
	if err != nil || doc.Slug != "contact-success" {
		t.Fatalf("document: %#v %v", doc, err)
	}
	menu, err := client.MainMenu(ctx)
	if err != nil || len(menu.NavItems) != 1 || menu.NavItems[0].Link.Label != "Home" {
		t.Fatalf("menu: %#v %v", menu, err)
	}

	_, err = client.PageBySlug(ctx, "missing")
	var statusErr *cms.StatusError
	if !errors.As(err, &statusErr) || !statusErr.NotFound() {
		t.Fatalf("expected not found status error, got %v", err)
	}
	_, err = client.Form(ctx, "missing")
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestHeadersAreForwarded(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"navItems": []}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL,
		cms.WithHeader("Authorization", "users API-Key abc"),
		cms.WithUserAgent("formblock/1"),
		cms.WithRequestIDFunc(func(context.Context) string { return "req-42" }),
	)
	if _, err := client.MainMenu(context.Background()); err != nil {
		t.Fatalf("main menu: %v", err)
	}
	if got.Get("Authorization") != "users API-Key abc" {
		t.Fatalf("missing authorization header: %v", got)
	}
	if got.Get("User-Agent") != "formblock/1" {
		t.Fatalf("unexpected user agent %q", got.Get("User-Agent"))
	}
	if got.Get(cms.RequestIDHeader) != "req-42" {
		t.Fatalf("unexpected request id %q", got.Get(cms.RequestIDHeader))
	}
}
