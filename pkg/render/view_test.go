package render_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/submit"
)

func contactBlock() model.FormBlock {
	form := contactForm()
	form.Fields[1].Message = model.RichText{Markdown: "We reply within **two** days."}
	form.ConfirmationMessage = model.RichText{Markdown: "Thanks!"}
	return model.FormBlock{
		BlockType:    model.BlockTypeForm,
		EnableIntro:  true,
		IntroContent: model.RichText{Markdown: "Get in touch"},
		Form:         form,
	}
}

func TestNewBlockView_Defaults(t *testing.T) {
	view := render.NewBlockView(contactBlock(), submit.UIState{})

	if view.Index != -1 {
		t.Fatalf("expected standalone index -1, got %d", view.Index)
	}
	if view.Hidden != nil {
		t.Fatalf("expected no hidden fields, got %#v", view.Hidden)
	}
	if !view.View.ShowForm || !view.View.ShowIntro || view.View.ShowConfirmation {
		t.Fatalf("unexpected idle view %#v", view.View)
	}
	if view.Messages.Loading != render.DefaultLoadingText {
		t.Fatalf("expected default loading text, got %q", view.Messages.Loading)
	}
	if view.SubmitLabel() != render.DefaultSubmitText {
		t.Fatalf("expected default submit label, got %q", view.SubmitLabel())
	}
}

func TestNewBlockView_MergesErrorsAndHidden(t *testing.T) {
	state := submit.UIState{Error: &submit.ErrorState{
		Status:  "400",
		Message: "Invalid",
		Fields:  map[string]string{"email": "Email is taken", "other": "Unknown field"},
	}}

	view := render.NewBlockView(contactBlock(), state,
		render.WithIndex(3),
		render.WithErrors(map[string]string{"name": "This field is required."}),
		render.WithHidden(render.CSRFToken("_csrf", "abc")),
		render.WithAction("/contact"),
	)

	wantErrors := map[string]string{"name": "This field is required.", "email": "Email is taken"}
	if diff := cmp.Diff(wantErrors, view.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Unknown field"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	wantHidden := []render.HiddenField{{Name: "_block", Value: "3"}, {Name: "_csrf", Value: "abc"}}
	if diff := cmp.Diff(wantHidden, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if view.View.Banner != "400: Invalid" {
		t.Fatalf("unexpected banner %q", view.View.Banner)
	}
}

func TestBlockView_RenderContent(t *testing.T) {
	view := render.NewBlockView(contactBlock(), submit.UIState{})
	if err := view.RenderContent(richtext.New()); err != nil {
		t.Fatalf("render content: %v", err)
	}
	if !strings.Contains(string(view.IntroHTML), "Get in touch") {
		t.Fatalf("expected intro html, got %q", view.IntroHTML)
	}
	if view.ConfirmationHTML != "" {
		t.Fatalf("expected no confirmation before submit, got %q", view.ConfirmationHTML)
	}
	if !strings.Contains(string(view.MessageHTML[1]), "<strong>two</strong>") {
		t.Fatalf("expected message field html, got %q", view.MessageHTML[1])
	}

	done := render.NewBlockView(contactBlock(), submit.UIState{Submitted: true})
	if err := done.RenderContent(richtext.New()); err != nil {
		t.Fatalf("render content: %v", err)
	}
	if done.IntroHTML != "" || done.MessageHTML != nil {
		t.Fatalf("expected intro and fields hidden after submit, got %#v", done)
	}
	if !strings.Contains(string(done.ConfirmationHTML), "Thanks!") {
		t.Fatalf("expected confirmation html, got %q", done.ConfirmationHTML)
	}
}
