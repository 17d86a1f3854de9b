package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
)

func contactForm() model.FormDefinition {
	return model.FormDefinition{
		ID: "contact",
		Fields: []model.Field{
			{Kind: model.FieldKindText, Name: "name"},
			{Kind: model.FieldKindMessage},
			{Kind: model.FieldKindEmail, Name: "email"},
			{Kind: model.FieldKindTextarea, Name: "comments"},
		},
	}
}

func TestMapFieldErrors_RemotePaths(t *testing.T) {
	remote := map[string]string{
		"email":                  "Email is taken",
		"submissionData.2.value": "Comments too long",
		"/body/name":             "Name rejected",
		"non_field_errors":       "Form level error",
		"unknown":                "Falls back to form errors",
	}

	mapped := render.MapFieldErrors(contactForm(), map[string]string{"name": "This field is required."}, remote)

	wantFields := map[string]string{
		"name":     "This field is required.",
		"email":    "Email is taken",
		"comments": "Comments too long",
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Falls back to form errors"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapFieldErrors_Empty(t *testing.T) {
	mapped := render.MapFieldErrors(contactForm(), nil, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %#v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
