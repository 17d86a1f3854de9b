package jsonstate_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/renderers/jsonstate"
	"github.com/goliatone/go-formblock/pkg/submit"
)

func TestRenderer_EncodesState(t *testing.T) {
	block := model.FormBlock{Form: model.FormDefinition{
		ID:               "contact",
		ConfirmationType: model.ConfirmationMessage,
		Fields:           []model.Field{{Kind: model.FieldKindEmail, Name: "email"}},
	}}
	state := submit.UIState{Error: &submit.ErrorState{Status: "422", Message: "Email invalid"}}
	view := render.NewBlockView(block, state, render.WithErrors(map[string]string{"email": "Please enter a valid email address."}))

	out, err := jsonstate.New().Render(context.Background(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"loading":     false,
		"submitted":   false,
		"error":       map[string]any{"status": "422", "message": "Email invalid"},
		"fieldErrors": map[string]any{"email": "Please enter a valid email address."},
		"view": map[string]any{
			"showIntro":        false,
			"showLoading":      false,
			"showConfirmation": false,
			"showForm":         true,
			"redirecting":      false,
			"showError":        true,
			"banner":           "422: Email invalid",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := jsonstate.New(jsonstate.WithIndent())
	if r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata %q %q", r.Name(), r.ContentType())
	}
	out, err := r.Render(context.Background(), render.NewBlockView(model.FormBlock{}, submit.UIState{Submitted: true, Redirect: "/thanks"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload jsonstate.Payload
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Submitted || payload.Redirect != "/thanks" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}
