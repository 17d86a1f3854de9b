package formstate_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formblock/components/regions"
	"github.com/goliatone/go-formblock/pkg/formstate"
	"github.com/goliatone/go-formblock/pkg/model"
)

func contactForm() model.FormDefinition {
	return model.FormDefinition{
		ID: "contact",
		Fields: []model.Field{
			{Kind: model.FieldKindText, Name: "name", Required: true},
			{Kind: model.FieldKindMessage, Message: model.RichText{Markdown: "Tell us more"}},
			{Kind: model.FieldKindEmail, Name: "email", Required: true},
			{Kind: model.FieldKindUnknown, RawKind: "payment", Name: "card"},
			{Kind: model.FieldKindNumber, Name: "age"},
			{Kind: model.FieldKindSelect, Name: "topic", Options: []model.Option{{Label: "Sales", Value: "sales"}, {Label: "Support", Value: "support"}}},
			{Kind: model.FieldKindCountry, Name: "country"},
			{Kind: model.FieldKindState, Name: "state"},
			{Kind: model.FieldKindCheckbox, Name: "subscribe"},
			{Kind: model.FieldKindTextarea, Name: "comments"},
		},
	}
}

func TestCollect_ValidPayloadFollowsDeclaredOrder(t *testing.T) {
	state := formstate.New(contactForm())

	values := url.Values{
		"comments":  {"hi"},
		"subscribe": {"on"},
		"state":     {"ca"},
		"country":   {"US"},
		"topic":     {"support"},
		"age":       {" 42 "},
		"email":     {"ada@example.com"},
		"name":      {"Ada"},
		"card":      {"4111"},
	}

	result := state.Collect(values)
	if !result.Valid() {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}

	want := model.SubmissionPayload{
		{Field: "name", Value: "Ada"},
		{Field: "email", Value: "ada@example.com"},
		{Field: "age", Value: "42"},
		{Field: "topic", Value: "support"},
		{Field: "country", Value: "US"},
		{Field: "state", Value: "CA"},
		{Field: "subscribe", Value: true},
		{Field: "comments", Value: "hi"},
	}
	if diff := cmp.Diff(want, result.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_EmptyOptionalFieldsStillProduceEntries(t *testing.T) {
	state := formstate.New(contactForm())

	result := state.Collect(url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})
	if !result.Valid() {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	payload := result.Payload()
	if len(payload) != len(state.Fields()) {
		t.Fatalf("expected %d entries, got %d", len(state.Fields()), len(payload))
	}
	if got, _ := payload.Lookup("subscribe"); got != false {
		t.Fatalf("expected unchecked checkbox to be false, got %#v", got)
	}
	if got, _ := payload.Lookup("age"); got != "" {
		t.Fatalf("expected empty number to be empty string, got %#v", got)
	}
}

func TestCollect_FirstErrorPerField(t *testing.T) {
	state := formstate.New(contactForm())

	result := state.Collect(url.Values{
		"email":   {"not-an-email"},
		"age":     {"forty"},
		"topic":   {"billing"},
		"country": {"XX"},
		"state":   {"ZZ"},
	})

	want := map[string]string{
		"name":    formstate.MessageRequired,
		"email":   formstate.MessageEmail,
		"age":     formstate.MessageNumber,
		"topic":   formstate.MessageOption,
		"country": formstate.MessageRegion,
		"state":   formstate.MessageRegion,
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if result.Valid() {
		t.Fatalf("expected invalid result")
	}
}

func TestCollect_RequiredCheckboxMustBeChecked(t *testing.T) {
	form := model.FormDefinition{
		ID:     "terms",
		Fields: []model.Field{{Kind: model.FieldKindCheckbox, Name: "agree", Required: true}},
	}
	state := formstate.New(form)

	if result := state.Collect(url.Values{}); result.Error("agree") != formstate.MessageRequired {
		t.Fatalf("expected required error, got %q", result.Error("agree"))
	}
	if result := state.Collect(url.Values{"agree": {"true"}}); !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
}

func TestCollectJSON_CoercesTypes(t *testing.T) {
	state := formstate.New(contactForm())

	result := state.CollectJSON(map[string]any{
		"name":      "Ada",
		"email":     "ada@example.com",
		"age":       float64(36),
		"subscribe": true,
	})
	if !result.Valid() {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	values := result.ValueMap()
	if values["age"] != "36" {
		t.Fatalf("expected age coerced to string, got %#v", values["age"])
	}
	if values["subscribe"] != true {
		t.Fatalf("expected subscribe true, got %#v", values["subscribe"])
	}
}

func TestOptions_CustomMessagesAndLookup(t *testing.T) {
	form := model.FormDefinition{
		ID: "custom",
		Fields: []model.Field{
			{Kind: model.FieldKindText, Name: "name", Required: true},
			{Kind: model.FieldKindCountry, Name: "country"},
		},
	}
	state := formstate.New(form,
		formstate.WithMessages(formstate.Messages{Required: "Required"}),
		formstate.WithRegionLookup(func(set regions.Set, code string) bool {
			return set == regions.SetCountries && code == "XX"
		}),
	)

	result := state.Collect(url.Values{"country": {"xx"}})
	want := map[string]string{"name": "Required"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
