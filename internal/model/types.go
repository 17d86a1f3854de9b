package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKind is the block type discriminator carried by every form field.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindEmail    FieldKind = "email"
	FieldKindNumber   FieldKind = "number"
	FieldKindSelect   FieldKind = "select"
	FieldKindCheckbox FieldKind = "checkbox"
	FieldKindCountry  FieldKind = "country"
	FieldKindState    FieldKind = "state"
	FieldKindMessage  FieldKind = "message"
	// FieldKindUnknown marks tags outside the closed set. Unknown fields are
	// decoded but never rendered or validated.
	FieldKindUnknown FieldKind = ""
)

var knownKinds = []FieldKind{
	FieldKindText,
	FieldKindTextarea,
	FieldKindEmail,
	FieldKindNumber,
	FieldKindSelect,
	FieldKindCheckbox,
	FieldKindCountry,
	FieldKindState,
	FieldKindMessage,
}

// Kinds returns the closed set of field kinds in declaration order.
func Kinds() []FieldKind {
	return append([]FieldKind(nil), knownKinds...)
}

// ParseFieldKind maps a raw tag onto a known kind, returning FieldKindUnknown
// for anything else.
func ParseFieldKind(raw string) FieldKind {
	candidate := FieldKind(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate
	}
	return FieldKindUnknown
}

// Valid reports whether k is one of the known kinds.
func (k FieldKind) Valid() bool {
	for _, known := range knownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HasInput reports whether the kind collects a value from the user.
func (k FieldKind) HasInput() bool {
	return k.Valid() && k != FieldKindMessage
}

// ConfirmationType selects what happens after a successful submission.
type ConfirmationType string

const (
	ConfirmationMessage  ConfirmationType = "message"
	ConfirmationRedirect ConfirmationType = "redirect"
)

// RedirectType distinguishes literal URLs from content references.
type RedirectType string

const (
	RedirectCustom    RedirectType = "custom"
	RedirectReference RedirectType = "reference"
)

// Option is a select choice.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Field models a single form field. The Kind selects which of the optional
// properties apply: Options for select, Message for message.
type Field struct {
	Kind         FieldKind `json:"blockType" yaml:"-"`
	RawKind      string    `json:"-" yaml:"-"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Label        string    `json:"label,omitempty" yaml:"label,omitempty"`
	Width        int       `json:"width,omitempty" yaml:"width,omitempty"`
	DefaultValue any       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options      []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Message      RichText  `json:"message,omitempty" yaml:"message,omitempty"`
}

type fieldAlias Field

type rawField struct {
	fieldAlias
	Kind string `json:"blockType"`
}

// UnmarshalJSON decodes the blockType tag leniently so unknown kinds survive
// decoding as FieldKindUnknown.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw rawField
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Field(raw.fieldAlias)
	f.RawKind = raw.Kind
	f.Kind = ParseFieldKind(raw.Kind)
	return nil
}

// MarshalJSON writes the original tag back for unknown kinds.
func (f Field) MarshalJSON() ([]byte, error) {
	kind := string(f.Kind)
	if f.Kind == FieldKindUnknown {
		kind = f.RawKind
	}
	return json.Marshal(rawField{fieldAlias: fieldAlias(f), Kind: kind})
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML content files.
func (f *Field) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		fieldAlias `yaml:",inline"`
		Kind       string `yaml:"blockType"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*f = Field(raw.fieldAlias)
	f.RawKind = raw.Kind
	f.Kind = ParseFieldKind(raw.Kind)
	return nil
}

// Reference points at another content entity. Value is either populated
// (Slug set) or an unpopulated identifier.
type Reference struct {
	RelationTo string         `json:"relationTo" yaml:"relationTo"`
	Value      ReferenceValue `json:"value" yaml:"value"`
}

// ReferenceValue holds either a bare ID or a populated document.
type ReferenceValue struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Slug  string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Populated reports whether the referenced document was expanded.
func (v ReferenceValue) Populated() bool {
	return strings.TrimSpace(v.Slug) != ""
}

// UnmarshalJSON accepts a bare string ID or a document object.
func (v *ReferenceValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = ReferenceValue{}
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*v = ReferenceValue{ID: id}
		return nil
	}
	if trimmed[0] == '{' {
		var doc struct {
			ID    any    `json:"id"`
			Slug  string `json:"slug"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return err
		}
		*v = ReferenceValue{Slug: doc.Slug, Title: doc.Title}
		if doc.ID != nil {
			v.ID = fmt.Sprint(doc.ID)
		}
		return nil
	}
	var id json.Number
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return fmt.Errorf("model: reference value: %w", err)
	}
	*v = ReferenceValue{ID: id.String()}
	return nil
}

// UnmarshalYAML accepts a scalar ID or a document mapping.
func (v *ReferenceValue) UnmarshalYAML(unmarshal func(any) error) error {
	var id string
	if err := unmarshal(&id); err == nil {
		*v = ReferenceValue{ID: id}
		return nil
	}
	type plain ReferenceValue
	var doc plain
	if err := unmarshal(&doc); err != nil {
		return err
	}
	*v = ReferenceValue(doc)
	return nil
}

// Redirect configures where a successful submission navigates to.
type Redirect struct {
	Type      RedirectType `json:"type" yaml:"type"`
	URL       string       `json:"url,omitempty" yaml:"url,omitempty"`
	Reference *Reference   `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// FormDefinition is the CMS supplied form schema.
type FormDefinition struct {
	ID                  string           `json:"id" yaml:"id"`
	Title               string           `json:"title,omitempty" yaml:"title,omitempty"`
	Fields              []Field          `json:"fields" yaml:"fields"`
	SubmitButtonLabel   string           `json:"submitButtonLabel,omitempty" yaml:"submitButtonLabel,omitempty"`
	ConfirmationType    ConfirmationType `json:"confirmationType,omitempty" yaml:"confirmationType,omitempty"`
	ConfirmationMessage RichText         `json:"confirmationMessage,omitempty" yaml:"confirmationMessage,omitempty"`
	Redirect            *Redirect        `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

// InputFields returns the fields that collect values, in declared order.
func (f FormDefinition) InputFields() []Field {
	out := make([]Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		if field.Kind.HasInput() {
			out = append(out, field)
		}
	}
	return out
}

// SubmissionEntry is a single field/value pair sent to the CMS.
type SubmissionEntry struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// SubmissionPayload is the ordered list of entries for one submission.
type SubmissionPayload []SubmissionEntry

// Lookup returns the value recorded for field.
func (p SubmissionPayload) Lookup(field string) (any, bool) {
	for _, entry := range p {
		if entry.Field == field {
			return entry.Value, true
		}
	}
	return nil, false
}
