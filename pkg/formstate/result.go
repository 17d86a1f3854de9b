package formstate

import "github.com/goliatone/go-formblock/pkg/model"

// Value is one collected field value.
type Value struct {
	Field string
	Value any
}

// Result is the outcome of collecting one submission. Values follow the
// declared field order and hold one entry per registered field.
type Result struct {
	Values []Value
	// Errors holds the first failing rule message per field name.
	Errors map[string]string
}

// Valid reports whether every field passed its rules.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Error returns the error recorded for field.
func (r Result) Error(field string) string {
	return r.Errors[field]
}

// Payload converts the collected values into the submission payload.
func (r Result) Payload() model.SubmissionPayload {
	payload := make(model.SubmissionPayload, 0, len(r.Values))
	for _, value := range r.Values {
		payload = append(payload, model.SubmissionEntry{Field: value.Field, Value: value.Value})
	}
	return payload
}

// ValueMap indexes the collected values by field name for re-rendering.
func (r Result) ValueMap() map[string]any {
	out := make(map[string]any, len(r.Values))
	for _, value := range r.Values {
		out[value.Field] = value.Value
	}
	return out
}
