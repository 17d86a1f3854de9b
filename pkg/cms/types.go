package cms

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// SubmissionRequest is the body posted to /api/form-submissions.
type SubmissionRequest struct {
	Form           string                  `json:"form"`
	SubmissionData model.SubmissionPayload `json:"submissionData"`
}

// ErrorDetail is one entry of an error response.
type ErrorDetail struct {
	Message string       `json:"message"`
	Name    string       `json:"name,omitempty"`
	Data    FieldDetails `json:"data,omitempty"`
}

// UnmarshalJSON reads message, name and data when they have the expected
// types and ignores them otherwise. It never fails.
func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	*d = ErrorDetail{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	_ = json.Unmarshal(raw["message"], &d.Message)
	_ = json.Unmarshal(raw["name"], &d.Name)
	_ = d.Data.UnmarshalJSON(raw["data"])
	return nil
}

// FieldDetail is a field level validation error reported by the CMS.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldDetails are the field errors attached to an ErrorDetail.
type FieldDetails []FieldDetail

// UnmarshalJSON accepts a list of details, an object wrapping them under
// "errors", or a single detail object. Other shapes decode to nil.
func (f *FieldDetails) UnmarshalJSON(data []byte) error {
	*f = nil
	var list []fieldDetailJSON
	if err := json.Unmarshal(data, &list); err == nil {
		*f = collectDetails(list)
		return nil
	}
	var wrapped struct {
		Errors []fieldDetailJSON `json:"errors"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Errors) > 0 {
		*f = collectDetails(wrapped.Errors)
		return nil
	}
	var single fieldDetailJSON
	if err := json.Unmarshal(data, &single); err == nil {
		*f = collectDetails([]fieldDetailJSON{single})
	}
	return nil
}

// fieldDetailJSON decodes one detail, dropping members of the wrong type.
type fieldDetailJSON struct {
	FieldDetail
}

func (d *fieldDetailJSON) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	_ = json.Unmarshal(raw["field"], &d.Field)
	_ = json.Unmarshal(raw["message"], &d.Message)
	return nil
}

func collectDetails(list []fieldDetailJSON) FieldDetails {
	var out FieldDetails
	for _, detail := range list {
		if strings.TrimSpace(detail.Field) != "" {
			out = append(out, detail.FieldDetail)
		}
	}
	return out
}

// SubmissionResponse is the decoded outcome of a submission for any HTTP
// status.
type SubmissionResponse struct {
	// StatusCode is the HTTP status.
	StatusCode int `json:"-"`
	// Status is the optional status reported in the body.
	Status  Status        `json:"status,omitempty"`
	Message string        `json:"message,omitempty"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// Failed reports whether the CMS rejected the submission.
func (r SubmissionResponse) Failed() bool {
	return r.StatusCode >= 400
}

// FirstMessage returns the message of the first error entry, or "" when
// there is none or it is blank.
func (r SubmissionResponse) FirstMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Errors[0].Message)
}

// UnmarshalJSON decodes the object members it recognizes and ignores those of
// an unexpected type. A body that is valid JSON but not an object leaves r
// empty apart from StatusCode.
func (r *SubmissionResponse) UnmarshalJSON(data []byte) error {
	*r = SubmissionResponse{StatusCode: r.StatusCode}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	_ = r.Status.UnmarshalJSON(raw["status"])
	_ = json.Unmarshal(raw["message"], &r.Message)
	var entries []ErrorDetail
	if err := json.Unmarshal(raw["errors"], &entries); err == nil {
		r.Errors = entries
	}
	return nil
}

// FieldErrors flattens field level details keyed by field name. The first
// message per field wins.
func (r SubmissionResponse) FieldErrors() map[string]string {
	var out map[string]string
	for _, detail := range r.Errors {
		for _, field := range detail.Data {
			name := strings.TrimSpace(field.Field)
			if name == "" || strings.TrimSpace(field.Message) == "" {
				continue
			}
			if out == nil {
				out = map[string]string{}
			}
			if _, exists := out[name]; !exists {
				out[name] = strings.TrimSpace(field.Message)
			}
		}
	}
	return out
}

// Status holds a status reported as either a JSON string or number.
type Status string

// UnmarshalJSON accepts strings and numbers. Any other value leaves the
// status empty.
func (s *Status) UnmarshalJSON(data []byte) error {
	*s = ""
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch {
	case trimmed[0] == '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err == nil {
			*s = Status(strings.TrimSpace(str))
		}
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err == nil {
			*s = Status(num.String())
		}
	}
	return nil
}

// Document is the minimal view of any CMS document used for link
// resolution.
type Document = model.ReferenceValue

type pageList struct {
	Docs      []model.Page `json:"docs"`
	TotalDocs int          `json:"totalDocs"`
}

type errorBody struct {
	Errors []ErrorDetail `json:"errors"`
}
