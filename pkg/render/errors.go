package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// ErrorMapping splits error messages into inline messages keyed by field name
// and form level messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MergeFormErrors concatenates form level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapFieldErrors combines local validation errors with field errors reported
// by the CMS. Remote keys may be plain names or paths into the submission
// body ("submissionData.2.value", "/body/email"); a numeric segment indexes
// the submitted entries, which follow the declared input field order. Keys
// that match no field become form level messages. Local errors win.
func MapFieldErrors(form model.FormDefinition, local, remote map[string]string) ErrorMapping {
	mapping := ErrorMapping{}
	inputs := form.InputFields()
	known := make(map[string]struct{}, len(inputs))
	for _, field := range inputs {
		known[field.Name] = struct{}{}
	}

	set := func(name, message string) {
		if mapping.Fields == nil {
			mapping.Fields = make(map[string]string)
		}
		if _, exists := mapping.Fields[name]; !exists {
			mapping.Fields[name] = message
		}
	}

	for name, message := range local {
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		set(strings.TrimSpace(name), message)
	}

	// Sorted so form level messages come out in a stable order.
	keys := make([]string, 0, len(remote))
	for key := range remote {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		message := strings.TrimSpace(remote[key])
		if message == "" {
			continue
		}
		if name, ok := mapErrorPath(key, inputs, known); ok {
			set(name, message)
			continue
		}
		mapping.Form = append(mapping.Form, message)
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, inputs []model.Field, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}

	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return "", false
	}
	if idx, err := strconv.Atoi(segments[0]); err == nil {
		if idx >= 0 && idx < len(inputs) {
			return inputs[idx].Name, true
		}
		return "", false
	}
	for _, segment := range segments {
		if _, ok := known[segment]; ok {
			return segment, true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":           {},
		"request":        {},
		"payload":        {},
		"data":           {},
		"submissiondata": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
