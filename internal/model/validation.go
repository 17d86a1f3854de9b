package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFormIDMissing         = errors.New("model: form id is required")
	errFieldNameMissing      = errors.New("model: field name is required")
	errConfirmationType      = errors.New("model: unsupported confirmation type")
	errRedirectTypeMissing   = errors.New("model: redirect type is required")
	errSelectOptionsRequired = errors.New("model: select field requires options")
)

// Validate checks structural invariants of a form definition. Unknown field
// kinds are tolerated since renderers skip them.
func Validate(form FormDefinition) error {
	if strings.TrimSpace(form.ID) == "" {
		return errFormIDMissing
	}

	seen := make(map[string]struct{}, len(form.Fields))
	for idx, field := range form.Fields {
		if !field.Kind.HasInput() {
			continue
		}
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w (field %d, %s)", errFieldNameMissing, idx, field.Kind)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model: duplicate field name %q", name)
		}
		seen[name] = struct{}{}
		if field.Kind == FieldKindSelect && len(field.Options) == 0 {
			return fmt.Errorf("%w: %q", errSelectOptionsRequired, name)
		}
	}

	switch form.ConfirmationType {
	case "", ConfirmationMessage:
	case ConfirmationRedirect:
		if form.Redirect != nil && form.Redirect.Type == "" {
			return errRedirectTypeMissing
		}
	default:
		return fmt.Errorf("%w %q", errConfirmationType, form.ConfirmationType)
	}
	return nil
}
