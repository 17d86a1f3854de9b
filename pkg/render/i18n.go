package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. args carries a map with the "default" text when one exists.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Message keys looked up through the Translator.
const (
	KeyLoading             = "formblock.loading"
	KeyGenericError        = "formblock.error.generic"
	KeyInternalServerError = "formblock.error.internal"
	KeySubmit              = "formblock.submit"
)

// Message texts used when no translation applies.
const (
	DefaultLoadingText = "Loading, please wait..."
	DefaultGenericText = "Something went wrong."
	DefaultISEText     = "Internal Server Error"
	DefaultSubmitText  = "Submit"
)

// Messages are the fixed UI texts of a form block.
type Messages struct {
	Loading             string `json:"loading"`
	Generic             string `json:"generic"`
	InternalServerError string `json:"internalServerError"`
	Submit              string `json:"submit"`
}

// DefaultMessages returns the built-in English texts.
func DefaultMessages() Messages {
	return Messages{
		Loading:             DefaultLoadingText,
		Generic:             DefaultGenericText,
		InternalServerError: DefaultISEText,
		Submit:              DefaultSubmitText,
	}
}

// WithDefaults fills empty entries from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	defaults := DefaultMessages()
	if strings.TrimSpace(m.Loading) == "" {
		m.Loading = defaults.Loading
	}
	if strings.TrimSpace(m.Generic) == "" {
		m.Generic = defaults.Generic
	}
	if strings.TrimSpace(m.InternalServerError) == "" {
		m.InternalServerError = defaults.InternalServerError
	}
	if strings.TrimSpace(m.Submit) == "" {
		m.Submit = defaults.Submit
	}
	return m
}

// LocalizeMessages translates every message key for locale, keeping the
// defaults for keys the translator does not know.
func LocalizeMessages(locale string, t Translator, onMissing MissingTranslationHandler) Messages {
	defaults := DefaultMessages()
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return Messages{
		Loading:             translate(locale, KeyLoading, defaults.Loading, t, onMissing),
		Generic:             translate(locale, KeyGenericError, defaults.Generic, t, onMissing),
		InternalServerError: translate(locale, KeyInternalServerError, defaults.InternalServerError, t, onMissing),
		Submit:              translate(locale, KeySubmit, defaults.Submit, t, onMissing),
	}.WithDefaults()
}

// FieldLabelKey is the translation key for a field label:
// forms.<form id>.fields.<field name>.label.
func FieldLabelKey(formID, field string) string {
	return fmt.Sprintf("forms.%s.fields.%s.label", strings.TrimSpace(formID), strings.TrimSpace(field))
}

// FieldPlaceholderKey is the translation key for a field placeholder.
func FieldPlaceholderKey(formID, field string) string {
	return fmt.Sprintf("forms.%s.fields.%s.placeholder", strings.TrimSpace(formID), strings.TrimSpace(field))
}

// SubmitLabelKey is the translation key for a form's submit button.
func SubmitLabelKey(formID string) string {
	return fmt.Sprintf("forms.%s.submit", strings.TrimSpace(formID))
}

// LocalizeForm returns a copy of form with labels, placeholders and the
// submit label translated. Untranslated entries keep the CMS text.
func LocalizeForm(form model.FormDefinition, locale string, t Translator) model.FormDefinition {
	if t == nil {
		return form
	}
	keep := func(_, _ string, args []any, _ error) string {
		return defaultArg(args)
	}

	out := form
	out.Fields = make([]model.Field, len(form.Fields))
	for idx, field := range form.Fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			field.Label = translate(locale, FieldLabelKey(form.ID, name), field.Label, t, keep)
			field.Placeholder = translate(locale, FieldPlaceholderKey(form.ID, name), field.Placeholder, t, keep)
		}
		out.Fields[idx] = field
	}
	out.SubmitButtonLabel = translate(locale, SubmitLabelKey(form.ID), form.SubmitButtonLabel, t, keep)
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// missingTranslationDefault returns the fallback text, or the key when there
// is none.
func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if fallback := defaultArg(args); strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func defaultArg(args []any) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok {
				return fallback
			}
		}
	}
	return ""
}
