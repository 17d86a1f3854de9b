package model

import "strings"

// Options configures Normalize.
type Options struct {
	Labeler           func(string) string
	SubmitButtonLabel string
}

func defaultOptions() Options {
	return Options{
		Labeler:           DefaultLabeler,
		SubmitButtonLabel: "Submit",
	}
}

// Normalize returns a copy of form with derived defaults applied: trimmed
// names, labels generated from names, a submit label and the message
// confirmation type when none is set.
func Normalize(form FormDefinition, opts Options) FormDefinition {
	defaults := defaultOptions()
	if opts.Labeler == nil {
		opts.Labeler = defaults.Labeler
	}
	if strings.TrimSpace(opts.SubmitButtonLabel) == "" {
		opts.SubmitButtonLabel = defaults.SubmitButtonLabel
	}

	out := form
	out.ID = strings.TrimSpace(form.ID)
	out.Fields = make([]Field, len(form.Fields))
	for idx, field := range form.Fields {
		field.Name = strings.TrimSpace(field.Name)
		if strings.TrimSpace(field.Label) == "" && field.Name != "" {
			field.Label = opts.Labeler(field.Name)
		}
		if len(field.Options) > 0 {
			field.Options = append([]Option(nil), field.Options...)
		}
		out.Fields[idx] = field
	}
	if strings.TrimSpace(out.SubmitButtonLabel) == "" {
		out.SubmitButtonLabel = opts.SubmitButtonLabel
	}
	if out.ConfirmationType == "" {
		out.ConfirmationType = ConfirmationMessage
	}
	if form.Redirect != nil {
		redirect := *form.Redirect
		out.Redirect = &redirect
	}
	return out
}
