package model

import internalmodel "github.com/goliatone/go-formblock/internal/model"

// PrepareOption configures Prepare.
type PrepareOption func(*internalmodel.Options)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) PrepareOption {
	return func(opts *internalmodel.Options) {
		opts.Labeler = labeler
	}
}

// WithSubmitButtonLabel sets the label used when the form carries none.
func WithSubmitButtonLabel(label string) PrepareOption {
	return func(opts *internalmodel.Options) {
		opts.SubmitButtonLabel = label
	}
}

// Prepare validates a CMS form definition and returns a normalised copy with
// labels and defaults filled in.
func Prepare(form FormDefinition, options ...PrepareOption) (FormDefinition, error) {
	opts := internalmodel.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	normalized := internalmodel.Normalize(form, opts)
	if err := internalmodel.Validate(normalized); err != nil {
		return FormDefinition{}, err
	}
	return normalized, nil
}

// DefaultLabeler converts a field name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
