package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// BlockView is everything a renderer needs to draw one form block.
type BlockView struct {
	Block model.FormBlock `json:"block"`
	// Index is the block position in its page layout, or -1 when the block is
	// mounted on its own.
	Index int            `json:"index"`
	State submit.UIState `json:"state"`
	View  submit.View    `json:"view"`
	// Values prefill the controls, keyed by field name.
	Values map[string]any `json:"values,omitempty"`
	// Errors are the inline messages, keyed by field name.
	Errors     map[string]string `json:"errors,omitempty"`
	FormErrors []string          `json:"formErrors,omitempty"`
	Hidden     []HiddenField     `json:"hidden,omitempty"`
	Action     string            `json:"action"`
	Locale     string            `json:"locale,omitempty"`
	Messages   Messages          `json:"messages"`

	IntroHTML        template.HTML `json:"introHtml,omitempty"`
	ConfirmationHTML template.HTML `json:"confirmationHtml,omitempty"`
	// MessageHTML holds rendered message fields keyed by their position in
	// Block.Form.Fields.
	MessageHTML map[int]template.HTML `json:"messageHtml,omitempty"`
}

// ViewOption configures NewBlockView.
type ViewOption func(*viewConfig)

type viewConfig struct {
	index    int
	values   map[string]any
	errors   map[string]string
	form     []string
	hidden   HiddenSet
	action   string
	locale   string
	messages Messages
}

// WithIndex records the block position in a page layout and adds the
// matching hidden field.
func WithIndex(idx int) ViewOption {
	return func(cfg *viewConfig) {
		cfg.index = idx
	}
}

// WithValues prefills controls.
func WithValues(values map[string]any) ViewOption {
	return func(cfg *viewConfig) {
		cfg.values = values
	}
}

// WithErrors sets local validation errors keyed by field name.
func WithErrors(errors map[string]string) ViewOption {
	return func(cfg *viewConfig) {
		cfg.errors = errors
	}
}

// WithFormErrors adds form level messages.
func WithFormErrors(messages ...string) ViewOption {
	return func(cfg *viewConfig) {
		cfg.form = append(cfg.form, messages...)
	}
}

// WithHidden adds hidden inputs.
func WithHidden(fields ...HiddenField) ViewOption {
	return func(cfg *viewConfig) {
		cfg.hidden = cfg.hidden.With(fields...)
	}
}

// WithAction sets the form action URL.
func WithAction(action string) ViewOption {
	return func(cfg *viewConfig) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithLocale sets the locale passed to templates.
func WithLocale(locale string) ViewOption {
	return func(cfg *viewConfig) {
		cfg.locale = strings.TrimSpace(locale)
	}
}

// WithMessages overrides the UI texts. Empty entries keep their defaults.
func WithMessages(messages Messages) ViewOption {
	return func(cfg *viewConfig) {
		cfg.messages = messages
	}
}

// NewBlockView derives the view of block in state. Field errors reported by
// the CMS are merged with local ones.
func NewBlockView(block model.FormBlock, state submit.UIState, opts ...ViewOption) BlockView {
	cfg := viewConfig{index: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var remote map[string]string
	if state.Error != nil {
		remote = state.Error.Fields
	}
	mapping := MapFieldErrors(block.Form, cfg.errors, remote)

	hidden := cfg.hidden
	if cfg.index >= 0 {
		hidden = hidden.With(BlockIndex(cfg.index))
	}

	return BlockView{
		Block:      block,
		Index:      cfg.index,
		State:      state,
		View:       submit.DeriveView(block, state),
		Values:     cfg.values,
		Errors:     mapping.Fields,
		FormErrors: MergeFormErrors(cfg.form, mapping.Form...),
		Hidden:     hidden.Fields(),
		Action:     cfg.action,
		Locale:     cfg.locale,
		Messages:   cfg.messages.WithDefaults(),
	}
}

// SubmitLabel is the form's own label or the localized default.
func (v BlockView) SubmitLabel() string {
	if label := strings.TrimSpace(v.Block.Form.SubmitButtonLabel); label != "" {
		return label
	}
	return v.Messages.Submit
}

// RenderContent fills the HTML fields with r, rendering only what the view
// shows.
func (v *BlockView) RenderContent(r *richtext.Renderer) error {
	if r == nil {
		return fmt.Errorf("render: rich text renderer is nil")
	}
	if v.View.ShowIntro {
		html, err := r.Render(v.Block.IntroContent)
		if err != nil {
			return fmt.Errorf("render: intro content: %w", err)
		}
		v.IntroHTML = html
	}
	if v.View.ShowConfirmation {
		html, err := r.Render(v.Block.Form.ConfirmationMessage)
		if err != nil {
			return fmt.Errorf("render: confirmation message: %w", err)
		}
		v.ConfirmationHTML = html
	}
	if !v.View.ShowForm {
		return nil
	}
	for idx, field := range v.Block.Form.Fields {
		if field.Kind != model.FieldKindMessage || field.Message.Empty() {
			continue
		}
		html, err := r.Render(field.Message)
		if err != nil {
			return fmt.Errorf("render: message field %d: %w", idx, err)
		}
		if v.MessageHTML == nil {
			v.MessageHTML = make(map[int]template.HTML)
		}
		v.MessageHTML[idx] = html
	}
	return nil
}
