package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-formblock/components/regions"
	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/formstate"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/submit"
)

const (
	noneLabel     = "(none)"
	selectPageSz  = 12
	retryQuestion = "Edit your answers and try again?"
)

// Renderer fills form blocks from a terminal and prints block views as text.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
	transport    submit.Transport
	sessionOpts  []submit.Option
	stateOpts    []formstate.Option
	messages     render.Messages
	prefill      map[string]any
}

// Outcome is the result of one interactive run.
type Outcome struct {
	State  submit.UIState
	Values map[string]any
}

// New constructs a TUI renderer with defaults (survey driver, text output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatPrettyText,
		messages:     render.DefaultMessages(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	switch r.outputFormat {
	case OutputFormatPrettyText, OutputFormatJSON:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render prints a non-interactive outline of view. The JSON format emits the
// submission request the current values would produce.
func (r *Renderer) Render(ctx context.Context, view render.BlockView) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatJSON {
		return r.renderJSON(view)
	}
	return r.renderText(view), nil
}

func (r *Renderer) renderJSON(view render.BlockView) ([]byte, error) {
	form := view.Block.Form
	result := formstate.New(form, r.stateOpts...).CollectJSON(view.Values)
	req := cms.SubmissionRequest{Form: form.ID, SubmissionData: result.Payload()}
	out, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode submission: %w", err)
	}
	return append(out, '\n'), nil
}

func (r *Renderer) renderText(view render.BlockView) []byte {
	var buf bytes.Buffer
	form := view.Block.Form
	messages := view.Messages.WithDefaults()

	if title := strings.TrimSpace(form.Title); title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", title)
	}
	if view.View.ShowIntro {
		writeParagraph(&buf, view.Block.IntroContent.PlainText())
	}
	if view.View.ShowConfirmation {
		writeParagraph(&buf, form.ConfirmationMessage.PlainText())
	}
	if view.View.Redirecting && view.State.Redirect != "" {
		fmt.Fprintf(&buf, "%sRedirecting to %s\n", r.theme.InfoPrefix, view.State.Redirect)
	}
	if !view.View.ShowForm {
		return buf.Bytes()
	}
	if view.View.ShowLoading {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.InfoPrefix, messages.Loading)
	}
	if view.View.ShowError {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, view.View.Banner)
	}
	for _, msg := range view.FormErrors {
		fmt.Fprintf(&buf, "%s%s\n", r.theme.ErrorPrefix, msg)
	}

	for _, field := range form.Fields {
		switch {
		case field.Kind == model.FieldKindMessage:
			writeParagraph(&buf, field.Message.PlainText())
		case field.Kind.HasInput():
			fmt.Fprintf(&buf, "- %s", displayLabel(field))
			if field.Required {
				buf.WriteString(" *")
			}
			fmt.Fprintf(&buf, " [%s]", field.Kind)
			if value := displayValue(view.Values[field.Name]); value != "" {
				fmt.Fprintf(&buf, ": %s", value)
			}
			buf.WriteByte('\n')
			if msg := view.Errors[field.Name]; msg != "" {
				fmt.Fprintf(&buf, "  %s%s\n", r.theme.ErrorPrefix, msg)
			}
		}
	}
	fmt.Fprintf(&buf, "[%s]\n", view.SubmitLabel())
	return buf.Bytes()
}

// Fill prompts for every field of form and returns the validated result.
// Answers and pending errors are read from and written to state.
func (r *Renderer) Fill(ctx context.Context, form model.FormDefinition, state *State) (formstate.Result, error) {
	if ctx == nil {
		return formstate.Result{}, errors.New("tui: context is required")
	}
	if state == nil {
		state = NewState(nil, nil)
	}
	validator := formstate.New(form, r.stateOpts...)

	for _, field := range form.Fields {
		if err := ctx.Err(); err != nil {
			return formstate.Result{}, err
		}
		switch {
		case field.Kind == model.FieldKindMessage:
			if text := field.Message.PlainText(); text != "" {
				if err := r.driver.Info(ctx, text); err != nil {
					return formstate.Result{}, err
				}
			}
		case field.Kind.HasInput():
			if err := r.promptField(ctx, validator, field, state); err != nil {
				return formstate.Result{}, err
			}
		}
	}
	return validator.CollectJSON(state.Values()), nil
}

// Run fills block interactively and submits it through the configured
// transport. A server error offers another round with the answers kept.
func (r *Renderer) Run(ctx context.Context, block model.FormBlock) (Outcome, error) {
	if r.transport == nil {
		return Outcome{}, ErrNoTransport
	}
	if ctx == nil {
		return Outcome{}, errors.New("tui: context is required")
	}
	if !block.Hydrated() {
		return Outcome{}, fmt.Errorf("tui: form block %q is not hydrated", block.FormID)
	}

	state := NewState(seedValues(block.Form, r.prefill), nil)
	if block.EnableIntro && !block.IntroContent.Empty() {
		if err := r.driver.Info(ctx, block.IntroContent.PlainText()); err != nil {
			return Outcome{}, err
		}
	}

	for {
		result, err := r.Fill(ctx, block.Form, state)
		if err != nil {
			return Outcome{}, err
		}
		if !result.Valid() {
			state.SetErrors(result.Errors)
			continue
		}

		uiState, err := r.submit(ctx, block.Form, result.Payload())
		if err != nil {
			return Outcome{State: uiState, Values: result.ValueMap()}, err
		}
		outcome := Outcome{State: uiState, Values: result.ValueMap()}
		view := submit.DeriveView(block, uiState)

		switch {
		case view.ShowError:
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+view.Banner); err != nil {
				return outcome, err
			}
			retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: retryQuestion, Default: true})
			if err != nil {
				return outcome, err
			}
			if !retry {
				return outcome, nil
			}
			mapping := render.MapFieldErrors(block.Form, nil, uiState.Error.Fields)
			state.SetErrors(mapping.Fields)
			continue
		case view.Redirecting:
			if uiState.Redirect != "" {
				if err := r.driver.Info(ctx, r.theme.InfoPrefix+"Redirecting to "+uiState.Redirect); err != nil {
					return outcome, err
				}
			}
		case view.ShowConfirmation:
			if text := block.Form.ConfirmationMessage.PlainText(); text != "" {
				if err := r.driver.Info(ctx, text); err != nil {
					return outcome, err
				}
			}
		}
		return outcome, nil
	}
}

func (r *Renderer) submit(ctx context.Context, form model.FormDefinition, payload model.SubmissionPayload) (submit.UIState, error) {
	// Observers run under the session lock, so loading and infoErr are
	// settled once Submit returns.
	loading := false
	var infoErr error
	observer := func(s submit.UIState) {
		if s.Loading && !loading {
			if err := r.driver.Info(ctx, r.theme.InfoPrefix+r.messages.Loading); err != nil && infoErr == nil {
				infoErr = err
			}
		}
		loading = s.Loading
	}
	opts := append(append([]submit.Option{}, r.sessionOpts...),
		submit.WithObserver(observer),
		submit.WithMessages(submit.Messages{
			Generic:             r.messages.Generic,
			InternalServerError: r.messages.InternalServerError,
		}),
	)
	session := submit.NewSession(form, r.transport, opts...)
	state, err := session.Submit(ctx, payload)
	if err != nil {
		return state, err
	}
	return state, infoErr
}

func (r *Renderer) promptField(ctx context.Context, validator *formstate.State, field model.Field, state *State) error {
	if msg := state.Error(field.Name); msg != "" {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, displayLabel(field), msg)); err != nil {
			return err
		}
	}
	check := func(value any) string {
		return validator.CollectJSON(map[string]any{field.Name: value}).Error(field.Name)
	}

	switch field.Kind {
	case model.FieldKindCheckbox:
		return r.promptCheckbox(ctx, field, state, check)
	case model.FieldKindSelect:
		return r.promptChoice(ctx, field, field.Options, state, check)
	case model.FieldKindCountry, model.FieldKindState:
		options, err := regionOptions(field.Kind)
		if err != nil {
			return err
		}
		return r.promptChoice(ctx, field, options, state, check)
	default:
		return r.promptText(ctx, field, state, check)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, state *State, check func(any) string) error {
	label := promptLabel(field)
	current, _ := state.Value(field.Name)
	defaultVal := displayValue(current)

	for {
		var response string
		var err error
		if field.Kind == model.FieldKindTextarea {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		}
		if err != nil {
			return err
		}
		if msg := check(response); msg != "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, msg))
			continue
		}
		state.SetValue(field.Name, response)
		return nil
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, state *State, check func(any) string) error {
	current, _ := state.Value(field.Name)
	defaultVal := truthy(current)

	for {
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(field),
			Default: defaultVal,
		})
		if err != nil {
			return err
		}
		if msg := check(resp); msg != "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, msg))
			continue
		}
		state.SetValue(field.Name, resp)
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, options []model.Option, state *State, check func(any) string) error {
	labels := make([]string, 0, len(options)+1)
	values := make([]string, 0, len(options)+1)
	if !field.Required {
		labels = append(labels, noneLabel)
		values = append(values, "")
	}
	for _, option := range options {
		label := option.Label
		if strings.TrimSpace(label) == "" {
			label = option.Value
		}
		labels = append(labels, label)
		values = append(values, option.Value)
	}
	if len(labels) == 0 {
		return fmt.Errorf("tui: field %s has no options", field.Name)
	}

	current, _ := state.Value(field.Name)
	defaultIdx := indexOf(values, strings.ToUpper(displayValue(current)))
	if defaultIdx < 0 {
		defaultIdx = indexOf(values, displayValue(current))
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
			PageSize:     selectPageSz,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.Name))
			continue
		}
		selected := values[idx]
		if msg := check(selected); msg != "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, msg))
			continue
		}
		state.SetValue(field.Name, selected)
		return nil
	}
}

func regionOptions(kind model.FieldKind) ([]model.Option, error) {
	set := regions.SetCountries
	if kind == model.FieldKindState {
		set = regions.SetStates
	}
	list, err := regions.Regions(set)
	if err != nil {
		return nil, fmt.Errorf("tui: load %s: %w", set, err)
	}
	out := make([]model.Option, 0, len(list))
	for _, option := range regions.AsOptions(list) {
		out = append(out, model.Option{Label: option.Label, Value: option.Value})
	}
	return out, nil
}

func seedValues(form model.FormDefinition, prefill map[string]any) map[string]any {
	out := make(map[string]any)
	for _, field := range form.InputFields() {
		if field.DefaultValue != nil {
			out[field.Name] = field.DefaultValue
		}
		if value, ok := prefill[field.Name]; ok {
			out[field.Name] = value
		}
	}
	return out
}

func displayLabel(field model.Field) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.Name
}

func promptLabel(field model.Field) string {
	if field.Required {
		return displayLabel(field) + " *"
	}
	return displayLabel(field)
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func writeParagraph(buf *bytes.Buffer, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	buf.WriteString(text)
	buf.WriteString("\n\n")
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
