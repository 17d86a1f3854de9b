package formstate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formblock/components/regions"
	"github.com/goliatone/go-formblock/pkg/model"
)

// Default validation messages.
const (
	MessageRequired = "This field is required."
	MessageEmail    = "Please enter a valid email address."
	MessageNumber   = "Please enter a number."
	MessageOption   = "Please select one of the available options."
	MessageRegion   = "Please select a valid option."
)

// Messages overrides the text reported for each rule.
type Messages struct {
	Required string
	Email    string
	Number   string
	Option   string
	Region   string
}

// DefaultMessages returns the built-in messages.
func DefaultMessages() Messages {
	return Messages{
		Required: MessageRequired,
		Email:    MessageEmail,
		Number:   MessageNumber,
		Option:   MessageOption,
		Region:   MessageRegion,
	}
}

func (m Messages) withDefaults() Messages {
	defaults := DefaultMessages()
	if strings.TrimSpace(m.Required) == "" {
		m.Required = defaults.Required
	}
	if strings.TrimSpace(m.Email) == "" {
		m.Email = defaults.Email
	}
	if strings.TrimSpace(m.Number) == "" {
		m.Number = defaults.Number
	}
	if strings.TrimSpace(m.Option) == "" {
		m.Option = defaults.Option
	}
	if strings.TrimSpace(m.Region) == "" {
		m.Region = defaults.Region
	}
	return m
}

// RegionLookup reports whether code belongs to set.
type RegionLookup func(set regions.Set, code string) bool

// Option configures a State.
type Option func(*State)

// WithMessages overrides rule messages. Empty entries keep their defaults.
func WithMessages(messages Messages) Option {
	return func(s *State) {
		s.messages = messages.withDefaults()
	}
}

// WithRegionLookup replaces the embedded region lists used by country and
// state fields.
func WithRegionLookup(lookup RegionLookup) Option {
	return func(s *State) {
		if lookup != nil {
			s.lookup = lookup
		}
	}
}

// State holds the registered fields of one form definition.
type State struct {
	fields   []model.Field
	messages Messages
	lookup   RegionLookup
}

// New registers every known input field of form in declared order. Message
// fields and unknown kinds are not registered.
func New(form model.FormDefinition, opts ...Option) *State {
	state := &State{
		fields:   form.InputFields(),
		messages: DefaultMessages(),
		lookup: func(set regions.Set, code string) bool {
			_, ok := regions.Lookup(set, code)
			return ok
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(state)
		}
	}
	return state
}

// Fields returns the registered fields.
func (s *State) Fields() []model.Field {
	return append([]model.Field{}, s.fields...)
}

// Collect validates urlencoded form values.
func (s *State) Collect(values url.Values) Result {
	return s.collect(func(field model.Field) (any, bool) {
		raw, ok := values[field.Name]
		if !ok || len(raw) == 0 {
			return nil, false
		}
		if field.Kind == model.FieldKindCheckbox {
			// Any truthy value wins when the name repeats.
			for _, candidate := range raw {
				if truthy(candidate) {
					return true, true
				}
			}
			return false, true
		}
		return raw[0], true
	})
}

// CollectJSON validates values decoded from a JSON object.
func (s *State) CollectJSON(values map[string]any) Result {
	return s.collect(func(field model.Field) (any, bool) {
		value, ok := values[field.Name]
		if !ok || value == nil {
			return nil, false
		}
		return value, true
	})
}

func (s *State) collect(get func(model.Field) (any, bool)) Result {
	result := Result{
		Values: make([]Value, 0, len(s.fields)),
		Errors: map[string]string{},
	}
	for _, field := range s.fields {
		raw, present := get(field)
		value, msg := s.check(field, raw, present)
		result.Values = append(result.Values, Value{Field: field.Name, Value: value})
		if msg != "" {
			if _, exists := result.Errors[field.Name]; !exists {
				result.Errors[field.Name] = msg
			}
		}
	}
	return result
}

// check coerces raw for field and returns the first failing rule message.
func (s *State) check(field model.Field, raw any, present bool) (any, string) {
	if field.Kind == model.FieldKindCheckbox {
		checked := present && boolValue(raw)
		if field.Required && !checked {
			return false, s.messages.Required
		}
		return checked, ""
	}

	text := ""
	if present {
		text = stringValue(raw)
	}
	if strings.TrimSpace(text) == "" {
		if field.Required {
			return text, s.messages.Required
		}
		return text, ""
	}

	switch field.Kind {
	case model.FieldKindEmail:
		text = strings.TrimSpace(text)
		if !validEmail(text) {
			return text, s.messages.Email
		}
	case model.FieldKindNumber:
		text = strings.TrimSpace(text)
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return text, s.messages.Number
		}
	case model.FieldKindSelect:
		if !hasOption(field.Options, text) {
			return text, s.messages.Option
		}
	case model.FieldKindCountry:
		text = strings.ToUpper(strings.TrimSpace(text))
		if !s.lookup(regions.SetCountries, text) {
			return text, s.messages.Region
		}
	case model.FieldKindState:
		text = strings.ToUpper(strings.TrimSpace(text))
		if !s.lookup(regions.SetStates, text) {
			return text, s.messages.Region
		}
	case model.FieldKindText, model.FieldKindTextarea:
	}
	return text, ""
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value && strings.Contains(value[strings.LastIndex(value, "@"):], ".")
}

func hasOption(options []model.Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func stringValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func boolValue(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return truthy(v)
	case float64:
		return v != 0
	default:
		return false
	}
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}
