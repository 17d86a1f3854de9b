package fields

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-formblock/components/regions"
	"github.com/goliatone/go-formblock/pkg/model"
)

const templatePrefix = "templates/fields/"

// Template names used by the default renderers.
const (
	TemplateInput    = templatePrefix + "input.tmpl"
	TemplateTextarea = templatePrefix + "textarea.tmpl"
	TemplateSelect   = templatePrefix + "select.tmpl"
	TemplateCheckbox = templatePrefix + "checkbox.tmpl"
	TemplateMessage  = templatePrefix + "message.tmpl"
)

// defaultDescriptor is exhaustive over model.Kinds; adding a kind without a
// case here leaves it unregistered and therefore unrendered.
func defaultDescriptor(kind model.FieldKind) (Descriptor, bool) {
	switch kind {
	case model.FieldKindText:
		return Descriptor{Renderer: inputRenderer("text")}, true
	case model.FieldKindEmail:
		return Descriptor{Renderer: inputRenderer("email")}, true
	case model.FieldKindNumber:
		return Descriptor{Renderer: inputRenderer("number")}, true
	case model.FieldKindTextarea:
		return Descriptor{Renderer: templateRenderer(TemplateTextarea, nil)}, true
	case model.FieldKindSelect:
		return Descriptor{Renderer: templateRenderer(TemplateSelect, func(field model.Field) ([]model.Option, error) {
			return field.Options, nil
		})}, true
	case model.FieldKindCountry:
		return Descriptor{Renderer: templateRenderer(TemplateSelect, regionOptions(regions.SetCountries))}, true
	case model.FieldKindState:
		return Descriptor{Renderer: templateRenderer(TemplateSelect, regionOptions(regions.SetStates))}, true
	case model.FieldKindCheckbox:
		return Descriptor{Renderer: templateRenderer(TemplateCheckbox, nil)}, true
	case model.FieldKindMessage:
		return Descriptor{Renderer: templateRenderer(TemplateMessage, nil)}, true
	case model.FieldKindUnknown:
		return Descriptor{}, false
	}
	return Descriptor{}, false
}

type optionSource func(field model.Field) ([]model.Option, error)

func inputRenderer(inputType string) Renderer {
	render := templateRenderer(TemplateInput, nil)
	return func(buf *bytes.Buffer, field model.Field, data Data) error {
		config := make(map[string]any, len(data.Config)+1)
		for key, value := range data.Config {
			config[key] = value
		}
		config["inputType"] = inputType
		data.Config = config
		return render(buf, field, data)
	}
}

func templateRenderer(name string, options optionSource) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data Data) error {
		if data.Template == nil {
			return fmt.Errorf("template renderer not configured for %q", name)
		}

		payload := map[string]any{
			"field":   field,
			"value":   displayValue(field, data.Value),
			"error":   data.Error,
			"message": data.Message,
			"config":  data.Config,
		}
		if field.Kind == model.FieldKindCheckbox {
			payload["checked"] = truthy(data.Value, field.DefaultValue)
		}
		if options != nil {
			opts, err := options(field)
			if err != nil {
				return err
			}
			payload["options"] = opts
		}

		rendered, err := data.Template.RenderTemplate(name, payload)
		if err != nil {
			return fmt.Errorf("render template %q: %w", name, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func regionOptions(set regions.Set) optionSource {
	return func(model.Field) ([]model.Option, error) {
		list, err := regions.Regions(set)
		if err != nil {
			return nil, err
		}
		out := make([]model.Option, 0, len(list))
		for _, option := range regions.AsOptions(list) {
			out = append(out, model.Option{Label: option.Label, Value: option.Value})
		}
		return out, nil
	}
}

func displayValue(field model.Field, value any) string {
	if value == nil {
		value = field.DefaultValue
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value, fallback any) bool {
	if value == nil {
		value = fallback
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch v {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}
