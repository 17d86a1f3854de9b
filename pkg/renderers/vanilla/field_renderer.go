package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formblock/pkg/fields"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/render/template"
)

// fieldMarkup is one rendered field handed to the block template.
type fieldMarkup struct {
	Name string          `json:"name"`
	Kind model.FieldKind `json:"kind"`
	HTML string          `json:"html"`
}

type fieldRenderer struct {
	templates template.TemplateRenderer
	registry  *fields.Registry
	classes   Classes
}

// renderAll renders the declared fields in order. Kinds without a registered
// renderer produce nothing.
func (r *fieldRenderer) renderAll(view render.BlockView) ([]fieldMarkup, error) {
	out := make([]fieldMarkup, 0, len(view.Block.Form.Fields))
	for idx, field := range view.Block.Form.Fields {
		data := fields.Data{
			Template: r.templates,
			Value:    view.Values[field.Name],
			Error:    view.Errors[field.Name],
			Message:  string(view.MessageHTML[idx]),
			Config:   map[string]any{"locale": view.Locale, "index": idx},
		}

		var control bytes.Buffer
		ok, err := r.registry.Render(&control, field, data)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		if !ok {
			continue
		}
		out = append(out, fieldMarkup{
			Name: field.Name,
			Kind: field.Kind,
			HTML: r.buildFieldMarkup(field, data.Error, control.String()),
		})
	}
	return out, nil
}

func (r *fieldRenderer) buildFieldMarkup(field model.Field, fieldError, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(html.EscapeString(r.classes.Field))
	builder.WriteString(` `)
	builder.WriteString(html.EscapeString(r.classes.Field + "--" + string(field.Kind)))
	if fieldError != "" {
		builder.WriteString(` is-invalid`)
	}
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(string(field.Kind)))
	builder.WriteString(`"`)
	if field.Name != "" {
		builder.WriteString(` data-field="`)
		builder.WriteString(html.EscapeString(field.Name))
		builder.WriteString(`"`)
	}
	if style := widthStyle(field.Width); style != "" {
		builder.WriteString(` style="`)
		builder.WriteString(style)
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	label := ""
	if hasLabel(field) {
		var lb strings.Builder
		lb.WriteString(`<label for="`)
		lb.WriteString(html.EscapeString(controlID(field.Name)))
		lb.WriteString(`" class="`)
		lb.WriteString(html.EscapeString(r.classes.Label))
		lb.WriteString(`">`)
		lb.WriteString(html.EscapeString(field.Label))
		if field.Required {
			lb.WriteString(` <span aria-hidden="true">*</span>`)
		}
		lb.WriteString("</label>")
		label = lb.String()
	}

	if label != "" && !labelAfterControl(field.Kind) {
		builder.WriteString("  ")
		builder.WriteString(label)
		builder.WriteByte('\n')
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if label != "" && labelAfterControl(field.Kind) {
		builder.WriteString("  ")
		builder.WriteString(label)
		builder.WriteByte('\n')
	}

	if field.Kind.HasInput() {
		// The error slot is always present so the runtime can fill it.
		builder.WriteString(`  <p class="`)
		builder.WriteString(html.EscapeString(r.classes.FieldError))
		builder.WriteString(`" id="`)
		builder.WriteString(html.EscapeString(errorID(field.Name)))
		builder.WriteString(`" data-field-error`)
		if fieldError == "" {
			builder.WriteString(` hidden>`)
		} else {
			builder.WriteString(` role="alert">`)
			builder.WriteString(html.EscapeString(fieldError))
		}
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
