package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render/template/gotemplate"
)

func controlID(name string) string {
	return gotemplate.AttrID(name)
}

func errorID(name string) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-error"
}

// sanitizeClassList collapses whitespace and drops tokens that could break
// out of the attribute.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.ContainsAny(token, `"'<>&`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// labelAfterControl reports kinds whose label follows the control.
func labelAfterControl(kind model.FieldKind) bool {
	return kind == model.FieldKindCheckbox
}

func hasLabel(field model.Field) bool {
	return field.Kind != model.FieldKindMessage && strings.TrimSpace(field.Label) != ""
}

// widthStyle maps a CMS width percentage onto the field's flex basis.
func widthStyle(width int) string {
	if width <= 0 || width >= 100 {
		return ""
	}
	return "flex-basis: " + strconv.Itoa(width) + "%"
}
