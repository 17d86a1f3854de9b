package gotemplate

import (
	"strings"

	"github.com/flosch/pongo2/v6"
)

// IDPrefix prefixes element ids generated by the attr_id filter.
const IDPrefix = "fb-"

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("attr_id") {
		_ = pongo2.RegisterFilter("attr_id", filterAttrID)
	}
	if !pongo2.FilterExists("field_error") {
		_ = pongo2.RegisterFilter("field_error", filterFieldError)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterAttrID turns a field name into a stable element id.
func filterAttrID(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(AttrID(in.String())), nil
}

// filterFieldError looks up the error recorded for the field named by param
// in a map of field errors.
func filterFieldError(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	errs, ok := in.Interface().(map[string]any)
	if !ok || param == nil {
		return pongo2.AsValue(""), nil
	}
	if msg, ok := errs[param.String()].(string); ok {
		return pongo2.AsValue(msg), nil
	}
	return pongo2.AsValue(""), nil
}

// AttrID lowercases name and collapses anything outside [a-z0-9_-] into a
// single dash.
func AttrID(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(IDPrefix) + len(name))
	b.WriteString(IDPrefix)
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
