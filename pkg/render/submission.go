package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BlockFieldName is the hidden input carrying a form block's position in a
// page layout, so a page level POST can be routed to the right block.
const BlockFieldName = "_block"

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden formats value as a hidden input.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken is the hidden input carrying token. Name must match the
// middleware reading it, e.g. "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// BlockIndex is the BlockFieldName input for layout position idx.
func BlockIndex(idx int) HiddenField {
	return HiddenField{Name: BlockFieldName, Value: strconv.Itoa(idx)}
}

// HiddenSet holds hidden inputs by name.
type HiddenSet map[string]string

// With returns a copy of s with fields applied. Later fields win; blank
// names are dropped. The result is nil when empty.
func (s HiddenSet) With(fields ...HiddenField) HiddenSet {
	out := make(HiddenSet, len(s)+len(fields))
	for name, value := range s {
		out.set(name, value)
	}
	for _, field := range fields {
		out.set(field.Name, field.Value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s HiddenSet) set(name, value string) {
	if name = strings.TrimSpace(name); name != "" {
		s[name] = value
	}
}

// Fields lists the inputs sorted by name.
func (s HiddenSet) Fields() []HiddenField {
	if len(s) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(s))
	for name, value := range s {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
