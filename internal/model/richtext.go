package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Node is one element of structured rich content. Leaf nodes carry Text and
// formatting marks; element nodes carry Type and Children.
type Node struct {
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Bold      bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty" yaml:"underline,omitempty"`
	Strike    bool   `json:"strikethrough,omitempty" yaml:"strikethrough,omitempty"`
	Code      bool   `json:"code,omitempty" yaml:"code,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	NewTab    bool   `json:"newTab,omitempty" yaml:"newTab,omitempty"`
	Children  []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node is a text leaf.
func (n Node) IsLeaf() bool {
	return n.Type == "" && len(n.Children) == 0
}

// RichText is structured content as delivered by the CMS: either a node tree
// or a markdown string.
type RichText struct {
	Nodes    []Node `json:"-" yaml:"-"`
	Markdown string `json:"-" yaml:"-"`
}

// Empty reports whether there is nothing to render.
func (r RichText) Empty() bool {
	if strings.TrimSpace(r.Markdown) != "" {
		return false
	}
	for _, node := range r.Nodes {
		if !nodeEmpty(node) {
			return false
		}
	}
	return true
}

func nodeEmpty(n Node) bool {
	if strings.TrimSpace(n.Text) != "" {
		return false
	}
	for _, child := range n.Children {
		if !nodeEmpty(child) {
			return false
		}
	}
	return true
}

// MarshalJSON emits the node array, or the markdown string when no nodes are
// present.
func (r RichText) MarshalJSON() ([]byte, error) {
	if len(r.Nodes) == 0 && r.Markdown != "" {
		return json.Marshal(r.Markdown)
	}
	if r.Nodes == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.Nodes)
}

// UnmarshalJSON accepts a node array, a single node object or a string.
func (r *RichText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*r = RichText{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &r.Markdown)
	case '{':
		var node Node
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return err
		}
		r.Nodes = []Node{node}
		return nil
	default:
		return json.Unmarshal(trimmed, &r.Nodes)
	}
}

// UnmarshalYAML accepts a markdown scalar or a node sequence.
func (r *RichText) UnmarshalYAML(unmarshal func(any) error) error {
	*r = RichText{}
	var text string
	if err := unmarshal(&text); err == nil {
		r.Markdown = text
		return nil
	}
	return unmarshal(&r.Nodes)
}

// PlainText flattens the content into text, one line per block.
func (r RichText) PlainText() string {
	if len(r.Nodes) == 0 {
		return strings.TrimSpace(r.Markdown)
	}
	lines := make([]string, 0, len(r.Nodes))
	for _, node := range r.Nodes {
		if line := strings.TrimSpace(nodeText(node)); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func nodeText(n Node) string {
	if n.IsLeaf() {
		return n.Text
	}
	var b strings.Builder
	b.WriteString(n.Text)
	for _, child := range n.Children {
		b.WriteString(nodeText(child))
	}
	return b.String()
}
