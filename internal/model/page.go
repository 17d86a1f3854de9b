package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Block type discriminators used in page layouts.
const (
	BlockTypeForm    = "formBlock"
	BlockTypeContent = "content"
)

// FormBlock embeds a form definition into a page layout. When the CMS does
// not populate the relationship only FormID is set and Form is zero until the
// content store hydrates it.
type FormBlock struct {
	BlockName    string         `json:"blockName,omitempty" yaml:"blockName,omitempty"`
	BlockType    string         `json:"blockType,omitempty" yaml:"blockType,omitempty"`
	EnableIntro  bool           `json:"enableIntro" yaml:"enableIntro"`
	IntroContent RichText       `json:"introContent,omitempty" yaml:"introContent,omitempty"`
	FormID       string         `json:"-" yaml:"-"`
	Form         FormDefinition `json:"form" yaml:"-"`
}

// Hydrated reports whether the form definition is present.
func (b FormBlock) Hydrated() bool {
	return strings.TrimSpace(b.Form.ID) != ""
}

// UnmarshalJSON accepts the form relationship either populated or as an ID.
func (b *FormBlock) UnmarshalJSON(data []byte) error {
	type alias FormBlock
	var raw struct {
		alias
		Form json.RawMessage `json:"form"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = FormBlock(raw.alias)
	form := bytes.TrimSpace(raw.Form)
	switch {
	case len(form) == 0 || bytes.Equal(form, []byte("null")):
	case form[0] == '{':
		if err := json.Unmarshal(form, &b.Form); err != nil {
			return fmt.Errorf("model: form block: %w", err)
		}
		b.FormID = b.Form.ID
	default:
		var id any
		if err := json.Unmarshal(form, &id); err != nil {
			return fmt.Errorf("model: form block: %w", err)
		}
		b.FormID = fmt.Sprint(id)
	}
	return nil
}

// MarshalJSON writes the form populated when hydrated and as an ID otherwise.
func (b FormBlock) MarshalJSON() ([]byte, error) {
	type alias FormBlock
	out := struct {
		alias
		Form any `json:"form"`
	}{alias: alias(b)}
	switch {
	case b.Hydrated():
		out.Form = b.Form
	case strings.TrimSpace(b.FormID) != "":
		out.Form = b.FormID
	}
	return json.Marshal(out)
}

// UnmarshalYAML accepts `form: <id>` or an inline form mapping.
func (b *FormBlock) UnmarshalYAML(unmarshal func(any) error) error {
	type alias FormBlock
	var raw struct {
		alias `yaml:",inline"`
		Form  any `yaml:"form"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*b = FormBlock(raw.alias)
	switch form := raw.Form.(type) {
	case nil:
	case map[string]any:
		var inline struct {
			Form FormDefinition `yaml:"form"`
		}
		if err := unmarshal(&inline); err != nil {
			return fmt.Errorf("model: form block: %w", err)
		}
		b.Form = inline.Form
		b.FormID = inline.Form.ID
	default:
		b.FormID = fmt.Sprint(form)
	}
	return nil
}

// ContentBlock is a rich text column in a page layout.
type ContentBlock struct {
	BlockName string   `json:"blockName,omitempty" yaml:"blockName,omitempty"`
	Content   RichText `json:"content" yaml:"content"`
}

// Block is one layout entry. Exactly one of Form or Content is set for known
// block types; other types keep only Type and are skipped by renderers.
type Block struct {
	Type    string        `json:"blockType" yaml:"blockType"`
	Form    *FormBlock    `json:"-" yaml:"-"`
	Content *ContentBlock `json:"-" yaml:"-"`
}

// UnmarshalJSON dispatches on blockType.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"blockType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	*b = Block{Type: head.Type}
	switch head.Type {
	case BlockTypeForm:
		var form FormBlock
		if err := json.Unmarshal(data, &form); err != nil {
			return err
		}
		b.Form = &form
	case BlockTypeContent:
		var content ContentBlock
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		b.Content = &content
	}
	return nil
}

// MarshalJSON writes the variant payload flattened with its blockType.
func (b Block) MarshalJSON() ([]byte, error) {
	switch {
	case b.Form != nil:
		form := *b.Form
		form.BlockType = BlockTypeForm
		return json.Marshal(form)
	case b.Content != nil:
		return json.Marshal(struct {
			Type string `json:"blockType"`
			ContentBlock
		}{Type: BlockTypeContent, ContentBlock: *b.Content})
	default:
		return json.Marshal(struct {
			Type string `json:"blockType"`
		}{Type: b.Type})
	}
}

// UnmarshalYAML dispatches on blockType.
func (b *Block) UnmarshalYAML(unmarshal func(any) error) error {
	var head struct {
		Type string `yaml:"blockType"`
	}
	if err := unmarshal(&head); err != nil {
		return err
	}
	*b = Block{Type: head.Type}
	switch head.Type {
	case BlockTypeForm:
		var form FormBlock
		if err := unmarshal(&form); err != nil {
			return err
		}
		b.Form = &form
	case BlockTypeContent:
		var content ContentBlock
		if err := unmarshal(&content); err != nil {
			return err
		}
		b.Content = &content
	}
	return nil
}

// Page is a routable CMS document.
type Page struct {
	ID     string  `json:"id" yaml:"id"`
	Title  string  `json:"title" yaml:"title"`
	Slug   string  `json:"slug" yaml:"slug"`
	Layout []Block `json:"layout" yaml:"layout"`
}

// Link is a navigation target, either a literal URL or a reference.
type Link struct {
	Type      RedirectType `json:"type" yaml:"type"`
	Label     string       `json:"label" yaml:"label"`
	URL       string       `json:"url,omitempty" yaml:"url,omitempty"`
	Reference *Reference   `json:"reference,omitempty" yaml:"reference,omitempty"`
	NewTab    bool         `json:"newTab,omitempty" yaml:"newTab,omitempty"`
}

// NavItem is a single header navigation entry.
type NavItem struct {
	Link Link `json:"link" yaml:"link"`
}

// MainMenu is the global header navigation.
type MainMenu struct {
	NavItems []NavItem `json:"navItems" yaml:"navItems"`
}
