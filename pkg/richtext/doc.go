// Package richtext renders CMS rich text, either a Slate style node tree or a
// markdown string, into HTML sanitized with a bluemonday UGC policy.
package richtext
