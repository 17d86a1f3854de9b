package template

import "io"

// TemplateRenderer executes the named block, field and document templates.
// gotemplate.Engine is the pongo2 implementation.
type TemplateRenderer interface {
	// RenderTemplate executes the template at name, appending the engine
	// extension when missing, and copies the output to every writer.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// RenderString parses and executes inline template content.
	RenderString(content string, data any, out ...io.Writer) (string, error)
	// GlobalContext merges values visible to every template.
	GlobalContext(data any) error
}
