package shell

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const documentTemplate = "templates/shell.tmpl"

// TemplatesFS exposes the embedded document template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
