package formblock

import (
	"io/fs"

	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
	"github.com/goliatone/go-formblock/pkg/shell"
)

// EmbeddedTemplates exposes the built-in form block templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// ShellTemplates exposes the app shell document template.
func ShellTemplates() fs.FS {
	return shell.TemplatesFS()
}
