package render

import (
	"context"
)

// Renderer turns a BlockView into a byte representation (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view BlockView) ([]byte, error)
}
