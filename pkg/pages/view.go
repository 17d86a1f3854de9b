package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/model"
	rendertemplate "github.com/goliatone/go-formblock/pkg/render/template"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/shell"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const pageTemplate = "templates/page.tmpl"

// PropPage is the props key holding the model.Page.
const PropPage = "page"

// View is the page component. It renders the layout blocks in order; the
// block at Active shows Result, every other form block renders idle.
type View struct {
	Page    model.Page
	Request *http.Request
	Active  int
	Result  block.Result

	forms     *block.Group
	richtext  *richtext.Renderer
	templates rendertemplate.TemplateRenderer
	logger    *slog.Logger
}

var _ shell.Component = View{}

// Render implements shell.Component. Form blocks that cannot be prepared are
// logged and left out.
func (v View) Render(ctx context.Context, w io.Writer, _ shell.Props) error {
	blocks := make([]any, 0, len(v.Page.Layout))
	for idx, entry := range v.Page.Layout {
		switch {
		case entry.Content != nil:
			html, err := v.richtext.Render(entry.Content.Content)
			if err != nil {
				return fmt.Errorf("pages: render content block %d: %w", idx, err)
			}
			blocks = append(blocks, map[string]any{"kind": model.BlockTypeContent, "index": idx, "html": string(html)})
		case entry.Form != nil:
			html, err := v.renderForm(ctx, idx, *entry.Form)
			if err != nil {
				v.logger.Warn("form block skipped",
					slog.String("page", v.Page.Slug),
					slog.Int("block", idx),
					slog.Any("error", err),
				)
				continue
			}
			blocks = append(blocks, map[string]any{"kind": model.BlockTypeForm, "index": idx, "html": html})
		}
	}

	_, err := v.templates.RenderTemplate(pageTemplate, map[string]any{
		"slug":   v.Page.Slug,
		"title":  v.Page.Title,
		"blocks": blocks,
	}, w)
	if err != nil {
		return fmt.Errorf("pages: render layout: %w", err)
	}
	return nil
}

func (v View) renderForm(ctx context.Context, idx int, formBlock model.FormBlock) (string, error) {
	component, err := v.forms.Component(formBlock, idx)
	if err != nil {
		return "", err
	}
	result := block.Result{}
	if idx == v.Active {
		result = v.Result
	}
	var buf bytes.Buffer
	if err := component.RenderHTML(ctx, &buf, v.Request, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}
