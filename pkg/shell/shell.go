package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formblock/pkg/model"
	rendertemplate "github.com/goliatone/go-formblock/pkg/render/template"
	gotemplate "github.com/goliatone/go-formblock/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formblock/pkg/slug"
)

// Prop keys the shell reads. Every other key belongs to the page.
const (
	PropMainMenu = "mainMenu"
	PropTitle    = "title"
)

// Props are the page props. The shell passes them to the page component as
// received.
type Props map[string]any

// MainMenu returns the menu stored under PropMainMenu.
func (p Props) MainMenu() (model.MainMenu, bool) {
	switch menu := p[PropMainMenu].(type) {
	case model.MainMenu:
		return menu, true
	case *model.MainMenu:
		if menu != nil {
			return *menu, true
		}
	}
	return model.MainMenu{}, false
}

// Title returns the string stored under PropTitle.
func (p Props) Title() string {
	title, _ := p[PropTitle].(string)
	return title
}

// Component renders a page body from its props.
type Component interface {
	Render(ctx context.Context, w io.Writer, props Props) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, w io.Writer, props Props) error

// Render implements Component.
func (f ComponentFunc) Render(ctx context.Context, w io.Writer, props Props) error {
	return f(ctx, w, props)
}

// MenuLoader fetches the global navigation.
type MenuLoader interface {
	MainMenu(ctx context.Context) (model.MainMenu, error)
}

// Option configures a Shell.
type Option func(*Shell)

// WithGrid overrides the grid. Zero fields keep the defaults.
func WithGrid(grid Grid) Option {
	return func(s *Shell) {
		s.grid = grid.withDefaults()
	}
}

// WithModal overrides the modal host settings.
func WithModal(modal Modal) Option {
	return func(s *Shell) {
		if modal.TransTime >= 0 {
			s.modal.TransTime = modal.TransTime
		}
		s.modal.ZIndex = pick(modal.ZIndex, s.modal.ZIndex)
	}
}

// WithMenu sets the loader InitialProps fetches the main menu from.
func WithMenu(loader MenuLoader) Option {
	return func(s *Shell) {
		s.menu = loader
	}
}

// WithSlugFormatter sets the formatter resolving reference menu links.
func WithSlugFormatter(formatter slug.Formatter) Option {
	return func(s *Shell) {
		if formatter != nil {
			s.slugs = formatter
		}
	}
}

// WithTheme selects the theme whose tokens become document CSS variables.
// Selection happens once in New.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(s *Shell) {
		s.selector = selector
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithTemplateRenderer replaces the document template engine. The engine
// must provide templates/shell.tmpl.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(s *Shell) {
		if renderer != nil {
			s.templates = renderer
		}
	}
}

// WithStylesheets appends stylesheet URLs linked in the document head.
func WithStylesheets(urls ...string) Option {
	return func(s *Shell) {
		s.stylesheets = append(s.stylesheets, urls...)
	}
}

// WithScripts appends deferred script URLs.
func WithScripts(urls ...string) Option {
	return func(s *Shell) {
		s.scripts = append(s.scripts, urls...)
	}
}

// WithSiteName sets the header home link text and the title suffix.
func WithSiteName(name string) Option {
	return func(s *Shell) {
		s.siteName = strings.TrimSpace(name)
	}
}

// WithLang sets the document language.
func WithLang(lang string) Option {
	return func(s *Shell) {
		s.lang = pick(strings.TrimSpace(lang), s.lang)
	}
}

// WithLogger sets the shell logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Shell renders the document around page components.
type Shell struct {
	grid         Grid
	modal        Modal
	menu         MenuLoader
	slugs        slug.Formatter
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	theme        *theme.RendererConfig
	templates    rendertemplate.TemplateRenderer
	stylesheets  []string
	scripts      []string
	siteName     string
	lang         string
	logger       *slog.Logger
}

// New builds a Shell. Without WithTheme the embedded formblock theme is
// used.
func New(opts ...Option) (*Shell, error) {
	s := &Shell{
		grid:   DefaultGrid(),
		modal:  DefaultModal(),
		slugs:  slug.New(),
		lang:   "en",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.selector == nil {
		manifests, err := DefaultThemes()
		if err != nil {
			return nil, err
		}
		selector, err := NewStaticSelector(DefaultThemeName, DefaultThemeVariant, manifests...)
		if err != nil {
			return nil, err
		}
		s.selector = selector
	}
	selection, err := s.selector.Select(s.themeName, s.themeVariant)
	if err != nil {
		return nil, fmt.Errorf("shell: select theme: %w", err)
	}
	s.theme = ThemeConfig(selection)
	if s.theme != nil && s.theme.AssetURL != nil {
		if href := s.theme.AssetURL(StylesheetAsset); href != "" {
			s.stylesheets = append(s.stylesheets, href)
		}
	}

	if s.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(TemplatesFS()),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithSetName("formblock-shell"),
		)
		if err != nil {
			return nil, fmt.Errorf("shell: configure templates: %w", err)
		}
		s.templates = engine
	}
	return s, nil
}

// Grid returns the layout context.
func (s *Shell) Grid() Grid {
	return s.grid
}

// Modal returns the modal host settings.
func (s *Shell) Modal() Modal {
	return s.modal
}

// Theme returns the selected theme settings, or nil.
func (s *Shell) Theme() *theme.RendererConfig {
	return s.theme
}

// InitialProps fetches the props shared by every page before the first
// render. Loader errors are returned unchanged in a wrapper.
func (s *Shell) InitialProps(ctx context.Context) (Props, error) {
	props := Props{}
	if s.menu == nil {
		return props, nil
	}
	menu, err := s.menu.MainMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("shell: load main menu: %w", err)
	}
	props[PropMainMenu] = menu
	return props, nil
}

// Render draws component with props inside the document. The header reads
// the main menu from props.
func (s *Shell) Render(ctx context.Context, w io.Writer, component Component, props Props) error {
	if component == nil {
		return errors.New("shell: page component is nil")
	}
	var body bytes.Buffer
	if err := component.Render(ctx, &body, props); err != nil {
		return fmt.Errorf("shell: render page: %w", err)
	}
	menu, _ := props.MainMenu()
	return s.write(ctx, w, props.Title(), menu, template.HTML(body.String()))
}

// RenderPage wraps an already rendered body, fetching the shared props first.
func (s *Shell) RenderPage(ctx context.Context, w io.Writer, title string, body template.HTML) error {
	props, err := s.InitialProps(ctx)
	if err != nil {
		return err
	}
	menu, _ := props.MainMenu()
	return s.write(ctx, w, title, menu, body)
}

func (s *Shell) write(ctx context.Context, w io.Writer, title string, menu model.MainMenu, body template.HTML) error {
	nav := make([]any, 0, len(menu.NavItems))
	for _, link := range s.NavLinks(ctx, menu) {
		nav = append(nav, map[string]any{
			"label":  link.Label,
			"href":   link.Href,
			"newTab": link.NewTab,
		})
	}

	themeName, variant := "", ""
	var vars map[string]string
	if s.theme != nil {
		themeName, variant, vars = s.theme.Theme, s.theme.Variant, s.theme.CSSVars
	}

	data := map[string]any{
		"lang":          s.lang,
		"documentTitle": s.documentTitle(title),
		"siteName":      s.siteName,
		"stylesheets":   toAny(s.stylesheets),
		"scripts":       toAny(s.scripts),
		"rootCSS":       s.grid.CSS() + cssVarsBlock(vars),
		"theme":         themeName,
		"variant":       variant,
		"nav":           nav,
		"body":          string(body),
		"grid": map[string]any{
			"cols":        fmt.Sprintf("%d/%d/%d/%d", s.grid.Cols.S, s.grid.Cols.M, s.grid.Cols.L, s.grid.Cols.XL),
			"breakpoints": fmt.Sprintf("%d/%d/%d", s.grid.Breakpoints.S, s.grid.Breakpoints.M, s.grid.Breakpoints.L),
		},
		"modal": map[string]any{
			"transTime": strconv.FormatInt(s.modal.TransTime.Milliseconds(), 10),
			"zIndex":    s.modal.ZIndex,
		},
	}
	if _, err := s.templates.RenderTemplate(documentTemplate, data, w); err != nil {
		return fmt.Errorf("shell: render document: %w", err)
	}
	return nil
}

func (s *Shell) documentTitle(title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return s.siteName
	case s.siteName == "" || title == s.siteName:
		return title
	default:
		return title + " | " + s.siteName
	}
}

func toAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
