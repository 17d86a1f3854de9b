// Package app opens the collaborators shared by the commands: the CMS
// client, the content store, the slug formatter and the theme selector.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formblock/internal/config"
	"github.com/goliatone/go-formblock/internal/server"
	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/shell"
	"github.com/goliatone/go-formblock/pkg/slug"
)

// App holds the opened collaborators. Client is nil when no CMS URL is set.
type App struct {
	Client *cms.Client
	Store  content.Store
	Slugs  slug.Formatter
}

// Open builds the CMS client and picks the content store: the content
// directory when set, the CMS otherwise.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}
	if url := strings.TrimSpace(cfg.CMSURL); url != "" {
		client, err := cms.New(url,
			cms.WithTimeout(cfg.RequestTimeout),
			cms.WithLogger(logger),
			cms.WithRequestIDFunc(server.RequestIDFromContext),
		)
		if err != nil {
			return nil, err
		}
		a.Client = client
		a.Store = content.NewCMSStore(client)
	}
	if dir := strings.TrimSpace(cfg.ContentDir); dir != "" {
		store, err := content.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		logger.Info("content loaded",
			slog.String("dir", dir),
			slog.Int("pages", len(store.Slugs())),
			slog.Int("forms", len(store.FormIDs())),
		)
		a.Store = store
	}
	if a.Store == nil {
		return nil, fmt.Errorf("app: set %s or %s", config.EnvCMSURL, config.EnvContentDir)
	}
	a.Slugs = slug.NewResolving(a.Store, nil)
	return a, nil
}

// MainMenu loads the main-menu global. A store without one yields an empty
// menu so pages still render.
func (a *App) MainMenu(ctx context.Context) (model.MainMenu, error) {
	menu, err := a.Store.MainMenu(ctx)
	if errors.Is(err, content.ErrNotFound) {
		return model.MainMenu{}, nil
	}
	return menu, err
}

// ThemeSelector loads the manifests of cfg.ThemeFile, or the embedded theme
// when unset.
func ThemeSelector(cfg config.Config) (theme.ThemeSelector, error) {
	path := strings.TrimSpace(cfg.ThemeFile)
	if path == "" {
		manifests, err := shell.DefaultThemes()
		if err != nil {
			return nil, err
		}
		return shell.NewStaticSelector(shell.DefaultThemeName, shell.DefaultThemeVariant, manifests...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("app: open theme file: %w", err)
	}
	defer f.Close()
	manifests, err := shell.LoadThemes(f)
	if err != nil {
		return nil, err
	}
	return shell.NewStaticSelector(cfg.Theme, cfg.ThemeVariant, manifests...)
}
