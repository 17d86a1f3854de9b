// Command formblock-server serves CMS pages with their form blocks inside the
// app shell, plus standalone form routes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formblock/internal/app"
	"github.com/goliatone/go-formblock/internal/config"
	"github.com/goliatone/go-formblock/internal/server"
	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
	"github.com/goliatone/go-formblock/pkg/shell"
	"github.com/goliatone/go-formblock/pkg/submit"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "formblock-server:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, _, err := config.Load("formblock-server", os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	if a.Client == nil {
		return fmt.Errorf("a CMS URL is required to accept submissions (set %s)", config.EnvCMSURL)
	}

	selector, err := app.ThemeSelector(cfg)
	if err != nil {
		return err
	}
	sh, err := shell.New(
		shell.WithMenu(a),
		shell.WithSlugFormatter(a.Slugs),
		shell.WithTheme(selector, cfg.Theme, cfg.ThemeVariant),
		shell.WithSiteName(cfg.SiteName),
		shell.WithStylesheets(server.StylesheetURL),
		shell.WithScripts(server.RuntimeURL),
		shell.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	renderers, err := block.DefaultRenderers(vanilla.WithLoadingDelay(cfg.LoadingDelay))
	if err != nil {
		return err
	}
	router, err := server.NewRouter(server.Deps{
		Store:     a.Store,
		Transport: a.Client,
		Shell:     sh,
		Logger:    logger,
		BlockOptions: []block.Option{
			block.WithRenderers(renderers),
			block.WithSlugFormatter(a.Slugs),
			block.WithSessionOptions(submit.WithLoadingDelay(cfg.LoadingDelay)),
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, server.New(cfg.Addr, router, logger), shutdownGrace, logger)
}
