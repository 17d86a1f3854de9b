// Package server wires the form block, page and region handlers into one
// chi router and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formblock/components/regions"
	"github.com/goliatone/go-formblock/pkg/block"
	"github.com/goliatone/go-formblock/pkg/content"
	"github.com/goliatone/go-formblock/pkg/pages"
	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
	"github.com/goliatone/go-formblock/pkg/shell"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// Asset URLs linked by the shell.
const (
	StylesheetURL = "/assets/" + vanilla.StylesheetName
	RuntimeURL    = "/runtime/" + vanilla.RuntimeScriptName
)

// Deps are the collaborators of the router.
type Deps struct {
	Store     content.Store
	Transport submit.Transport
	Shell     *shell.Shell
	Logger    *slog.Logger
	// BlockOptions configure every form block, standalone or in a page.
	BlockOptions []block.Option
}

// NewRouter builds the HTTP routes:
//
//	GET  /healthz
//	GET  /assets/formblock.css, /runtime/formblock.js
//	GET  /api/regions/{countries,states}
//	*    /forms/{id}
//	*    / and /{slug...}
func NewRouter(deps Deps) (chi.Router, error) {
	if deps.Store == nil {
		return nil, errors.New("server: content store is nil")
	}
	if deps.Transport == nil {
		return nil, errors.New("server: submission transport is nil")
	}
	if deps.Shell == nil {
		return nil, errors.New("server: shell is nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	blockOpts := append([]block.Option{block.WithLogger(logger)}, deps.BlockOptions...)
	group, err := block.NewGroup(deps.Transport, blockOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: form blocks: %w", err)
	}
	pageHandler, err := pages.New(deps.Store, deps.Shell, group, pages.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("server: pages: %w", err)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Get(StylesheetURL, asset(vanilla.StylesheetName))
	r.Get(RuntimeURL, asset(vanilla.RuntimeScriptName))

	if _, err := regions.RegisterRoutes(r, "/"); err != nil {
		return nil, fmt.Errorf("server: regions: %w", err)
	}
	formOpts := append(append([]block.Option(nil), blockOpts...), block.WithLayout(deps.Shell))
	if _, err := block.RegisterRoutes(r, "/", deps.Store, deps.Transport, formOpts...); err != nil {
		return nil, fmt.Errorf("server: forms: %w", err)
	}

	r.Handle("/", pageHandler)
	r.Handle("/*", pageHandler)
	return r, nil
}

func asset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeFileFS(w, r, vanilla.AssetsFS(), name)
	}
}

// New returns an http.Server with conservative timeouts.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if logger != nil {
		srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
	}
	return srv
}

// Run serves until ctx is done, then shuts down within grace.
func Run(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
