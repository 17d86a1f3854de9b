// Command formblock-cli renders a form block to a file or stdout, or fills
// and submits it from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-formblock/internal/app"
	"github.com/goliatone/go-formblock/internal/config"
	"github.com/goliatone/go-formblock/pkg/model"
	"github.com/goliatone/go-formblock/pkg/render"
	"github.com/goliatone/go-formblock/pkg/renderers/jsonstate"
	"github.com/goliatone/go-formblock/pkg/renderers/tui"
	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
	"github.com/goliatone/go-formblock/pkg/richtext"
	"github.com/goliatone/go-formblock/pkg/submit"
)

type options struct {
	form     string
	renderer string
	output   string
	values   string
	fill     bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.form, "form", "", "form id to render")
	fs.StringVar(&o.renderer, "renderer", "vanilla", "renderer to use: vanilla, json or tui")
	fs.StringVar(&o.output, "output", "", "output file (stdout if empty)")
	fs.StringVar(&o.values, "values", "", "JSON object of prefilled values")
	fs.BoolVar(&o.fill, "fill", false, "fill and submit the form interactively")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "formblock-cli:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	var opts options
	cfg, _, err := config.Load("formblock-cli", args, os.LookupEnv, stderr, opts.register)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.form) == "" {
		return errors.New("-form is required")
	}
	values, err := parseValues(opts.values)
	if err != nil {
		return err
	}
	logger := cfg.Logger(stderr)

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	form, err := a.Store.Form(ctx, opts.form)
	if err != nil {
		return err
	}
	form, err = model.Prepare(form)
	if err != nil {
		return err
	}
	formBlock := model.FormBlock{FormID: form.ID, Form: form}

	if opts.fill {
		return fill(ctx, a, cfg, formBlock, values, stdout, logger)
	}

	renderer, err := pickRenderer(opts.renderer, cfg)
	if err != nil {
		return err
	}
	view := render.NewBlockView(formBlock, submit.UIState{}, render.WithValues(values))
	if err := view.RenderContent(richtext.New()); err != nil {
		return err
	}
	out, err := renderer.Render(ctx, view)
	if err != nil {
		return fmt.Errorf("render form %s: %w", form.ID, err)
	}

	if opts.output == "" {
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "Form written to %s\n", opts.output)
	return err
}

func fill(ctx context.Context, a *app.App, cfg config.Config, formBlock model.FormBlock, values map[string]any, stdout io.Writer, logger *slog.Logger) error {
	if a.Client == nil {
		return fmt.Errorf("a CMS URL is required to submit (set %s)", config.EnvCMSURL)
	}
	r, err := tui.New(
		tui.WithOutput(stdout),
		tui.WithTransport(a.Client),
		tui.WithPrefill(values),
		tui.WithTheme(tui.Theme{InfoPrefix: "» ", ErrorPrefix: "✗ "}),
		tui.WithSessionOptions(
			submit.WithLoadingDelay(cfg.LoadingDelay),
			submit.WithSlugFormatter(a.Slugs),
			submit.WithLogger(logger),
		),
	)
	if err != nil {
		return err
	}
	outcome, err := r.Run(ctx, formBlock)
	if err != nil {
		return err
	}
	if outcome.State.Error != nil {
		return errors.New(outcome.State.Error.Banner())
	}
	return nil
}

func pickRenderer(name string, cfg config.Config) (render.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vanilla", "html":
		return vanilla.New(vanilla.WithLoadingDelay(cfg.LoadingDelay))
	case "json":
		return jsonstate.New(), nil
	case "tui", "text":
		return tui.New()
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

func parseValues(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("parse -values: %w", err)
	}
	return values, nil
}
