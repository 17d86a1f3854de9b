// Package config reads server and CLI settings from flags, the environment
// and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/submit"
)

// Environment keys. CMS_URL wins over NEXT_PUBLIC_CMS_URL.
const (
	EnvAddr           = "FORMBLOCK_ADDR"
	EnvCMSURL         = "CMS_URL"
	EnvPublicCMSURL   = "NEXT_PUBLIC_CMS_URL"
	EnvContentDir     = "FORMBLOCK_CONTENT_DIR"
	EnvLoadingDelay   = "FORMBLOCK_LOADING_DELAY"
	EnvRequestTimeout = "FORMBLOCK_REQUEST_TIMEOUT"
	EnvTheme          = "FORMBLOCK_THEME"
	EnvThemeVariant   = "FORMBLOCK_THEME_VARIANT"
	EnvThemeFile      = "FORMBLOCK_THEME_FILE"
	EnvSiteName       = "FORMBLOCK_SITE_NAME"
	EnvLogLevel       = "FORMBLOCK_LOG_LEVEL"
	EnvLogFormat      = "FORMBLOCK_LOG_FORMAT"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the resolved settings.
type Config struct {
	Addr           string
	CMSURL         string
	ContentDir     string
	LoadingDelay   time.Duration
	RequestTimeout time.Duration
	Theme          string
	ThemeVariant   string
	ThemeFile      string
	SiteName       string
	LogLevel       slog.Level
	LogFormat      string
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:           ":8080",
		LoadingDelay:   submit.DefaultLoadingDelay,
		RequestTimeout: cms.DefaultTimeout,
		LogLevel:       slog.LevelInfo,
		LogFormat:      LogFormatText,
	}
}

// LoadDotEnv loads the given .env files into the process environment without
// overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses args on a flag set named name. Environment values from lookup
// become the flag defaults, so explicit flags win. Commands add their own
// flags through register.
func Load(name string, args []string, lookup LookupFunc, output io.Writer, register ...func(*flag.FlagSet)) (Config, []string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Default()
	env := envReader{lookup: lookup}

	cfg.Addr = env.string(EnvAddr, cfg.Addr)
	cfg.CMSURL = env.string(EnvCMSURL, env.string(EnvPublicCMSURL, ""))
	cfg.ContentDir = env.string(EnvContentDir, "")
	cfg.LoadingDelay = env.duration(EnvLoadingDelay, cfg.LoadingDelay)
	cfg.RequestTimeout = env.duration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.Theme = env.string(EnvTheme, "")
	cfg.ThemeVariant = env.string(EnvThemeVariant, "")
	cfg.ThemeFile = env.string(EnvThemeFile, "")
	cfg.SiteName = env.string(EnvSiteName, "")
	logLevel := env.string(EnvLogLevel, "info")
	cfg.LogFormat = env.string(EnvLogFormat, cfg.LogFormat)
	if env.err != nil {
		return Config{}, nil, env.err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.CMSURL, "cms", cfg.CMSURL, "CMS base URL")
	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory with pages/, forms/ and globals/ (instead of the CMS)")
	fs.DurationVar(&cfg.LoadingDelay, "loading-delay", cfg.LoadingDelay, "delay before the loading message shows")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "CMS request timeout")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "theme name")
	fs.StringVar(&cfg.ThemeVariant, "theme-variant", cfg.ThemeVariant, "theme variant")
	fs.StringVar(&cfg.ThemeFile, "theme-file", cfg.ThemeFile, "YAML file with theme manifests")
	fs.StringVar(&cfg.SiteName, "site-name", cfg.SiteName, "site name shown in the header")
	fs.StringVar(&logLevel, "log-level", logLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	for _, fn := range register {
		if fn != nil {
			fn(fs)
		}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, nil, fmt.Errorf("config: log level %q: %w", logLevel, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Validate checks value ranges and that one content source is set.
func (c Config) Validate() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.LoadingDelay < 0 {
		return errors.New("config: loading delay must not be negative")
	}
	if c.RequestTimeout < 0 {
		return errors.New("config: request timeout must not be negative")
	}
	if strings.TrimSpace(c.CMSURL) == "" && strings.TrimSpace(c.ContentDir) == "" {
		return fmt.Errorf("config: set %s or %s", EnvCMSURL, EnvContentDir)
	}
	return nil
}

// Logger builds the slog logger described by the config.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) string(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := e.string(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("config: %s: %w", key, err)
		}
		return fallback
	}
	return d
}
