package shell

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Theme names of the embedded manifest.
const (
	DefaultThemeName    = "formblock"
	DefaultThemeVariant = "light"
)

// StylesheetAsset is the theme asset key of an extra document stylesheet.
const StylesheetAsset = "shell.stylesheet"

//go:embed themes/*.yaml
var embeddedThemes embed.FS

// ErrUnknownTheme is returned when a selector holds no manifest by the name.
var ErrUnknownTheme = errors.New("shell: unknown theme")

type themeFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// LoadThemes decodes one or more YAML documents into theme manifests.
func LoadThemes(r io.Reader) ([]*theme.Manifest, error) {
	decoder := yaml.NewDecoder(r)
	var out []*theme.Manifest
	for {
		var file themeFile
		err := decoder.Decode(&file)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("shell: decode theme: %w", err)
		}
		if strings.TrimSpace(file.Name) == "" {
			return nil, errors.New("shell: theme name is required")
		}
		out = append(out, file.manifest())
	}
	if len(out) == 0 {
		return nil, errors.New("shell: no theme documents")
	}
	return out, nil
}

// DefaultThemes returns the embedded manifests.
func DefaultThemes() ([]*theme.Manifest, error) {
	data, err := embeddedThemes.ReadFile("themes/" + DefaultThemeName + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("shell: read embedded theme: %w", err)
	}
	return LoadThemes(bytes.NewReader(data))
}

func (f themeFile) manifest() *theme.Manifest {
	m := &theme.Manifest{
		Name:      f.Name,
		Version:   pick(f.Version, "0.0.0"),
		Tokens:    f.Tokens,
		Templates: f.Templates,
		Assets:    theme.Assets{Prefix: f.Assets.Prefix, Files: f.Assets.Files},
	}
	if len(f.Variants) > 0 {
		m.Variants = make(map[string]theme.Variant, len(f.Variants))
		for name, v := range f.Variants {
			m.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return m
}

// StaticSelector selects among a fixed set of manifests. Empty names fall
// back to the defaults given at construction.
type StaticSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector indexes manifests by name.
func NewStaticSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*StaticSelector, error) {
	s := &StaticSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if _, exists := s.manifests[m.Name]; exists {
			return nil, fmt.Errorf("shell: duplicate theme %q", m.Name)
		}
		s.manifests[m.Name] = m
	}
	if s.defaultTheme == "" && len(manifests) == 1 && manifests[0] != nil {
		s.defaultTheme = manifests[0].Name
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, s.defaultTheme)
	}
	return s, nil
}

// Select implements theme.ThemeSelector. An unknown variant selects the base
// manifest.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = pick(strings.TrimSpace(name), s.defaultTheme)
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into renderer settings: variant tokens,
// templates and asset files override the base ones and every token becomes a
// "--token" CSS variable.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		prefix = pick(variant.Assets.Prefix, prefix)
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return assetURL(prefix, file)
		},
	}
}

// cssVarsBlock renders vars as a sorted :root rule. Characters that could
// close the rule are dropped from values.
func cssVarsBlock(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		fmt.Fprintf(&b, " %s: %s;", cssClean(key), cssClean(vars[key]))
	}
	b.WriteString(" }\n")
	return b.String()
}

func cssClean(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', ';', '<', '>':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
}

func assetURL(prefix, file string) string {
	if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return file
	}
	return prefix + "/" + strings.TrimLeft(file, "/")
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
