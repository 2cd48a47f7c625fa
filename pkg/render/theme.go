package render

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

// ErrThemeNotFound is returned when a selector has no manifest for a name.
var ErrThemeNotFound = errors.New("render: theme not found")

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "formbuilder"

// Asset keys understood by the bundled renderers.
const (
	AssetStylesheet = "stylesheet"
)

// PartialPage is the manifest template key that replaces the page template.
const PartialPage = "forms.page"

// ThemeConfig is a theme selection flattened for renderers. Variant values
// already override base values.
type ThemeConfig struct {
	Theme    string            `json:"theme"`
	Variant  string            `json:"variant"`
	Tokens   map[string]string `json:"tokens,omitempty"`
	CSSVars  map[string]string `json:"css_vars,omitempty"`
	Partials map[string]string `json:"partials,omitempty"`
	Assets   map[string]string `json:"assets,omitempty"`
}

// AssetURL resolves an asset key to its public URL.
func (c *ThemeConfig) AssetURL(key string) string {
	if c == nil {
		return ""
	}
	return c.Assets[key]
}

// Partial returns the template path the theme registers under key, or
// fallback when it registers none.
func (c *ThemeConfig) Partial(key, fallback string) string {
	if c != nil {
		if tmpl := strings.TrimSpace(c.Partials[key]); tmpl != "" {
			return tmpl
		}
	}
	return fallback
}

// Icon returns the icon name for kind, honouring "icon-<kind>" tokens.
func (c *ThemeConfig) Icon(kind field.Kind) string {
	if c != nil {
		if icon := strings.TrimSpace(c.Tokens["icon-"+kind.String()]); icon != "" {
			return icon
		}
	}
	return kind.Icon()
}

// StyleAttr renders CSSVars as a deterministic inline style declaration.
func (c *ThemeConfig) StyleAttr() string {
	if c == nil || len(c.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.CSSVars))
	for name := range c.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+c.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}

// ResolveTheme merges a go-theme selection into a ThemeConfig.
func ResolveTheme(selection *theme.Selection) *ThemeConfig {
	cfg := &ThemeConfig{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
		Assets:   map[string]string{},
	}
	if selection == nil {
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}
	if cfg.Theme == "" {
		cfg.Theme = manifest.Name
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	mergeInto(files, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
		mergeInto(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for name, value := range cfg.Tokens {
		cfg.CSSVars["--"+name] = value
	}
	for key, file := range files {
		cfg.Assets[key] = assetURL(prefix, file)
	}
	return cfg
}

// StaticSelector resolves themes from a fixed set of manifests.
type StaticSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector registers manifests by name. Empty defaults fall back to
// the first manifest and its base variant.
func NewStaticSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *StaticSelector {
	s := &StaticSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
		s.manifests[manifest.Name] = manifest
	}
	return s
}

// Select implements theme.ThemeSelector.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// DefaultManifest is the built-in theme: a light base with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#2f6feb",
			"surface": "#ffffff",
			"text":    "#1f2328",
			"muted":   "#656d76",
			"danger":  "#cf222e",
			"success": "#1a7f37",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "formbuilder.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#0d1117",
					"text":    "#e6edf3",
					"muted":   "#8d96a0",
				},
			},
		},
	}
}

type manifestFile struct {
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

// ParseManifest decodes a YAML (or JSON) theme manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("render: theme manifest requires a name")
	}
	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(raw.Name),
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    theme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for name, variant := range raw.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(file string) (*theme.Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("render: read theme manifest: %w", err)
	}
	return ParseManifest(data)
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func assetURL(prefix, file string) string {
	file = strings.TrimSpace(file)
	if file == "" {
		return ""
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "//") {
		return file
	}
	if prefix == "" {
		if strings.HasPrefix(file, "/") {
			return file
		}
		return "/" + file
	}
	return path.Join(prefix, file)
}
