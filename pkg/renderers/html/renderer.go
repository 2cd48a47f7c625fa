package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer turns a render.Page into a full HTML document.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.Page, options render.Options) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	out, err := r.templates.RenderTemplate(options.Theme.Partial(render.PartialPage, PageTemplate), map[string]any{
		"page":   page,
		"theme":  themeContext(page.BasePath, options.Theme),
		"hidden": render.SortedHiddenFields(options.Hidden...),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func themeContext(basePath string, cfg *render.ThemeConfig) map[string]any {
	out := map[string]any{}
	if cfg == nil {
		return out
	}
	out["name"] = cfg.Theme
	out["variant"] = cfg.Variant
	out["style"] = cfg.StyleAttr()

	stylesheet := cfg.AssetURL(render.AssetStylesheet)
	if strings.HasPrefix(stylesheet, "/") && !strings.HasPrefix(stylesheet, "//") {
		stylesheet = basePath + stylesheet
	}
	out["stylesheet"] = stylesheet
	return out
}
