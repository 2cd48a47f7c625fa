package server

import (
	"io/fs"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

const (
	DefaultCookieName = "formbuilder_session"
	DefaultCSRFField  = "_csrf"
	DefaultSessionTTL = 30 * time.Minute
	DefaultToastLimit = 5
	maxFormBytes      = 1 << 20
)

type Options struct {
	Title        string
	CookieName   string
	CSRFField    string
	SecureCookie bool
	SessionTTL   time.Duration
	ToastLimit   int

	Renderers      *render.Registry
	ThemeSelector  theme.ThemeSelector
	ThemeName      string
	ThemeVariant   string
	Assets         fs.FS
	BuilderOptions []builder.Option
	Logger         *zap.Logger

	Now func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Title:      "Form builder",
		CookieName: DefaultCookieName,
		CSRFField:  DefaultCSRFField,
		SessionTTL: DefaultSessionTTL,
		ToastLimit: DefaultToastLimit,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.CSRFField == "" {
		opts.CSRFField = DefaultCSRFField
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ThemeSelector == nil {
		opts.ThemeSelector = render.NewStaticSelector("", "", render.DefaultManifest())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func WithTitle(title string) OptionFn {
	return func(o *Options) { o.Title = title }
}

// WithRenderers replaces the renderer registry. It must hold an "html"
// renderer; a "json" renderer is added when missing.
func WithRenderers(registry *render.Registry) OptionFn {
	return func(o *Options) { o.Renderers = registry }
}

func WithThemeSelector(selector theme.ThemeSelector) OptionFn {
	return func(o *Options) { o.ThemeSelector = selector }
}

func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithAssets(assets fs.FS) OptionFn {
	return func(o *Options) { o.Assets = assets }
}

func WithBuilderOptions(opts ...builder.Option) OptionFn {
	return func(o *Options) { o.BuilderOptions = append(o.BuilderOptions, opts...) }
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) { o.SessionTTL = ttl }
}

func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) { o.SecureCookie = secure }
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) { o.Logger = logger }
}

// WithClock overrides time.Now for session expiry.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) { o.Now = now }
}
