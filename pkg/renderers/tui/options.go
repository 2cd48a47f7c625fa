package tui

import (
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/result"
)

// Theme captures optional prefixes applied to printed lines. Kept minimal to
// avoid coupling the runner to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is applied when WithTheme is not supplied.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "  ! "}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the submitted record is written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithOutputFormat selects the serialization of the submitted record.
func WithOutputFormat(format result.OutputFormat) Option {
	return func(r *Runner) {
		if format != "" {
			r.format = format
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}
