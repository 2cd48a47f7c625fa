package render

import (
	"context"
	"errors"
)

// ErrRendererNotFound is returned by Registry.Get for unknown names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Renderer turns a Page view model into bytes (HTML, text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options Options) ([]byte, error)
}

// Options carry per-request presentation settings that do not belong in
// the page state itself.
type Options struct {
	// Theme is the resolved theme selection. Nil renders with built-in
	// defaults.
	Theme *ThemeConfig
	// Hidden fields are emitted inside every form (session and CSRF tokens).
	Hidden []HiddenField
}
