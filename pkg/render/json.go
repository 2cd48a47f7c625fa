package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer emits the page view model as JSON for scripted clients.
// Hidden fields are included so clients can echo the CSRF token back.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

func (JSONRenderer) Name() string { return "json" }

func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (JSONRenderer) Render(_ context.Context, page Page, options Options) ([]byte, error) {
	payload := struct {
		Page   Page          `json:"page"`
		Theme  *ThemeConfig  `json:"theme,omitempty"`
		Hidden []HiddenField `json:"hidden,omitempty"`
	}{Page: page, Theme: options.Theme, Hidden: SortedHiddenFields(options.Hidden...)}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("render: encode json page: %w", err)
	}
	return buf.Bytes(), nil
}
