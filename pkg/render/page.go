package render

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/result"
)

// Page is the presentation view model for both form stages.
type Page struct {
	Title         string                `json:"title"`
	BasePath      string                `json:"base_path"`
	Collector     CollectorView         `json:"collector"`
	Kinds         []KindOption          `json:"kinds"`
	Fields        []FieldView           `json:"fields"`
	CanMove       bool                  `json:"can_move"`
	HasErrors     bool                  `json:"has_errors"`
	Toasts        []notify.Notification `json:"toasts,omitempty"`
	Result        *result.Record        `json:"result,omitempty"`
	ResultSummary string                `json:"result_summary,omitempty"`
}

// CollectorView is the definition form state.
type CollectorView struct {
	Label        string              `json:"label"`
	DefaultValue string              `json:"default_value"`
	Type         string              `json:"type"`
	Errors       map[string][]string `json:"errors,omitempty"`
}

// KindOption is one entry of the type picker.
type KindOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FieldView is one generated input.
type FieldView struct {
	ID         string   `json:"id"`
	Index      int      `json:"index"`
	Label      string   `json:"label"`
	Value      string   `json:"value"`
	Type       string   `json:"type"`
	InputType  string   `json:"input_type"`
	Icon       string   `json:"icon"`
	Errors     []string `json:"errors,omitempty"`
	MoveLabel  string   `json:"move_label,omitempty"`
	MoveTarget int      `json:"move_target"`
}

// PageOptions supply data that does not live in builder state.
type PageOptions struct {
	Title    string
	BasePath string
	Toasts   []notify.Notification
	Theme    *ThemeConfig
}

// NewPage builds the view model from a builder snapshot.
func NewPage(state builder.State, opts PageOptions) Page {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Form builder"
	}

	page := Page{
		Title:    title,
		BasePath: NormalizeBasePath(opts.BasePath),
		Collector: CollectorView{
			Label:        state.Draft.Label,
			DefaultValue: state.Draft.DefaultValue,
			Type:         state.Draft.Type,
			Errors:       state.CollectorErrors,
		},
		CanMove:   state.CanMove,
		HasErrors: len(state.CollectorErrors) > 0 || len(state.FieldErrors) > 0,
		Toasts:    opts.Toasts,
	}

	for _, kind := range field.Kinds() {
		page.Kinds = append(page.Kinds, KindOption{
			Value:    kind.String(),
			Label:    kind.Label(),
			Selected: kind.String() == state.Draft.Type,
		})
	}

	for i, descriptor := range state.Fields {
		view := FieldView{
			ID:        descriptor.ID,
			Index:     i,
			Label:     descriptor.Label,
			Value:     descriptor.Value,
			Type:      descriptor.Type.String(),
			InputType: descriptor.Type.InputType(),
			Icon:      opts.Theme.Icon(descriptor.Type),
			Errors:    state.FieldErrors[descriptor.ID],
		}
		if i < len(state.MoveTargets) {
			view.MoveTarget = state.MoveTargets[i]
			view.MoveLabel = "Move up"
			if view.MoveTarget > i {
				view.MoveLabel = "Move to bottom"
			}
		}
		page.Fields = append(page.Fields, view)
	}

	if state.LastResult != nil {
		record := *state.LastResult
		page.Result = &record
		page.ResultSummary = result.Format(record)
	}
	return page
}

// NormalizeBasePath returns "" for the root and a slash-prefixed path without
// trailing slash otherwise, so routes can be built as base + "/fields".
func NormalizeBasePath(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "/" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimRight(base, "/")
}
