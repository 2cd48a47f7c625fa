package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/collector"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/formlist"
	"github.com/goliatone/go-formbuilder/pkg/result"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type action string

const (
	actionAdd    action = "Add field"
	actionEdit   action = "Edit value"
	actionRemove action = "Remove field"
	actionMove   action = "Move field"
	actionSubmit action = "Submit"
	actionQuit   action = "Quit"
)

// pickPageSize bounds how many fields a picker shows at once.
const pickPageSize = 10

// Runner drives a builder through an interactive menu loop.
type Runner struct {
	builder *builder.Builder
	driver  PromptDriver
	out     io.Writer
	format  result.OutputFormat
	logger  *zap.Logger
	theme   Theme
}

// New constructs a runner with defaults (survey driver, stdout, pretty output).
func New(b *builder.Builder, options ...Option) (*Runner, error) {
	if b == nil {
		return nil, ErrNoBuilder
	}
	r := &Runner{
		builder: b,
		out:     os.Stdout,
		format:  result.OutputFormatPretty,
		logger:  zap.NewNop(),
		theme:   DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Run loops until the form is submitted or the user quits. A successful
// submission returns the record after writing it to the output; quitting
// returns a nil record and nil error.
func (r *Runner) Run(ctx context.Context) (*result.Record, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	var dirty atomic.Bool
	dirty.Store(true)
	cancel := r.builder.Subscribe(func(formlist.Event) {
		dirty.Store(true)
	})
	defer cancel()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dirty.Swap(false) {
			if err := r.printForm(ctx); err != nil {
				return nil, err
			}
		}

		actions := r.actions()
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = string(a)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: labels})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		chosen := actions[idx]
		r.logger.Debug("tui action", zap.String("action", string(chosen)))
		switch chosen {
		case actionAdd:
			err = r.addField(ctx)
		case actionEdit:
			err = r.editValue(ctx)
		case actionRemove:
			err = r.removeField(ctx)
		case actionMove:
			err = r.moveField(ctx)
		case actionSubmit:
			record, done, submitErr := r.submit(ctx)
			if submitErr != nil {
				return nil, submitErr
			}
			if done {
				return record, nil
			}
		case actionQuit:
			quit, confirmErr := r.confirmQuit(ctx)
			if confirmErr != nil {
				return nil, confirmErr
			}
			if quit {
				return nil, nil
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

func (r *Runner) actions() []action {
	out := []action{actionAdd}
	list := r.builder.List()
	if list.Len() > 0 {
		out = append(out, actionEdit, actionRemove)
		if list.CanMove() {
			out = append(out, actionMove)
		}
	}
	return append(out, actionSubmit, actionQuit)
}

func (r *Runner) addField(ctx context.Context) error {
	draft := r.builder.Collector().Draft()

	label, err := r.driver.Input(ctx, InputConfig{
		Message:   "Label",
		Default:   draft.Label,
		Help:      "Shown next to the generated input and in the result",
		Validator: requireLabel,
	})
	if err != nil {
		return err
	}
	defaultValue, err := r.driver.Input(ctx, InputConfig{
		Message: "Default value",
		Default: draft.DefaultValue,
		Help:    "Prefilled into the generated input; may be empty",
	})
	if err != nil {
		return err
	}

	kinds := field.Kinds()
	options := make([]string, len(kinds))
	selected := 0
	for i, kind := range kinds {
		options[i] = kind.Label()
		if kind.String() == draft.Type {
			selected = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Type",
		Options:      options,
		DefaultIndex: selected,
		Help:         "Controls the input type and icon",
	})
	if err != nil {
		return err
	}
	kind := field.DefaultKind
	if idx >= 0 && idx < len(kinds) {
		kind = kinds[idx]
	}

	_, err = r.builder.Define(ctx, collector.Draft{
		Label:        label,
		DefaultValue: defaultValue,
		Type:         kind.String(),
	})
	if errs, ok := validation.As(err); ok {
		return r.printErrors(ctx, errs.Fields(), map[string]string{
			collector.KeyLabel: "Label",
			collector.KeyType:  "Type",
		})
	}
	return err
}

func (r *Runner) editValue(ctx context.Context) error {
	descriptor, ok, err := r.pickField(ctx, "Edit which field?", nil)
	if err != nil || !ok {
		return err
	}
	cfg := InputConfig{Message: descriptor.Label, Default: descriptor.Value}
	var value string
	if descriptor.Type == field.KindPassword {
		value, err = r.driver.Password(ctx, cfg)
	} else {
		value, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	r.builder.UpdateValueByID(descriptor.ID, value)
	return nil
}

func (r *Runner) removeField(ctx context.Context) error {
	descriptor, ok, err := r.pickField(ctx, "Remove which field?", nil)
	if err != nil || !ok {
		return err
	}
	confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remove %q?", descriptor.Label),
		Help:    "The field and its value are dropped from the form",
	})
	if err != nil || !confirmed {
		return err
	}
	r.builder.RemoveByID(descriptor.ID)
	return nil
}

// confirmQuit asks before discarding defined fields. An empty form quits
// without asking.
func (r *Runner) confirmQuit(ctx context.Context) (bool, error) {
	count := r.builder.List().Len()
	if count == 0 {
		return true, nil
	}
	noun := "fields"
	if count == 1 {
		noun = "field"
	}
	return r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Discard %d %s and quit?", count, noun),
	})
}

func (r *Runner) moveField(ctx context.Context) error {
	list := r.builder.List()
	descriptor, ok, err := r.pickField(ctx, "Move which field?", func(i int, d field.Descriptor) string {
		if target, ok := list.MoveTarget(i); ok && target > i {
			return d.Label + " (to bottom)"
		}
		return d.Label + " (up)"
	})
	if err != nil || !ok {
		return err
	}
	if !r.builder.MoveByID(descriptor.ID) {
		return nil
	}
	r.logger.Debug("tui moved field", zap.String("id", descriptor.ID), zap.Int("index", list.IndexOf(descriptor.ID)))
	return nil
}

func (r *Runner) submit(ctx context.Context) (*result.Record, bool, error) {
	record, err := r.builder.Submit(ctx)
	if err != nil {
		errs, ok := validation.As(err)
		if !ok {
			return nil, false, err
		}
		labels := map[string]string{}
		for _, d := range r.builder.List().Fields() {
			labels[d.ID] = d.Label
		}
		return nil, false, r.printErrors(ctx, errs.Fields(), labels)
	}

	payload, err := result.Encode(record, r.format)
	if err != nil {
		return nil, false, err
	}
	if _, err := fmt.Fprintln(r.out, string(payload)); err != nil {
		return nil, false, fmt.Errorf("tui: write result: %w", err)
	}
	return &record, true, nil
}

// pickField lets the user choose one generated field. The bool result is
// false when the list is empty or the choice is out of range.
func (r *Runner) pickField(ctx context.Context, message string, label func(int, field.Descriptor) string) (field.Descriptor, bool, error) {
	fields := r.builder.List().Fields()
	if len(fields) == 0 {
		return field.Descriptor{}, false, nil
	}
	options := make([]string, len(fields))
	for i, d := range fields {
		if label != nil {
			options[i] = fmt.Sprintf("%d. %s", i+1, label(i, d))
			continue
		}
		options[i] = fmt.Sprintf("%d. %s", i+1, d.Label)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options, PageSize: pickPageSize})
	if err != nil {
		return field.Descriptor{}, false, err
	}
	if idx < 0 || idx >= len(fields) {
		return field.Descriptor{}, false, nil
	}
	return fields[idx], true, nil
}

func (r *Runner) printForm(ctx context.Context) error {
	state := r.builder.State()
	if len(state.Fields) == 0 {
		return r.info(ctx, "No fields yet.")
	}
	lines := []string{"Form:"}
	for i, d := range state.Fields {
		value := d.Value
		if d.Type == field.KindPassword && value != "" {
			value = strings.Repeat("*", len(value))
		}
		lines = append(lines, fmt.Sprintf("  %d. %s [%s] = %s", i+1, d.Label, d.Type, value))
		for _, msg := range state.FieldErrors[d.ID] {
			lines = append(lines, r.theme.ErrorPrefix+msg)
		}
	}
	return r.info(ctx, strings.Join(lines, "\n"))
}

func (r *Runner) printErrors(ctx context.Context, errs map[string][]string, labels map[string]string) error {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		messages := errs[key]
		name := labels[key]
		if name == "" {
			name = key
		}
		for _, msg := range messages {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, name, msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func requireLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label required")
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}
