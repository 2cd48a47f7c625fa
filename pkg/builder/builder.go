package builder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/collector"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/formlist"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/result"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Option configures a Builder.
type Option func(*config)

type config struct {
	notifier    notify.Notifier
	logger      *zap.Logger
	defaultKind field.Kind
	reorder     bool
}

// WithNotifier sets the presenter that receives submit summaries.
func WithNotifier(n notify.Notifier) Option {
	return func(cfg *config) {
		if n != nil {
			cfg.notifier = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDefaultKind sets the kind used when a definition omits its type.
func WithDefaultKind(kind field.Kind) Option {
	return func(cfg *config) {
		if kind.Valid() {
			cfg.defaultKind = kind
		}
	}
}

// WithReorder enables or disables the move action on generated fields.
func WithReorder(enabled bool) Option {
	return func(cfg *config) {
		cfg.reorder = enabled
	}
}

// State is a read-only snapshot of both form stages for presenters.
type State struct {
	Draft           collector.Draft     `json:"draft"`
	CollectorErrors map[string][]string `json:"collector_errors,omitempty"`
	Fields          []field.Descriptor  `json:"fields"`
	FieldErrors     map[string][]string `json:"field_errors,omitempty"`
	CanMove         bool                `json:"can_move"`
	MoveTargets     []int               `json:"move_targets,omitempty"`
	LastResult      *result.Record      `json:"last_result,omitempty"`
}

// Builder is the single surface frontends drive: a collector feeding a
// generated form list, with submit summaries handed to a notifier.
type Builder struct {
	collector *collector.Collector
	list      *formlist.List
	notifier  notify.Notifier
	logger    *zap.Logger

	mu   sync.RWMutex
	last *result.Record
}

// New wires a collector to a fresh list.
func New(options ...Option) *Builder {
	cfg := config{
		notifier:    notify.Nop,
		logger:      zap.NewNop(),
		defaultKind: field.DefaultKind,
		reorder:     true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	list := formlist.New(formlist.WithReorder(cfg.reorder))
	b := &Builder{
		list:     list,
		notifier: cfg.notifier,
		logger:   cfg.logger,
	}
	b.collector = collector.New(func(d field.Descriptor) error {
		_, err := list.Append(d)
		return err
	}, collector.WithDefaultKind(cfg.defaultKind))
	return b
}

// Collector exposes the definition stage.
func (b *Builder) Collector() *collector.Collector {
	return b.collector
}

// List exposes the generated form stage.
func (b *Builder) List() *formlist.List {
	return b.list
}

// Subscribe registers a listener on the generated form list.
func (b *Builder) Subscribe(fn formlist.Listener) func() {
	return b.list.Subscribe(fn)
}

// Define runs a draft through the collector. Validation failures are
// returned for inline display and never escalate.
func (b *Builder) Define(ctx context.Context, draft collector.Draft) (field.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return field.Descriptor{}, err
	}
	descriptor, err := b.collector.Accept(draft)
	if err != nil {
		b.logValidation("define", err)
		return field.Descriptor{}, err
	}
	b.logger.Debug("field defined",
		zap.String("id", descriptor.ID),
		zap.String("label", descriptor.Label),
		zap.String("type", descriptor.Type.String()),
	)
	return descriptor, nil
}

// Remove deletes the generated field at index.
func (b *Builder) Remove(index int) bool {
	ok := b.list.Remove(index)
	b.logger.Debug("field remove", zap.Int("index", index), zap.Bool("applied", ok))
	return ok
}

// RemoveByID deletes the generated field with id.
func (b *Builder) RemoveByID(id string) bool {
	return b.Remove(b.list.IndexOf(id))
}

// Move applies the move action to the generated field at index.
func (b *Builder) Move(index int) bool {
	ok := b.list.Move(index)
	b.logger.Debug("field move", zap.Int("index", index), zap.Bool("applied", ok))
	return ok
}

// MoveByID applies the move action to the generated field with id.
func (b *Builder) MoveByID(id string) bool {
	return b.Move(b.list.IndexOf(id))
}

// UpdateValue sets the value of the generated field at index.
func (b *Builder) UpdateValue(index int, value string) bool {
	return b.list.UpdateValue(index, value)
}

// UpdateValueByID sets the value of the generated field with id.
func (b *Builder) UpdateValueByID(id, value string) bool {
	return b.list.UpdateValueByID(id, value)
}

// UpdateValues applies a batch of values keyed by descriptor ID. Unknown
// IDs are ignored.
func (b *Builder) UpdateValues(values map[string]string) {
	for _, descriptor := range b.list.Fields() {
		value, ok := values[descriptor.ID]
		if !ok || value == descriptor.Value {
			continue
		}
		b.list.UpdateValueByID(descriptor.ID, value)
	}
}

// Submit validates the generated form. On success the formatted record is
// handed to the notifier; a notifier failure is logged, not returned, since
// the submission itself succeeded.
func (b *Builder) Submit(ctx context.Context) (result.Record, error) {
	if err := ctx.Err(); err != nil {
		return result.Record{}, err
	}
	record, err := b.list.Submit()
	if err != nil {
		b.logValidation("submit", err)
		return result.Record{}, err
	}

	b.mu.Lock()
	snapshot := record
	b.last = &snapshot
	b.mu.Unlock()

	summary := result.Format(record)
	b.logger.Info("form submitted", zap.Int("inputs", len(record.Inputs)))
	if err := b.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelSuccess,
		Title:   "Submitted",
		Message: summary,
	}); err != nil {
		b.logger.Warn("notification failed", zap.Error(err))
	}
	return record, nil
}

// LastResult returns the most recent successful submission.
func (b *Builder) LastResult() (result.Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return result.Record{}, false
	}
	return *b.last, true
}

// State snapshots both stages for rendering.
func (b *Builder) State() State {
	snap := b.list.Snapshot()
	state := State{
		Draft:           b.collector.Draft(),
		CollectorErrors: b.collector.Errors().Fields(),
		Fields:          snap.Fields,
		FieldErrors:     snap.Errors.Fields(),
		CanMove:         snap.MoveTargets != nil,
		MoveTargets:     snap.MoveTargets,
	}
	if record, ok := b.LastResult(); ok {
		state.LastResult = &record
	}
	return state
}

func (b *Builder) logValidation(stage string, err error) {
	if errs, ok := validation.As(err); ok {
		b.logger.Debug("validation failed",
			zap.String("stage", stage),
			zap.Int("errors", len(errs)),
			zap.Any("fields", errs.Fields()),
		)
		return
	}
	b.logger.Warn(fmt.Sprintf("%s failed", stage), zap.Error(err))
}
