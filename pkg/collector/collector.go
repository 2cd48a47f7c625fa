package collector

import (
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Input keys used when attaching validation errors to the collector form.
const (
	KeyLabel        = "label"
	KeyDefaultValue = "default_value"
	KeyType         = "type"
)

// Draft is the collector's editable input: the definition of one new field.
type Draft struct {
	Label        string `json:"label" yaml:"label"`
	DefaultValue string `json:"default_value" yaml:"default_value"`
	Type         string `json:"type" yaml:"type"`
}

// UnmarshalYAML accepts "value" as a shorthand for "default_value". Since
// yaml.v3 also parses JSON, definition files may use either key.
func (d *Draft) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Label        string  `yaml:"label"`
		DefaultValue *string `yaml:"default_value"`
		Value        *string `yaml:"value"`
		Type         string  `yaml:"type"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*d = Draft{Label: raw.Label, Type: raw.Type}
	switch {
	case raw.DefaultValue != nil:
		d.DefaultValue = *raw.DefaultValue
	case raw.Value != nil:
		d.DefaultValue = *raw.Value
	}
	return nil
}

// AppendFunc receives each accepted descriptor.
type AppendFunc func(field.Descriptor) error

// Option configures a Collector.
type Option func(*Collector)

// WithDefaultKind sets the kind used when a draft leaves the type blank.
func WithDefaultKind(kind field.Kind) Option {
	return func(c *Collector) {
		if kind.Valid() {
			c.defaultKind = kind
		}
	}
}

// Collector validates field definitions and emits descriptors to its sink.
type Collector struct {
	mu          sync.Mutex
	sink        AppendFunc
	defaultKind field.Kind
	draft       Draft
	errors      validation.Errors
}

// New constructs a collector that appends accepted descriptors through sink.
func New(sink AppendFunc, options ...Option) *Collector {
	c := &Collector{
		sink:        sink,
		defaultKind: field.DefaultKind,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.draft = c.blankDraft()
	return c
}

// Draft returns the current input state.
func (c *Collector) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors returns the validation errors from the last rejected draft.
func (c *Collector) Errors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(validation.Errors(nil), c.errors...)
}

// SetLabel updates the label input.
func (c *Collector) SetLabel(label string) {
	c.mu.Lock()
	c.draft.Label = label
	c.mu.Unlock()
}

// SetDefaultValue updates the default value input.
func (c *Collector) SetDefaultValue(value string) {
	c.mu.Lock()
	c.draft.DefaultValue = value
	c.mu.Unlock()
}

// SetType updates the type selection.
func (c *Collector) SetType(kind string) {
	c.mu.Lock()
	c.draft.Type = kind
	c.mu.Unlock()
}

// Submit accepts the current draft.
func (c *Collector) Submit() (field.Descriptor, error) {
	return c.Accept(c.Draft())
}

// Accept validates draft and, when valid, emits a new descriptor and resets
// the inputs. A rejected draft is kept so the user can correct it.
func (c *Collector) Accept(draft Draft) (field.Descriptor, error) {
	c.mu.Lock()
	c.draft = draft
	descriptor, errs := c.validate(draft)
	if len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		return field.Descriptor{}, errs
	}
	c.mu.Unlock()

	// The sink may notify list listeners that read the collector back.
	if c.sink != nil {
		if err := c.sink(descriptor); err != nil {
			if fieldErrs, ok := validation.As(err); ok {
				c.mu.Lock()
				c.errors = fieldErrs
				c.mu.Unlock()
			}
			return field.Descriptor{}, err
		}
	}

	c.mu.Lock()
	c.errors = nil
	c.draft = c.blankDraft()
	c.mu.Unlock()
	return descriptor, nil
}

// Validate checks a draft without emitting anything.
func (c *Collector) Validate(draft Draft) validation.Errors {
	_, errs := c.validate(draft)
	return errs
}

func (c *Collector) validate(draft Draft) (field.Descriptor, validation.Errors) {
	var errs validation.Errors

	label := strings.TrimSpace(draft.Label)
	if label == "" {
		errs = append(errs, validation.Required(KeyLabel, "label required"))
	}

	kind, err := field.ParseKindOr(draft.Type, c.defaultKind)
	if err != nil {
		if typeErrs, ok := validation.As(err); ok {
			errs = append(errs, typeErrs...)
		} else {
			errs = append(errs, validation.InvalidType(KeyType, err.Error()))
		}
	}

	if len(errs) > 0 {
		return field.Descriptor{}, errs
	}
	return field.New(label, draft.DefaultValue, kind), nil
}

func (c *Collector) blankDraft() Draft {
	return Draft{Type: string(c.defaultKind)}
}
