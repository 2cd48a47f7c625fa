package field

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Descriptor is one user-defined input: its label, current value and kind.
// ID is assigned once and survives relabelling and reordering.
type Descriptor struct {
	ID    string `json:"id" yaml:"id,omitempty"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Type  Kind   `json:"type" yaml:"type"`
}

// New builds a descriptor with a fresh identity.
func New(label, value string, kind Kind) Descriptor {
	return Descriptor{
		ID:    NewID(),
		Label: strings.TrimSpace(label),
		Value: value,
		Type:  kind,
	}
}

// NewID returns a random descriptor identity.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the structural invariants every stored descriptor holds.
func (d Descriptor) Validate() error {
	var errs validation.Errors
	if strings.TrimSpace(d.Label) == "" {
		errs = append(errs, validation.Required("label", "label required"))
	}
	if !d.Type.Valid() {
		errs = append(errs, validation.InvalidType("type", "unsupported type \""+string(d.Type)+"\""))
	}
	return errs.Err()
}
