package field

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Kind enumerates the input types a generated field can take.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
)

// DefaultKind is used when a definition leaves the type unspecified.
const DefaultKind = KindText

var kinds = []Kind{KindText, KindNumber, KindEmail, KindPassword}

// Kinds returns the supported kinds in presentation order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, candidate := range kinds {
		if k == candidate {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// InputType maps the kind to the HTML input type attribute.
func (k Kind) InputType() string {
	if k.Valid() {
		return string(k)
	}
	return string(DefaultKind)
}

// Icon returns the default icon name for the kind. Presenters may override
// it through theme configuration.
func (k Kind) Icon() string {
	switch k {
	case KindNumber:
		return "hash"
	case KindEmail:
		return "mail"
	case KindPassword:
		return "lock"
	default:
		return "type"
	}
}

// Label is the human readable name shown in type pickers.
func (k Kind) Label() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindEmail:
		return "Email"
	case KindPassword:
		return "Password"
	default:
		return "Text"
	}
}

// ParseKind resolves raw into a Kind. Empty input resolves to DefaultKind;
// unknown values produce an invalid_type validation error on the "type" key.
func ParseKind(raw string) (Kind, error) {
	return ParseKindOr(raw, DefaultKind)
}

// ParseKindOr behaves like ParseKind but falls back to def for empty input.
func ParseKindOr(raw string, def Kind) (Kind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		if !def.Valid() {
			def = DefaultKind
		}
		return def, nil
	}
	kind := Kind(trimmed)
	if !kind.Valid() {
		return "", validation.InvalidType("type", fmt.Sprintf("unsupported type %q", raw))
	}
	return kind, nil
}
