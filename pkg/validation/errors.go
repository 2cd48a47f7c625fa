package validation

import (
	"errors"
	"strings"
)

// Cause classifies why a field failed validation.
type Cause string

const (
	// CauseRequired marks a field that must not be empty.
	CauseRequired Cause = "required"
	// CauseInvalidType marks a type selection outside the supported kinds.
	CauseInvalidType Cause = "invalid_type"
)

// FieldError attaches a single validation failure to a field key. Keys are
// collector input names ("label", "type") or descriptor IDs for generated
// fields.
type FieldError struct {
	Field   string `json:"field"`
	Cause   Cause  `json:"cause"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Errors is the structured result of a form validation pass. A nil or empty
// value means the form is valid.
type Errors []FieldError

// Required builds a required-field error.
func Required(field, message string) FieldError {
	return FieldError{Field: field, Cause: CauseRequired, Message: message}
}

// InvalidType builds an invalid-type error.
func InvalidType(field, message string) FieldError {
	return FieldError{Field: field, Cause: CauseInvalidType, Message: message}
}

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation: no errors"
	}
	parts := make([]string, 0, len(e))
	for _, fieldErr := range e {
		parts = append(parts, fieldErr.Error())
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Empty reports whether no errors were collected.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns nil for an empty set so callers can return it directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Has reports whether any error targets field.
func (e Errors) Has(field string) bool {
	for _, fieldErr := range e {
		if fieldErr.Field == field {
			return true
		}
	}
	return false
}

// ForField returns the normalised messages attached to field.
func (e Errors) ForField(field string) []string {
	var messages []string
	for _, fieldErr := range e {
		if fieldErr.Field == field {
			messages = append(messages, fieldErr.Message)
		}
	}
	return normalizeMessages(messages)
}

// Fields groups messages by field key, trimming whitespace and dropping
// duplicates while preserving order.
func (e Errors) Fields() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	grouped := make(map[string][]string)
	for _, fieldErr := range e {
		grouped[fieldErr.Field] = append(grouped[fieldErr.Field], fieldErr.Message)
	}
	out := make(map[string][]string, len(grouped))
	for field, messages := range grouped {
		if normalized := normalizeMessages(messages); len(normalized) > 0 {
			out[field] = normalized
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Without returns a copy with every error for field removed.
func (e Errors) Without(field string) Errors {
	if len(e) == 0 {
		return nil
	}
	out := make(Errors, 0, len(e))
	for _, fieldErr := range e {
		if fieldErr.Field != field {
			out = append(out, fieldErr)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// As extracts validation errors from err, following wrapped chains.
func As(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	var single FieldError
	if errors.As(err, &single) {
		return Errors{single}, true
	}
	return nil, false
}

// IsEmpty reports whether a submitted value counts as missing.
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
