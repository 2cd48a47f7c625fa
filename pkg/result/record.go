package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

// Input is one submitted label/value pair.
type Input struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Record is the snapshot produced by a successful submit, in list order.
type Record struct {
	Inputs []Input `json:"inputs"`
}

// FromFields snapshots descriptors into a record.
func FromFields(fields []field.Descriptor) Record {
	inputs := make([]Input, 0, len(fields))
	for _, descriptor := range fields {
		inputs = append(inputs, Input{Label: descriptor.Label, Value: descriptor.Value})
	}
	return Record{Inputs: inputs}
}

// Format renders the record as "label: value" pairs joined by commas.
func Format(record Record) string {
	parts := make([]string, 0, len(record.Inputs))
	for _, input := range record.Inputs {
		parts = append(parts, input.Label+": "+input.Value)
	}
	return strings.Join(parts, ", ")
}

// OutputFormat controls how a record is serialized.
type OutputFormat string

const (
	// OutputFormatPretty emits the human readable summary.
	OutputFormatPretty OutputFormat = "pretty"
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatForm emits application/x-www-form-urlencoded payloads.
	OutputFormatForm OutputFormat = "form"
)

// ParseFormat resolves raw into an OutputFormat, defaulting to pretty.
func ParseFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OutputFormatPretty:
		return OutputFormatPretty, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatForm:
		return OutputFormatForm, nil
	default:
		return "", fmt.Errorf("result: unsupported output format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatJSON:
		return "application/json; charset=utf-8"
	case OutputFormatForm:
		return "application/x-www-form-urlencoded"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Encode serializes record using format.
func Encode(record Record, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		if record.Inputs == nil {
			record.Inputs = []Input{}
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(true)
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("result: encode json: %w", err)
		}
		return buf.Bytes(), nil
	case OutputFormatForm:
		return []byte(encodeForm(record)), nil
	case OutputFormatPretty, "":
		return []byte(Format(record)), nil
	default:
		return nil, fmt.Errorf("result: unsupported output format %q", format)
	}
}

// encodeForm keeps list order, which url.Values.Encode would sort away.
func encodeForm(record Record) string {
	parts := make([]string, 0, len(record.Inputs))
	for _, input := range record.Inputs {
		parts = append(parts, url.QueryEscape(input.Label)+"="+url.QueryEscape(input.Value))
	}
	return strings.Join(parts, "&")
}
