package result

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

func sampleRecord() Record {
	return Record{Inputs: []Input{
		{Label: "Name", Value: "Ada"},
		{Label: "Age", Value: "0"},
	}}
}

func TestFormat(t *testing.T) {
	if got := Format(sampleRecord()); got != "Name: Ada, Age: 0" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := Format(Record{}); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestFromFields_PreservesOrder(t *testing.T) {
	fields := []field.Descriptor{
		field.New("Zeta", "1", field.KindNumber),
		field.New("Alpha", "a@b.c", field.KindEmail),
	}
	want := Record{Inputs: []Input{{Label: "Zeta", Value: "1"}, {Label: "Alpha", Value: "a@b.c"}}}
	if diff := cmp.Diff(want, FromFields(fields)); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode(t *testing.T) {
	jsonOut, err := Encode(sampleRecord(), OutputFormatJSON)
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	if got := strings.TrimSpace(string(jsonOut)); got != `{"inputs":[{"label":"Name","value":"Ada"},{"label":"Age","value":"0"}]}` {
		t.Fatalf("unexpected json: %s", got)
	}

	formOut, err := Encode(Record{Inputs: []Input{{Label: "Full name", Value: "Ada L"}, {Label: "a", Value: "&"}}}, OutputFormatForm)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	if got := string(formOut); got != "Full+name=Ada+L&a=%26" {
		t.Fatalf("unexpected form payload: %s", got)
	}

	emptyJSON, err := Encode(Record{}, OutputFormatJSON)
	if err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if got := strings.TrimSpace(string(emptyJSON)); got != `{"inputs":[]}` {
		t.Fatalf("unexpected empty json: %s", got)
	}

	if _, err := Encode(sampleRecord(), OutputFormat("xml")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]OutputFormat{"": OutputFormatPretty, "JSON": OutputFormatJSON, "form": OutputFormatForm} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error")
	}
}
