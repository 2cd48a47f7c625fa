package field

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		raw  string
		want Kind
	}{
		{"", KindText},
		{"  ", KindText},
		{"text", KindText},
		{"Number", KindNumber},
		{" email ", KindEmail},
		{"password", KindPassword},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.raw)
		if err != nil {
			t.Fatalf("ParseKind(%q): unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseKind_Invalid(t *testing.T) {
	_, err := ParseKind("date")
	errs, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if errs[0].Field != "type" || errs[0].Cause != validation.CauseInvalidType {
		t.Fatalf("unexpected error: %#v", errs[0])
	}
}

func TestParseKindOr_FallsBackForInvalidDefault(t *testing.T) {
	got, err := ParseKindOr("", Kind("bogus"))
	if err != nil || got != DefaultKind {
		t.Fatalf("expected default kind, got %q (%v)", got, err)
	}
	got, err = ParseKindOr("", KindEmail)
	if err != nil || got != KindEmail {
		t.Fatalf("expected email, got %q (%v)", got, err)
	}
}

func TestDescriptor_Validate(t *testing.T) {
	if err := New("Name", "", KindText).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Descriptor{Label: " ", Type: Kind("date")}.Validate()
	errs, ok := validation.As(err)
	if !ok || len(errs) != 2 {
		t.Fatalf("expected two validation errors, got %v", err)
	}
}

func TestNew_AssignsDistinctIDs(t *testing.T) {
	a := New("Same", "", KindText)
	b := New("Same", "", KindText)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct identities, got %q and %q", a.ID, b.ID)
	}
}
