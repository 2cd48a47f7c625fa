package collector

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type recordingSink struct {
	got []field.Descriptor
	err error
}

func (s *recordingSink) append(d field.Descriptor) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, d)
	return nil
}

func TestAccept_EmitsDescriptorAndResets(t *testing.T) {
	for _, kind := range field.Kinds() {
		sink := &recordingSink{}
		c := New(sink.append)

		got, err := c.Accept(Draft{Label: " Name ", DefaultValue: "Ada", Type: string(kind)})
		if err != nil {
			t.Fatalf("accept %s: %v", kind, err)
		}

		want := field.Descriptor{Label: "Name", Value: "Ada", Type: kind}
		if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(field.Descriptor{}, "ID")); diff != "" {
			t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
		}
		if len(sink.got) != 1 || sink.got[0] != got {
			t.Fatalf("sink should receive exactly the accepted descriptor, got %#v", sink.got)
		}
		if diff := cmp.Diff(Draft{Type: "text"}, c.Draft()); diff != "" {
			t.Fatalf("draft not reset (-want +got):\n%s", diff)
		}
		if len(c.Errors()) != 0 {
			t.Fatalf("errors should be cleared on success")
		}
	}
}

func TestAccept_DefaultsTypeAndValue(t *testing.T) {
	sink := &recordingSink{}
	c := New(sink.append)

	got, err := c.Accept(Draft{Label: "Nickname"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Type != field.KindText || got.Value != "" {
		t.Fatalf("unexpected defaults: %#v", got)
	}

	withDefault := New(sink.append, WithDefaultKind(field.KindNumber))
	got, err = withDefault.Accept(Draft{Label: "Age"})
	if err != nil || got.Type != field.KindNumber {
		t.Fatalf("expected number default, got %#v (%v)", got, err)
	}
	if withDefault.Draft().Type != "number" {
		t.Fatalf("blank draft should carry the default kind")
	}
}

func TestAccept_EmptyLabelRejected(t *testing.T) {
	sink := &recordingSink{}
	c := New(sink.append)

	draft := Draft{Label: "   ", DefaultValue: "x", Type: "email"}
	_, err := c.Accept(draft)

	errs, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"label required"}, errs.ForField(KeyLabel)); diff != "" {
		t.Fatalf("label errors mismatch (-want +got):\n%s", diff)
	}
	if len(sink.got) != 0 {
		t.Fatalf("sink must not be called on failure")
	}
	if diff := cmp.Diff(draft, c.Draft()); diff != "" {
		t.Fatalf("draft should be kept for correction (-want +got):\n%s", diff)
	}
	if !c.Errors().Has(KeyLabel) {
		t.Fatalf("errors should be stored for inline display")
	}
}

func TestAccept_InvalidType(t *testing.T) {
	sink := &recordingSink{}
	c := New(sink.append)

	_, err := c.Accept(Draft{Label: "When", Type: "date"})
	errs, ok := validation.As(err)
	if !ok || !errs.Has(KeyType) || errs[0].Cause != validation.CauseInvalidType {
		t.Fatalf("expected invalid type error, got %v", err)
	}
	if len(sink.got) != 0 {
		t.Fatalf("sink must not be called on failure")
	}
}

func TestSubmit_UsesSetters(t *testing.T) {
	sink := &recordingSink{}
	c := New(sink.append)
	c.SetLabel("Email")
	c.SetDefaultValue("a@b.c")
	c.SetType("email")

	got, err := c.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Label != "Email" || got.Value != "a@b.c" || got.Type != field.KindEmail {
		t.Fatalf("unexpected descriptor: %#v", got)
	}
}

func TestAccept_SinkFailureKeepsDraft(t *testing.T) {
	sink := &recordingSink{err: errors.New("full")}
	c := New(sink.append)

	draft := Draft{Label: "Name", Type: "text"}
	if _, err := c.Accept(draft); err == nil {
		t.Fatalf("expected sink error")
	}
	if c.Draft() != draft {
		t.Fatalf("draft should be kept when the sink rejects")
	}
}
