package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/collector"
	"github.com/goliatone/go-formbuilder/pkg/result"
)

type stubDriver struct {
	// validate applies InputConfig.Validator and re-asks on failure, the
	// way survey does.
	validate     bool
	inputs       []string
	passwords    []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	menus        [][]string
	prompts      []InputConfig
	selects      []SelectConfig
	confirms     []ConfirmConfig
	inputPos     int
	passPos      int
	selectPos    int
	confirmPos   int
	selectErr    error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	for {
		if s.inputPos >= len(s.inputs) {
			return "", errors.New("no input scripted")
		}
		val := s.inputs[s.inputPos]
		s.inputPos++
		if s.validate && cfg.Validator != nil {
			if err := cfg.Validator(val); err != nil {
				s.infoMessages = append(s.infoMessages, err.Error())
				continue
			}
		}
		return val, nil
	}
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.confirms = append(s.confirms, cfg)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectErr != nil && s.selectPos >= len(s.selectIdx) {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selects = append(s.selects, cfg)
	if cfg.Message == "What next?" {
		s.menus = append(s.menus, cfg.Options)
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) printed(substr string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestRun_DefineEditAndSubmit(t *testing.T) {
	driver := &stubDriver{
		// add, type text, add, type number, submit, edit, pick first, submit
		selectIdx: []int{0, 0, 0, 1, 4, 1, 0, 4},
		inputs:    []string{"Name", "", "Age", "36", "Ada"},
	}
	var out bytes.Buffer
	b := builder.New()
	r, err := New(b, WithPromptDriver(driver), WithOutput(&out))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	record, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if record == nil || result.Format(*record) != "Name: Ada, Age: 36" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if out.String() != "Name: Ada, Age: 36\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !driver.printed("Name: Name is required") {
		t.Fatalf("expected required error to be printed, got %v", driver.infoMessages)
	}
}

func TestRun_MoveFirstWrapsToBottom(t *testing.T) {
	ctx := context.Background()
	b := builder.New()
	for _, label := range []string{"A", "B", "C"} {
		if _, err := b.Define(ctx, collector.Draft{Label: label}); err != nil {
			t.Fatalf("define %s: %v", label, err)
		}
	}
	driver := &stubDriver{selectIdx: []int{3, 0, 5}, confirm: []bool{true}}
	r, err := New(b, WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	record, err := r.Run(ctx)
	if err != nil || record != nil {
		t.Fatalf("expected quit without record, got %v (%v)", record, err)
	}

	var got []string
	for _, d := range b.List().Fields() {
		got = append(got, d.Label)
	}
	if diff := cmp.Diff([]string{"C", "B", "A"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	picker := driver.selects[1]
	if picker.Message != "Move which field?" || picker.PageSize != pickPageSize {
		t.Fatalf("unexpected picker config: %#v", picker)
	}
	if diff := cmp.Diff([]string{"1. A (to bottom)", "2. B (up)", "3. C (up)"}, picker.Options); diff != "" {
		t.Fatalf("picker options mismatch (-want +got):\n%s", diff)
	}
	if len(driver.confirms) != 1 || driver.confirms[0].Message != "Discard 3 fields and quit?" {
		t.Fatalf("expected quit confirmation, got %#v", driver.confirms)
	}
}

func TestRun_RemoveAsksForConfirmation(t *testing.T) {
	ctx := context.Background()
	b := builder.New()
	b.Define(ctx, collector.Draft{Label: "A", DefaultValue: "a"})
	b.Define(ctx, collector.Draft{Label: "B", DefaultValue: "b"})

	driver := &stubDriver{
		// remove A (declined), remove A (confirmed), quit (confirmed)
		selectIdx: []int{2, 0, 2, 0, 4},
		confirm:   []bool{false, true, true},
	}
	r, err := New(b, WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if record, err := r.Run(ctx); err != nil || record != nil {
		t.Fatalf("expected quit without record, got %v (%v)", record, err)
	}

	var got []string
	for _, d := range b.List().Fields() {
		got = append(got, d.Label)
	}
	if diff := cmp.Diff([]string{"B"}, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	var messages []string
	for _, c := range driver.confirms {
		messages = append(messages, c.Message)
	}
	want := []string{`Remove "A"?`, `Remove "A"?`, "Discard 1 field and quit?"}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("confirmations mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_DeclinedQuitKeepsRunning(t *testing.T) {
	ctx := context.Background()
	b := builder.New()
	b.Define(ctx, collector.Draft{Label: "Only", DefaultValue: "x"})

	driver := &stubDriver{selectIdx: []int{4, 3}, confirm: []bool{false}}
	var out bytes.Buffer
	r, err := New(b, WithPromptDriver(driver), WithOutput(&out))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	record, err := r.Run(ctx)
	if err != nil || record == nil {
		t.Fatalf("expected submission after declined quit, got %v (%v)", record, err)
	}
	if out.String() != "Only: x\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRun_QuitEmptyFormSkipsConfirmation(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{2}}
	r, err := New(builder.New(), WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if record, err := r.Run(context.Background()); err != nil || record != nil {
		t.Fatalf("expected clean quit, got %v (%v)", record, err)
	}
	if len(driver.confirms) != 0 {
		t.Fatalf("empty form must not ask for confirmation")
	}
}

func TestRun_LabelValidatorAsksAgain(t *testing.T) {
	driver := &stubDriver{
		validate:  true,
		selectIdx: []int{0, 0, 4},
		inputs:    []string{"   ", "Name", ""},
		confirm:   []bool{true},
	}
	b := builder.New()
	r, err := New(b, WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.printed("label required") {
		t.Fatalf("expected validator message, got %v", driver.infoMessages)
	}
	fields := b.List().Fields()
	if len(fields) != 1 || fields[0].Label != "Name" {
		t.Fatalf("unexpected fields: %#v", fields)
	}
	label := driver.prompts[0]
	if label.Message != "Label" || label.Help == "" || label.Validator == nil {
		t.Fatalf("label prompt missing help or validator: %#v", label)
	}
	if driver.selects[1].Message != "Type" || driver.selects[1].Help == "" {
		t.Fatalf("type picker missing help: %#v", driver.selects[1])
	}
}

func TestRun_MenuOffersMoveOnlyForTwoOrMore(t *testing.T) {
	ctx := context.Background()
	b := builder.New()
	b.Define(ctx, collector.Draft{Label: "Only", DefaultValue: "x"})

	driver := &stubDriver{selectIdx: []int{4}}
	r, err := New(b, WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"Add field", "Edit value", "Remove field", "Submit", "Quit"}
	if diff := cmp.Diff(want, driver.menus[0]); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_InvalidDefinitionKeepsDraft(t *testing.T) {
	// Validators are not applied, so the blank label reaches the collector.
	driver := &stubDriver{
		selectIdx: []int{0, 2, 2},
		inputs:    []string{"  ", "kept"},
	}
	b := builder.New()
	r, err := New(b, WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.printed("Label: label required") {
		t.Fatalf("expected label error, got %v", driver.infoMessages)
	}
	if b.List().Len() != 0 {
		t.Fatalf("invalid definition must not append")
	}
	if draft := b.Collector().Draft(); draft.DefaultValue != "kept" || draft.Type != "email" {
		t.Fatalf("draft not retained: %#v", draft)
	}
}

func TestRun_JSONOutputAndPasswordEdit(t *testing.T) {
	ctx := context.Background()
	b := builder.New()
	b.Define(ctx, collector.Draft{Label: "Secret", Type: "password"})

	driver := &stubDriver{
		selectIdx: []int{1, 0, 3},
		passwords: []string{"hunter2"},
	}
	var out bytes.Buffer
	r, err := New(b, WithPromptDriver(driver), WithOutput(&out), WithOutputFormat(result.OutputFormatJSON))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"value":"hunter2"`) {
		t.Fatalf("unexpected json output %q", out.String())
	}
	if driver.printed("hunter2") {
		t.Fatalf("password value must be masked in the form listing")
	}
}

func TestRun_AbortPropagates(t *testing.T) {
	driver := &stubDriver{selectErr: ErrAborted}
	r, err := New(builder.New(), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNew_RequiresBuilder(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoBuilder) {
		t.Fatalf("expected ErrNoBuilder, got %v", err)
	}
}
