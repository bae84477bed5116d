package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalidate/pkg/form"
	"github.com/goliatone/go-formvalidate/pkg/schema/openapischema"
	"github.com/goliatone/go-formvalidate/pkg/schema/tagschema"
)

type account struct {
	Name     string `json:"name" validate:"required,min=2"`
	Age      int    `json:"age" validate:"gte=18"`
	Plan     string `json:"plan" validate:"oneof=free pro"`
	Password string `json:"password" validate:"required,min=4"`
	Terms    bool   `json:"terms" validate:"required"`
}

var accountFields = []Field{
	{Name: "name", Label: "Name", Kind: KindText, Required: true},
	{Name: "age", Label: "Age", Kind: KindInteger},
	{Name: "plan", Label: "Plan", Kind: KindText, Options: []string{"free", "pro"}},
	{Name: "password", Label: "Password", Kind: KindText, Required: true, Secret: true},
	{Name: "terms", Label: "Accept terms", Kind: KindBool},
}

// scriptedDriver replays canned answers. Input answers rejected by the
// prompt validator are recorded and the next answer is used, the way survey
// re-asks on validation errors.
type scriptedDriver struct {
	inputs    []string
	confirms  []bool
	selects   []int
	rejected  []string
	infos     []string
	passwords []string
}

func (d *scriptedDriver) ask(cfg InputConfig) (string, error) {
	for len(d.inputs) > 0 {
		answer := d.inputs[0]
		d.inputs = d.inputs[1:]
		if cfg.Validator != nil {
			if err := cfg.Validator(answer); err != nil {
				d.rejected = append(d.rejected, err.Error())
				continue
			}
		}
		return answer, nil
	}
	return "", errors.New("script exhausted")
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return d.ask(cfg)
}

func (d *scriptedDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.passwords = append(d.passwords, cfg.Message)
	return d.ask(cfg)
}

func (d *scriptedDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("script exhausted")
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(context.Context, SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, errors.New("script exhausted")
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func newAccountController(t *testing.T, submitted *[]account) *form.Controller[account] {
	t.Helper()
	s, err := tagschema.New[account]()
	if err != nil {
		t.Fatalf("tagschema.New: %v", err)
	}
	return form.New(form.Config[account]{
		Schema: s,
		OnSubmit: func(_ context.Context, data account) error {
			*submitted = append(*submitted, data)
			return nil
		},
	})
}

func TestFiller_RunSubmitsValidAnswers(t *testing.T) {
	var submitted []account
	ctrl := newAccountController(t, &submitted)
	driver := &scriptedDriver{
		inputs:   []string{"A", "Ana", "abc", "30", "pw12"},
		selects:  []int{1},
		confirms: []bool{true, true},
	}

	filler, err := NewFiller(ctrl, accountFields, WithDriver(driver))
	if err != nil {
		t.Fatalf("NewFiller: %v", err)
	}
	ok, err := filler.Run(context.Background())
	if err != nil || !ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}

	want := []account{{Name: "Ana", Age: 30, Plan: "pro", Password: "pw12", Terms: true}}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"must be at least 2 characters", "age must be a whole number"}, driver.rejected); diff != "" {
		t.Fatalf("rejected answers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Password *"}, driver.passwords); diff != "" {
		t.Fatalf("password prompts mismatch (-want +got):\n%s", diff)
	}
	if state := ctrl.State(); state.IsSubmitting || !state.IsValid() {
		t.Fatalf("unexpected final state %#v", state)
	}
}

func TestFiller_SkipsOptionalNumber(t *testing.T) {
	s, err := openapischema.FromYAML[map[string]any]([]byte(`
type: object
required: [name]
properties:
  name:
    type: string
    minLength: 2
  age:
    type: integer
    minimum: 18
`))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	var submitted []map[string]any
	ctrl := form.New(form.Config[map[string]any]{
		Schema: s,
		OnSubmit: func(_ context.Context, data map[string]any) error {
			submitted = append(submitted, data)
			return nil
		},
	})
	driver := &scriptedDriver{inputs: []string{"Ana", "  "}, confirms: []bool{true}}

	filler, err := NewFiller(ctrl, FieldsFromOpenAPI(s.Fields()), WithDriver(driver))
	if err != nil {
		t.Fatalf("NewFiller: %v", err)
	}
	ok, err := filler.Run(context.Background())
	if err != nil || !ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	if len(driver.rejected) != 0 {
		t.Fatalf("blank optional answer was rejected: %v", driver.rejected)
	}
	if diff := cmp.Diff([]map[string]any{{"name": "Ana"}}, submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
	if _, present := ctrl.Value("age"); present {
		t.Fatal("expected age to stay absent")
	}
}

func TestFiller_RepromptsFailedFields(t *testing.T) {
	var submitted []account
	ctrl := newAccountController(t, &submitted)
	driver := &scriptedDriver{
		inputs:   []string{"Ana", "30", "pw12"},
		selects:  []int{0},
		confirms: []bool{false, true, true, true},
	}

	filler, err := NewFiller(ctrl, accountFields, WithDriver(driver))
	if err != nil {
		t.Fatalf("NewFiller: %v", err)
	}
	ok, err := filler.Run(context.Background())
	if err != nil || !ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	if diff := cmp.Diff([]string{"! terms: is required"}, driver.infos); diff != "" {
		t.Fatalf("info lines mismatch (-want +got):\n%s", diff)
	}
	if len(submitted) != 1 || !submitted[0].Terms {
		t.Fatalf("unexpected submissions %#v", submitted)
	}
}

func TestFiller_DeclinedSubmit(t *testing.T) {
	var submitted []account
	ctrl := newAccountController(t, &submitted)
	driver := &scriptedDriver{
		inputs:   []string{"Ana", "30", "pw12"},
		selects:  []int{0},
		confirms: []bool{true, false},
	}

	filler, err := NewFiller(ctrl, accountFields, WithDriver(driver))
	if err != nil {
		t.Fatalf("NewFiller: %v", err)
	}
	ok, err := filler.Run(context.Background())
	if err != nil || ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	if len(submitted) != 0 {
		t.Fatalf("expected no submission, got %#v", submitted)
	}
	if got, _ := ctrl.Value("name"); got != "Ana" {
		t.Fatalf("name = %v", got)
	}
}

func TestFiller_PropagatesDriverErrors(t *testing.T) {
	var submitted []account
	ctrl := newAccountController(t, &submitted)

	filler, err := NewFiller(ctrl, accountFields, WithDriver(&scriptedDriver{}))
	if err != nil {
		t.Fatalf("NewFiller: %v", err)
	}
	if _, err := filler.Run(context.Background()); err == nil {
		t.Fatal("expected error from exhausted script")
	}
}

func TestNewFiller_Validation(t *testing.T) {
	if _, err := NewFiller[account](nil, accountFields); !errors.Is(err, ErrNilController) {
		t.Fatalf("expected ErrNilController, got %v", err)
	}
	var submitted []account
	if _, err := NewFiller(newAccountController(t, &submitted), nil); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestFieldsFromOpenAPI(t *testing.T) {
	got := FieldsFromOpenAPI([]openapischema.Field{
		{Name: "email", Type: "string", Required: true},
		{Name: "password", Title: "Password", Type: "string", Secret: true, Required: true},
		{Name: "age", Type: "integer"},
		{Name: "role", Type: "string", Enum: []any{"admin", "user"}},
		{Name: "address", Type: "object"},
		{Name: "newsletter", Type: "boolean", Description: "Send me news"},
	})
	want := []Field{
		{Name: "email", Label: "email", Kind: KindText, Required: true},
		{Name: "password", Label: "Password", Kind: KindText, Required: true, Secret: true},
		{Name: "age", Label: "age", Kind: KindInteger},
		{Name: "role", Label: "role", Kind: KindText, Options: []string{"admin", "user"}},
		{Name: "newsletter", Label: "newsletter", Help: "Send me news", Kind: KindBool},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert(t *testing.T) {
	if v, err := convert(Field{Kind: KindNumber}, " 2.5 "); err != nil || v != 2.5 {
		t.Fatalf("number convert = %v, %v", v, err)
	}
	if v, err := convert(Field{Kind: KindInteger}, ""); err != nil || v != nil {
		t.Fatalf("blank integer = %v, %v", v, err)
	}
	if v, _ := convert(Field{Kind: KindText}, " keep "); v != " keep " {
		t.Fatalf("text answers are stored verbatim, got %q", v)
	}
	if v, _ := convert(Field{Kind: KindText}, ""); v != nil {
		t.Fatalf("empty optional text = %v, want nil", v)
	}
	if v, _ := convert(Field{Kind: KindText, Required: true}, ""); v != "" {
		t.Fatalf("empty required text = %v, want empty string", v)
	}
}
