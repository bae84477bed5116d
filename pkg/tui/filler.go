package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formvalidate/pkg/form"
	"github.com/goliatone/go-formvalidate/pkg/schema/openapischema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// Kind selects how a prompt answer is converted before it reaches the form.
type Kind string

const (
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBool    Kind = "boolean"
)

// Field describes one prompt. Name is the dotted form path the answer is
// stored under.
type Field struct {
	Name     string
	Label    string
	Help     string
	Kind     Kind
	Required bool
	Secret   bool
	Options  []string
}

// FieldsFromOpenAPI turns openapi property listings into prompt fields.
// Object and array properties are skipped since they cannot be answered with
// a single prompt.
func FieldsFromOpenAPI(fields []openapischema.Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		kind := Kind(f.Type)
		switch kind {
		case KindInteger, KindNumber, KindBool:
		case "", "string":
			kind = KindText
		default:
			continue
		}
		label := f.Title
		if label == "" {
			label = f.Name
		}
		field := Field{
			Name:     f.Name,
			Label:    label,
			Help:     f.Description,
			Kind:     kind,
			Required: f.Required,
			Secret:   f.Secret,
		}
		for _, option := range f.Enum {
			field.Options = append(field.Options, fmt.Sprint(option))
		}
		out = append(out, field)
	}
	return out
}

// Filler drives a form controller from terminal prompts. Each answer is
// written with SetValue and checked with ValidateField before the next prompt;
// the form is then submitted through HandleSubmit.
type Filler[T any] struct {
	driver    PromptDriver
	ctrl      *form.Controller[T]
	fields    []Field
	logger    zerolog.Logger
	maxRounds int
}

// FillerOption customises a Filler.
type FillerOption func(*fillerOptions)

type fillerOptions struct {
	driver    PromptDriver
	logger    zerolog.Logger
	maxRounds int
}

// WithDriver swaps the prompt driver, typically for tests.
func WithDriver(driver PromptDriver) FillerOption {
	return func(o *fillerOptions) {
		if driver != nil {
			o.driver = driver
		}
	}
}

// WithLogger sets the logger used for fill progress.
func WithLogger(logger zerolog.Logger) FillerOption {
	return func(o *fillerOptions) {
		o.logger = logger
	}
}

// WithMaxRounds bounds how many times failed fields are prompted again after a
// rejected submit. Values below one are ignored.
func WithMaxRounds(n int) FillerOption {
	return func(o *fillerOptions) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// NewFiller builds a Filler over ctrl.
func NewFiller[T any](ctrl *form.Controller[T], fields []Field, opts ...FillerOption) (*Filler[T], error) {
	if ctrl == nil {
		return nil, ErrNilController
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	cfg := fillerOptions{logger: zerolog.Nop(), maxRounds: 3}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(nil)
	}
	return &Filler[T]{
		driver:    cfg.driver,
		ctrl:      ctrl,
		fields:    append([]Field(nil), fields...),
		logger:    cfg.logger,
		maxRounds: cfg.maxRounds,
	}, nil
}

// Run prompts every field, asks for confirmation and submits. When the submit
// is rejected by validation the failing fields are prompted again, up to the
// configured number of rounds. It reports whether the submit callback ran.
func (f *Filler[T]) Run(ctx context.Context) (bool, error) {
	pending := f.fields
	for round := 1; round <= f.maxRounds; round++ {
		for _, field := range pending {
			if err := f.prompt(ctx, field); err != nil {
				return false, err
			}
		}

		ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return false, err
		}
		if !ok {
			f.logger.Debug().Msg("tui: submit declined")
			return false, nil
		}

		if f.ctrl.HandleSubmit(ctx, nil) {
			return true, nil
		}

		pending = f.failedFields()
		if err := f.report(ctx); err != nil {
			return false, err
		}
		if len(pending) == 0 {
			break
		}
		f.logger.Debug().Int("round", round).Int("failed", len(pending)).Msg("tui: prompting failed fields again")
	}
	return false, nil
}

func (f *Filler[T]) prompt(ctx context.Context, field Field) error {
	current, _ := f.ctrl.Value(field.Name)
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}

	switch {
	case field.Kind == KindBool:
		def, _ := current.(bool)
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: field.Help})
		if err != nil {
			return err
		}
		f.ctrl.SetValue(field.Name, answer)
		f.ctrl.ValidateField(field.Name)
		return nil

	case len(field.Options) > 0:
		def := -1
		if s, ok := current.(string); ok {
			def = indexOf(field.Options, s)
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: label, Options: field.Options, DefaultIndex: def, Help: field.Help})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			return errors.Newf("tui: answer for %q is not an option", field.Name)
		}
		f.ctrl.SetValue(field.Name, field.Options[idx])
		f.ctrl.ValidateField(field.Name)
		return nil
	}

	cfg := InputConfig{
		Message:   label,
		Help:      field.Help,
		Validator: f.fieldValidator(field),
	}
	if current != nil && !field.Secret {
		cfg.Default = fmt.Sprint(current)
	}

	ask := f.driver.Input
	if field.Secret {
		ask = f.driver.Password
	}
	answer, err := ask(ctx, cfg)
	if err != nil {
		return err
	}
	value, err := convert(field, answer)
	if err != nil {
		return err
	}
	f.ctrl.SetValue(field.Name, value)
	f.ctrl.ValidateField(field.Name)
	return nil
}

// fieldValidator checks an answer the way the form will: convert, store, and
// validate the single field.
func (f *Filler[T]) fieldValidator(field Field) func(string) error {
	return func(answer string) error {
		value, err := convert(field, answer)
		if err != nil {
			return err
		}
		f.ctrl.SetValue(field.Name, value)
		if f.ctrl.ValidateField(field.Name) {
			return nil
		}
		if fe, ok := f.ctrl.State().ErrorFor(field.Name); ok {
			return errors.New(fe.Message)
		}
		return errors.New(validation.InvalidFieldMessage)
	}
}

func (f *Filler[T]) failedFields() []Field {
	state := f.ctrl.State()
	var out []Field
	for _, field := range f.fields {
		if _, ok := state.Errors[field.Name]; ok {
			out = append(out, field)
		}
	}
	return out
}

func (f *Filler[T]) report(ctx context.Context) error {
	state := f.ctrl.State()
	if msg, ok := state.ErrorFor(validation.GeneralKey); ok {
		if err := f.driver.Info(ctx, "! "+msg.Message); err != nil {
			return err
		}
	}
	for _, field := range f.fields {
		if fe, ok := state.ErrorFor(field.Name); ok {
			if err := f.driver.Info(ctx, fmt.Sprintf("! %s: %s", field.Name, fe.Message)); err != nil {
				return err
			}
		}
	}
	return nil
}

// convert turns a raw answer into the value stored in the form. Blank answers
// to numeric prompts, and empty answers to optional text prompts, become nil so
// the field is left out of the form.
func convert(field Field, answer string) (any, error) {
	switch field.Kind {
	case KindInteger:
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			return nil, errors.Newf("%s must be a whole number", field.Name)
		}
		return n, nil
	case KindNumber:
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, errors.Newf("%s must be a number", field.Name)
		}
		return n, nil
	}
	if answer == "" && !field.Required {
		return nil, nil
	}
	return answer, nil
}
