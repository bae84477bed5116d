package form

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

// SubmitFunc receives the fully parsed payload once validation passed.
type SubmitFunc[T any] func(ctx context.Context, data T) error

// Config describes the schema and callbacks a Controller drives.
type Config[T any] struct {
	Schema        schema.Schema[T]
	InitialValues map[string]any
	OnSubmit      SubmitFunc[T]
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger     zerolog.Logger
	observer   validation.Observer
	sanitize   func(string) string
	idProvider func() string
}

// WithLogger sets the logger used for submission traces, including submit
// failures swallowed by HandleSubmit.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver forwards validation and submission outcomes to observer.
func WithObserver(observer validation.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithMessageSanitizer overrides the sanitizer applied to server error
// messages in ApplyServerErrors.
func WithMessageSanitizer(fn func(string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.sanitize = fn
		}
	}
}

// WithSubmissionIDs overrides the generator used to tag submission log lines.
func WithSubmissionIDs(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.idProvider = fn
		}
	}
}
