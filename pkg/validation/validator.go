package validation

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// Validator runs a schema against raw input and always returns a Result.
type Validator[T any] func(raw any) Result[T]

// NewValidator wraps s into a Validator.
func NewValidator[T any](s schema.Schema[T], opts ...Option) Validator[T] {
	cfg := newSettings(opts)
	return func(raw any) Result[T] {
		return safeParse(cfg, OpParse, s, raw)
	}
}

// SafeParse validates raw against s in one call.
func SafeParse[T any](s schema.Schema[T], raw any, opts ...Option) Result[T] {
	cfg := newSettings(opts)
	return safeParse(cfg, OpParse, s, raw)
}

// Parse returns the schema's typed value or its failure unchanged.
func Parse[T any](s schema.Schema[T], raw any) (T, error) {
	if s == nil {
		var zero T
		return zero, ErrNilSchema
	}
	return s.Parse(raw)
}

// MustParse is like Parse but panics with the schema's failure.
func MustParse[T any](s schema.Schema[T], raw any) T {
	value, err := Parse(s, raw)
	if err != nil {
		panic(err)
	}
	return value
}

func safeParse[T any](cfg settings, op Op, s schema.Schema[T], raw any) Result[T] {
	start := time.Now()
	value, err := run(s, raw)
	if err == nil {
		cfg.observer.Observe(op, OutcomeValid, time.Since(start))
		return Result[T]{Success: true, Data: value}
	}

	if issueErr, ok := schema.AsIssueError(err); ok && len(issueErr.Issues) > 0 {
		errs := make(map[string]string, len(issueErr.Issues))
		for _, issue := range issueErr.Issues {
			errs[issue.Path.String()] = issue.Message
		}
		cfg.observer.Observe(op, OutcomeInvalid, time.Since(start))
		return Result[T]{Errors: errs}
	}

	cfg.logger.Debug().Err(err).Msg("validation: unrecognized schema failure")
	cfg.observer.Observe(op, OutcomeGeneral, time.Since(start))
	return Result[T]{Errors: map[string]string{GeneralKey: FallbackMessage}}
}

// run calls s.Parse and converts a panic into an error.
func run[T any](s schema.Schema[T], raw any) (value T, err error) {
	if s == nil {
		return value, ErrNilSchema
	}
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			value = zero
			err = fmt.Errorf("%w: %v", ErrSchemaPanicked, rec)
		}
	}()
	return s.Parse(raw)
}
