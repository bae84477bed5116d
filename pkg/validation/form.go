package validation

import (
	"strings"
	"time"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// ValidateForm validates a whole payload and keeps rule codes alongside
// messages. Issues reported without a path are root-level refinements: when
// they are the only issues they become GeneralError, otherwise they are kept
// under GeneralKey next to the field errors.
func ValidateForm[T any](s schema.Schema[T], payload any, opts ...Option) FormResult[T] {
	cfg := newSettings(opts)
	start := time.Now()

	value, err := run(s, payload)
	if err == nil {
		cfg.observer.Observe(OpForm, OutcomeValid, time.Since(start))
		return FormResult[T]{IsValid: true, Data: value}
	}

	issueErr, ok := schema.AsIssueError(err)
	if !ok || len(issueErr.Issues) == 0 {
		cfg.logger.Debug().Err(err).Msg("validation: unrecognized schema failure")
		cfg.observer.Observe(OpForm, OutcomeGeneral, time.Since(start))
		return FormResult[T]{GeneralError: FallbackMessage}
	}

	fieldErrors := make(map[string]FieldError, len(issueErr.Issues))
	var rootMessages []string
	for _, issue := range issueErr.Issues {
		path := issue.Path.String()
		if path == "" {
			rootMessages = append(rootMessages, issue.Message)
			path = GeneralKey
		}
		fieldErrors[path] = FieldError{Message: issue.Message, Code: issue.Code}
	}

	if len(rootMessages) == len(issueErr.Issues) {
		cfg.observer.Observe(OpForm, OutcomeGeneral, time.Since(start))
		return FormResult[T]{GeneralError: rootMessages[0]}
	}

	cfg.observer.Observe(OpForm, OutcomeInvalid, time.Since(start))
	return FormResult[T]{FieldErrors: fieldErrors}
}

// ValidateField checks one field against its sub-schema. The field path may
// be dotted to reach nested object fields. It returns nil when the value
// passes, when s does not expose field schemas, or when the field is unknown
// to it; partial validation never blocks the caller.
func ValidateField[T any](s schema.Schema[T], fieldPath string, value any, opts ...Option) *FieldError {
	if s == nil {
		return nil
	}
	fieldSchema, ok := LookupField(any(s), fieldPath)
	if !ok {
		return nil
	}

	cfg := newSettings(opts)
	start := time.Now()

	_, err := run(fieldSchema, value)
	if err == nil {
		cfg.observer.Observe(OpField, OutcomeValid, time.Since(start))
		return nil
	}

	issueErr, ok := schema.AsIssueError(err)
	if !ok {
		cfg.logger.Debug().Err(err).Str("field", fieldPath).Msg("validation: unrecognized field schema failure")
		cfg.observer.Observe(OpField, OutcomeGeneral, time.Since(start))
		return &FieldError{Message: FieldFallbackMessage}
	}

	cfg.observer.Observe(OpField, OutcomeInvalid, time.Since(start))
	if len(issueErr.Issues) == 0 {
		return &FieldError{Message: InvalidFieldMessage}
	}
	first := issueErr.Issues[0]
	return &FieldError{Message: first.Message, Code: first.Code}
}

// LookupField walks a dotted path through nested FieldSchemas capabilities.
func LookupField(s any, fieldPath string) (schema.Schema[any], bool) {
	fieldPath = strings.TrimSpace(fieldPath)
	if fieldPath == "" {
		return nil, false
	}

	current := s
	var found schema.Schema[any]
	for _, segment := range strings.Split(fieldPath, ".") {
		fields, ok := current.(schema.FieldSchemas)
		if !ok {
			return nil, false
		}
		next, ok := fields.FieldSchema(segment)
		if !ok || next == nil {
			return nil, false
		}
		found = next
		current = next
	}
	return found, found != nil
}
