package validation

import "github.com/cockroachdb/errors"

const (
	// GeneralKey holds failures that cannot be attributed to a field.
	GeneralKey = "_general"
	// FallbackMessage is reported when a schema fails in an unrecognized way.
	FallbackMessage = "unknown validation error"
	// FieldFallbackMessage is reported by ValidateField for unrecognized
	// failures of a field schema.
	FieldFallbackMessage = "validation error"
	// InvalidFieldMessage is used when a field schema reports an issue list
	// without any entries.
	InvalidFieldMessage = "invalid field"
)

// ErrSchemaPanicked wraps a panic raised by a schema during Parse.
var ErrSchemaPanicked = errors.New("validation: schema panicked")

// ErrNilSchema is returned by Parse when no schema was supplied.
var ErrNilSchema = errors.New("validation: schema is nil")
