package validation

// Result is the outcome of the core validator. Exactly one side is populated:
// Success with Data, or failure with a non-empty Errors table keyed by dotted
// field path.
type Result[T any] struct {
	Success bool
	Data    T
	Errors  map[string]string
}

// Value returns the parsed data and whether the result is a success.
func (r Result[T]) Value() (T, bool) {
	return r.Data, r.Success
}

// FieldError describes one field failing one rule. Code is empty when the
// schema did not name the rule.
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FormResult is the outcome of ValidateForm. When IsValid is true Data is set;
// otherwise exactly one of FieldErrors or GeneralError is populated.
type FormResult[T any] struct {
	IsValid      bool
	Data         T
	FieldErrors  map[string]FieldError
	GeneralError string
}

// HasGeneralError reports whether the failure could not be attributed to
// individual fields.
func (r FormResult[T]) HasGeneralError() bool {
	return !r.IsValid && r.GeneralError != ""
}
