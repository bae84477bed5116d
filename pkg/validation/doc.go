// Package validation turns a schema.Schema into uniform results.
//
// Three layers live here:
//
//   - the core validator (NewValidator, SafeParse, Parse) which maps schema
//     issues to a path -> message table;
//   - the form validator (ValidateForm, ValidateField) which keeps rule codes
//     and supports best-effort single-field checks;
//   - the async validator (NewAsyncValidator, ValidateAsync) which debounces
//     bursts of calls into one evaluation.
//
// Entry points never panic and never return errors for invalid input; the
// only exceptions are Parse and MustParse, which hand the schema's failure
// back to callers that prefer error-style control flow.
//
// The async validator keeps a documented quirk: a call superseded by a later
// call inside the debounce window is abandoned and its channel never
// receives. Use Await with a context to stop waiting on such calls.
package validation
