// Package schema defines the capability the validation core consumes: a value
// that can turn raw input into a typed value or report field-scoped issues.
//
// The package intentionally carries no schema language. Concrete engines live
// in sub-packages (openapischema, tagschema) or in the caller's code; the
// validation and form packages depend only on the interfaces declared here so
// the engine behind them stays swappable.
package schema
