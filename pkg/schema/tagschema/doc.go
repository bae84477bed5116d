// Package tagschema adapts go-playground/validator struct tags to the
// schema.Schema capability.
//
// A Schema[T] decodes raw payloads into T through JSON, lets T normalise
// itself when it implements Normalizer, and then runs the validator over the
// struct. Field paths in reported issues use json tag names, so the keys match
// what a client sent rather than the Go field names.
package tagschema
