// Package schemas bundles the field rules and user payload schemas shared by
// the application forms.
//
// Rules are registered as validator tags (cpf, cnpj, phone_br, has_upper,
// has_lower, has_digit, has_special, not_blank, future, past) and payloads are
// tagschema.Schema values built on top of them.
package schemas
