// Package openapischema adapts kin-openapi schemas to the schema.Schema
// capability.
//
// Payloads are normalised to JSON values before validation so Go integers,
// structs and maps validate the same way a decoded request body would. Every
// violation reported by kin-openapi becomes a schema.Issue whose path is the
// JSON pointer of the offending value; object properties expose their
// sub-schemas through schema.FieldSchemas.
//
// Schemas can be built from a raw schema document (JSON or YAML) or from the
// request body of an operation inside a full OpenAPI document.
package openapischema
