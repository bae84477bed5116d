package openapischema

import (
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// Schema validates values against an openapi3.Schema and decodes them into T.
type Schema[T any] struct {
	root     *openapi3.Schema
	presence presence
}

// presence records how a property sub-schema treats an absent value. Root
// schemas leave absence to VisitJSON.
type presence int

const (
	presenceAny presence = iota
	presenceOptional
	presenceRequired
)

var (
	_ schema.Schema[map[string]any] = (*Schema[map[string]any])(nil)
	_ schema.FieldSchemas           = (*Schema[map[string]any])(nil)
)

// New wraps an already built openapi3 schema.
func New[T any](root *openapi3.Schema) (*Schema[T], error) {
	if root == nil {
		return nil, ErrNilSchema
	}
	return &Schema[T]{root: root}, nil
}

// Raw exposes the underlying kin-openapi schema.
func (s *Schema[T]) Raw() *openapi3.Schema {
	return s.root
}

// Parse validates raw and decodes the normalised value into T.
func (s *Schema[T]) Parse(raw any) (T, error) {
	var out T

	if raw == nil {
		switch s.presence {
		case presenceOptional:
			return out, nil
		case presenceRequired:
			if !s.root.Nullable {
				return out, schema.NewIssueError(schema.Issue{Message: "is required", Code: schema.CodeRequired})
			}
		}
	}

	normalized, err := normalize(raw)
	if err != nil {
		return out, schema.NewIssueError(schema.Issue{
			Message: "value is not JSON compatible",
			Code:    schema.CodeInvalidType,
		})
	}

	if err := s.root.VisitJSON(normalized, openapi3.MultiErrors()); err != nil {
		issues, ok := issuesFromError(err)
		if !ok {
			return out, errors.Wrap(err, "openapischema: validate")
		}
		return out, schema.NewIssueError(issues...)
	}

	if err := decode(normalized, &out); err != nil {
		return out, errors.Wrapf(err, "openapischema: decode into %T", out)
	}
	return out, nil
}

// FieldSchema returns the sub-schema declared under properties[name]. A nil
// value passes when name is not in the parent's required list, matching what
// a full Parse accepts for an absent property.
func (s *Schema[T]) FieldSchema(name string) (schema.Schema[any], bool) {
	if s.root == nil || s.root.Properties == nil {
		return nil, false
	}
	ref, ok := s.root.Properties[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, false
	}
	p := presenceOptional
	if slices.Contains(s.root.Required, name) {
		p = presenceRequired
	}
	return &Schema[any]{root: ref.Value, presence: p}, true
}

// normalize round-trips raw through JSON so kin-openapi only sees
// map[string]any, []any, float64, string, bool and nil.
func normalize(raw any) (any, error) {
	data, err := gojson.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	if err := gojson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(normalized any, target any) error {
	data, err := gojson.Marshal(normalized)
	if err != nil {
		return err
	}
	return gojson.Unmarshal(data, target)
}

// issuesFromError flattens kin-openapi errors into issues. It reports false
// when any of the errors is not a schema violation.
func issuesFromError(err error) ([]schema.Issue, bool) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var issues []schema.Issue
		for _, inner := range multi {
			nested, ok := issuesFromError(inner)
			if !ok {
				return nil, false
			}
			issues = append(issues, nested...)
		}
		return issues, len(issues) > 0
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []schema.Issue{issueFromSchemaError(schemaErr)}, true
	}
	return nil, false
}

func issueFromSchemaError(err *openapi3.SchemaError) schema.Issue {
	pointer := err.JSONPointer()
	path := make(schema.Path, 0, len(pointer))
	for _, segment := range pointer {
		if idx, convErr := strconv.Atoi(segment); convErr == nil {
			path = append(path, idx)
			continue
		}
		path = append(path, segment)
	}

	message := err.Reason
	if message == "" {
		message = err.Error()
	}
	return schema.Issue{
		Path:    path,
		Message: message,
		Code:    codeFor(err.SchemaField),
	}
}

var schemaFieldCodes = map[string]string{
	"required":             schema.CodeRequired,
	"type":                 schema.CodeInvalidType,
	"nullable":             schema.CodeInvalidType,
	"minLength":            schema.CodeTooShort,
	"maxLength":            schema.CodeTooLong,
	"minimum":              schema.CodeTooSmall,
	"exclusiveMinimum":     schema.CodeTooSmall,
	"minItems":             schema.CodeTooSmall,
	"maximum":              schema.CodeTooBig,
	"exclusiveMaximum":     schema.CodeTooBig,
	"maxItems":             schema.CodeTooBig,
	"pattern":              schema.CodePattern,
	"enum":                 schema.CodeInvalidEnum,
	"format":               schema.CodeInvalidFormat,
	"additionalProperties": "unknown_key",
}

func codeFor(field string) string {
	if code, ok := schemaFieldCodes[field]; ok {
		return code
	}
	return field
}
