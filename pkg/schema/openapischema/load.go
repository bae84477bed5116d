package openapischema

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNilSchema is returned when no schema was provided.
	ErrNilSchema = errors.New("openapischema: schema is nil")
	// ErrOperationNotFound is returned when an operation id is not declared.
	ErrOperationNotFound = errors.New("openapischema: operation not found")
	// ErrNoRequestSchema is returned when an operation has no request body
	// schema.
	ErrNoRequestSchema = errors.New("openapischema: operation has no request body schema")
)

// FromJSON decodes a standalone schema document.
func FromJSON[T any](data []byte) (*Schema[T], error) {
	if len(data) == 0 {
		return nil, errors.New("openapischema: schema payload is empty")
	}
	root := &openapi3.Schema{}
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, errors.Wrap(err, "openapischema: decode schema")
	}
	return New[T](root)
}

// FromYAML decodes a standalone schema document written in YAML.
func FromYAML[T any](data []byte) (*Schema[T], error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "openapischema: decode yaml")
	}
	raw, err := gojson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "openapischema: convert yaml")
	}
	return FromJSON[T](raw)
}

// FromDocument picks JSON or YAML decoding from the payload's first
// significant byte.
func FromDocument[T any](data []byte) (*Schema[T], error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return FromJSON[T](data)
	}
	return FromYAML[T](data)
}

// mediaTypes lists request body content types in preference order.
var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// FromOperation loads an OpenAPI document and returns the request body schema
// of the operation named operationID. Local references are resolved by the
// loader.
func FromOperation[T any](ctx context.Context, data []byte, operationID string) (*Schema[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Wrap(err, "openapischema: load document")
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return nil, errors.Wrapf(ErrOperationNotFound, "operation %q", operationID)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.Wrapf(ErrNoRequestSchema, "operation %q", operationID)
	}

	content := op.RequestBody.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return New[T](mt.Schema.Value)
		}
	}
	for _, name := range sortedMediaTypes(content) {
		if mt := content[name]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return New[T](mt.Schema.Value)
		}
	}
	return nil, errors.Wrapf(ErrNoRequestSchema, "operation %q", operationID)
}

// OperationIDs lists every operation id declared in an OpenAPI document.
func OperationIDs(ctx context.Context, data []byte) ([]string, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Wrap(err, "openapischema: load document")
	}
	var ids []string
	forEachOperation(doc, func(op *openapi3.Operation) bool {
		if op.OperationID != "" {
			ids = append(ids, op.OperationID)
		}
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	var found *openapi3.Operation
	forEachOperation(doc, func(op *openapi3.Operation) bool {
		if op.OperationID == operationID {
			found = op
			return false
		}
		return true
	})
	return found
}

func forEachOperation(doc *openapi3.T, fn func(*openapi3.Operation) bool) {
	if doc == nil || doc.Paths == nil {
		return
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		item := paths[key]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Get, item.Put, item.Post, item.Delete, item.Patch, item.Head, item.Options, item.Trace} {
			if op == nil {
				continue
			}
			if !fn(op) {
				return
			}
		}
	}
}

func sortedMediaTypes(content openapi3.Content) []string {
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
