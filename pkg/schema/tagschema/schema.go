package tagschema

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// ErrNotStruct is returned by New when T is not a struct type.
var ErrNotStruct = errors.New("tagschema: type parameter must be a struct")

// Normalizer is implemented by payloads that clean themselves up (trim,
// lowercase) after decoding and before validation.
type Normalizer interface {
	Normalize()
}

// Schema validates T values using `validate` struct tags.
type Schema[T any] struct {
	*settings
}

var (
	_ schema.Schema[struct{}] = (*Schema[struct{}])(nil)
	_ schema.FieldSchemas     = (*Schema[struct{}])(nil)
)

type settings struct {
	validate    *validator.Validate
	messages    map[string]MessageFunc
	rules       []rule
	structRules []validator.StructLevelFunc
}

type rule struct {
	tag     string
	fn      validator.Func
	message string
}

// Option configures a Schema.
type Option func(*settings)

// WithValidator reuses an existing validator instance. Its tag name function
// is replaced so paths use json names.
func WithValidator(v *validator.Validate) Option {
	return func(s *settings) {
		if v != nil {
			s.validate = v
		}
	}
}

// WithMessage overrides the message rendered for tag.
func WithMessage(tag string, fn MessageFunc) Option {
	return func(s *settings) {
		s.messages[tag] = fn
	}
}

// WithRule registers a custom validation tag together with its message.
func WithRule(tag string, fn validator.Func, message string) Option {
	return func(s *settings) {
		s.rules = append(s.rules, rule{tag: tag, fn: fn, message: message})
	}
}

// WithStructRule registers a struct level validation for T, used for checks
// spanning several fields.
func WithStructRule(fn validator.StructLevelFunc) Option {
	return func(s *settings) {
		if fn != nil {
			s.structRules = append(s.structRules, fn)
		}
	}
}

// New builds a Schema for the struct type T.
func New[T any](opts ...Option) (*Schema[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "got %s", typ)
	}

	s := &settings{messages: defaultMessages()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	s.validate.RegisterTagNameFunc(jsonName)

	for _, r := range s.rules {
		if err := s.validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, errors.Wrapf(err, "tagschema: register %q", r.tag)
		}
		if r.message != "" {
			if _, overridden := s.messages[r.tag]; !overridden {
				s.messages[r.tag] = fixed(r.message)
			}
		}
	}
	if len(s.structRules) > 0 {
		var zero T
		for _, fn := range s.structRules {
			s.validate.RegisterStructValidation(fn, zero)
		}
	}
	return &Schema[T]{settings: s}, nil
}

// Validator exposes the underlying validator.
func (s *Schema[T]) Validator() *validator.Validate {
	return s.validate
}

// Parse decodes raw into T, normalises it and validates its tags.
func (s *Schema[T]) Parse(raw any) (T, error) {
	out, err := decode[T](raw)
	if err != nil {
		return out, err
	}
	if n, ok := any(&out).(Normalizer); ok {
		n.Normalize()
	}
	if err := s.validate.Struct(out); err != nil {
		return out, s.convert(err)
	}
	return out, nil
}

// FieldSchema returns a schema validating only the field whose json name is
// name. Cross-field tags are skipped.
func (s *Schema[T]) FieldSchema(name string) (schema.Schema[any], bool) {
	return s.lookup(reflect.TypeFor[T](), name)
}

func (s *settings) lookup(typ reflect.Type, name string) (schema.Schema[any], bool) {
	typ = indirect(typ)
	if typ.Kind() != reflect.Struct {
		return nil, false
	}
	field, ok := fieldByJSONName(typ, name)
	if !ok {
		return nil, false
	}
	return &fieldSchema{settings: s, parent: typ, field: field}, true
}

func (s *settings) convert(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]schema.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, schema.Issue{
			Path:    namespacePath(fe.Namespace()),
			Message: s.message(fe),
			Code:    codeFor(fe),
		})
	}
	return schema.NewIssueError(issues...)
}

type fieldSchema struct {
	*settings
	parent reflect.Type
	field  reflect.StructField
}

func (f *fieldSchema) Parse(raw any) (any, error) {
	target := reflect.New(f.field.Type)
	if raw != nil {
		data, err := gojson.Marshal(raw)
		if err != nil {
			return nil, schema.NewIssueError(invalidType(nil))
		}
		if err := gojson.Unmarshal(data, target.Interface()); err != nil {
			return nil, schema.NewIssueError(invalidType(nil))
		}
	}
	elem := f.normalize(target.Elem())
	value := elem.Interface()

	if tag := fieldRules(f.field.Tag.Get("validate")); tag != "" {
		if err := f.validate.Var(value, tag); err != nil {
			return nil, f.convert(err)
		}
	}
	if raw != nil && indirect(f.field.Type).Kind() == reflect.Struct {
		if elem.Kind() != reflect.Pointer || !elem.IsNil() {
			if err := f.validate.Struct(value); err != nil {
				return nil, f.convert(err)
			}
		}
	}
	return value, nil
}

// normalize runs the parent's Normalize hook over a lone field value so single
// field checks see the same input a full Parse would.
func (f *fieldSchema) normalize(v reflect.Value) reflect.Value {
	holder := reflect.New(f.parent)
	n, ok := holder.Interface().(Normalizer)
	if !ok {
		return v
	}
	field := holder.Elem().FieldByIndex(f.field.Index)
	field.Set(v)
	n.Normalize()
	return field
}

func (f *fieldSchema) FieldSchema(name string) (schema.Schema[any], bool) {
	return f.lookup(f.field.Type, name)
}

// fieldRules drops tags that reference sibling fields, which cannot be
// evaluated on a lone value.
func fieldRules(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	parts := strings.Split(tag, ",")
	kept := parts[:0]
	for _, part := range parts {
		name, _, _ := strings.Cut(part, "=")
		if strings.HasSuffix(name, "field") || strings.HasPrefix(name, "required_") || strings.HasPrefix(name, "excluded_") {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ",")
}

func decode[T any](raw any) (T, error) {
	var out T
	switch v := raw.(type) {
	case nil:
		return out, schema.NewIssueError(schema.Issue{Message: "is required", Code: schema.CodeRequired})
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, schema.NewIssueError(schema.Issue{Message: "is required", Code: schema.CodeRequired})
		}
		return *v, nil
	}

	data, err := gojson.Marshal(raw)
	if err != nil {
		return out, schema.NewIssueError(invalidType(nil))
	}
	if err := gojson.Unmarshal(data, &out); err != nil {
		var typeErr *gojson.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out, schema.NewIssueError(invalidType(goFieldPath(reflect.TypeOf(out), typeErr.Struct, typeErr.Field)))
		}
		return out, schema.NewIssueError(invalidType(nil))
	}
	return out, nil
}

func invalidType(path schema.Path) schema.Issue {
	message := "expected object"
	if len(path) > 0 {
		message = "has the wrong type"
	}
	return schema.Issue{Path: path, Message: message, Code: schema.CodeInvalidType}
}

// goFieldPath finds the json path of the Go field goField declared on the
// struct named structName somewhere below root.
func goFieldPath(root reflect.Type, structName, goField string) schema.Path {
	if goField == "" {
		return nil
	}
	path, _ := searchField(indirect(root), structName, goField, nil, map[reflect.Type]bool{})
	return path
}

func searchField(typ reflect.Type, structName, goField string, prefix schema.Path, seen map[reflect.Type]bool) (schema.Path, bool) {
	typ = elemType(typ)
	if typ.Kind() != reflect.Struct || seen[typ] {
		return nil, false
	}
	seen[typ] = true
	if typ.Name() == structName {
		if field, ok := typ.FieldByName(goField); ok {
			return append(append(schema.Path{}, prefix...), fieldName(field)), true
		}
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		next := append(append(schema.Path{}, prefix...), fieldName(field))
		if found, ok := searchField(field.Type, structName, goField, next, seen); ok {
			return found, true
		}
	}
	return nil, false
}

func fieldByJSONName(typ reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if jsonName(field) == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func fieldName(field reflect.StructField) string {
	if name := jsonName(field); name != "" {
		return name
	}
	return field.Name
}

// namespacePath turns "Type.tags[1].name" into the path tags.1.name.
func namespacePath(ns string) schema.Path {
	ns = strings.ReplaceAll(ns, "]", "")
	ns = strings.ReplaceAll(ns, "[", ".")
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return nil
	}
	return schema.ParsePath(rest)
}

func indirect(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func elemType(typ reflect.Type) reflect.Type {
	for {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			typ = typ.Elem()
		default:
			return typ
		}
	}
}
