package schema

// Schema converts raw input into a typed value. A non-conforming input must be
// reported through a *IssueError; any other error is treated by consumers as an
// unrecognized failure.
type Schema[T any] interface {
	Parse(raw any) (T, error)
}

// FieldSchemas is implemented by object-shaped schemas that can hand out the
// sub-schema of one named field. The capability is optional: callers must
// treat its absence, and a false return, as "field unknown" rather than as an
// error.
type FieldSchemas interface {
	FieldSchema(name string) (Schema[any], bool)
}

// Func adapts a plain function to the Schema interface.
type Func[T any] func(raw any) (T, error)

// Parse calls f(raw).
func (f Func[T]) Parse(raw any) (T, error) {
	return f(raw)
}

// Object composes per-field schemas into an object-shaped Schema over
// map[string]any. Missing keys are passed to the field schema as nil so each
// field decides whether it is required. Keys not listed in Fields are dropped
// from the parsed value.
type Object struct {
	Fields map[string]Schema[any]
	// Refine runs after every field passed and may report cross-field issues.
	Refine func(map[string]any) []Issue
}

var _ FieldSchemas = Object{}

// Parse validates each declared field and returns the parsed map.
func (o Object) Parse(raw any) (map[string]any, error) {
	input, ok := raw.(map[string]any)
	if !ok {
		return nil, NewIssueError(Issue{Message: "expected object", Code: CodeInvalidType})
	}

	out := make(map[string]any, len(o.Fields))
	var issues []Issue
	for _, name := range sortedKeys(o.Fields) {
		value, err := o.Fields[name].Parse(input[name])
		if err != nil {
			nested, ok := AsIssueError(err)
			if !ok {
				return nil, err
			}
			for _, issue := range nested.Issues {
				issues = append(issues, issue.Prefixed(name))
			}
			continue
		}
		if value != nil {
			out[name] = value
		}
	}
	if len(issues) == 0 && o.Refine != nil {
		issues = o.Refine(out)
	}
	if len(issues) > 0 {
		return nil, NewIssueError(issues...)
	}
	return out, nil
}

// FieldSchema returns the schema declared for name.
func (o Object) FieldSchema(name string) (Schema[any], bool) {
	s, ok := o.Fields[name]
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Erase wraps a typed schema so it can be used where a Schema[any] is
// expected, such as a field of an Object. The FieldSchemas capability of s is
// preserved.
func Erase[T any](s Schema[T]) Schema[any] {
	if s == nil {
		return nil
	}
	if already, ok := any(s).(Schema[any]); ok {
		return already
	}
	return erased[T]{inner: s}
}

type erased[T any] struct {
	inner Schema[T]
}

func (e erased[T]) Parse(raw any) (any, error) {
	return e.inner.Parse(raw)
}

func (e erased[T]) FieldSchema(name string) (Schema[any], bool) {
	fields, ok := any(e.inner).(FieldSchemas)
	if !ok {
		return nil, false
	}
	return fields.FieldSchema(name)
}
