package validation_test

import (
	"errors"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

func nonEmptyString(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, schema.NewIssueError(schema.Issue{Message: "expected string", Code: schema.CodeInvalidType})
	}
	if s == "" {
		return nil, schema.NewIssueError(schema.Issue{Message: "must not be empty", Code: schema.CodeTooShort})
	}
	return s, nil
}

func positiveNumber(raw any) (any, error) {
	var n float64
	switch v := raw.(type) {
	case int:
		n = float64(v)
	case float64:
		n = v
	default:
		return nil, schema.NewIssueError(schema.Issue{Message: "expected number", Code: schema.CodeInvalidType})
	}
	if n <= 0 {
		return nil, schema.NewIssueError(schema.Issue{Message: "must be positive", Code: schema.CodeTooSmall})
	}
	return raw, nil
}

// personSchema requires {name: non-empty string, age: positive number}.
func personSchema() schema.Object {
	return schema.Object{Fields: map[string]schema.Schema[any]{
		"name": schema.Func[any](nonEmptyString),
		"age":  schema.Func[any](positiveNumber),
	}}
}

var errBoom = errors.New("boom")

func failingSchema(err error) schema.Schema[any] {
	return schema.Func[any](func(any) (any, error) { return nil, err })
}

// issuesSchema always fails with the provided issues.
func issuesSchema(issues ...schema.Issue) schema.Schema[any] {
	return schema.Func[any](func(any) (any, error) { return nil, schema.NewIssueError(issues...) })
}
