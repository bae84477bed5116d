package openapischema_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/schema/openapischema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

type person struct {
	Name string  `json:"name"`
	Age  float64 `json:"age"`
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func personSchema(t *testing.T) *openapischema.Schema[person] {
	t.Helper()
	s, err := openapischema.FromJSON[person](readFixture(t, "person.schema.json"))
	require.NoError(t, err)
	return s
}

func issuePaths(t *testing.T, err error) map[string]string {
	t.Helper()
	issueErr, ok := schema.AsIssueError(err)
	require.True(t, ok, "expected issue error, got %v", err)
	out := make(map[string]string, len(issueErr.Issues))
	for _, issue := range issueErr.Issues {
		assert.NotEmpty(t, issue.Message)
		out[issue.Path.String()] = issue.Code
	}
	return out
}

func TestParse_ValidDecodesIntoT(t *testing.T) {
	s := personSchema(t)

	got, err := s.Parse(map[string]any{"name": "Ana", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Ana", Age: 30}, got)
}

func TestParse_ReportsEveryViolation(t *testing.T) {
	s := personSchema(t)

	_, err := s.Parse(map[string]any{"name": "", "age": -1})
	assert.Equal(t, map[string]string{
		"name": schema.CodeTooShort,
		"age":  schema.CodeTooSmall,
	}, issuePaths(t, err))
}

func TestParse_MissingAndMistyped(t *testing.T) {
	s := personSchema(t)

	_, err := s.Parse(map[string]any{"age": "old"})
	assert.Equal(t, map[string]string{
		"name": schema.CodeRequired,
		"age":  schema.CodeInvalidType,
	}, issuePaths(t, err))

	_, err = s.Parse(make(chan int))
	assert.Equal(t, map[string]string{"": schema.CodeInvalidType}, issuePaths(t, err))
}

func TestValidateForm_Scenario(t *testing.T) {
	s := personSchema(t)

	invalid := validation.ValidateForm[person](s, map[string]any{"name": "", "age": -1})
	require.False(t, invalid.IsValid)
	assert.Contains(t, invalid.FieldErrors, "name")
	assert.Contains(t, invalid.FieldErrors, "age")

	valid := validation.ValidateForm[person](s, map[string]any{"name": "Ana", "age": 30})
	require.True(t, valid.IsValid)
	assert.Equal(t, person{Name: "Ana", Age: 30}, valid.Data)
}

func TestFieldSchema(t *testing.T) {
	s := personSchema(t)

	fieldErr := validation.ValidateField[person](s, "age", 0)
	require.NotNil(t, fieldErr)
	assert.Equal(t, schema.CodeTooSmall, fieldErr.Code)

	assert.Nil(t, validation.ValidateField[person](s, "age", 4))
	assert.Nil(t, validation.ValidateField[person](s, "nickname", ""))
}

func TestFieldSchema_AbsentValues(t *testing.T) {
	s, err := openapischema.FromYAML[map[string]any]([]byte(`
type: object
required: [name]
properties:
  name:
    type: string
  nickname:
    type: string
  age:
    type: integer
    minimum: 18
`))
	require.NoError(t, err)

	require.True(t, validation.ValidateForm[map[string]any](s, map[string]any{"name": "Ana"}).IsValid)
	assert.Nil(t, validation.ValidateField[map[string]any](s, "age", nil), "optional properties may be absent")
	assert.Nil(t, validation.ValidateField[map[string]any](s, "nickname", nil))

	fieldErr := validation.ValidateField[map[string]any](s, "age", 3)
	require.NotNil(t, fieldErr)
	assert.Equal(t, schema.CodeTooSmall, fieldErr.Code)

	fieldErr = validation.ValidateField[map[string]any](s, "name", nil)
	require.NotNil(t, fieldErr)
	assert.Equal(t, schema.CodeRequired, fieldErr.Code)
}

func TestFromOperation(t *testing.T) {
	data := readFixture(t, "users.openapi.yaml")
	ctx := context.Background()

	s, err := openapischema.FromOperation[map[string]any](ctx, data, "createUser")
	require.NoError(t, err)

	_, err = s.Parse(map[string]any{
		"name":    "Ana",
		"email":   "ana@example.com",
		"age":     2,
		"tags":    []string{"ok", ""},
		"address": map[string]any{"city": ""},
	})
	assert.Equal(t, map[string]string{
		"tags.1":       schema.CodeTooShort,
		"address.city": schema.CodeTooShort,
	}, issuePaths(t, err))

	fieldErr := validation.ValidateField[map[string]any](s, "address.city", "")
	require.NotNil(t, fieldErr)
	assert.Equal(t, schema.CodeTooShort, fieldErr.Code)

	names := make([]string, 0)
	for _, field := range s.Fields() {
		names = append(names, field.Name)
	}
	assert.Equal(t, []string{"age", "email", "name", "address", "tags"}, names)

	_, err = openapischema.FromOperation[map[string]any](ctx, data, "missing")
	assert.ErrorIs(t, err, openapischema.ErrOperationNotFound)

	_, err = openapischema.FromOperation[map[string]any](ctx, data, "health")
	assert.ErrorIs(t, err, openapischema.ErrNoRequestSchema)
}

func TestFieldsMarksSecrets(t *testing.T) {
	s, err := openapischema.FromOperation[map[string]any](context.Background(), readFixture(t, "users.openapi.yaml"), "login")
	require.NoError(t, err)

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Name)
	assert.True(t, fields[1].Secret)
	assert.True(t, fields[1].Required)
}

func TestOperationIDs(t *testing.T) {
	ids, err := openapischema.OperationIDs(context.Background(), readFixture(t, "users.openapi.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"createUser", "health", "login"}, ids)
}

func TestFromYAMLMatchesJSON(t *testing.T) {
	yamlSchema, err := openapischema.FromYAML[person]([]byte(`
type: object
required: [name]
properties:
  name:
    type: string
    minLength: 1
`))
	require.NoError(t, err)

	_, err = yamlSchema.Parse(map[string]any{"name": ""})
	assert.Equal(t, map[string]string{"name": schema.CodeTooShort}, issuePaths(t, err))

	_, err = openapischema.FromDocument[person]([]byte(`{"type": "object"}`))
	assert.NoError(t, err)

	_, err = openapischema.New[person](nil)
	assert.ErrorIs(t, err, openapischema.ErrNilSchema)
}
