package tagschema_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/schema/tagschema"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type signup struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Email    string   `json:"email" validate:"required,email"`
	Age      int      `json:"age" validate:"gte=18"`
	Tags     []string `json:"tags" validate:"dive,min=1"`
	Address  *address `json:"address"`
	Password string   `json:"password" validate:"required"`
	Confirm  string   `json:"confirm" validate:"eqfield=Password"`
}

func (s *signup) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
}

func validSignup() map[string]any {
	return map[string]any{
		"name":     " Ana ",
		"email":    " ANA@Example.com",
		"age":      30,
		"tags":     []any{"go"},
		"password": "secret",
		"confirm":  "secret",
	}
}

func newSignupSchema(t *testing.T, opts ...tagschema.Option) *tagschema.Schema[signup] {
	t.Helper()
	s, err := tagschema.New[signup](opts...)
	require.NoError(t, err)
	return s
}

func issueCodes(t *testing.T, err error) map[string]string {
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

func TestParse_DecodesAndNormalizes(t *testing.T) {
	s := newSignupSchema(t)

	got, err := s.Parse(validSignup())
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, 30, got.Age)
	assert.Nil(t, got.Address)
}

func TestParse_AcceptsTypedValues(t *testing.T) {
	s := newSignupSchema(t)
	value := signup{Name: "Ana", Email: "ana@example.com", Age: 20, Password: "x", Confirm: "x"}

	got, err := s.Parse(value)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	got, err = s.Parse(&value)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestParse_ReportsEveryFailedTag(t *testing.T) {
	s := newSignupSchema(t)

	_, err := s.Parse(map[string]any{
		"name":     "A",
		"email":    "not-an-email",
		"age":      10,
		"tags":     []any{"ok", ""},
		"address":  map[string]any{"city": ""},
		"password": "secret",
		"confirm":  "other",
	})

	assert.Equal(t, map[string]string{
		"name":         schema.CodeTooShort,
		"email":        schema.CodeInvalidFormat,
		"age":          schema.CodeTooSmall,
		"tags.1":       schema.CodeTooShort,
		"address.city": schema.CodeRequired,
		"confirm":      "eqfield",
	}, issueCodes(t, err))
}

func TestParse_Messages(t *testing.T) {
	s := newSignupSchema(t)

	_, err := s.Parse(map[string]any{"name": "A", "email": "a@b.co", "age": 10, "password": "x", "confirm": "x"})
	issueErr, ok := schema.AsIssueError(err)
	require.True(t, ok)

	messages := map[string]string{}
	for _, issue := range issueErr.Issues {
		messages[issue.Path.String()] = issue.Message
	}
	assert.Equal(t, "must be at least 2 characters", messages["name"])
	assert.Equal(t, "must be at least 18", messages["age"])
}

func TestParse_WrongTypeIsInvalidType(t *testing.T) {
	s := newSignupSchema(t)
	raw := validSignup()
	raw["age"] = "old"

	_, err := s.Parse(raw)
	assert.Equal(t, map[string]string{"age": schema.CodeInvalidType}, issueCodes(t, err))
}

func TestParse_NilIsRequired(t *testing.T) {
	s := newSignupSchema(t)

	_, err := s.Parse(nil)
	assert.Equal(t, map[string]string{"": schema.CodeRequired}, issueCodes(t, err))
}

func TestFieldSchema(t *testing.T) {
	s := newSignupSchema(t)

	email, ok := s.FieldSchema("email")
	require.True(t, ok)
	_, err := email.Parse("nope")
	assert.Equal(t, map[string]string{"": schema.CodeInvalidFormat}, issueCodes(t, err))

	value, err := email.Parse("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", value)

	confirm, ok := s.FieldSchema("confirm")
	require.True(t, ok)
	_, err = confirm.Parse("anything")
	assert.NoError(t, err, "cross-field tags are skipped for a lone field")

	value, err = email.Parse(" ANA@Example.com ")
	require.NoError(t, err, "field checks run the Normalize hook")
	assert.Equal(t, "ana@example.com", value)

	_, ok = s.FieldSchema("Email")
	assert.False(t, ok, "fields are addressed by json name")
}

func TestFieldSchema_Nested(t *testing.T) {
	s := newSignupSchema(t)

	addr, ok := s.FieldSchema("address")
	require.True(t, ok)
	_, err := addr.Parse(map[string]any{"city": ""})
	assert.Equal(t, map[string]string{"city": schema.CodeRequired}, issueCodes(t, err))

	nested, ok := addr.(schema.FieldSchemas)
	require.True(t, ok)
	city, ok := nested.FieldSchema("city")
	require.True(t, ok)
	_, err = city.Parse("")
	assert.Equal(t, map[string]string{"": schema.CodeRequired}, issueCodes(t, err))
}

func TestValidateFormAndField(t *testing.T) {
	s := newSignupSchema(t)
	raw := validSignup()
	raw["email"] = "bad"

	result := validation.ValidateForm[signup](s, raw)
	assert.False(t, result.IsValid)
	assert.Equal(t, schema.CodeInvalidFormat, result.FieldErrors["email"].Code)

	assert.Nil(t, validation.ValidateField[signup](s, "name", "Ana"))
	fieldErr := validation.ValidateField[signup](s, "name", "A")
	require.NotNil(t, fieldErr)
	assert.Equal(t, "must be at least 2 characters", fieldErr.Message)
	assert.Nil(t, validation.ValidateField[signup](s, "missing", "x"))
}

type pair struct {
	A int    `json:"a" validate:"even"`
	B string `json:"b"`
	C string `json:"c"`
}

func TestCustomRules(t *testing.T) {
	s, err := tagschema.New[pair](
		tagschema.WithRule("even", func(fl validator.FieldLevel) bool {
			return fl.Field().Int()%2 == 0
		}, "must be even"),
		tagschema.WithStructRule(func(sl validator.StructLevel) {
			p := sl.Current().Interface().(pair)
			if p.B != p.C {
				sl.ReportError(p.C, "c", "C", "match", "")
			}
		}),
		tagschema.WithMessage("match", func(validator.FieldError) string { return "must match b" }),
	)
	require.NoError(t, err)

	_, err = s.Parse(map[string]any{"a": 3, "b": "x", "c": "y"})
	issueErr, ok := schema.AsIssueError(err)
	require.True(t, ok)

	got := map[string]string{}
	for _, issue := range issueErr.Issues {
		got[issue.Path.String()] = issue.Message
	}
	assert.Equal(t, map[string]string{"a": "must be even", "c": "must match b"}, got)

	_, err = s.Parse(map[string]any{"a": 2, "b": "x", "c": "x"})
	assert.NoError(t, err)
}

func TestNew_RejectsNonStruct(t *testing.T) {
	_, err := tagschema.New[int]()
	assert.ErrorIs(t, err, tagschema.ErrNotStruct)
}

func TestNew_RejectsBadRule(t *testing.T) {
	_, err := tagschema.New[pair](tagschema.WithRule("", nil, ""))
	assert.Error(t, err)
}
