package schemas

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/schema/tagschema"
)

// PasswordMismatchMessage is reported on confirmPassword when it differs from
// password.
const PasswordMismatchMessage = "passwords don't match"

// CreateUserInput is the sign-up payload.
type CreateUserInput struct {
	Name            string `json:"name" validate:"required,not_blank,min=2"`
	Email           string `json:"email" validate:"required,email"`
	CPF             string `json:"cpf,omitempty" validate:"omitempty,cpf"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,phone_br"`
	Password        string `json:"password" validate:"required,min=8,has_upper,has_lower,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Normalize trims the name and canonicalises the email.
func (in *CreateUserInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

// UpdateUserInput is a partial profile update. Absent fields are nil; a
// present field is checked like its create counterpart, so an empty name is
// rejected rather than skipped.
type UpdateUserInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,not_blank,min=2"`
	Email *string `json:"email,omitempty" validate:"omitempty,required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone_br"`
}

// Normalize trims the name and canonicalises the email.
func (in *UpdateUserInput) Normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// Normalize canonicalises the email.
func (in *LoginInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUserSchema validates CreateUserInput, including the password
// confirmation.
func CreateUserSchema(now func() time.Time) (*tagschema.Schema[CreateUserInput], error) {
	opts := append(Rules(now),
		tagschema.WithStructRule(matchPasswords),
		tagschema.WithMessage("password_match", func(validator.FieldError) string {
			return PasswordMismatchMessage
		}),
	)
	return tagschema.New[CreateUserInput](opts...)
}

// UpdateUserSchema validates UpdateUserInput.
func UpdateUserSchema(now func() time.Time) (*tagschema.Schema[UpdateUserInput], error) {
	return tagschema.New[UpdateUserInput](Rules(now)...)
}

// LoginSchema validates LoginInput.
func LoginSchema() (*tagschema.Schema[LoginInput], error) {
	return tagschema.New[LoginInput]()
}

type strongPassword struct {
	Password string `json:"password" validate:"required,min=8,has_upper,has_lower,has_digit,has_special"`
}

// PasswordSchema validates a standalone password: at least 8 characters with
// an uppercase letter, a lowercase letter, a digit and a special character.
// Sign-up passwords do not require the special character.
func PasswordSchema() (schema.Schema[any], error) {
	s, err := tagschema.New[strongPassword](Rules(nil)...)
	if err != nil {
		return nil, err
	}
	field, _ := s.FieldSchema("password")
	return field, nil
}

func matchPasswords(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(CreateUserInput)
	if !ok || in.ConfirmPassword == "" {
		return
	}
	if in.Password != in.ConfirmPassword {
		sl.ReportError(in.ConfirmPassword, "confirmPassword", "ConfirmPassword", "password_match", "")
	}
}
