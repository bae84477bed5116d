package schemas

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formvalidate/pkg/schema/tagschema"
)

var (
	cpfPattern   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$|^\d{11}$`)
	cnpjPattern  = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$|^\d{14}$`)
	phonePattern = regexp.MustCompile(`^(\+55\s?)?(\(?\d{2}\)?\s?)?(\d{4,5}-?\d{4})$`)
)

// Rules returns the options registering every shared tag. now defaults to
// time.Now and drives the future and past rules.
func Rules(now func() time.Time) []tagschema.Option {
	if now == nil {
		now = time.Now
	}
	return []tagschema.Option{
		tagschema.WithRule("cpf", stringRule(isFormattedCPF), "must be a valid CPF"),
		tagschema.WithRule("cnpj", stringRule(isFormattedCNPJ), "must be a valid CNPJ"),
		tagschema.WithRule("phone_br", stringRule(phonePattern.MatchString), "must be a valid phone number, e.g. (11) 91234-5678"),
		tagschema.WithRule("has_upper", stringRule(containsRune(isASCIIUpper)), "must contain an uppercase letter"),
		tagschema.WithRule("has_lower", stringRule(containsRune(isASCIILower)), "must contain a lowercase letter"),
		tagschema.WithRule("has_digit", stringRule(containsRune(isASCIIDigit)), "must contain a number"),
		tagschema.WithRule("has_special", stringRule(containsRune(isSpecial)), "must contain a special character"),
		tagschema.WithRule("not_blank", stringRule(func(s string) bool { return strings.TrimSpace(s) != "" }), "cannot be empty"),
		tagschema.WithRule("future", timeRule(func(t time.Time) bool { return t.After(now()) }), "must be in the future"),
		tagschema.WithRule("past", timeRule(func(t time.Time) bool { return t.Before(now()) }), "must be in the past"),
	}
}

func stringRule(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return check(field.String())
	}
}

var timeType = reflect.TypeOf(time.Time{})

func timeRule(check func(time.Time) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Type() != timeType {
			return false
		}
		return check(field.Interface().(time.Time))
	}
}

func containsRune(match func(rune) bool) func(string) bool {
	return func(s string) bool {
		return strings.IndexFunc(s, match) >= 0
	}
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isASCIILower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpecial(r rune) bool {
	return !isASCIIUpper(r) && !isASCIILower(r) && !isASCIIDigit(r)
}

func isFormattedCPF(s string) bool {
	return cpfPattern.MatchString(s) && IsValidCPF(s)
}

func isFormattedCNPJ(s string) bool {
	return cnpjPattern.MatchString(s) && IsValidCNPJ(s)
}
