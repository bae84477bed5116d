package tagschema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formvalidate/pkg/schema"
)

// MessageFunc renders the message for one failed tag.
type MessageFunc func(fe validator.FieldError) string

func defaultMessages() map[string]MessageFunc {
	return map[string]MessageFunc{
		"required": fixed("is required"),
		"email":    fixed("must be a valid email address"),
		"url":      fixed("must be a valid URL"),
		"uri":      fixed("must be a valid URI"),
		"uuid":     fixed("must be a valid UUID"),
		"e164":     fixed("must be a valid phone number"),
		"oneof": func(fe validator.FieldError) string {
			return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
		},
		"min": func(fe validator.FieldError) string {
			return bound("at least", fe)
		},
		"gte": func(fe validator.FieldError) string {
			return bound("at least", fe)
		},
		"max": func(fe validator.FieldError) string {
			return bound("at most", fe)
		},
		"lte": func(fe validator.FieldError) string {
			return bound("at most", fe)
		},
		"gt": func(fe validator.FieldError) string {
			return bound("greater than", fe)
		},
		"lt": func(fe validator.FieldError) string {
			return bound("less than", fe)
		},
		"len": func(fe validator.FieldError) string {
			return bound("exactly", fe)
		},
		"eqfield": func(fe validator.FieldError) string {
			return "must match " + fe.Param()
		},
	}
}

func fixed(message string) MessageFunc {
	return func(validator.FieldError) string { return message }
}

func bound(relation string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", relation, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", relation, fe.Param())
	default:
		return fmt.Sprintf("must be %s %s", relation, fe.Param())
	}
}

func (s *settings) message(fe validator.FieldError) string {
	if fn, ok := s.messages[fe.Tag()]; ok && fn != nil {
		if msg := fn(fe); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("failed %s validation", strings.ReplaceAll(fe.Tag(), "_", " "))
}

func codeFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return schema.CodeRequired
	case "min", "gte", "gt":
		if fe.Kind() == reflect.String {
			return schema.CodeTooShort
		}
		return schema.CodeTooSmall
	case "max", "lte", "lt":
		if fe.Kind() == reflect.String {
			return schema.CodeTooLong
		}
		return schema.CodeTooBig
	case "oneof":
		return schema.CodeInvalidEnum
	case "email", "url", "uri", "uuid", "e164", "datetime":
		return schema.CodeInvalidFormat
	}
	return fe.Tag()
}
