package commands

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formvalidate/pkg/schema/tagschema"
	"github.com/goliatone/go-formvalidate/pkg/schemas"
	"github.com/goliatone/go-formvalidate/pkg/tui"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

type builtin struct {
	check func(payload any, opts ...validation.Option) (report, error)
	fill  func(ctx context.Context, a *app, initial map[string]any) error
}

func newBuiltin[T any](build func() (*tagschema.Schema[T], error), fields []tui.Field) builtin {
	return builtin{
		check: func(payload any, opts ...validation.Option) (report, error) {
			s, err := build()
			if err != nil {
				return report{}, err
			}
			return checkWith[T](s, payload, opts...), nil
		},
		fill: func(ctx context.Context, a *app, initial map[string]any) error {
			s, err := build()
			if err != nil {
				return err
			}
			return runFill[T](ctx, a, s, fields, initial)
		},
	}
}

var builtins = map[string]builtin{
	"create-user": newBuiltin(func() (*tagschema.Schema[schemas.CreateUserInput], error) {
		return schemas.CreateUserSchema(nil)
	}, []tui.Field{
		{Name: "name", Label: "Name", Kind: tui.KindText, Required: true},
		{Name: "email", Label: "Email", Kind: tui.KindText, Required: true},
		{Name: "cpf", Label: "CPF", Kind: tui.KindText},
		{Name: "phone", Label: "Phone", Kind: tui.KindText},
		{Name: "password", Label: "Password", Kind: tui.KindText, Required: true, Secret: true},
		{Name: "confirmPassword", Label: "Confirm password", Kind: tui.KindText, Required: true, Secret: true},
	}),
	"update-user": newBuiltin(func() (*tagschema.Schema[schemas.UpdateUserInput], error) {
		return schemas.UpdateUserSchema(nil)
	}, []tui.Field{
		{Name: "name", Label: "Name", Kind: tui.KindText},
		{Name: "email", Label: "Email", Kind: tui.KindText},
		{Name: "phone", Label: "Phone", Kind: tui.KindText},
	}),
	"login": newBuiltin(schemas.LoginSchema, []tui.Field{
		{Name: "email", Label: "Email", Kind: tui.KindText, Required: true},
		{Name: "password", Label: "Password", Kind: tui.KindText, Required: true, Secret: true},
	}),
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBuiltin(name string) (builtin, error) {
	b, ok := builtins[name]
	if !ok {
		return builtin{}, errors.Newf("unknown builtin %q, expected one of %v", name, builtinNames())
	}
	return b, nil
}
