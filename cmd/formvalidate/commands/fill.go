package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formvalidate/pkg/form"
	"github.com/goliatone/go-formvalidate/pkg/schema"
	"github.com/goliatone/go-formvalidate/pkg/tui"
)

func newFillCommand(a *app) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively and print the validated payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var initial map[string]any
			if seed != "" {
				payload, err := readPayload(seed, a.in)
				if err != nil {
					return err
				}
				m, ok := payload.(map[string]any)
				if !ok {
					return errors.New("--data must hold an object")
				}
				initial = m
			}

			switch {
			case a.cfg.Builtin != "":
				b, err := lookupBuiltin(a.cfg.Builtin)
				if err != nil {
					return err
				}
				return b.fill(cmd.Context(), a, initial)
			case a.cfg.Schema != "":
				s, err := a.loadOpenAPI(cmd.Context())
				if err != nil {
					return err
				}
				return runFill[map[string]any](cmd.Context(), a, s, tui.FieldsFromOpenAPI(s.Fields()), initial)
			}
			return ErrNoSchema
		},
	}
	cmd.Flags().StringVar(&seed, "data", "", "optional payload used as initial values")
	return cmd
}

// runFill prompts for fields through a form controller and writes the parsed
// payload once the submit goes through.
func runFill[T any](ctx context.Context, a *app, s schema.Schema[T], fields []tui.Field, initial map[string]any) error {
	ctrl := form.New(form.Config[T]{
		Schema:        s,
		InitialValues: initial,
		OnSubmit: func(_ context.Context, data T) error {
			return writeReport(a.out, a.cfg.Output, report{Valid: true, Data: data})
		},
	}, form.WithLogger(a.logger), form.WithObserver(a.metrics))

	filler, err := tui.NewFiller(ctrl, fields, tui.WithDriver(a.driver), tui.WithLogger(a.logger))
	if err != nil {
		return err
	}
	submitted, err := filler.Run(ctx)
	if err != nil {
		return err
	}
	if !submitted {
		return ErrNotSubmitted
	}
	return nil
}
