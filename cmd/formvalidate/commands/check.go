package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a payload file",
		Example: `  formvalidate check --schema api.yaml --operation createUser --data user.json
  formvalidate check --builtin login --data - < login.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(a.dataPath, a.in)
			if err != nil {
				return err
			}

			var r report
			switch {
			case a.cfg.Builtin != "":
				b, err := lookupBuiltin(a.cfg.Builtin)
				if err != nil {
					return err
				}
				r, err = b.check(payload, a.validationOptions()...)
				if err != nil {
					return err
				}
			case a.cfg.Schema != "":
				s, err := a.loadOpenAPI(cmd.Context())
				if err != nil {
					return err
				}
				r = checkWith[map[string]any](s, payload, a.validationOptions()...)
			default:
				return ErrNoSchema
			}

			a.logger.Debug().Bool("valid", r.Valid).Int("field_errors", len(r.FieldErrors)).Msg("check finished")
			if err := writeReport(cmd.OutOrStdout(), a.cfg.Output, r); err != nil {
				return errors.Wrap(err, "write report")
			}
			if !r.Valid {
				return ErrInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&a.dataPath, "data", "-", "payload file (JSON or YAML), - for stdin")
	return cmd
}
