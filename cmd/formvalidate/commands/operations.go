package commands

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formvalidate/pkg/schema/openapischema"
)

func newOperationsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List operation ids declared in an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Schema == "" {
				return errors.New("--schema is required")
			}
			data, err := os.ReadFile(a.cfg.Schema)
			if err != nil {
				return errors.Wrap(err, "read schema")
			}
			ids, err := openapischema.OperationIDs(cmd.Context(), data)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
