package cli

import (
	"context"

	"github.com/PyramidAGI/scenariodb/internal/storage"
	"github.com/spf13/cobra"
)

func newSchemaCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the column layout of the scenarios table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("schema does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				columns, err := storage.Describe(ctx, rt.cfg.Store.Path)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, columns)
				}
				if deps.globals.Quiet {
					return nil
				}
				return writeColumnLines(deps.out, columns)
			})
		},
	}
}
