package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/spf13/cobra"
)

func newResetCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Aliases: []string{"provision"},
		Short:   "Delete the store and create an empty one",
		Long: "reset removes the store file and creates a fresh one holding only the\n" +
			"scenarios table. Every record is lost. An existing store is only replaced\n" +
			"when --yes is given. Do not run reset while the form is open.",
		Example: "  scenariodb reset\n" +
			"  scenariodb --yes reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("reset does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				path := rt.cfg.Store.Path
				replaced, err := app.ProvisionStore(ctx, path, app.ProvisionOptions{
					Overwrite: deps.globals.Yes,
					Logger:    rt.logger,
				})
				if errors.Is(err, app.ErrStoreExists) {
					return usageErrorf("store already exists: %s (use --yes to delete all records)", path)
				}
				if err != nil {
					return err
				}

				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{
						"provisioned": true,
						"store_path":  path,
						"replaced":    replaced,
					})
				}
				if deps.globals.Quiet {
					return nil
				}
				_, err = fmt.Fprintf(deps.out, "provisioned store: %s\n", path)
				return err
			})
		},
	}
}
