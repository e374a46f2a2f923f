package cli

import (
	"context"
	"fmt"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/PyramidAGI/scenariodb/internal/config"
	"github.com/spf13/cobra"
)

func newInitCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store if missing and write a default config",
		Long: "init is safe to repeat: an existing store keeps its records and an\n" +
			"existing config file is left as is. Use `scenariodb reset` to wipe the store.",
		Example: "  scenariodb init\n" +
			"  scenariodb --db ./database.db init",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("init does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				created, err := app.EnsureStore(ctx, rt.cfg.Store.Path, rt.logger)
				if err != nil {
					return err
				}
				wrote, err := config.WriteDefault(rt.report.ConfigPath)
				if err != nil {
					return fmt.Errorf("init: %w", err)
				}

				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{
						"store_path":     rt.cfg.Store.Path,
						"store_created":  created,
						"config_path":    rt.report.ConfigPath,
						"config_written": wrote,
					})
				}
				if deps.globals.Quiet {
					return nil
				}
				if _, err := fmt.Fprintf(deps.out, "store %s: %s\n", boolToState(created, "created", "exists"), rt.cfg.Store.Path); err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "config %s: %s\n", boolToState(wrote, "written", "exists"), rt.report.ConfigPath)
				return err
			})
		},
	}
}
