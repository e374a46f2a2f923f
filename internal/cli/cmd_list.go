package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newListCommand(deps commandDeps) *cobra.Command {
	var yamlOut bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List scenarios, newest first",
		Example: "  scenariodb ls\n" +
			"  scenariodb --json ls\n" +
			"  scenariodb ls --yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("ls does not accept positional arguments")
			}
			format, err := resolveFormat(deps.globals, yamlOut)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				items, err := rt.scenarios.List(ctx)
				if err != nil {
					return err
				}
				if deps.globals.Quiet && format == formatLines {
					return nil
				}
				return writeScenarios(deps.out, items, format)
			})
		},
	}
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Print YAML")
	return cmd
}
