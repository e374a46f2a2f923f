package cli

import (
	"fmt"
	"strings"

	debugpkg "github.com/PyramidAGI/scenariodb/internal/debug"
	"github.com/spf13/cobra"
)

func newDebugCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debug",
		Short:   "Diagnostics helpers",
		Example: "  scenariodb debug bundle --output ./scenariodb-debug.json",
	}
	cmd.AddCommand(newDebugBundleCommand(deps))
	return cmd
}

func newDebugBundleCommand(deps commandDeps) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Collect diagnostics into a JSON bundle",
		Long: "bundle writes build info, check results and a store summary. Record\n" +
			"contents and owner names are never included.",
		Example: "  scenariodb debug bundle --output ./scenariodb-debug.json\n" +
			"  scenariodb --json debug bundle --output ./scenariodb-debug.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("debug bundle does not accept positional arguments")
			}
			if strings.TrimSpace(outputPath) == "" {
				return usageErrorf("debug bundle requires --output")
			}

			bundle := collectDiagnostics(cmd, deps)
			if err := debugpkg.WriteBundle(outputPath, bundle); err != nil {
				return mapCommandError(err)
			}
			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, map[string]any{
					"output": outputPath,
					"failed": len(bundle.Failed()),
				}))
			}
			if deps.globals.Quiet {
				return nil
			}
			_, err := fmt.Fprintf(deps.out, "debug bundle written: %s\n", outputPath)
			return mapCommandError(err)
		},
	}
	cmd.Flags().StringVar(&outputPath, "output", "", "Output JSON bundle path")
	return cmd
}
