package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(deps commandDeps) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Example: "  scenariodb version\n" +
			"  scenariodb version --short\n" +
			"  scenariodb --json version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("version does not accept positional arguments")
			}
			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, deps.build))
			}
			if short {
				_, err := fmt.Fprintln(deps.out, deps.build.Version)
				return mapCommandError(err)
			}
			_, err := fmt.Fprintf(
				deps.out,
				"scenariodb %s (commit %s, built %s, %s %s/%s)\n",
				deps.build.Version,
				deps.build.Commit,
				deps.build.BuildTime,
				runtime.Version(),
				runtime.GOOS,
				runtime.GOARCH,
			)
			return mapCommandError(err)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
