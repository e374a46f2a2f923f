package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	debugpkg "github.com/PyramidAGI/scenariodb/internal/debug"
)

func newDoctorCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, labels file and store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("doctor does not accept positional arguments")
			}

			bundle := collectDiagnostics(cmd, deps)
			if deps.globals.JSON {
				if err := printJSON(deps.out, map[string]any{"checks": bundle.Checks}); err != nil {
					return mapCommandError(err)
				}
			} else if !deps.globals.Quiet {
				for _, check := range bundle.Checks {
					if _, err := fmt.Fprintf(deps.out, "%s: %s (%s)\n", check.Name, boolToState(check.OK, "ok", "fail"), check.Message); err != nil {
						return mapCommandError(err)
					}
				}
			}

			if failed := bundle.Failed(); len(failed) > 0 {
				return asExitError(ExitCodeGeneric, fmt.Errorf("doctor: %d check(s) failed", len(failed)))
			}
			return nil
		},
	}
}

func collectDiagnostics(cmd *cobra.Command, deps commandDeps) debugpkg.Bundle {
	bundle := debugpkg.NewBundle()
	bundle.Version = map[string]any{
		"version":    deps.build.Version,
		"commit":     deps.build.Commit,
		"build_time": deps.build.BuildTime,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, report, err := loadConfigFn(loadOptions(deps.globals))
	debugpkg.RunChecks(ctx, debugpkg.Inputs{
		Config:    cfg,
		Report:    report,
		ConfigErr: wrapConfigErr(err),
	}, &bundle)
	return bundle
}

func wrapConfigErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
