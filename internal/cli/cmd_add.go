package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/PyramidAGI/scenariodb/internal/storage"
)

func newAddCommand(deps commandDeps) *cobra.Command {
	var (
		req         app.CreateScenarioRequest
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scenario record",
		Example: "  scenariodb add --scenario \"Load test\" --description \"Simulate 10k users\" --owner alice\n" +
			"  scenariodb add --interactive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("add does not accept positional arguments")
			}
			if interactive {
				if !isTerminalFn() {
					return usageErrorf("add --interactive requires a terminal")
				}
				if err := promptScenarioFn(cmd.InOrStdin(), deps.out, &req); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return asExitError(ExitCodeGeneric, errors.New("add: aborted"))
					}
					return mapCommandError(fmt.Errorf("add: prompt: %w", err))
				}
			}

			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				id, err := rt.scenarios.Create(ctx, req)
				if err != nil {
					return err
				}
				in := app.NormalizeRequest(req)

				if deps.globals.JSON {
					var owner *string
					if in.Owner != "" {
						owner = &in.Owner
					}
					return printJSON(deps.out, map[string]any{
						"id":          id,
						"scenario":    in.Scenario,
						"description": in.Description,
						"owner":       owner,
					})
				}
				if deps.globals.Quiet {
					return nil
				}
				_, err = fmt.Fprintf(deps.out, "saved scenario %d: %s\n", id, in.Scenario)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.Scenario, "scenario", "", fmt.Sprintf("Scenario name (required, max %d characters)", storage.MaxScenarioLen))
	cmd.Flags().StringVar(&req.Description, "description", "", fmt.Sprintf("Description (required, max %d characters)", storage.MaxDescriptionLen))
	cmd.Flags().StringVar(&req.Owner, "owner", "", fmt.Sprintf("Owner (optional, max %d characters)", storage.MaxOwnerLen))
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the fields")
	return cmd
}

func promptScenario(in io.Reader, out io.Writer, req *app.CreateScenarioRequest) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario").
				CharLimit(storage.MaxScenarioLen).
				Value(&req.Scenario).
				Validate(requiredInput("scenario")),
			huh.NewInput().
				Title("Description").
				CharLimit(storage.MaxDescriptionLen).
				Value(&req.Description).
				Validate(requiredInput("description")),
			huh.NewInput().
				Title("Owner").
				Description("optional").
				CharLimit(storage.MaxOwnerLen).
				Value(&req.Owner),
		),
	).WithInput(in).WithOutput(out)
	return form.Run()
}

func requiredInput(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
