package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PyramidAGI/scenariodb/internal/labels"
	"github.com/PyramidAGI/scenariodb/internal/tui"
	"github.com/PyramidAGI/scenariodb/internal/watch"
)

func newUICommand(deps commandDeps) *cobra.Command {
	var noRefresh bool

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal entry form",
		Long: "ui shows the organization labels from the labels file, a form for new\n" +
			"scenarios and the list of stored scenarios. The list reloads when the\n" +
			"store file changes unless auto refresh is off.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("ui does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt runtimeEnv) error {
				l, err := labels.Load(rt.cfg.Store.LabelsFile)
				if err != nil {
					rt.logger.Warn("labels unavailable", "path", rt.cfg.Store.LabelsFile, "err", err)
				}

				opts := tui.Options{
					Client: rt.scenarios,
					Labels: l,
					IsTTY:  isTerminalFn,
				}
				if rt.cfg.UI.AutoRefresh && !noRefresh {
					watchCtx, cancel := context.WithCancel(ctx)
					defer cancel()
					changes, err := watch.File(watchCtx, rt.cfg.Store.Path, watch.DefaultDebounce, rt.logger)
					if err != nil {
						rt.logger.Warn("auto refresh disabled", "err", err)
					} else {
						opts.Changes = changes
					}
				}
				return runTUIFn(opts)
			})
		},
	}
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Do not reload the list when the store file changes")
	return cmd
}
