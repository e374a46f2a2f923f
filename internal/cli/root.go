package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type GlobalOptions struct {
	JSON       bool
	Quiet      bool
	Yes        bool
	ConfigPath string
	DBPath     string
	EnvFile    string
	LogLevel   string
}

type commandDeps struct {
	globals *GlobalOptions
	build   BuildInfo
	out     io.Writer
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	globals := &GlobalOptions{}
	deps := commandDeps{globals: globals, build: build, out: out}

	cmd := &cobra.Command{
		Use:   "scenariodb",
		Short: "Local scenario record store",
		Long: "scenariodb keeps scenario records (name, description, optional owner) in a\n" +
			"single-table SQLite file. Provision the store with `scenariodb reset`, then\n" +
			"add and list records from the command line or the terminal form.",
		Example: "  scenariodb reset\n" +
			"  scenariodb add --scenario \"Load test\" --description \"Simulate 10k users\"\n" +
			"  scenariodb ls\n" +
			"  scenariodb ui",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	flags := cmd.PersistentFlags()
	flags.BoolVar(&globals.JSON, "json", false, "Print machine-readable JSON")
	flags.BoolVar(&globals.Quiet, "quiet", false, "Suppress non-essential output")
	flags.BoolVar(&globals.Yes, "yes", false, "Confirm destructive actions")
	flags.StringVar(&globals.ConfigPath, "config", "", "Config file path")
	flags.StringVar(&globals.DBPath, "db", "", "Store file path (overrides config)")
	flags.StringVar(&globals.EnvFile, "env-file", "", "Read SCENARIODB_* settings from a dotenv file")
	flags.StringVar(&globals.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newInitCommand(deps),
		newResetCommand(deps),
		newAddCommand(deps),
		newListCommand(deps),
		newSchemaCommand(deps),
		newUICommand(deps),
		newDoctorCommand(deps),
		newDebugCommand(deps),
		newVersionCommand(deps),
	)
	cmd.InitDefaultCompletionCmd()
	return cmd
}
