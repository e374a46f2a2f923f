package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/PyramidAGI/scenariodb/internal/config"
	logpkg "github.com/PyramidAGI/scenariodb/internal/log"
	"github.com/PyramidAGI/scenariodb/internal/storage"
	"github.com/PyramidAGI/scenariodb/internal/tui"
)

var (
	loadConfigFn     = config.Load
	isTerminalFn     = stdinIsTerminal
	runTUIFn         = tui.Run
	promptScenarioFn = promptScenario
	logOutput        io.Writer = os.Stderr
)

type runtimeEnv struct {
	cfg       config.Config
	report    config.LoadReport
	logger    *slog.Logger
	store     *storage.Store
	scenarios *app.ScenarioService
}

func loadOptions(globals *GlobalOptions) config.LoadOptions {
	opts := config.LoadOptions{}
	if globals == nil {
		return opts
	}
	opts.ConfigPath = strings.TrimSpace(globals.ConfigPath)
	opts.EnvFile = strings.TrimSpace(globals.EnvFile)
	if dbPath := strings.TrimSpace(globals.DBPath); dbPath != "" {
		opts.Flags.DBPath = &dbPath
	}
	if level := strings.TrimSpace(globals.LogLevel); level != "" {
		opts.Flags.LogLevel = &level
	}
	return opts
}

func withRuntime(cmdCtx context.Context, deps commandDeps, fn func(context.Context, runtimeEnv) error) error {
	cfg, report, err := loadConfigFn(loadOptions(deps.globals))
	if err != nil {
		return mapCommandError(fmt.Errorf("load config: %w", err))
	}

	logger, closer, err := logpkg.New(logpkg.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Stderr:    logOutput,
	})
	if err != nil {
		return mapCommandError(fmt.Errorf("init logging: %w", err))
	}
	defer func() { _ = closer.Close() }()
	logger = logger.With("run_id", uuid.NewString())

	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	store := storage.NewStore(cfg.Store.Path)
	rt := runtimeEnv{
		cfg:       cfg,
		report:    report,
		logger:    logger,
		store:     store,
		scenarios: app.NewScenarioService(store, logger),
	}
	return mapCommandError(fn(cmdCtx, rt))
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func boolToState(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
