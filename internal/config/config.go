package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	envPrefix = "SCENARIODB_"

	defaultStoreFile    = "database.db"
	defaultLabelsFile   = "config.txt"
	defaultLogLevel     = "warn"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
	maxLogSizeMB        = 1024
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type StoreConfig struct {
	// Path of the SQLite file. Empty in a config file means the default
	// location under the data home.
	Path       string `toml:"path"`
	LabelsFile string `toml:"labels_file"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

type UIConfig struct {
	AutoRefresh bool `toml:"auto_refresh"`
}

type LoadOptions struct {
	ConfigPath string
	EnvFile    string
	Env        map[string]string
	Flags      FlagOverrides
}

type FlagOverrides struct {
	DBPath     *string
	LabelsFile *string
	LogLevel   *string
}

// LoadReport tells callers where settings came from. doctor prints it.
type LoadReport struct {
	ConfigPath  string
	ConfigFound bool
	EnvFile     string
}

func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:       "",
			LabelsFile: defaultLabelsFile,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			File:      "",
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
		UI: UIConfig{
			AutoRefresh: true,
		},
	}
}

// Load merges defaults, the TOML file, the dotenv file, process environment,
// the explicit Env map and flags, in increasing order of precedence.
func Load(opts LoadOptions) (Config, LoadReport, error) {
	cfg := DefaultConfig()
	report := LoadReport{}

	dotenv, envFile, err := readEnvFile(opts)
	if err != nil {
		return Config{}, report, err
	}
	report.EnvFile = envFile
	env := envSource{opts: opts, dotenv: dotenv}

	configPath, err := resolveConfigPath(opts, env)
	if err != nil {
		return Config{}, report, fmt.Errorf("resolve config path: %w", err)
	}
	report.ConfigPath = configPath
	found, err := loadAndApplyFile(configPath, &cfg)
	if err != nil {
		return Config{}, report, err
	}
	report.ConfigFound = found

	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, report, err
	}
	applyFlagOverrides(&cfg, opts.Flags)

	if cfg.Store.Path == "" {
		home, err := dataHome(env)
		if err != nil {
			return Config{}, report, err
		}
		cfg.Store.Path = filepath.Join(home, defaultStoreFile)
	}

	if err := validate(cfg); err != nil {
		return Config{}, report, err
	}
	return cfg, report, nil
}

// WriteDefault writes the default config to path unless a file already
// exists there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("%w: config path is empty", ErrInvalidConfig)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file %q: %w", path, err)
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write config file %q: %w", path, err)
	}
	return true, nil
}

func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

type rawConfig struct {
	Store   *rawStore   `toml:"store"`
	Logging *rawLogging `toml:"logging"`
	UI      *rawUI      `toml:"ui"`
}

type rawStore struct {
	Path       *string `toml:"path"`
	LabelsFile *string `toml:"labels_file"`
}

type rawLogging struct {
	Level     *string `toml:"level"`
	File      *string `toml:"file"`
	MaxSizeMB *int    `toml:"max_size_mb"`
	MaxFiles  *int    `toml:"max_files"`
}

type rawUI struct {
	AutoRefresh *bool `toml:"auto_refresh"`
}

func loadAndApplyFile(path string, cfg *Config) (bool, error) {
	if path == "" {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return true, fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
	}
	applyRawConfig(cfg, raw)
	return true, nil
}

func applyRawConfig(cfg *Config, raw rawConfig) {
	if raw.Store != nil {
		setValue(raw.Store.Path, &cfg.Store.Path)
		setValue(raw.Store.LabelsFile, &cfg.Store.LabelsFile)
	}
	if raw.Logging != nil {
		setValue(raw.Logging.Level, &cfg.Logging.Level)
		setValue(raw.Logging.File, &cfg.Logging.File)
		setValue(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setValue(raw.Logging.MaxFiles, &cfg.Logging.MaxFiles)
	}
	if raw.UI != nil {
		setValue(raw.UI.AutoRefresh, &cfg.UI.AutoRefresh)
	}
}

func applyEnvOverrides(cfg *Config, env envSource) error {
	if value, ok := env.lookup("DB_PATH"); ok {
		cfg.Store.Path = value
	}
	if value, ok := env.lookup("LABELS_FILE"); ok {
		cfg.Store.LabelsFile = value
	}

	if value, ok := env.lookup("LOG_LEVEL"); ok {
		cfg.Logging.Level = value
	}
	if value, ok := env.lookup("LOG_FILE"); ok {
		cfg.Logging.File = value
	}
	if value, ok := env.lookup("LOG_MAX_SIZE_MB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse %sLOG_MAX_SIZE_MB: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.Logging.MaxSizeMB = parsed
	}
	if value, ok := env.lookup("LOG_MAX_FILES"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse %sLOG_MAX_FILES: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.Logging.MaxFiles = parsed
	}

	if value, ok := env.lookup("UI_AUTO_REFRESH"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: parse %sUI_AUTO_REFRESH: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.UI.AutoRefresh = parsed
	}
	return nil
}

func applyFlagOverrides(cfg *Config, flags FlagOverrides) {
	setValue(flags.DBPath, &cfg.Store.Path)
	setValue(flags.LabelsFile, &cfg.Store.LabelsFile)
	setValue(flags.LogLevel, &cfg.Logging.Level)
}

func validate(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error (got %q)", ErrInvalidConfig, cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB <= 0 || cfg.Logging.MaxSizeMB > maxLogSizeMB {
		return fmt.Errorf("%w: logging.max_size_mb must be > 0 and <= %d", ErrInvalidConfig, maxLogSizeMB)
	}
	if cfg.Logging.MaxFiles < 0 {
		return fmt.Errorf("%w: logging.max_files must be >= 0", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Store.LabelsFile) == "" {
		return fmt.Errorf("%w: store.labels_file must not be empty", ErrInvalidConfig)
	}
	return nil
}

func setValue[T any](raw *T, target *T) {
	if raw == nil {
		return
	}
	*target = *raw
}

// envSource resolves SCENARIODB_* keys: explicit map, then the process
// environment, then the dotenv file.
type envSource struct {
	opts   LoadOptions
	dotenv map[string]string
}

func (e envSource) lookup(suffix string) (string, bool) {
	return e.lookupKey(envPrefix + suffix)
}

func (e envSource) lookupKey(key string) (string, bool) {
	if e.opts.Env != nil {
		if value, ok := e.opts.Env[key]; ok {
			return value, true
		}
	}
	if value, ok := os.LookupEnv(key); ok {
		return value, true
	}
	value, ok := e.dotenv[key]
	return value, ok
}

func readEnvFile(opts LoadOptions) (map[string]string, string, error) {
	path := opts.EnvFile
	if path == "" {
		path, _ = envSource{opts: opts}.lookup("ENV_FILE")
	}
	if path == "" {
		return map[string]string{}, "", nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, path, fmt.Errorf("%w: env file %q not found", ErrInvalidConfig, path)
		}
		return nil, path, fmt.Errorf("%w: parse env file %q: %v", ErrInvalidConfig, path, err)
	}
	return values, path, nil
}

func resolveConfigPath(opts LoadOptions, env envSource) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	if value, ok := env.lookup("CONFIG_PATH"); ok && value != "" {
		return value, nil
	}
	return DefaultConfigPath(opts.Env)
}

// DataHome is the directory holding the default store file.
func DataHome(env map[string]string) (string, error) {
	return dataHome(envSource{opts: LoadOptions{Env: env}})
}

func dataHome(env envSource) (string, error) {
	if value, ok := env.lookup("HOME"); ok && value != "" {
		return value, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "ScenarioDB"), nil
	}

	base := filepath.Join(home, ".local", "share")
	if xdgDataHome, ok := env.lookupKey("XDG_DATA_HOME"); ok && xdgDataHome != "" {
		base = xdgDataHome
	}
	return filepath.Join(base, "scenariodb"), nil
}

func DefaultConfigPath(env map[string]string) (string, error) {
	src := envSource{opts: LoadOptions{Env: env}}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "ScenarioDB", "config.toml"), nil
	}

	configHome := filepath.Join(home, ".config")
	if xdgConfigHome, ok := src.lookupKey("XDG_CONFIG_HOME"); ok && xdgConfigHome != "" {
		configHome = xdgConfigHome
	}
	return filepath.Join(configHome, "scenariodb", "config.toml"), nil
}
