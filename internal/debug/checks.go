package debug

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/PyramidAGI/scenariodb/internal/config"
	"github.com/PyramidAGI/scenariodb/internal/labels"
	"github.com/PyramidAGI/scenariodb/internal/storage"
)

// Inputs is the state doctor inspects. ConfigErr is set when loading the
// config failed, in which case Config is ignored.
type Inputs struct {
	Config    config.Config
	Report    config.LoadReport
	ConfigErr error
}

// RunChecks fills bundle with config, labels, store and schema checks.
func RunChecks(ctx context.Context, in Inputs, bundle *Bundle) {
	if in.ConfigErr != nil {
		bundle.Checks = append(bundle.Checks, Check{Name: "config", OK: false, Message: in.ConfigErr.Error()})
		return
	}
	bundle.Checks = append(bundle.Checks, configCheck(in.Report))
	bundle.Checks = append(bundle.Checks, labelsCheck(in.Config.Store.LabelsFile))

	path := in.Config.Store.Path
	bundle.Store = map[string]any{"path": path}
	store, count := storeCheck(ctx, path)
	bundle.Checks = append(bundle.Checks, store)
	if store.OK {
		bundle.Store["scenarios"] = count
	}
	// A drifted column layout also breaks the row count, so the schema is
	// checked whenever a store file is present.
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		bundle.Checks = append(bundle.Checks, schemaCheck(ctx, path))
	}
}

func configCheck(report config.LoadReport) Check {
	msg := report.ConfigPath
	if !report.ConfigFound {
		msg = fmt.Sprintf("%s not found, using defaults", report.ConfigPath)
	}
	if report.EnvFile != "" {
		msg += fmt.Sprintf("; env file %s", report.EnvFile)
	}
	return Check{Name: "config", OK: true, Message: msg}
}

func labelsCheck(path string) Check {
	l, err := labels.Load(path)
	if err != nil {
		return Check{Name: "labels", OK: false, Message: err.Error()}
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return Check{Name: "labels", OK: true, Message: fmt.Sprintf("%s not found, labels show %s", path, labels.Missing)}
	}
	missing := []string{}
	for _, key := range []string{labels.KeyOrgName, labels.KeyAddress} {
		if _, ok := l.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Check{Name: "labels", OK: true, Message: fmt.Sprintf("%s missing keys: %s", path, strings.Join(missing, ", "))}
	}
	return Check{Name: "labels", OK: true, Message: path}
}

func storeCheck(ctx context.Context, path string) (Check, int) {
	items, err := storage.NewStore(path).List(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotProvisioned) {
			return Check{Name: "store", OK: false, Message: fmt.Sprintf("%s not provisioned; run `scenariodb reset`", path)}, 0
		}
		return Check{Name: "store", OK: false, Message: err.Error()}, 0
	}
	return Check{Name: "store", OK: true, Message: fmt.Sprintf("%s (%d scenarios)", path, len(items))}, len(items)
}

func schemaCheck(ctx context.Context, path string) Check {
	columns, err := storage.Describe(ctx, path)
	if err != nil {
		return Check{Name: "schema", OK: false, Message: err.Error()}
	}
	got := make([]string, 0, len(columns))
	for _, c := range columns {
		got = append(got, c.Name)
	}
	want := storage.ColumnNames()
	if !slices.Equal(got, want) {
		return Check{
			Name:    "schema",
			OK:      false,
			Message: fmt.Sprintf("columns %s, expected %s", strings.Join(got, ","), strings.Join(want, ",")),
		}
	}
	return Check{Name: "schema", OK: true, Message: strings.Join(got, ",")}
}
