package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/PyramidAGI/scenariodb/internal/storage"
)

var ErrStoreExists = errors.New("app: store already exists")

type ProvisionOptions struct {
	// Overwrite must be set to replace a store that already exists.
	Overwrite bool
	Logger    *slog.Logger
}

// ProvisionStore destroys and recreates the store at path. It reports
// whether an existing store was replaced.
func ProvisionStore(ctx context.Context, path string, opts ProvisionOptions) (replaced bool, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	exists, err := StoreExists(path)
	if err != nil {
		return false, err
	}
	if exists && !opts.Overwrite {
		return false, fmt.Errorf("%w: %s", ErrStoreExists, path)
	}

	if err := storage.Reset(ctx, path); err != nil {
		logger.Error("provision store failed", "path", path, "err", err)
		return false, err
	}
	logger.Info("store provisioned", "path", path, "replaced", exists)
	return exists, nil
}

// EnsureStore creates the store when missing and keeps existing records.
func EnsureStore(ctx context.Context, path string, logger *slog.Logger) (created bool, err error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	exists, err := StoreExists(path)
	if err != nil {
		return false, err
	}
	if err := storage.Ensure(ctx, path); err != nil {
		logger.Error("ensure store failed", "path", path, "err", err)
		return false, err
	}
	logger.Info("store ready", "path", path, "created", !exists)
	return !exists, nil
}

func StoreExists(path string) (bool, error) {
	if path == "" {
		return false, &storage.ProvisioningError{Path: path, Err: errors.New("empty store path")}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat store %q: %w", path, err)
	}
	if info.IsDir() {
		return false, &storage.ProvisioningError{Path: path, Err: errors.New("path is a directory")}
	}
	return true, nil
}
