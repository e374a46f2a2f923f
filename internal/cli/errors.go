package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/PyramidAGI/scenariodb/internal/config"
	"github.com/PyramidAGI/scenariodb/internal/storage"
)

const (
	ExitCodeSuccess        = 0
	ExitCodeGeneric        = 1
	ExitCodeUsage          = 2
	ExitCodeNotProvisioned = 3
	ExitCodePermission     = 4
	ExitCodeIO             = 7
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func asExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrValidation),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, app.ErrStoreExists):
		return asExitError(ExitCodeUsage, err)
	case errors.Is(err, storage.ErrNotProvisioned):
		return asExitError(ExitCodeNotProvisioned, err)
	case errors.Is(err, fs.ErrPermission):
		return asExitError(ExitCodePermission, err)
	case errors.Is(err, storage.ErrStorage), errors.Is(err, storage.ErrProvisioning):
		return asExitError(ExitCodeIO, err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) {
		return asExitError(ExitCodeIO, err)
	}
	return asExitError(ExitCodeGeneric, err)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}
