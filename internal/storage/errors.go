package storage

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("storage: validation failed")
	ErrStorage        = errors.New("storage: store failure")
	ErrProvisioning   = errors.New("storage: provisioning failed")
	ErrNotProvisioned = errors.New("storage: store not provisioned")
)

// ValidationError names the offending input field. It is returned before any
// storage interaction takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a driver or filesystem failure raised while running Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

type ProvisioningError struct {
	Path string
	Err  error
}

func (e *ProvisioningError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("provision store %q: %v", e.Path, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ProvisioningError) Is(target error) bool {
	return target == ErrProvisioning
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func provisioningErr(path string, format string, args ...any) error {
	return &ProvisioningError{Path: path, Err: fmt.Errorf(format, args...)}
}
