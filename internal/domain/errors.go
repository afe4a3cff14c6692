package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an account or transaction reference does not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed input, or a lookup filter that matched
	// nothing while auto-creation is disabled.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorage classifies any failure coming from the storage layer.
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps a storage failure with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err as a storage failure of op. Errors that already carry
// a ledger classification are returned unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsClassified reports whether err already belongs to the ledger error taxonomy.
func IsClassified(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrStorage)
}

// NotFoundf formats an ErrNotFound with context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgumentf formats an ErrInvalidArgument with context.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
