package db

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable marks every failure coming from the persistence engine:
	// connectivity, timeouts, and constraint failures the caller did not expect.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrHandleClosed       = errors.New("db handle closed")
)

// StorageError wraps err so that both ErrStorageUnavailable and the original
// error match with errors.Is / errors.As.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
