package store

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
)

// Sentinel errors. These carry domain error codes so handlers can map
// them straight to HTTP responses with errors.Is / errors.As.
var (
	ErrNotFound      = apperrors.NotFound("record not found")
	ErrAlreadyExists = apperrors.AlreadyExists("record already exists")
)

// wrapStorage converts unexpected Badger faults into a retry-later
// storage error. Key-not-found is a domain condition, not a fault.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.StorageUnavailable(op).WithCause(err)
}
