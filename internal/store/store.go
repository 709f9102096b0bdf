// Package store defines the document store boundary: a flat key to
// document blob map reachable by read and overwrite. Implementations give no
// transactional guarantees; the last write wins.
package store

import (
	"context"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
)

// ErrNotFound indicates no document was ever written under the key.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "document not found")

// ErrTooLarge indicates a stored document exceeds the size a store will read.
var ErrTooLarge = apperrors.New(apperrors.CodeCorruptDocument, "document too large")

// DocumentStore reads and overwrites whole documents.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, doc []byte) error
}
