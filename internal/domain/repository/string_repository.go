package repository

import (
	"context"
	"errors"

	"stringbox/internal/domain/entity"
)

// ErrStringNotFound is returned when an offset query lands on no row, which
// can happen if rows shift between the count and the offset query.
var ErrStringNotFound = errors.New("stored string not found")

// StringRepository defines the operations for the insert-only string store.
type StringRepository interface {
	// Insert persists a new string and fills in its generated ID and timestamp.
	Insert(ctx context.Context, s *entity.StoredString) error

	// Count returns the number of stored strings.
	Count(ctx context.Context) (int64, error)

	// FindByOffset returns the row at the given zero-based offset in insertion order.
	FindByOffset(ctx context.Context, offset int64) (*entity.StoredString, error)
}
