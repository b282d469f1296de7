package entity

import "time"

// Limits on the value of a stored string. Values are validated before they
// ever reach the persistence layer.
const (
	StoredStringMinLength = 1
	StoredStringMaxLength = 10000
)

// StoredString is a single saved string. Rows are insert-only: there are no
// update or delete operations on this table.
type StoredString struct {
	ID        int64     // Auto-assigned identifier.
	Value     string    // The stored text, 1..10000 characters, not all whitespace.
	CreatedAt time.Time // Assigned at insertion.
}
