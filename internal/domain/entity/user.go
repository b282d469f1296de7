// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the single account type in the system. The email doubles as the
// login identifier and is unique across all users.
type User struct {
	ID           uuid.UUID // The unique identifier for the user, assigned at creation.
	Email        string    // The user's login email, stored case-sensitively.
	PasswordHash string    // The bcrypt hash of the user's password. Never the plaintext.
	CreatedAt    time.Time // Timestamp of when this account was created.
}
