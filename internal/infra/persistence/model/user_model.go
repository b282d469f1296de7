// Package model contains the GORM persistence models.
// They are kept separate from domain entities so ORM concerns never leak upward.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel maps the users table. The unique index on email is the
// authoritative uniqueness guard: two concurrent registrations can both pass
// the existence check, but only one insert survives.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}

// TableName overrides the default GORM table name.
func (UserModel) TableName() string {
	return "users"
}
