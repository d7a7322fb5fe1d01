package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user row, including the password hash. Handlers must
// convert to types.User before serializing.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Resume represents a stored resume row.
type Resume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FileName  string
	FileURL   string
	JobTitle  string
	Version   int
	Content   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activity represents an activity-log row joined with the user's email.
type Activity struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserEmail string
	Action    string
	Detail    string
	CreatedAt time.Time
}
