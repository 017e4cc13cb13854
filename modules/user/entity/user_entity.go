package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is the user's campus role. Categorical: organizers publish events
// and never hold registrations; students register and never publish.
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleOrganizer
}

// User is an account on the platform.
type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	Username          string     `db:"username" json:"username"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              Role       `db:"role" json:"role"`
	ProfilePictureURL *string    `db:"profile_picture_url" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt       *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// Caller identifies who is performing an operation. Threaded explicitly
// into every service call instead of being read from ambient context.
type Caller struct {
	ID   uuid.UUID
	Role Role
}
