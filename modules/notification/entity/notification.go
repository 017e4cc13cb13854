package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	TypeRegistrationConfirmed NotificationType = "registration_confirmed"
	TypeRegistrationCancelled NotificationType = "registration_cancelled"
	TypeEventUpdated          NotificationType = "event_updated"
	TypeEventCancelled        NotificationType = "event_cancelled"
)

// Notification is a persisted in-app message for one user.
type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	Data      *string          `db:"data" json:"data,omitempty"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
