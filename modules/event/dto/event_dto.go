package dto

import "time"

// ===================== Request DTOs =====================

// CreateEventRequest for publishing a new event.
type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	StartAt      time.Time `json:"start_at" validate:"required"`
	EndAt        time.Time `json:"end_at" validate:"required"`
	Capacity     int       `json:"capacity"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	ImageDataURL string    `json:"image_data_url"` // data:image/...;base64,...
}

// UpdateEventRequest for editing an event. All fields are replaced, in
// keeping with the edit form submitting the full event.
type UpdateEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	StartAt      time.Time `json:"start_at" validate:"required"`
	EndAt        time.Time `json:"end_at" validate:"required"`
	Capacity     int       `json:"capacity"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	ImageDataURL string    `json:"image_data_url"`
}

// ListEventsFilter narrows the public event list.
type ListEventsFilter struct {
	Category string `query:"category"`
	Search   string `query:"search"`
}

// ===================== Response DTOs =====================

// EventResponse is the public view of an event. Registered is always
// recomputed from the registration set, never read from a cached counter.
type EventResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Capacity    int       `json:"capacity"`
	Registered  int       `json:"registered"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Tags        []string  `json:"tags"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Viewer decorations, only set on the detail endpoint for an
	// authenticated viewer. RegistrationCode carries the registered
	// student's check-in reference.
	IsRegistered     bool   `json:"is_registered,omitempty"`
	CanEdit          bool   `json:"can_edit,omitempty"`
	RegistrationCode string `json:"registration_code,omitempty"`
}

// RegistrationResponse confirms a register/unregister outcome with the
// fresh registration count.
type RegistrationResponse struct {
	OK         bool   `json:"ok"`
	Registered int    `json:"registered"`
	Code       string `json:"code,omitempty"`
}
