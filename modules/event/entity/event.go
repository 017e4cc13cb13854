package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a campus event published by an organizer.
type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Location    string    `db:"location" json:"location"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Category    *string   `db:"category" json:"category,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	TagsJSON    string    `db:"tags_json" json:"-"`
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Tags decodes the JSON-encoded tag list. Order is preserved.
func (e *Event) Tags() []string {
	if e.TagsJSON == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(e.TagsJSON), &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags encodes the tag list into the stored column.
func (e *Event) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	e.TagsJSON = string(b)
}

// Window returns the event's time range.
func (e *Event) Window() TimeRange {
	return TimeRange{Start: e.StartAt, End: e.EndAt}
}

// Registration is the join row between a student and an event. Owned by
// the event: deleting the event cascades to its registrations.
type Registration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Code         string    `db:"code" json:"code"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints (a.End == b.Start) do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// NormalizeLocation canonicalizes a location string for clash comparison.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// EnsureUTC normalizes any timestamp to UTC before comparisons cross the
// boundary. Comparisons are never performed on unnormalized local values.
func EnsureUTC(t time.Time) time.Time {
	return t.UTC()
}
