// Package repository holds the read-only dashboard queries. Registration
// counts are always recomputed from event_registrations at read time;
// nothing here writes.
package repository

import (
	"context"
	"time"

	"campus-events-api/core/database"
	"campus-events-api/core/logger"

	"github.com/google/uuid"
)

// StudentRegistrationRow joins a registration with its event and the
// event's organizer.
type StudentRegistrationRow struct {
	EventID       uuid.UUID `db:"event_id"`
	Title         string    `db:"title"`
	Location      string    `db:"location"`
	StartAt       time.Time `db:"start_at"`
	EndAt         time.Time `db:"end_at"`
	Capacity      int       `db:"capacity"`
	Registered    int       `db:"registered"`
	OrganizerName string    `db:"organizer_name"`
	Code          string    `db:"code"`
	RegisteredAt  time.Time `db:"registered_at"`
}

// OrganizerEventRow is one of the organizer's events with its live count.
type OrganizerEventRow struct {
	EventID    uuid.UUID `db:"event_id"`
	Title      string    `db:"title"`
	Location   string    `db:"location"`
	StartAt    time.Time `db:"start_at"`
	EndAt      time.Time `db:"end_at"`
	Capacity   int       `db:"capacity"`
	Registered int       `db:"registered"`
	CreatedAt  time.Time `db:"created_at"`
}

// DashboardRepository serves the dashboard read models.
type DashboardRepository struct {
	db database.IDatabase
}

type DashboardRepositoryInterface interface {
	StudentRegistrations(ctx context.Context, userID uuid.UUID) ([]StudentRegistrationRow, error)
	OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]OrganizerEventRow, error)
}

func NewDashboardRepository(db database.IDatabase) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) StudentRegistrations(ctx context.Context, userID uuid.UUID) ([]StudentRegistrationRow, error) {
	query := `
		SELECT e.id AS event_id,
		       e.title,
		       e.location,
		       e.start_at,
		       e.end_at,
		       e.capacity,
		       (SELECT COUNT(*) FROM event_registrations c WHERE c.event_id = e.id) AS registered,
		       u.username AS organizer_name,
		       r.code,
		       r.registered_at
		FROM event_registrations r
		JOIN events e ON e.id = r.event_id
		JOIN users u ON u.id = e.organizer_id
		WHERE r.user_id = $1
		ORDER BY r.registered_at DESC
	`

	var rows []StudentRegistrationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		logger.Error("DashboardRepository:StudentRegistrations:Error", "error", err)
		return nil, err
	}
	return rows, nil
}

func (r *DashboardRepository) OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]OrganizerEventRow, error) {
	query := `
		SELECT e.id AS event_id,
		       e.title,
		       e.location,
		       e.start_at,
		       e.end_at,
		       e.capacity,
		       (SELECT COUNT(*) FROM event_registrations c WHERE c.event_id = e.id) AS registered,
		       e.created_at
		FROM events e
		WHERE e.organizer_id = $1
		ORDER BY e.created_at DESC
	`

	var rows []OrganizerEventRow
	if err := r.db.SelectContext(ctx, &rows, query, organizerID); err != nil {
		logger.Error("DashboardRepository:OrganizerEvents:Error", "error", err)
		return nil, err
	}
	return rows, nil
}
