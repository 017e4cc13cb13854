// Package repository implements the event store: event and registration
// rows plus the overlap queries the rules engine consumes. Mutations that
// race (register, create/update under a clash check) run inside a single
// transaction so no check can pass on a stale read.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campus-events-api/core/database"
	"campus-events-api/core/logger"
	"campus-events-api/core/utils"
	"campus-events-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Sentinel errors surfaced from guarded transactions. The service maps
// them onto the error taxonomy.
var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventFull               = errors.New("no seats available")
	ErrEventEnded              = errors.New("event has ended")
	ErrAlreadyRegistered       = errors.New("already registered for this event")
	ErrTimeConflict            = errors.New("time conflict with another registered event")
	ErrRoomClash               = errors.New("room already booked in that time slot")
	ErrCapacityBelowRegistered = errors.New("capacity cannot be less than current registrations")
	ErrNotRegistered           = errors.New("not registered")
)

// EventRepository handles event and registration persistence.
type EventRepository struct {
	db database.IDatabase
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context, category, search string) ([]entity.Event, error)
	GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error)
	CountRegistrationsByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error)
	IsUserRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	HasRoomClash(ctx context.Context, organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) (bool, error)
	HasTimeConflict(ctx context.Context, userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) (bool, error)
	CreateEvent(ctx context.Context, event *entity.Event) error
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
	Register(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error)
	Unregister(ctx context.Context, eventID, userID uuid.UUID) error
	GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error)
	ListRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, slug, title, location, start_at, end_at, capacity, category, description, image_url, tags_json, organizer_id, created_at, updated_at`

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, category, search string) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`

	var events []entity.Event
	err := r.db.SelectContext(ctx, &events, query, category, search)
	if err != nil {
		logger.Error("EventRepository:List:Error", "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`

	var events []entity.Event
	err := r.db.SelectContext(ctx, &events, query, organizerID)
	if err != nil {
		logger.Error("EventRepository:GetByOrganizer:Error", "error", err)
		return nil, err
	}
	return events, nil
}

// CountRegistrations recomputes the live registration count. The count is
// derived, never stored as an authoritative column.
func (r *EventRepository) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("EventRepository:CountRegistrations:Error", "error", err)
		return 0, err
	}
	return count, nil
}

// CountRegistrationsByEvents recomputes registration counts for a batch
// of events in one query. Events with no registrations are absent from
// the returned map.
func (r *EventRepository) CountRegistrationsByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(
		`SELECT event_id, COUNT(*) AS count FROM event_registrations WHERE event_id IN (?) GROUP BY event_id`,
		eventIDs)
	if err != nil {
		logger.Error("EventRepository:CountRegistrationsByEvents:Error", "error", err)
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	rows := []struct {
		EventID uuid.UUID `db:"event_id"`
		Count   int       `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("EventRepository:CountRegistrationsByEvents:Error", "error", err)
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *EventRepository) IsUserRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID)
	if err != nil {
		logger.Error("EventRepository:IsUserRegistered:Error", "error", err)
		return false, err
	}
	return exists, nil
}

// HasRoomClash reports whether another event by the same organizer at the
// same normalized location overlaps [startAt, endAt). Other organizers'
// events at the same location never clash.
func (r *EventRepository) HasRoomClash(ctx context.Context, organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM events
			WHERE organizer_id = $1
			  AND lower(btrim(location)) = $2
			  AND start_at < $4 AND $3 < end_at
			  AND ($5::uuid IS NULL OR id <> $5)
		)
	`

	var clash bool
	err := r.db.GetContext(ctx, &clash, query,
		organizerID, entity.NormalizeLocation(location), startAt.UTC(), endAt.UTC(), ignoreEventID)
	if err != nil {
		logger.Error("EventRepository:HasRoomClash:Error", "error", err)
		return false, err
	}
	return clash, nil
}

// HasTimeConflict reports whether any of the user's registered events
// overlaps [startAt, endAt), excluding excludeEventID when given.
func (r *EventRepository) HasTimeConflict(ctx context.Context, userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM event_registrations reg
			JOIN events e ON e.id = reg.event_id
			WHERE reg.user_id = $1
			  AND e.start_at < $3 AND $2 < e.end_at
			  AND ($4::uuid IS NULL OR e.id <> $4)
		)
	`

	var conflict bool
	err := r.db.GetContext(ctx, &conflict, query, userID, startAt.UTC(), endAt.UTC(), excludeEventID)
	if err != nil {
		logger.Error("EventRepository:HasTimeConflict:Error", "error", err)
		return false, err
	}
	return conflict, nil
}

// lockRoom serializes clash-checked writes per (organizer, location) for
// the duration of the transaction. Row locks cannot stop two concurrent
// INSERTs from both passing the clash check; the advisory lock can.
func lockRoom(ctx context.Context, tx *sqlx.Tx, organizerID uuid.UUID, location string) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		organizerID.String()+":"+entity.NormalizeLocation(location))
	return err
}

// lockUser serializes one student's registrations across events. Two
// concurrent registers for different overlapping events lock different
// event rows, so only a per-user lock makes the time-conflict re-check
// sound.
func lockUser(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		"user:"+userID.String())
	return err
}

const clashExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM events
		WHERE organizer_id = $1
		  AND lower(btrim(location)) = $2
		  AND start_at < $4 AND $3 < end_at
		  AND ($5::uuid IS NULL OR id <> $5)
	)
`

// CreateEvent inserts a new event after re-running the room-clash check
// under a per-room advisory lock, all in one transaction.
func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockRoom(ctx, tx, event.OrganizerID, event.Location); err != nil {
		logger.Error("EventRepository:CreateEvent:LockRoom:Error", "error", err)
		return err
	}

	var clash bool
	err = tx.GetContext(ctx, &clash, clashExistsQuery,
		event.OrganizerID, entity.NormalizeLocation(event.Location), event.StartAt, event.EndAt, nil)
	if err != nil {
		logger.Error("EventRepository:CreateEvent:ClashCheck:Error", "error", err)
		return err
	}
	if clash {
		return ErrRoomClash
	}

	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, slug, title, location, start_at, end_at, capacity, category, description, image_url, tags_json, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		event.ID, event.Slug, event.Title, event.Location, event.StartAt, event.EndAt,
		event.Capacity, event.Category, event.Description, event.ImageURL, event.TagsJSON,
		event.OrganizerID, event.CreatedAt)
	if err != nil {
		logger.Error("EventRepository:CreateEvent:Insert:Error", "error", err)
		return err
	}

	return tx.Commit()
}

// UpdateEvent replaces an event's mutable fields. Inside one transaction
// it locks the event row, re-verifies that capacity is not being shrunk
// below the live registration count, and re-runs the clash check under
// the room advisory lock.
func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID uuid.UUID
	err = tx.GetContext(ctx, &lockedID,
		`SELECT id FROM events WHERE id = $1 AND organizer_id = $2 FOR UPDATE`,
		event.ID, event.OrganizerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		logger.Error("EventRepository:UpdateEvent:Lock:Error", "error", err)
		return err
	}

	var registered int
	err = tx.GetContext(ctx, &registered,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, event.ID)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent:Count:Error", "error", err)
		return err
	}
	if event.Capacity < registered {
		return ErrCapacityBelowRegistered
	}

	if err := lockRoom(ctx, tx, event.OrganizerID, event.Location); err != nil {
		logger.Error("EventRepository:UpdateEvent:LockRoom:Error", "error", err)
		return err
	}

	var clash bool
	err = tx.GetContext(ctx, &clash, clashExistsQuery,
		event.OrganizerID, entity.NormalizeLocation(event.Location), event.StartAt, event.EndAt, event.ID)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent:ClashCheck:Error", "error", err)
		return err
	}
	if clash {
		return ErrRoomClash
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET slug = $2, title = $3, location = $4, start_at = $5, end_at = $6, capacity = $7,
		    category = $8, description = $9, image_url = $10, tags_json = $11, updated_at = now()
		WHERE id = $1`,
		event.ID, event.Slug, event.Title, event.Location, event.StartAt, event.EndAt,
		event.Capacity, event.Category, event.Description, event.ImageURL, event.TagsJSON)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent:Update:Error", "error", err)
		return err
	}

	return tx.Commit()
}

// DeleteEvent removes an event and its registrations in one transaction.
// The schema's ON DELETE CASCADE is the backstop; the explicit delete
// keeps the cascade visible at the application layer.
func (r *EventRepository) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1`, eventID); err != nil {
		logger.Error("EventRepository:DeleteEvent:Registrations:Error", "error", err)
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent:Error", "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}

	return tx.Commit()
}

// Register creates a registration inside a serialized transaction.
//
// The event row is locked with SELECT ... FOR UPDATE so concurrent
// register calls for the same event queue up: each one re-reads the
// live count under the lock, and at most capacity inserts can ever
// commit. The duplicate, capacity and ended checks are re-run under
// that lock. The time-conflict re-check additionally takes a per-user
// advisory lock, because two registrations for different overlapping
// events lock different rows and would otherwise both pass the EXISTS
// check against committed state.
func (r *EventRepository) Register(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var ev struct {
		Capacity int       `db:"capacity"`
		StartAt  time.Time `db:"start_at"`
		EndAt    time.Time `db:"end_at"`
	}
	err = tx.GetContext(ctx, &ev,
		`SELECT capacity, start_at, end_at FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		logger.Error("EventRepository:Register:Lock:Error", "error", err)
		return nil, err
	}

	var dup bool
	err = tx.GetContext(ctx, &dup,
		`SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID)
	if err != nil {
		logger.Error("EventRepository:Register:Duplicate:Error", "error", err)
		return nil, err
	}
	if dup {
		return nil, ErrAlreadyRegistered
	}

	var registered int
	err = tx.GetContext(ctx, &registered,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("EventRepository:Register:Count:Error", "error", err)
		return nil, err
	}
	if registered >= ev.Capacity {
		return nil, ErrEventFull
	}

	if ev.EndAt.Before(time.Now().UTC()) {
		return nil, ErrEventEnded
	}

	if err := lockUser(ctx, tx, userID); err != nil {
		logger.Error("EventRepository:Register:LockUser:Error", "error", err)
		return nil, err
	}

	var conflict bool
	err = tx.GetContext(ctx, &conflict, `
		SELECT EXISTS (
			SELECT 1
			FROM event_registrations reg
			JOIN events e ON e.id = reg.event_id
			WHERE reg.user_id = $1
			  AND e.start_at < $3 AND $2 < e.end_at
			  AND e.id <> $4
		)`, userID, ev.StartAt, ev.EndAt, eventID)
	if err != nil {
		logger.Error("EventRepository:Register:Conflict:Error", "error", err)
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	reg := &entity.Registration{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		Code:         utils.GenerateCode(),
		RegisteredAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_registrations (id, event_id, user_id, code, registered_at)
		VALUES ($1, $2, $3, $4, $5)`,
		reg.ID, reg.EventID, reg.UserID, reg.Code, reg.RegisteredAt)
	if err != nil {
		logger.Error("EventRepository:Register:Insert:Error", "error", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *EventRepository) Unregister(ctx context.Context, eventID, userID uuid.UUID) error {
	res, err := r.db.NamedExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = :event_id AND user_id = :user_id`,
		map[string]any{"event_id": eventID, "user_id": userID})
	if err != nil {
		logger.Error("EventRepository:Unregister:Error", "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotRegistered
	}
	return nil
}

func (r *EventRepository) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	query := `
		SELECT id, event_id, user_id, code, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2
	`

	var reg entity.Registration
	err := r.db.GetContext(ctx, &reg, query, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetRegistration:Error", "error", err)
		return nil, err
	}
	return &reg, nil
}

func (r *EventRepository) ListRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM event_registrations WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("EventRepository:ListRegistrantIDs:Error", "error", err)
		return nil, err
	}
	return ids, nil
}
