package service

import (
	"context"
	"time"

	"campus-events-api/core/errors"
	"campus-events-api/modules/event/entity"
	userentity "campus-events-api/modules/user/entity"

	"github.com/google/uuid"
)

// ConflictReader is the read-only slice of the store the rules engine
// consumes. The engine holds no state beyond these lookups.
type ConflictReader interface {
	HasRoomClash(ctx context.Context, organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) (bool, error)
	HasTimeConflict(ctx context.Context, userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) (bool, error)
	CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error)
	IsUserRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// RulesEngine decides whether event mutations and registrations are
// allowed. Decisions are returned as taxonomy errors; the event service
// surfaces them verbatim. The store re-verifies the race-prone checks
// (capacity, duplicate, overlap) inside its write transactions; the
// engine is the authoritative source of the rule ORDER and of the
// role/ownership checks the store never sees.
type RulesEngine struct {
	reader ConflictReader
	now    func() time.Time
}

func NewRulesEngine(reader ConflictReader) *RulesEngine {
	return &RulesEngine{reader: reader, now: func() time.Time { return time.Now().UTC() }}
}

// EventCandidate is the proposed shape of an event being created or
// updated, already normalized to UTC.
type EventCandidate struct {
	Title    string
	Location string
	StartAt  time.Time
	EndAt    time.Time
	Capacity int
}

// CanRegister evaluates the registration preconditions in strict order;
// the first failing condition wins.
func (r *RulesEngine) CanRegister(ctx context.Context, event *entity.Event, caller userentity.Caller) *errors.AppError {
	// 1. Event must exist.
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	// 2. Organizer accounts never register, for any event.
	if caller.Role == userentity.RoleOrganizer {
		return errors.NewAppError(errors.ErrForbidden, "Organizers cannot register for events.", nil)
	}

	// 3. Second guard, independent of the role check: an event's own
	// organizer can never register for it.
	if event.OrganizerID == caller.ID {
		return errors.NewAppError(errors.ErrForbidden, "Organizers cannot register for their own events.", nil)
	}

	// 4. No overlap with the caller's other registered events. The
	// target event itself is excluded to avoid a false self-conflict.
	conflict, err := r.reader.HasTimeConflict(ctx, caller.ID, event.StartAt, event.EndAt, &event.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check time conflicts", err)
	}
	if conflict {
		return errors.NewAppError(errors.ErrConflict, "Time conflict with another registered event.", nil)
	}

	// 5. A seat must be free.
	registered, err := r.reader.CountRegistrations(ctx, event.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}
	if event.Capacity-registered <= 0 {
		return errors.NewAppError(errors.ErrConflict, "No seats available", nil)
	}

	// 6. Registration closes the instant the end time passes.
	if event.EndAt.Before(r.now()) {
		return errors.NewAppError(errors.ErrConflict, "Event has ended", nil)
	}

	// 7. At most one registration per (user, event).
	dup, err := r.reader.IsUserRegistered(ctx, event.ID, caller.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check existing registration", err)
	}
	if dup {
		return errors.NewAppError(errors.ErrConflict, "Already registered for this event", nil)
	}

	return nil
}

// CanUnregister requires a student caller holding a registration.
// Organizer callers are rejected outright: they hold no registrations
// to cancel, and the mismatch is reported rather than silently ignored.
func (r *RulesEngine) CanUnregister(ctx context.Context, eventID uuid.UUID, caller userentity.Caller) *errors.AppError {
	if caller.Role == userentity.RoleOrganizer {
		return errors.NewAppError(errors.ErrForbidden, "Organizers have no registrations to cancel.", nil)
	}

	registered, err := r.reader.IsUserRegistered(ctx, eventID, caller.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check existing registration", err)
	}
	if !registered {
		return errors.NewAppError(errors.ErrNotFound, "Not registered", nil)
	}
	return nil
}

// CanCreateOrUpdateEvent validates an event's shape and checks for room
// clashes. existingEventID is set on update so the event does not clash
// with itself; currentRegistered is the live count for the shrink guard
// (zero on create).
func (r *RulesEngine) CanCreateOrUpdateEvent(ctx context.Context, organizerID uuid.UUID, candidate EventCandidate, existingEventID *uuid.UUID, currentRegistered int) *errors.AppError {
	if !candidate.EndAt.After(candidate.StartAt) {
		return errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time.", nil)
	}
	if candidate.Capacity < 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "Capacity must be non-negative", nil)
	}
	if existingEventID != nil && candidate.Capacity < currentRegistered {
		return errors.NewAppError(errors.ErrInvalidInput, "Capacity cannot be less than current registrations", nil)
	}

	clash, err := r.reader.HasRoomClash(ctx, organizerID, candidate.Location, candidate.StartAt, candidate.EndAt, existingEventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check room availability", err)
	}
	if clash {
		return errors.NewAppError(errors.ErrConflict, "Room already booked in that time slot.", nil)
	}
	return nil
}
