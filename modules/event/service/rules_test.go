package service

import (
	"context"
	"testing"
	"time"

	"campus-events-api/core/errors"
	"campus-events-api/modules/event/entity"
	userentity "campus-events-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConflictReader returns canned answers so each rule can be tripped
// in isolation.
type fakeConflictReader struct {
	roomClash    bool
	timeConflict bool
	registered   int
	isRegistered bool
}

func (f *fakeConflictReader) HasRoomClash(ctx context.Context, organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) (bool, error) {
	return f.roomClash, nil
}

func (f *fakeConflictReader) HasTimeConflict(ctx context.Context, userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) (bool, error) {
	return f.timeConflict, nil
}

func (f *fakeConflictReader) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	return f.registered, nil
}

func (f *fakeConflictReader) IsUserRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return f.isRegistered, nil
}

func fixedRules(reader ConflictReader, now time.Time) *RulesEngine {
	r := NewRulesEngine(reader)
	r.now = func() time.Time { return now }
	return r
}

func upcomingEvent(organizerID uuid.UUID, capacity int) *entity.Event {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Event{
		ID:          uuid.New(),
		Title:       "Tech Talk",
		Location:    "Lab 2",
		StartAt:     start,
		EndAt:       start.Add(2 * time.Hour),
		Capacity:    capacity,
		OrganizerID: organizerID,
	}
}

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestCanRegisterRuleOrder(t *testing.T) {
	organizerID := uuid.New()
	student := userentity.Caller{ID: uuid.New(), Role: userentity.RoleStudent}

	tests := []struct {
		name     string
		event    *entity.Event
		caller   userentity.Caller
		reader   fakeConflictReader
		now      time.Time
		wantCode errors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "missing event",
			event:    nil,
			caller:   student,
			wantCode: errors.ErrNotFound,
			wantMsg:  "Event not found",
		},
		{
			name:     "organizer role blocked before any lookup",
			event:    upcomingEvent(organizerID, 10),
			caller:   userentity.Caller{ID: uuid.New(), Role: userentity.RoleOrganizer},
			reader:   fakeConflictReader{timeConflict: true, registered: 10},
			wantCode: errors.ErrForbidden,
			wantMsg:  "Organizers cannot register for events.",
		},
		{
			name:     "own event blocked even for student role",
			event:    upcomingEvent(student.ID, 10),
			caller:   student,
			wantCode: errors.ErrForbidden,
			wantMsg:  "Organizers cannot register for their own events.",
		},
		{
			name:     "time conflict wins over capacity",
			event:    upcomingEvent(organizerID, 0),
			caller:   student,
			reader:   fakeConflictReader{timeConflict: true},
			wantCode: errors.ErrConflict,
			wantMsg:  "Time conflict with another registered event.",
		},
		{
			name:     "full event",
			event:    upcomingEvent(organizerID, 2),
			caller:   student,
			reader:   fakeConflictReader{registered: 2},
			wantCode: errors.ErrConflict,
			wantMsg:  "No seats available",
		},
		{
			name:     "zero capacity never has seats",
			event:    upcomingEvent(organizerID, 0),
			caller:   student,
			wantCode: errors.ErrConflict,
			wantMsg:  "No seats available",
		},
		{
			name:     "ended event",
			event:    upcomingEvent(organizerID, 10),
			caller:   student,
			now:      time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
			wantCode: errors.ErrConflict,
			wantMsg:  "Event has ended",
		},
		{
			name:     "duplicate registration",
			event:    upcomingEvent(organizerID, 10),
			caller:   student,
			reader:   fakeConflictReader{isRegistered: true},
			wantCode: errors.ErrConflict,
			wantMsg:  "Already registered for this event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			if now.IsZero() {
				now = testNow
			}
			rules := fixedRules(&tt.reader, now)

			appErr := rules.CanRegister(context.Background(), tt.event, tt.caller)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestCanRegisterAllowed(t *testing.T) {
	rules := fixedRules(&fakeConflictReader{registered: 3}, testNow)
	student := userentity.Caller{ID: uuid.New(), Role: userentity.RoleStudent}

	appErr := rules.CanRegister(context.Background(), upcomingEvent(uuid.New(), 10), student)
	assert.Nil(t, appErr)
}

func TestCanRegisterLastSeat(t *testing.T) {
	rules := fixedRules(&fakeConflictReader{registered: 9}, testNow)
	student := userentity.Caller{ID: uuid.New(), Role: userentity.RoleStudent}

	appErr := rules.CanRegister(context.Background(), upcomingEvent(uuid.New(), 10), student)
	assert.Nil(t, appErr)
}

func TestCanUnregister(t *testing.T) {
	eventID := uuid.New()
	student := userentity.Caller{ID: uuid.New(), Role: userentity.RoleStudent}

	t.Run("organizer forbidden", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{isRegistered: true}, testNow)
		appErr := rules.CanUnregister(context.Background(), eventID, userentity.Caller{ID: uuid.New(), Role: userentity.RoleOrganizer})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("not registered", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		appErr := rules.CanUnregister(context.Background(), eventID, student)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
		assert.Equal(t, "Not registered", appErr.Message)
	})

	t.Run("registered student allowed", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{isRegistered: true}, testNow)
		assert.Nil(t, rules.CanUnregister(context.Background(), eventID, student))
	})
}

func TestCanCreateOrUpdateEvent(t *testing.T) {
	organizerID := uuid.New()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	valid := EventCandidate{
		Title:    "Workshop",
		Location: "Lab 2",
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		Capacity: 20,
	}

	t.Run("valid create", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		assert.Nil(t, rules.CanCreateOrUpdateEvent(context.Background(), organizerID, valid, nil, 0))
	})

	t.Run("end not after start", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		bad := valid
		bad.EndAt = bad.StartAt
		appErr := rules.CanCreateOrUpdateEvent(context.Background(), organizerID, bad, nil, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("negative capacity", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		bad := valid
		bad.Capacity = -1
		appErr := rules.CanCreateOrUpdateEvent(context.Background(), organizerID, bad, nil, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("capacity below registered on update", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		shrunk := valid
		shrunk.Capacity = 5
		eventID := uuid.New()
		appErr := rules.CanCreateOrUpdateEvent(context.Background(), organizerID, shrunk, &eventID, 7)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		assert.Equal(t, "Capacity cannot be less than current registrations", appErr.Message)
	})

	t.Run("capacity shrink above registered allowed", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{}, testNow)
		shrunk := valid
		shrunk.Capacity = 7
		eventID := uuid.New()
		assert.Nil(t, rules.CanCreateOrUpdateEvent(context.Background(), organizerID, shrunk, &eventID, 7))
	})

	t.Run("room clash", func(t *testing.T) {
		rules := fixedRules(&fakeConflictReader{roomClash: true}, testNow)
		appErr := rules.CanCreateOrUpdateEvent(context.Background(), organizerID, valid, nil, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrConflict, appErr.Code)
		assert.Equal(t, "Room already booked in that time slot.", appErr.Message)
	})
}
