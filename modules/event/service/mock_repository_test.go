package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-events-api/core/utils"
	"campus-events-api/modules/event/entity"
	"campus-events-api/modules/event/repository"

	"github.com/google/uuid"
)

// memoryEventRepo is an in-memory stand-in for the Postgres repository.
// A single mutex models the transactional guarantees (the FOR UPDATE
// row lock plus the per-room and per-user advisory locks): every
// guarded write re-checks its preconditions under the lock, so
// concurrent registrations for the same event, and for different
// overlapping events by the same student, serialize the same way the
// real transactions do.
type memoryEventRepo struct {
	mu            sync.Mutex
	events        map[uuid.UUID]*entity.Event
	registrations map[uuid.UUID]map[uuid.UUID]*entity.Registration
	now           func() time.Time
}

func newMemoryEventRepo(now func() time.Time) *memoryEventRepo {
	return &memoryEventRepo{
		events:        make(map[uuid.UUID]*entity.Event),
		registrations: make(map[uuid.UUID]map[uuid.UUID]*entity.Registration),
		now:           now,
	}
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (m *memoryEventRepo) List(ctx context.Context, category, search string) ([]entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []entity.Event
	for _, e := range m.events {
		if category != "" && (e.Category == nil || *e.Category != category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(search)) {
			continue
		}
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (m *memoryEventRepo) GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []entity.Event
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (m *memoryEventRepo) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registrations[eventID]), nil
}

func (m *memoryEventRepo) CountRegistrationsByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uuid.UUID]int, len(eventIDs))
	for _, id := range eventIDs {
		if n := len(m.registrations[id]); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *memoryEventRepo) IsUserRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.registrations[eventID][userID]
	return ok, nil
}

func (m *memoryEventRepo) HasRoomClash(ctx context.Context, organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasRoomClashLocked(organizerID, location, startAt, endAt, ignoreEventID), nil
}

func (m *memoryEventRepo) hasRoomClashLocked(organizerID uuid.UUID, location string, startAt, endAt time.Time, ignoreEventID *uuid.UUID) bool {
	window := entity.TimeRange{Start: startAt, End: endAt}
	for _, e := range m.events {
		if e.OrganizerID != organizerID {
			continue
		}
		if entity.NormalizeLocation(e.Location) != entity.NormalizeLocation(location) {
			continue
		}
		if ignoreEventID != nil && e.ID == *ignoreEventID {
			continue
		}
		if e.Window().Overlaps(window) {
			return true
		}
	}
	return false
}

func (m *memoryEventRepo) HasTimeConflict(ctx context.Context, userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasTimeConflictLocked(userID, startAt, endAt, excludeEventID), nil
}

func (m *memoryEventRepo) hasTimeConflictLocked(userID uuid.UUID, startAt, endAt time.Time, excludeEventID *uuid.UUID) bool {
	window := entity.TimeRange{Start: startAt, End: endAt}
	for eventID, regs := range m.registrations {
		if _, ok := regs[userID]; !ok {
			continue
		}
		if excludeEventID != nil && eventID == *excludeEventID {
			continue
		}
		if e, ok := m.events[eventID]; ok && e.Window().Overlaps(window) {
			return true
		}
	}
	return false
}

func (m *memoryEventRepo) CreateEvent(ctx context.Context, event *entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasRoomClashLocked(event.OrganizerID, event.Location, event.StartAt, event.EndAt, nil) {
		return repository.ErrRoomClash
	}
	copied := *event
	copied.CreatedAt = m.now()
	copied.UpdatedAt = copied.CreatedAt
	m.events[event.ID] = &copied
	return nil
}

func (m *memoryEventRepo) UpdateEvent(ctx context.Context, event *entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.events[event.ID]
	if !ok || existing.OrganizerID != event.OrganizerID {
		return repository.ErrEventNotFound
	}
	if event.Capacity < len(m.registrations[event.ID]) {
		return repository.ErrCapacityBelowRegistered
	}
	if m.hasRoomClashLocked(event.OrganizerID, event.Location, event.StartAt, event.EndAt, &event.ID) {
		return repository.ErrRoomClash
	}
	copied := *event
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = m.now()
	m.events[event.ID] = &copied
	return nil
}

func (m *memoryEventRepo) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		return repository.ErrEventNotFound
	}
	delete(m.events, eventID)
	delete(m.registrations, eventID)
	return nil
}

func (m *memoryEventRepo) Register(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	if _, ok := m.registrations[eventID][userID]; ok {
		return nil, repository.ErrAlreadyRegistered
	}
	if len(m.registrations[eventID]) >= event.Capacity {
		return nil, repository.ErrEventFull
	}
	if event.EndAt.Before(m.now()) {
		return nil, repository.ErrEventEnded
	}
	if m.hasTimeConflictLocked(userID, event.StartAt, event.EndAt, &eventID) {
		return nil, repository.ErrTimeConflict
	}

	reg := &entity.Registration{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		Code:         utils.GenerateCode(),
		RegisteredAt: m.now(),
	}
	if m.registrations[eventID] == nil {
		m.registrations[eventID] = make(map[uuid.UUID]*entity.Registration)
	}
	m.registrations[eventID][userID] = reg
	return reg, nil
}

func (m *memoryEventRepo) Unregister(ctx context.Context, eventID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registrations[eventID][userID]; !ok {
		return repository.ErrNotRegistered
	}
	delete(m.registrations[eventID], userID)
	return nil
}

func (m *memoryEventRepo) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[eventID][userID]
	if !ok {
		return nil, nil
	}
	copied := *reg
	return &copied, nil
}

func (m *memoryEventRepo) ListRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.registrations[eventID]))
	for userID := range m.registrations[eventID] {
		ids = append(ids, userID)
	}
	return ids, nil
}

// recordingNotifier captures lifecycle signals for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []uuid.UUID
	cancelled []uuid.UUID
	updated   int
	deleted   int
}

func (n *recordingNotifier) RegistrationConfirmed(ctx context.Context, userID uuid.UUID, event *entity.Event, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, userID)
}

func (n *recordingNotifier) RegistrationCancelled(ctx context.Context, userID uuid.UUID, event *entity.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, userID)
}

func (n *recordingNotifier) EventUpdated(ctx context.Context, event *entity.Event, registrantIDs []uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated += len(registrantIDs)
}

func (n *recordingNotifier) EventCancelled(ctx context.Context, eventTitle string, registrantIDs []uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted += len(registrantIDs)
}

// stubUploader returns a deterministic URL.
type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "https://cdn.example.test/" + key, nil
}
