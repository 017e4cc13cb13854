package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"campus-events-api/core/errors"
	"campus-events-api/core/logger"
	"campus-events-api/core/storage"
	"campus-events-api/core/utils"
	"campus-events-api/modules/event/dto"
	"campus-events-api/modules/event/entity"
	"campus-events-api/modules/event/mapper"
	"campus-events-api/modules/event/repository"
	userentity "campus-events-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Notifier receives event lifecycle signals. Delivery is asynchronous
// and best-effort; a delivery failure never fails the triggering
// operation.
type Notifier interface {
	RegistrationConfirmed(ctx context.Context, userID uuid.UUID, event *entity.Event, code string)
	RegistrationCancelled(ctx context.Context, userID uuid.UUID, event *entity.Event)
	EventUpdated(ctx context.Context, event *entity.Event, registrantIDs []uuid.UUID)
	EventCancelled(ctx context.Context, eventTitle string, registrantIDs []uuid.UUID)
}

// EventService orchestrates event lifecycle and registrations. It
// normalizes input, consults the rules engine, and delegates the
// race-prone writes to guarded repository transactions.
type EventService struct {
	repo     repository.EventRepositoryInterface
	rules    *RulesEngine
	uploader storage.Uploader
	notifier Notifier
}

type EventServiceInterface interface {
	List(ctx context.Context, filter *dto.ListEventsFilter) ([]dto.EventResponse, *errors.AppError)
	GetEventDetail(ctx context.Context, eventID uuid.UUID, viewer *userentity.Caller) (*dto.EventResponse, *errors.AppError)
	CreateEvent(ctx context.Context, caller userentity.Caller, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, caller userentity.Caller, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) *errors.AppError
	Register(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError)
	Unregister(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError)
}

func NewEventService(repo repository.EventRepositoryInterface, uploader storage.Uploader, notifier Notifier) EventServiceInterface {
	return &EventService{
		repo:     repo,
		rules:    NewRulesEngine(repo),
		uploader: uploader,
		notifier: notifier,
	}
}

func (s *EventService) List(ctx context.Context, filter *dto.ListEventsFilter) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.List(ctx, filter.Category, filter.Search)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}
	counts, err := s.repo.CountRegistrationsByEvents(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}

	return mapper.ToEventResponses(events, counts), nil
}

func (s *EventService) GetEventDetail(ctx context.Context, eventID uuid.UUID, viewer *userentity.Caller) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	registered, err := s.repo.CountRegistrations(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}

	resp := mapper.ToEventResponse(event, registered)
	if viewer != nil {
		resp.CanEdit = viewer.Role == userentity.RoleOrganizer && event.OrganizerID == viewer.ID
		if viewer.Role == userentity.RoleStudent {
			reg, err := s.repo.GetRegistration(ctx, event.ID, viewer.ID)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check registration", err)
			}
			if reg != nil {
				resp.IsRegistered = true
				resp.RegistrationCode = reg.Code
			}
		}
	}
	return resp, nil
}

func (s *EventService) CreateEvent(ctx context.Context, caller userentity.Caller, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if caller.Role != userentity.RoleOrganizer {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only organizers can create events.", nil)
	}

	candidate := EventCandidate{
		Title:    req.Title,
		Location: req.Location,
		StartAt:  entity.EnsureUTC(req.StartAt),
		EndAt:    entity.EnsureUTC(req.EndAt),
		Capacity: req.Capacity,
	}
	if appErr := s.rules.CanCreateOrUpdateEvent(ctx, caller.ID, candidate, nil, 0); appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		ID:          uuid.New(),
		Slug:        slug.Make(req.Title) + "-" + utils.GenerateID(),
		Title:       req.Title,
		Location:    req.Location,
		StartAt:     candidate.StartAt,
		EndAt:       candidate.EndAt,
		Capacity:    req.Capacity,
		OrganizerID: caller.ID,
	}
	setOptional(event, req.Category, req.Description)
	event.SetTags(req.Tags)

	if req.ImageDataURL != "" {
		url, appErr := s.uploadImage(ctx, event.Slug, req.ImageDataURL)
		if appErr != nil {
			return nil, appErr
		}
		event.ImageURL = &url
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		if stderrors.Is(err, repository.ErrRoomClash) {
			return nil, errors.NewAppError(errors.ErrConflict, "Room already booked in that time slot.", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	return mapper.ToEventResponse(event, 0), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, caller userentity.Caller, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	existing, appErr := s.loadOwnedEvent(ctx, caller, eventID)
	if appErr != nil {
		return nil, appErr
	}

	registered, err := s.repo.CountRegistrations(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}

	candidate := EventCandidate{
		Title:    req.Title,
		Location: req.Location,
		StartAt:  entity.EnsureUTC(req.StartAt),
		EndAt:    entity.EnsureUTC(req.EndAt),
		Capacity: req.Capacity,
	}
	if appErr := s.rules.CanCreateOrUpdateEvent(ctx, caller.ID, candidate, &eventID, registered); appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		ID:          eventID,
		Slug:        existing.Slug,
		Title:       req.Title,
		Location:    req.Location,
		StartAt:     candidate.StartAt,
		EndAt:       candidate.EndAt,
		Capacity:    req.Capacity,
		ImageURL:    existing.ImageURL,
		OrganizerID: caller.ID,
		CreatedAt:   existing.CreatedAt,
	}
	setOptional(event, req.Category, req.Description)
	event.SetTags(req.Tags)

	if req.ImageDataURL != "" {
		url, appErr := s.uploadImage(ctx, event.Slug, req.ImageDataURL)
		if appErr != nil {
			return nil, appErr
		}
		event.ImageURL = &url
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		switch {
		case stderrors.Is(err, repository.ErrEventNotFound):
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		case stderrors.Is(err, repository.ErrCapacityBelowRegistered):
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Capacity cannot be less than current registrations", nil)
		case stderrors.Is(err, repository.ErrRoomClash):
			return nil, errors.NewAppError(errors.ErrConflict, "Room already booked in that time slot.", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	s.notifyRegistrants(ctx, eventID, func(ids []uuid.UUID) {
		s.notifier.EventUpdated(ctx, event, ids)
	})

	return mapper.ToEventResponse(event, registered), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) *errors.AppError {
	existing, appErr := s.loadOwnedEvent(ctx, caller, eventID)
	if appErr != nil {
		return appErr
	}

	// Snapshot registrants before the cascade removes their rows.
	registrantIDs, err := s.repo.ListRegistrantIDs(ctx, eventID)
	if err != nil {
		logger.Warn("EventService:DeleteEvent:ListRegistrantIDs:Error", "event_id", eventID, "error", err)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		if stderrors.Is(err, repository.ErrEventNotFound) {
			return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		}
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	if s.notifier != nil && len(registrantIDs) > 0 {
		s.notifier.EventCancelled(ctx, existing.Title, registrantIDs)
	}
	return nil
}

func (s *EventService) Register(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}

	if appErr := s.rules.CanRegister(ctx, event, caller); appErr != nil {
		return nil, appErr
	}

	// The transaction repeats the race-prone checks under a row lock;
	// either side failing yields the same taxonomy error.
	reg, err := s.repo.Register(ctx, eventID, caller.ID)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrEventNotFound):
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		case stderrors.Is(err, repository.ErrAlreadyRegistered):
			return nil, errors.NewAppError(errors.ErrConflict, "Already registered for this event", nil)
		case stderrors.Is(err, repository.ErrEventFull):
			return nil, errors.NewAppError(errors.ErrConflict, "No seats available", nil)
		case stderrors.Is(err, repository.ErrEventEnded):
			return nil, errors.NewAppError(errors.ErrConflict, "Event has ended", nil)
		case stderrors.Is(err, repository.ErrTimeConflict):
			return nil, errors.NewAppError(errors.ErrConflict, "Time conflict with another registered event.", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to register", err)
	}

	registered, err := s.repo.CountRegistrations(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}

	if s.notifier != nil {
		s.notifier.RegistrationConfirmed(ctx, caller.ID, event, reg.Code)
	}

	return &dto.RegistrationResponse{OK: true, Registered: registered, Code: reg.Code}, nil
}

func (s *EventService) Unregister(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if appErr := s.rules.CanUnregister(ctx, eventID, caller); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Unregister(ctx, eventID, caller.ID); err != nil {
		if stderrors.Is(err, repository.ErrNotRegistered) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Not registered", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to unregister", err)
	}

	registered, err := s.repo.CountRegistrations(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count registrations", err)
	}

	if s.notifier != nil {
		s.notifier.RegistrationCancelled(ctx, caller.ID, event)
	}

	return &dto.RegistrationResponse{OK: true, Registered: registered}, nil
}

// loadOwnedEvent fetches an event and verifies the caller is its
// organizer. Ownership failures report NotFound rather than Forbidden to
// avoid confirming another organizer's event IDs.
func (s *EventService) loadOwnedEvent(ctx context.Context, caller userentity.Caller, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	if caller.Role != userentity.RoleOrganizer {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only organizers can manage events.", nil)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil || event.OrganizerID != caller.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

func (s *EventService) uploadImage(ctx context.Context, eventSlug, dataURL string) (string, *errors.AppError) {
	data, contentType, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Invalid image data", err)
	}

	key := fmt.Sprintf("events/%s-%d%s", eventSlug, time.Now().Unix(), utils.ExtensionForContentType(contentType))
	url, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		logger.Error("EventService:UploadImage:Error", "error", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to store image", err)
	}
	return url, nil
}

func (s *EventService) notifyRegistrants(ctx context.Context, eventID uuid.UUID, fn func(ids []uuid.UUID)) {
	if s.notifier == nil {
		return
	}
	ids, err := s.repo.ListRegistrantIDs(ctx, eventID)
	if err != nil {
		logger.Warn("EventService:NotifyRegistrants:Error", "event_id", eventID, "error", err)
		return
	}
	if len(ids) > 0 {
		fn(ids)
	}
}

func setOptional(event *entity.Event, category, description string) {
	if category != "" {
		event.Category = &category
	}
	if description != "" {
		event.Description = &description
	}
}
