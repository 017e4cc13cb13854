package service

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-events-api/core/errors"
	"campus-events-api/core/logger"
	"campus-events-api/core/params"
	evententity "campus-events-api/modules/event/entity"
	"campus-events-api/modules/notification/dto"
	"campus-events-api/modules/notification/entity"
	"campus-events-api/modules/notification/repository"
	"campus-events-api/modules/notification/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationService enqueues delivery tasks for event lifecycle
// signals and serves the caller's notification feed. Enqueue failures
// are logged and swallowed so they never fail the triggering operation.
type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	client *asynq.Client
}

type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.ListNotificationsResponse, *errors.AppError)
	MarkRead(ctx context.Context, userID uuid.UUID, req *dto.MarkReadRequest) (*dto.MarkReadResponse, *errors.AppError)

	RegistrationConfirmed(ctx context.Context, userID uuid.UUID, event *evententity.Event, code string)
	RegistrationCancelled(ctx context.Context, userID uuid.UUID, event *evententity.Event)
	EventUpdated(ctx context.Context, event *evententity.Event, registrantIDs []uuid.UUID)
	EventCancelled(ctx context.Context, eventTitle string, registrantIDs []uuid.UUID)
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, client *asynq.Client) NotificationServiceInterface {
	return &NotificationService{repo: repo, client: client}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.ListNotificationsResponse, *errors.AppError) {
	rows, total, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list notifications", err)
	}

	items := make([]dto.NotificationResponse, 0, len(rows))
	for _, row := range rows {
		item := dto.NotificationResponse{
			ID:        row.ID,
			Title:     row.Title,
			Message:   row.Message,
			Type:      string(row.Type),
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		}
		if row.Data != nil {
			item.Data = *row.Data
		}
		items = append(items, item)
	}
	return &dto.ListNotificationsResponse{
		Items:      items,
		Total:      total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, req *dto.MarkReadRequest) (*dto.MarkReadResponse, *errors.AppError) {
	if len(req.IDs) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "No notification ids given", nil)
	}

	updated, err := s.repo.MarkRead(ctx, userID, req.IDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to mark notifications read", err)
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}

func (s *NotificationService) RegistrationConfirmed(ctx context.Context, userID uuid.UUID, event *evententity.Event, code string) {
	s.enqueueUser(ctx, tasks.NotifyUserPayload{
		UserID:  userID,
		Title:   "Registration confirmed",
		Message: fmt.Sprintf("You are registered for %q. Your code is %s.", event.Title, code),
		Type:    entity.TypeRegistrationConfirmed,
		Data:    eventData(event),
	})
}

func (s *NotificationService) RegistrationCancelled(ctx context.Context, userID uuid.UUID, event *evententity.Event) {
	s.enqueueUser(ctx, tasks.NotifyUserPayload{
		UserID:  userID,
		Title:   "Registration cancelled",
		Message: fmt.Sprintf("Your registration for %q was cancelled.", event.Title),
		Type:    entity.TypeRegistrationCancelled,
		Data:    eventData(event),
	})
}

func (s *NotificationService) EventUpdated(ctx context.Context, event *evententity.Event, registrantIDs []uuid.UUID) {
	s.enqueueBatch(ctx, tasks.NotifyBatchPayload{
		UserIDs: registrantIDs,
		Title:   "Event updated",
		Message: fmt.Sprintf("%q was updated. Check the new details.", event.Title),
		Type:    entity.TypeEventUpdated,
		Data:    eventData(event),
	})
}

func (s *NotificationService) EventCancelled(ctx context.Context, eventTitle string, registrantIDs []uuid.UUID) {
	s.enqueueBatch(ctx, tasks.NotifyBatchPayload{
		UserIDs: registrantIDs,
		Title:   "Event cancelled",
		Message: fmt.Sprintf("%q was cancelled and your registration was removed.", eventTitle),
		Type:    entity.TypeEventCancelled,
	})
}

func (s *NotificationService) enqueueUser(ctx context.Context, payload tasks.NotifyUserPayload) {
	task, err := tasks.NewNotifyUserTask(payload)
	if err != nil {
		logger.Error("NotificationService:EnqueueUser:Error", "error", err)
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		logger.Warn("NotificationService:EnqueueUser:Error", "user_id", payload.UserID, "error", err)
	}
}

func (s *NotificationService) enqueueBatch(ctx context.Context, payload tasks.NotifyBatchPayload) {
	if len(payload.UserIDs) == 0 {
		return
	}
	task, err := tasks.NewNotifyBatchTask(payload)
	if err != nil {
		logger.Error("NotificationService:EnqueueBatch:Error", "error", err)
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		logger.Warn("NotificationService:EnqueueBatch:Error", "recipients", len(payload.UserIDs), "error", err)
	}
}

func eventData(event *evententity.Event) string {
	data, _ := json.Marshal(map[string]string{
		"event_id": event.ID.String(),
		"slug":     event.Slug,
	})
	return string(data)
}
