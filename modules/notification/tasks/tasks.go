// Package tasks defines the background jobs that fan notifications out
// to registrants. Enqueueing is fire-and-forget; the worker persists the
// rows so a Redis hiccup never fails a registration.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-events-api/core/logger"
	"campus-events-api/modules/notification/entity"
	"campus-events-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeNotifyUser  = "notification:user"
	TypeNotifyBatch = "notification:batch"
)

// NotifyUserPayload delivers one notification to one user.
type NotifyUserPayload struct {
	UserID  uuid.UUID               `json:"user_id"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    entity.NotificationType `json:"type"`
	Data    string                  `json:"data,omitempty"`
}

// NotifyBatchPayload delivers the same notification to many users.
type NotifyBatchPayload struct {
	UserIDs []uuid.UUID             `json:"user_ids"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    entity.NotificationType `json:"type"`
	Data    string                  `json:"data,omitempty"`
}

func NewNotifyUserTask(payload NotifyUserPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal notify user payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyUser, data, asynq.MaxRetry(3)), nil
}

func NewNotifyBatchTask(payload NotifyBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal notify batch payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyBatch, data, asynq.MaxRetry(3)), nil
}

// Processor consumes notification tasks and persists the rows.
type Processor struct {
	repo repository.NotificationRepositoryInterface
}

func NewProcessor(repo repository.NotificationRepositoryInterface) *Processor {
	return &Processor{repo: repo}
}

// Register attaches the processor's handlers to the worker mux.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeNotifyUser, p.HandleNotifyUser)
	mux.HandleFunc(TypeNotifyBatch, p.HandleNotifyBatch)
}

func (p *Processor) HandleNotifyUser(ctx context.Context, t *asynq.Task) error {
	var payload NotifyUserPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	n := &entity.Notification{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
	}
	if payload.Data != "" {
		n.Data = &payload.Data
	}
	if err := p.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	logger.Debug("Processor:HandleNotifyUser:Delivered", "user_id", payload.UserID, "type", payload.Type)
	return nil
}

func (p *Processor) HandleNotifyBatch(ctx context.Context, t *asynq.Task) error {
	var payload NotifyBatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	notifications := make([]entity.Notification, 0, len(payload.UserIDs))
	for _, userID := range payload.UserIDs {
		n := entity.Notification{
			UserID:  userID,
			Title:   payload.Title,
			Message: payload.Message,
			Type:    payload.Type,
		}
		if payload.Data != "" {
			data := payload.Data
			n.Data = &data
		}
		notifications = append(notifications, n)
	}
	if err := p.repo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("persist notification batch: %w", err)
	}

	logger.Debug("Processor:HandleNotifyBatch:Delivered", "recipients", len(payload.UserIDs), "type", payload.Type)
	return nil
}
