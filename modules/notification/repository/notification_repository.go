package repository

import (
	"context"

	"campus-events-api/core/database"
	"campus-events-api/core/logger"
	"campus-events-api/core/params"
	"campus-events-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// NotificationRepository persists in-app notifications.
type NotificationRepository struct {
	db database.IDatabase
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entity.Notification) error
	CreateBatch(ctx context.Context, notifications []entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Notification, int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, data)
		VALUES (:user_id, :title, :message, :type, :data)
	`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		logger.Error("NotificationRepository:Create:Error", "error", err)
		return err
	}
	return nil
}

// CreateBatch inserts one row per recipient in a single statement.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	query := `
		INSERT INTO notifications (user_id, title, message, type, data)
		VALUES (:user_id, :title, :message, :type, :data)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notifications); err != nil {
		logger.Error("NotificationRepository:CreateBatch:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Notification, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		logger.Error("NotificationRepository:ListByUser:Count:Error", "error", err)
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, title, message, type, data, is_read, created_at, updated_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	offset := (p.PageNumber - 1) * p.PageSize

	var rows []entity.Notification
	if err := r.db.SelectContext(ctx, &rows, query, userID, p.PageSize, offset); err != nil {
		logger.Error("NotificationRepository:ListByUser:Error", "error", err)
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkRead flags the given notifications as read, scoped to the owner so
// one user cannot touch another's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`UPDATE notifications SET is_read = true, updated_at = now() WHERE user_id = ? AND id IN (?)`,
		userID, ids)
	if err != nil {
		logger.Error("NotificationRepository:MarkRead:Error", "error", err)
		return 0, err
	}
	query = r.db.SQLx().Rebind(query)

	result, err := r.db.SQLx().ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("NotificationRepository:MarkRead:Error", "error", err)
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}
