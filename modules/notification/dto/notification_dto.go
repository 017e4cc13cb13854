package dto

import "time"

// NotificationResponse is one in-app notification.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Data      string    `json:"data,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotificationsResponse is a paginated notification page.
type ListNotificationsResponse struct {
	Items      []NotificationResponse `json:"items"`
	Total      int                    `json:"total"`
	PageNumber int                    `json:"page_number"`
	PageSize   int                    `json:"page_size"`
}

// MarkReadRequest flags notifications as read.
type MarkReadRequest struct {
	IDs []int64 `json:"ids" validate:"required"`
}

// MarkReadResponse reports how many rows were updated.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
