package router

import (
	"campus-events-api/core/middleware"
	"campus-events-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes.
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{NotificationController: notificationController}
}

func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/notifications", mw.AuthMiddleware())
	group.GET("", r.NotificationController.List)
	group.POST("/read", r.NotificationController.MarkRead)
}
