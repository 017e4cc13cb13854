package notification

import (
	"campus-events-api/core/database"
	"campus-events-api/core/middleware"
	"campus-events-api/modules/notification/controller"
	"campus-events-api/modules/notification/repository"
	"campus-events-api/modules/notification/router"
	"campus-events-api/modules/notification/service"
	"campus-events-api/modules/notification/tasks"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module: HTTP routes for the feed and
// the asynq handlers that persist deliveries.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, client *asynq.Client, mux *asynq.ServeMux) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	tasks.NewProcessor(repo).Register(mux)
	return svc
}
