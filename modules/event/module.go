package event

import (
	"campus-events-api/core/database"
	"campus-events-api/core/middleware"
	"campus-events-api/core/storage"
	"campus-events-api/modules/event/controller"
	"campus-events-api/modules/event/repository"
	"campus-events-api/modules/event/router"
	"campus-events-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, uploader storage.Uploader, notifier service.Notifier) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, uploader, notifier)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
