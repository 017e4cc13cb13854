package router

import (
	"time"

	"campus-events-api/core/middleware"
	"campus-events-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event routes. Listing and detail are public; detail
// carries optional auth so viewer decorations can be computed. Register
// is rate limited per caller to blunt registration storms.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	public := e.Group("/api/v1/events")
	public.GET("", r.EventController.List)
	public.GET("/:id", r.EventController.GetDetail, mw.OptionalAuthMiddleware())

	private := e.Group("/api/v1/events", mw.AuthMiddleware())
	private.POST("", r.EventController.Create)
	private.PUT("/:id", r.EventController.Update)
	private.DELETE("/:id", r.EventController.Delete)
	private.POST("/:id/register", r.EventController.Register, mw.RateLimitMiddleware(10, time.Minute))
	private.DELETE("/:id/register", r.EventController.Unregister)
}
