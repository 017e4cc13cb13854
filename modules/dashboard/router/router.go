package router

import (
	"campus-events-api/core/middleware"
	"campus-events-api/modules/dashboard/controller"

	"github.com/labstack/echo/v4"
)

// DashboardRouter handles dashboard routes. All of them require auth.
type DashboardRouter struct {
	DashboardController *controller.DashboardController
}

func NewDashboardRouter(dashboardController *controller.DashboardController) *DashboardRouter {
	return &DashboardRouter{DashboardController: dashboardController}
}

func (r *DashboardRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/dashboard", mw.AuthMiddleware())
	group.GET("/student", r.DashboardController.Student)
	group.GET("/organizer", r.DashboardController.Organizer)
	group.GET("/me", r.DashboardController.Me)
}
