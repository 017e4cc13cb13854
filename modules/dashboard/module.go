package dashboard

import (
	"campus-events-api/core/database"
	"campus-events-api/core/middleware"
	"campus-events-api/modules/dashboard/controller"
	"campus-events-api/modules/dashboard/repository"
	"campus-events-api/modules/dashboard/router"
	"campus-events-api/modules/dashboard/service"
	userservice "campus-events-api/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the dashboard module and registers routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, userService userservice.UserServiceInterface) service.DashboardServiceInterface {
	repo := repository.NewDashboardRepository(db)
	svc := service.NewDashboardService(repo, userService)
	ctrl := controller.NewDashboardController(svc)
	rtr := router.NewDashboardRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
