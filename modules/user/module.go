package user

import (
	"campus-events-api/core/database"
	"campus-events-api/modules/user/controller"
	"campus-events-api/modules/user/repository"
	"campus-events-api/modules/user/router"
	"campus-events-api/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the user module and registers routes.
func Init(e *echo.Echo, db database.IDatabase) service.UserServiceInterface {
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo)
	ctrl := controller.NewUserController(svc)
	rtr := router.NewUserRouter(ctrl)

	rtr.Setup(e)
	return svc
}
