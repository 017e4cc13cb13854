package router

import (
	"campus-events-api/modules/user/controller"

	"github.com/labstack/echo/v4"
)

// UserRouter handles auth routes.
type UserRouter struct {
	UserController *controller.UserController
}

func NewUserRouter(userController *controller.UserController) *UserRouter {
	return &UserRouter{UserController: userController}
}

// Setup registers auth routes.
func (r *UserRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/auth/login", r.UserController.Login)
}
