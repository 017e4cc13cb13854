package controller

import (
	"campus-events-api/core/constants"
	"campus-events-api/core/controller"
	"campus-events-api/core/errors"
	"campus-events-api/core/utils"
	"campus-events-api/modules/dashboard/service"
	userentity "campus-events-api/modules/user/entity"

	"github.com/labstack/echo/v4"
)

// DashboardController handles dashboard HTTP requests.
type DashboardController struct {
	controller.BaseController
	DashboardService service.DashboardServiceInterface
}

func NewDashboardController(svc service.DashboardServiceInterface) *DashboardController {
	return &DashboardController{
		BaseController:   controller.NewBaseController(),
		DashboardService: svc,
	}
}

func callerFrom(ctx echo.Context) (userentity.Caller, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return userentity.Caller{}, false
	}
	return userentity.Caller{ID: claims.UserID, Role: userentity.Role(claims.Role)}, true
}

// Student handles GET /dashboard/student
// @Summary Student dashboard with the caller's registrations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.StudentDashboard
// @Failure 403 {object} errors.AppError
// @Security BearerAuth
// @Router /dashboard/student [get]
func (c *DashboardController) Student(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	result, appErr := c.DashboardService.StudentDashboard(ctx.Request().Context(), caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Student dashboard")
}

// Organizer handles GET /dashboard/organizer
// @Summary Organizer dashboard with the caller's events
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.OrganizerDashboard
// @Failure 403 {object} errors.AppError
// @Security BearerAuth
// @Router /dashboard/organizer [get]
func (c *DashboardController) Organizer(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	result, appErr := c.DashboardService.OrganizerDashboard(ctx.Request().Context(), caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Organizer dashboard")
}

// Me handles GET /dashboard/me
// @Summary Identify the caller and their role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Security BearerAuth
// @Router /dashboard/me [get]
func (c *DashboardController) Me(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	result, appErr := c.DashboardService.Me(ctx.Request().Context(), caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Caller identity")
}
