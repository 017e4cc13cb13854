package controller

import (
	"campus-events-api/core/constants"
	"campus-events-api/core/controller"
	"campus-events-api/core/errors"
	"campus-events-api/core/params"
	"campus-events-api/core/utils"
	"campus-events-api/modules/notification/dto"
	"campus-events-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotificationController handles notification HTTP requests.
type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

func userIDFrom(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// List handles GET /notifications
// @Summary List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.ListNotificationsResponse
// @Security BearerAuth
// @Router /notifications [get]
func (c *NotificationController) List(ctx echo.Context) error {
	userID, ok := userIDFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	result, appErr := c.NotificationService.List(ctx.Request().Context(), userID, params.FromEcho(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Notifications listed")
}

// MarkRead handles POST /notifications/read
// @Summary Mark the caller's notifications as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "Notification ids"
// @Success 200 {object} dto.MarkReadResponse
// @Security BearerAuth
// @Router /notifications/read [post]
func (c *NotificationController) MarkRead(ctx echo.Context) error {
	userID, ok := userIDFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	var req dto.MarkReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.NotificationService.MarkRead(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Notifications marked read")
}
