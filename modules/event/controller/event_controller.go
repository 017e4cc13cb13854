package controller

import (
	"campus-events-api/core/constants"
	"campus-events-api/core/controller"
	"campus-events-api/core/errors"
	"campus-events-api/core/utils"
	"campus-events-api/modules/event/dto"
	"campus-events-api/modules/event/service"
	userentity "campus-events-api/modules/user/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// callerFrom reads the authenticated caller placed in the context by the
// auth middleware.
func callerFrom(ctx echo.Context) (userentity.Caller, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return userentity.Caller{}, false
	}
	return userentity.Caller{ID: claims.UserID, Role: userentity.Role(claims.Role)}, true
}

func eventIDParam(ctx echo.Context) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param("id"))
}

// List handles GET /events
// @Summary List published events
// @Tags Events
// @Produce json
// @Param category query string false "Filter by category"
// @Param search query string false "Search in title"
// @Success 200 {array} dto.EventResponse
// @Router /events [get]
func (c *EventController) List(ctx echo.Context) error {
	var filter dto.ListEventsFilter
	if err := ctx.Bind(&filter); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	result, appErr := c.EventService.List(ctx.Request().Context(), &filter)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Events listed")
}

// GetDetail handles GET /events/:id
// @Summary Get event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) GetDetail(ctx echo.Context) error {
	id, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var viewer *userentity.Caller
	if caller, ok := callerFrom(ctx); ok {
		viewer = &caller
	}

	result, appErr := c.EventService.GetEventDetail(ctx.Request().Context(), id, viewer)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event detail")
}

// Create handles POST /events
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Security BearerAuth
// @Router /events [post]
func (c *EventController) Create(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Title == "" || req.Location == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Title and location are required")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), caller, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Event created")
}

// Update handles PUT /events/:id
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Security BearerAuth
// @Router /events/{id} [put]
func (c *EventController) Update(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	id, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Title == "" || req.Location == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Title and location are required")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), caller, id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated")
}

// Delete handles DELETE /events/:id
// @Summary Delete an event and its registrations
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Security BearerAuth
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	id, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), caller, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted")
}

// Register handles POST /events/:id/register
// @Summary Register the caller for an event
// @Tags Registrations
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 409 {object} errors.AppError
// @Security BearerAuth
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	id, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.Register(ctx.Request().Context(), caller, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Registered")
}

// Unregister handles DELETE /events/:id/register
// @Summary Cancel the caller's registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 404 {object} errors.AppError
// @Security BearerAuth
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx echo.Context) error {
	caller, ok := callerFrom(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Authentication required")
	}

	id, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.Unregister(ctx.Request().Context(), caller, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Registration cancelled")
}
