package controller

import (
	"io"
	"strings"

	"community-calendar/core/constants"
	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/core/middleware"
	"community-calendar/modules/event/dto"
	"community-calendar/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles calendar event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// ListEvents handles GET /events
// @Summary List all events
// @Description Returns every calendar event, including generated series occurrences
// @Tags Events
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	result, appErr := c.EventService.ListEvents(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEvent handles GET /events/:id
// @Summary Get one event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// CreateEvent handles POST /events
// @Summary Create an event
// @Description Creates an event; recurring events also get one row per occurrence
// @Tags Events
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), &req, user)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Event created successfully")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update an event
// @Description Updates an event; changing recurrence regenerates the series occurrences
// @Tags Events
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event payload"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), eventID, &req, user.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Delete one event
// @Description Deleting a series root with children requires the X-Force-Single header; without it the response reports the child count and nothing is deleted
// @Tags Events
// @Security CookieAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param X-Force-Single header string false "Set to true to delete a series root and detach its occurrences"
// @Success 200 {object} dto.DeleteEventResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	forceSingle := strings.EqualFold(ctx.Request().Header.Get(constants.HeaderForceSingle), "true")

	result, appErr := c.EventService.DeleteEvent(ctx.Request().Context(), eventID, user.ID, forceSingle)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, result.Message)
}

// DeleteSeries handles DELETE /events/:id/series
// @Summary Delete a whole series
// @Description Removes the series root and all its occurrences; accepts the id of any member
// @Tags Events
// @Security CookieAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.DeleteSeriesResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /events/{id}/series [delete]
func (c *EventController) DeleteSeries(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.DeleteSeries(ctx.Request().Context(), eventID, user.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, result.Message)
}

// UploadICS handles POST /events/upload-ics
// @Summary Import events from an ICS file
// @Description Accepts a multipart upload; past events are skipped and duplicates reported
// @Tags Events
// @Security CookieAuth
// @Accept multipart/form-data
// @Produce json
// @Param icsFile formData file true "ICS file"
// @Success 200 {object} dto.ImportSummary
// @Failure 400 {object} controller.ErrorResponse
// @Router /events/upload-ics [post]
func (c *EventController) UploadICS(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	fileHeader, err := ctx.FormFile(constants.ICSUploadField)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "No ICS file uploaded")
	}
	if fileHeader.Size > constants.ICSUploadMaxBytes {
		return c.BadRequest(errors.ErrInvalidInput, "ICS file is too large (5MB max)")
	}
	if !isICSUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		return c.BadRequest(errors.ErrInvalidInput, "Only .ics calendar files are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.ICSUploadMaxBytes+1))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Failed to read uploaded file")
	}
	if int64(len(data)) > constants.ICSUploadMaxBytes {
		return c.BadRequest(errors.ErrInvalidInput, "ICS file is too large (5MB max)")
	}

	result, appErr := c.EventService.ImportICS(ctx.Request().Context(), data, user)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, result.Message)
}

func isICSUpload(filename, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".ics") {
		return true
	}
	return strings.Contains(strings.ToLower(contentType), "text/calendar")
}
