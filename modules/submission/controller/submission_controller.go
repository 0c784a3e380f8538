package controller

import (
	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/modules/submission/dto"
	"community-calendar/modules/submission/service"

	"github.com/labstack/echo/v4"
)

// SubmissionController handles guest submission HTTP requests
type SubmissionController struct {
	controller.BaseController
	SubmissionService service.SubmissionServiceInterface
}

// NewSubmissionController creates a new controller
func NewSubmissionController(svc service.SubmissionServiceInterface) *SubmissionController {
	return &SubmissionController{
		BaseController:    controller.NewBaseController(),
		SubmissionService: svc,
	}
}

// SubmitEvent handles POST /submit-event
// @Summary Submit an event suggestion without an account
// @Description Queues the submission for review by email
// @Tags Submission
// @Accept json
// @Produce json
// @Param request body dto.SubmitEventRequest true "Submission payload"
// @Success 200 {object} dto.SubmitEventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /submit-event [post]
func (c *SubmissionController) SubmitEvent(ctx echo.Context) error {
	var req dto.SubmitEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SubmissionService.SubmitEvent(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, result.Message)
}
