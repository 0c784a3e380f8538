package controller

import (
	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/core/middleware"
	"community-calendar/modules/profile/dto"
	"community-calendar/modules/profile/service"

	"github.com/labstack/echo/v4"
)

// ProfileController handles profile HTTP requests
type ProfileController struct {
	controller.BaseController
	ProfileService service.ProfileServiceInterface
}

// NewProfileController creates a new controller
func NewProfileController(svc service.ProfileServiceInterface) *ProfileController {
	return &ProfileController{
		BaseController: controller.NewBaseController(),
		ProfileService: svc,
	}
}

// GetMyProfile handles GET /profiles/me
// @Summary Get the logged-in user's profile
// @Tags Profile
// @Security CookieAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Router /profiles/me [get]
func (c *ProfileController) GetMyProfile(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ProfileService.GetProfile(ctx.Request().Context(), user.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateMyProfile handles PUT /profiles/me
// @Summary Update the logged-in user's display name
// @Tags Profile
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /profiles/me [put]
func (c *ProfileController) UpdateMyProfile(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ProfileService.UpdateProfile(ctx.Request().Context(), user.ID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Profile updated")
}
