package router

import (
	"community-calendar/core/middleware"
	"community-calendar/modules/profile/controller"

	"github.com/labstack/echo/v4"
)

// ProfileRouter handles profile routes
type ProfileRouter struct {
	ProfileController *controller.ProfileController
}

// NewProfileRouter creates a new router
func NewProfileRouter(profileController *controller.ProfileController) *ProfileRouter {
	return &ProfileRouter{
		ProfileController: profileController,
	}
}

// Setup registers profile routes
func (r *ProfileRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	profiles := e.Group("/api/profiles", mw.AuthMiddleware())
	profiles.GET("/me", r.ProfileController.GetMyProfile)
	profiles.PUT("/me", r.ProfileController.UpdateMyProfile)
}
