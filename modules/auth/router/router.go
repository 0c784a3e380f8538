package router

import (
	"community-calendar/core/middleware"
	"community-calendar/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles account and session routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", r.AuthController.Register)
	auth.POST("/login", r.AuthController.Login)
	auth.POST("/logout", r.AuthController.Logout)
	auth.GET("/me", r.AuthController.Me, mw.AuthMiddleware())

	api.POST("/invite", r.AuthController.CreateInvite, mw.AdminKeyMiddleware())
}
