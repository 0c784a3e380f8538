package auth

import (
	"community-calendar/core/cache"
	"community-calendar/core/database"
	"community-calendar/core/middleware"
	"community-calendar/modules/auth/controller"
	"community-calendar/modules/auth/repository"
	"community-calendar/modules/auth/router"
	"community-calendar/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// GetService builds the auth service so the server can hand it to the auth
// middleware before routes are wired.
func GetService(db database.IDatabase, cacheClient cache.Cache) *service.AuthService {
	return service.NewAuthService(repository.NewAuthRepository(db), cacheClient)
}

// Init initializes the auth module and registers routes. The service should
// be the same instance handed to the middleware.
func Init(e *echo.Echo, svc service.AuthServiceInterface, mw *middleware.Middleware) {
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
}
