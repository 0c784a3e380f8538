package profile

import (
	"community-calendar/core/database"
	"community-calendar/core/middleware"
	"community-calendar/modules/profile/controller"
	"community-calendar/modules/profile/repository"
	"community-calendar/modules/profile/router"
	"community-calendar/modules/profile/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the profile module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewProfileRepository(db)
	svc := service.NewProfileService(repo)
	ctrl := controller.NewProfileController(svc)
	rtr := router.NewProfileRouter(ctrl)

	rtr.Setup(e, mw)
}
