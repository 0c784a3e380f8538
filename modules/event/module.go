package event

import (
	"community-calendar/core/cache"
	"community-calendar/core/database"
	"community-calendar/core/middleware"
	"community-calendar/modules/event/controller"
	"community-calendar/modules/event/repository"
	"community-calendar/modules/event/router"
	"community-calendar/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.IDatabase, cacheClient cache.Cache, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, cacheClient)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
