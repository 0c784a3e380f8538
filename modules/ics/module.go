package ics

import (
	"community-calendar/core/database"
	"community-calendar/modules/event/repository"
	"community-calendar/modules/ics/controller"
	"community-calendar/modules/ics/router"

	"github.com/labstack/echo/v4"
)

// Init initializes the ICS export module and registers routes
func Init(e *echo.Echo, db database.IDatabase) {
	repo := repository.NewEventRepository(db)
	ctrl := controller.NewICSController(repo)
	rtr := router.NewICSRouter(ctrl)

	rtr.Setup(e)
}
