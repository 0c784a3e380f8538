package router

import (
	"community-calendar/core/middleware"
	"community-calendar/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles calendar event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes. Reads are public; writes require a session.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	api := e.Group("/api")

	events := api.Group("/events")
	events.GET("", r.EventController.ListEvents)
	events.GET("/:id", r.EventController.GetEvent)

	protected := api.Group("/events", mw.AuthMiddleware())
	protected.POST("", r.EventController.CreateEvent)
	protected.PUT("/:id", r.EventController.UpdateEvent)
	protected.DELETE("/:id", r.EventController.DeleteEvent)
	protected.DELETE("/:id/series", r.EventController.DeleteSeries)
	protected.POST("/upload-ics", r.EventController.UploadICS)
}
