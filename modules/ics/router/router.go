package router

import (
	"community-calendar/modules/ics/controller"

	"github.com/labstack/echo/v4"
)

// ICSRouter handles calendar export routes
type ICSRouter struct {
	ICSController *controller.ICSController
}

// NewICSRouter creates a new router
func NewICSRouter(icsController *controller.ICSController) *ICSRouter {
	return &ICSRouter{
		ICSController: icsController,
	}
}

// Setup registers export routes. All exports are public, matching reads.
func (r *ICSRouter) Setup(e *echo.Echo) {
	api := e.Group("/api")

	ics := api.Group("/ics")
	ics.GET("/event/:id", r.ICSController.ExportEvent)
	ics.GET("/all", r.ICSController.ExportAll)
	ics.GET("/bulk-download", r.ICSController.BulkDownload)

	// Convenience alias next to the event resource.
	api.GET("/events/:id/ics", r.ICSController.ExportEvent)
}
