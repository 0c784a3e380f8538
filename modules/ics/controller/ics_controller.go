package controller

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"time"

	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/core/logger"
	"community-calendar/modules/event/repository"
	"community-calendar/modules/ics/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// ICSController serves calendar exports
type ICSController struct {
	controller.BaseController
	Events repository.EventRepositoryInterface
	Codec  *service.Codec
}

// NewICSController creates a new controller
func NewICSController(events repository.EventRepositoryInterface) *ICSController {
	return &ICSController{
		BaseController: controller.NewBaseController(),
		Events:         events,
		Codec:          service.NewCodec(),
	}
}

// ExportEvent handles GET /ics/event/:id
// @Summary Download one event as an .ics file
// @Tags ICS
// @Produce text/calendar
// @Param id path string true "Event ID"
// @Success 200 {string} string "iCalendar text"
// @Failure 404 {object} controller.ErrorResponse
// @Router /ics/event/{id} [get]
func (c *ICSController) ExportEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	event, err := c.Events.GetEventByID(ctx.Request().Context(), eventID)
	if err != nil {
		logger.Error("ICSController:ExportEvent", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load event")
	}
	if event == nil {
		return c.NotFound(errors.ErrNotFound, "Event not found")
	}

	ics, err := c.Codec.GenerateSingle(event)
	if err != nil {
		logger.Error("ICSController:ExportEvent:Generate", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to generate calendar file")
	}

	return serveICS(ctx, service.AttachmentFilename(event.Title), ics)
}

// ExportAll handles GET /ics/all
// @Summary Download the whole calendar as one .ics file
// @Tags ICS
// @Produce text/calendar
// @Success 200 {string} string "iCalendar text"
// @Router /ics/all [get]
func (c *ICSController) ExportAll(ctx echo.Context) error {
	events, err := c.Events.ListEvents(ctx.Request().Context())
	if err != nil {
		logger.Error("ICSController:ExportAll", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load events")
	}

	ics, err := c.Codec.Generate(events)
	if err != nil {
		logger.Error("ICSController:ExportAll:Generate", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to generate calendar file")
	}

	return serveICS(ctx, "community-calendar.ics", ics)
}

// BulkDownload handles GET /ics/bulk-download
// @Summary Download a date range as a zip of per-event .ics files
// @Description Events that fail to serialize are skipped; 404 when the range holds nothing exportable
// @Tags ICS
// @Produce application/zip
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {string} string "zip archive"
// @Failure 404 {object} controller.ErrorResponse
// @Router /ics/bulk-download [get]
func (c *ICSController) BulkDownload(ctx echo.Context) error {
	start, err := time.ParseInLocation(dateLayout, ctx.QueryParam("start_date"), time.Local)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "start_date must be in YYYY-MM-DD format")
	}
	end, err := time.ParseInLocation(dateLayout, ctx.QueryParam("end_date"), time.Local)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "end_date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return c.BadRequest(errors.ErrInvalidInput, "end_date cannot be before start_date")
	}

	events, err := c.Events.ListEventsBetween(ctx.Request().Context(), start, end)
	if err != nil {
		logger.Error("ICSController:BulkDownload", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to load events")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	written := 0
	for i := range events {
		ics, err := c.Codec.GenerateSingle(&events[i])
		if err != nil {
			logger.Warn("ICSController:BulkDownload:Skip", "event_id", events[i].ID, "error", err)
			continue
		}
		// Prefix with the row index so repeated titles stay distinct.
		name := fmt.Sprintf("%03d-%s", written+1, service.AttachmentFilename(events[i].Title))
		f, err := zw.Create(name)
		if err != nil {
			logger.Warn("ICSController:BulkDownload:Skip", "event_id", events[i].ID, "error", err)
			continue
		}
		if _, err := f.Write([]byte(ics)); err != nil {
			logger.Warn("ICSController:BulkDownload:Skip", "event_id", events[i].ID, "error", err)
			continue
		}
		written++
	}
	if err := zw.Close(); err != nil {
		logger.Error("ICSController:BulkDownload:Zip", err)
		return c.InternalServerError(errors.ErrInternalServer, "Failed to build archive")
	}

	if written == 0 {
		return c.NotFound(errors.ErrNotFound, "No exportable events in that date range")
	}

	filename := fmt.Sprintf("events-%s-to-%s.zip",
		start.Format(dateLayout), end.Format(dateLayout))
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

func serveICS(ctx echo.Context, filename, body string) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
