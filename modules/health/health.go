package health

import (
	"net/http"
	"strings"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/config"
	"community-calendar/core/controller"
	"community-calendar/core/database"
	"community-calendar/core/errors"
	"community-calendar/core/middleware"

	"github.com/labstack/echo/v4"
)

// Status is the health report served to admins.
type Status struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthController reports dependency health
type HealthController struct {
	controller.BaseController
	db    database.IDatabase
	cache cache.Cache
}

// Init registers the health route. The report leaks infrastructure state, so
// it requires a session belonging to a configured admin email.
func Init(e *echo.Echo, db database.IDatabase, cacheClient cache.Cache, mw *middleware.Middleware) {
	ctrl := &HealthController{
		BaseController: controller.NewBaseController(),
		db:             db,
		cache:          cacheClient,
	}
	e.GET("/api/health", ctrl.Check, mw.AuthMiddleware())
}

// Check handles GET /health
// @Summary Report database and cache health
// @Tags Health
// @Security CookieAuth
// @Produce json
// @Success 200 {object} health.Status
// @Failure 403 {object} controller.ErrorResponse
// @Failure 503 {object} health.Status
// @Router /health [get]
func (c *HealthController) Check(ctx echo.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	if !isAdminEmail(user.Email) {
		return c.Forbidden(errors.ErrForbidden, "Admin access required")
	}

	status := Status{
		Status:    "ok",
		Database:  "ok",
		Cache:     "ok",
		Timestamp: time.Now(),
	}
	httpStatus := http.StatusOK

	reqCtx := ctx.Request().Context()
	if err := c.db.PingContext(reqCtx); err != nil {
		status.Database = "unreachable"
		status.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	if err := c.cache.Ping(reqCtx); err != nil {
		// The app works without Redis, so a dead cache degrades but does not
		// flip the HTTP status.
		status.Cache = "unreachable"
		if status.Status == "ok" {
			status.Status = "degraded"
		}
	}

	return ctx.JSON(httpStatus, status)
}

func isAdminEmail(email string) bool {
	cfg, ok := config.GetSafe()
	if !ok {
		return false
	}
	for _, admin := range cfg.Admin.Emails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}
