package submission

import (
	"community-calendar/core/config"
	"community-calendar/core/queue"
	"community-calendar/modules/submission/controller"
	"community-calendar/modules/submission/service"
	"community-calendar/modules/submission/worker"

	"github.com/labstack/echo/v4"
)

// Init initializes the submission module and registers routes
func Init(e *echo.Echo, queueClient *queue.Client) {
	svc := service.NewSubmissionService(queueClient)
	ctrl := controller.NewSubmissionController(svc)

	e.POST("/api/submit-event", ctrl.SubmitEvent)
}

// RunMailWorker starts the background consumer that emails submissions to the
// admin. Blocks; run it on its own goroutine.
func RunMailWorker(cfg *config.Config) error {
	return worker.Run(cfg)
}
